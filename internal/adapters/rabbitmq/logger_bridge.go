package rabbitmq

import (
	"github.com/HassanOPFT/apartments-scraper/internal/core/port"
	"github.com/HassanOPFT/apartments-scraper/pkg/rabbitmq"
)

// PkgLoggerBridge adapts the internal LoggerPort to the pkg-level interface.
type PkgLoggerBridge struct {
	internalLogger port.LoggerPort
}

// NewPkgLoggerBridge creates a new bridge.
func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq.Logger {
	return &PkgLoggerBridge{internalLogger: logger}
}

func (b *PkgLoggerBridge) toFields(keysAndValues ...interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok || i+1 >= len(keysAndValues) {
			continue // skip malformed pairs
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Debug(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Error(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Error(msg, nil, b.toFields(keysAndValues...))
}
