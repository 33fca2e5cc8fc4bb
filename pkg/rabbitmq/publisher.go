// Package rabbitmq wraps the amqp091 client with the small publishing
// surface the application needs.
package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger is the minimal logging contract of this package, so it stays
// decoupled from the application's logger port.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Error(msg string, args ...any) {}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() Logger { return noopLogger{} }

// PublisherConfig configures the publisher and the exchange it targets.
type PublisherConfig struct {
	URL             string
	ExchangeName    string
	ExchangeType    string // direct, fanout, topic, headers
	DurableExchange bool

	// When false, the exchange is assumed to exist already.
	DeclareExchangeIfMissing bool

	Logger Logger
}

// Publisher owns one connection and channel for publishing.
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection
	channel    *amqp.Channel

	logger Logger
}

// NewPublisher dials the broker, opens a channel and declares the exchange
// when configured to.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NewNoopLogger()
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("publisher: URL is required")
	}
	if cfg.DeclareExchangeIfMissing && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("publisher: exchange name and type are required when DeclareExchangeIfMissing is true")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("publisher: failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("publisher: failed to open a channel: %w", err)
	}

	if cfg.DeclareExchangeIfMissing {
		logger.Debug("Declaring exchange", "name", cfg.ExchangeName, "type", cfg.ExchangeType)
		err = ch.ExchangeDeclare(
			cfg.ExchangeName,
			cfg.ExchangeType,
			cfg.DurableExchange,
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("publisher: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	logger.Debug("Publisher connected and channel opened")

	return &Publisher{
		config:     cfg,
		connection: conn,
		channel:    ch,
		logger:     logger,
	}, nil
}

// Publish publishes one message to the configured exchange.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("publisher: not connected or channel/connection is closed")
	}

	err := p.channel.PublishWithContext(
		ctx,
		p.config.ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		p.logger.Error("Publish failed", "routing_key", routingKey, "error", err)
		return fmt.Errorf("publisher: failed to publish to '%s': %w", routingKey, err)
	}

	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.connection != nil && !p.connection.IsClosed() {
		if err := p.connection.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
