package constants

// RabbitMQ topology for run reporting.
const (
	ReportExchange       = "scraper_exchange"
	ReportExchangeType   = "direct"
	RoutingKeyRunReports = "scraper.run_reports"
)
