package configs

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_URL", "https://sa.aqar.fm/graphql")
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("OFFICE_LAT", "24.7136")
	t.Setenv("OFFICE_LNG", "46.6753")
	t.Setenv("TARGET_DISTRICTS", `[{"id": 461, "name": "Al Olaya"}]`)
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.URL != "https://sa.aqar.fm/graphql" {
		t.Errorf("api url = %q", cfg.API.URL)
	}
	if cfg.GoogleMaps.OfficeLat != 24.7136 || cfg.GoogleMaps.OfficeLng != 46.6753 {
		t.Errorf("office = %f,%f", cfg.GoogleMaps.OfficeLat, cfg.GoogleMaps.OfficeLng)
	}
	if cfg.Scrape.OutputBaseDir != "output" {
		t.Errorf("output base dir = %q; want output", cfg.Scrape.OutputBaseDir)
	}
	if cfg.Database.Enabled {
		t.Error("database should be disabled without DATABASE_URL")
	}
	if cfg.RabbitMQ.Enabled {
		t.Error("rabbitmq should be disabled without RABBITMQ_URL")
	}
	if cfg.FluentBit.Enabled {
		t.Error("fluentbit should be disabled by default")
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	required := []string{"API_URL", "GOOGLE_API_KEY", "OFFICE_LAT", "OFFICE_LNG", "TARGET_DISTRICTS"}

	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")

			if _, err := LoadConfig(); err == nil {
				t.Errorf("expected an error without %s", missing)
			}
		})
	}
}

func TestLoadConfigRejectsBadCoordinates(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OFFICE_LAT", "north")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for an unparsable coordinate")
	}
}

func TestLoadConfigOptionalInfrastructure(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/scraper")
	t.Setenv("RABBITMQ_URL", "amqp://localhost:5672/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Database.Enabled || !cfg.RabbitMQ.Enabled {
		t.Error("expected database and rabbitmq to be enabled when their URLs are set")
	}
}

func TestLoadConfigFluentBitRequiresHost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FLUENTBIT_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FluentBit.Enabled {
		t.Error("fluentbit should be disabled when FLUENTBIT_HOST is missing")
	}
}
