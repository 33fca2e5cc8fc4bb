package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// APIConfig holds the listings API settings.
type APIConfig struct {
	URL string
}

// GoogleMapsConfig holds the distance provider settings.
type GoogleMapsConfig struct {
	APIKey    string
	OfficeLat float64
	OfficeLng float64
}

// ScrapeConfig holds the run parameters.
type ScrapeConfig struct {
	// AfterDate is the creation-time lower bound, format YYYY-MM-DD.
	AfterDate string
	// TargetDistrictsJSON is the raw TARGET_DISTRICTS value; parsed and
	// validated by LoadTargetDistricts.
	TargetDistrictsJSON string
	// DistrictsFile maps district ids to their direction ids.
	DistrictsFile string
	OutputBaseDir string
	ExcelBaseDir  string
}

// DBConfig holds the database settings.
type DBConfig struct {
	URL     string
	Enabled bool
}

// RabbitMQConfig holds the broker settings.
type RabbitMQConfig struct {
	URL     string
	Enabled bool
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName      string
	API          APIConfig
	GoogleMaps   GoogleMapsConfig
	Scrape       ScrapeConfig
	Database     DBConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig loads the configuration from environment variables. A .env
// file is used when present but is not required.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: no .env file loaded (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "apartments-scraper")

	cfg.API.URL = os.Getenv("API_URL")
	if cfg.API.URL == "" {
		return nil, fmt.Errorf("API_URL environment variable is required")
	}

	cfg.GoogleMaps.APIKey = os.Getenv("GOOGLE_API_KEY")
	if cfg.GoogleMaps.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required")
	}

	officeLat := os.Getenv("OFFICE_LAT")
	officeLng := os.Getenv("OFFICE_LNG")
	if officeLat == "" || officeLng == "" {
		return nil, fmt.Errorf("OFFICE_LAT and OFFICE_LNG environment variables are required")
	}
	cfg.GoogleMaps.OfficeLat, err = strconv.ParseFloat(officeLat, 64)
	if err != nil {
		return nil, fmt.Errorf("OFFICE_LAT is not a valid coordinate: %w", err)
	}
	cfg.GoogleMaps.OfficeLng, err = strconv.ParseFloat(officeLng, 64)
	if err != nil {
		return nil, fmt.Errorf("OFFICE_LNG is not a valid coordinate: %w", err)
	}

	cfg.Scrape.TargetDistrictsJSON = os.Getenv("TARGET_DISTRICTS")
	if cfg.Scrape.TargetDistrictsJSON == "" {
		return nil, fmt.Errorf("TARGET_DISTRICTS environment variable is required")
	}

	cfg.Scrape.AfterDate = getEnvAsString("AFTER_DATE", "2025-11-01")
	cfg.Scrape.DistrictsFile = getEnvAsString("DISTRICTS_FILE", "raw/riyadh_districts.json")
	cfg.Scrape.OutputBaseDir = getEnvAsString("OUTPUT_BASE_DIR", "output")
	cfg.Scrape.ExcelBaseDir = getEnvAsString("EXCEL_BASE_DIR", "excel_output")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.Database.Enabled = cfg.Database.URL != ""

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.Enabled = cfg.RabbitMQ.URL != ""

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

// getEnvAsString reads an environment variable or returns the default.
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as int or returns the default.
// Logs when the variable exists but cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool reads an environment variable as bool or returns the default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
