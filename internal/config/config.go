package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Relational store holding addresses and their dependents
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"file:landdata.db"`

	// Ingestion run log, disabled when MongoURI is empty
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"landdata"`

	// Scraping
	SourcesFile  string        `env:"SOURCES_FILE"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	UserAgent    string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`

	// Zoning polygons used to fill in zoning for contributed coordinates
	ZoningShapefile   string `env:"ZONING_SHAPEFILE"`
	ZoningNameField   string `env:"ZONING_NAME_FIELD" envDefault:"ZONE_NAME"`
	ZoningHeightField string `env:"ZONING_HEIGHT_FIELD" envDefault:"MAX_HEIGHT"`
	ZoningUsesField   string `env:"ZONING_USES_FIELD" envDefault:"USES"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	return cfg, nil
}

func LoadConfig() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}
	return cfg
}
