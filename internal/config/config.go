package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// AppConfig holds everything the pipeline needs for one run.
type AppConfig struct {
	// UserAgent identifies this application to the weather service. The NWS
	// API requires a descriptive User-Agent and may throttle anonymous calls.
	UserAgent string `validate:"required"`

	// BaseURL of the weather API.
	BaseURL string `validate:"required,url"`

	// HTTPTimeout bounds each outbound request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// DatasetPath optionally points at an external GeoNames-format postal
	// code table; empty means the embedded table.
	DatasetPath string

	// Port for the serve mode listener.
	Port string `validate:"required"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		UserAgent:   getenvDefault("NWS_USER_AGENT", "zipweather/1.0 (github.com/mtcodes/zipweather)"),
		BaseURL:     getenvDefault("NWS_BASE_URL", "https://api.weather.gov"),
		DatasetPath: os.Getenv("GEOCODE_DATASET"),
		Port:        getenvDefault("PORT", "8080"),
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
