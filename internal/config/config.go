package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `validate:"required"`
	LogLevel string         `validate:"omitempty,oneof=debug info warn error"`
	Server   ServerConfig   `validate:"required"`
	Database DatabaseConfig `validate:"required"`
	Routing  RoutingConfig  `validate:"required"`
	Tracking TrackingConfig `validate:"required"`
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Check    LocationCheckConfig
}

type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type DatabaseConfig struct {
	URL string `validate:"required"`
}

// Redis is optional; an empty Addr keeps courier locations in Postgres.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
}

// RabbitMQ is optional; an empty URL disables location events.
type RabbitMQConfig struct {
	URL      string `validate:"omitempty,url"`
	Exchange string `validate:"required_with=URL"`
}

type RoutingConfig struct {
	// Provider selects the route backend: "function" or "ors".
	Provider    string `validate:"required,oneof=function ors"`
	FunctionURL string `validate:"required_if=Provider function"`
	FunctionKey string
	ORSAPIKey   string `validate:"required_if=Provider ors"`
	ORSBaseURL  string `validate:"omitempty,url"`
	ORSProfile  string
}

// Tuning knobs; overridable from the YAML file named by TRACKING_CONFIG_FILE.
type TrackingConfig struct {
	RefreshInterval  time.Duration `yaml:"refresh_interval" validate:"gt=0"`
	LinkPushInterval time.Duration `yaml:"link_push_interval" validate:"gt=0"`
	PollInterval     time.Duration `yaml:"poll_interval" validate:"gt=0"`
	PollMaxAttempts  int           `yaml:"poll_max_attempts" validate:"gt=0"`
	BoundsPadding    float64       `yaml:"bounds_padding" validate:"gte=0,lte=1"`
	SessionIdleTTL   time.Duration `yaml:"session_idle_ttl" validate:"gt=0"`
	SamplerIdleTTL   time.Duration `yaml:"sampler_idle_ttl" validate:"gt=0"`
}

type LocationCheckConfig struct {
	// Empty URL means the check is served from the shared-location store.
	URL string `validate:"omitempty,url"`
}

// Load reads .env (if present), the process environment and the optional
// YAML overlay, then validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      Get("APP_ENV", "development"),
		LogLevel: Get("LOG_LEVEL", ""),
		Server: ServerConfig{
			Port:            Get("PORT", "8080"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     Get("REDIS_ADDR", ""),
			Password: Get("REDIS_PASSWORD", ""),
			DB:       GetInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      Get("RABBITMQ_URL", ""),
			Exchange: Get("RABBITMQ_EXCHANGE", "courier_location"),
		},
		Routing: RoutingConfig{
			Provider:    Get("ROUTE_PROVIDER", "function"),
			FunctionURL: Get("ROUTE_FUNCTION_URL", ""),
			FunctionKey: os.Getenv("ROUTE_FUNCTION_KEY"),
			ORSAPIKey:   os.Getenv("ORS_API_KEY"),
			ORSBaseURL:  Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
			ORSProfile:  Get("ORS_PROFILE", "driving-car"),
		},
		Tracking: DefaultTracking(),
		Check: LocationCheckConfig{
			URL: Get("LOCATION_CHECK_URL", ""),
		},
	}

	if path := os.Getenv("TRACKING_CONFIG_FILE"); path != "" {
		if err := applyOverlay(&cfg.Tracking, path); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultTracking returns the intervals the tracking pipeline runs with
// unless overridden.
func DefaultTracking() TrackingConfig {
	return TrackingConfig{
		RefreshInterval:  3 * time.Second,
		LinkPushInterval: 10 * time.Second,
		PollInterval:     3 * time.Second,
		PollMaxAttempts:  60,
		BoundsPadding:    0.1,
		SessionIdleTTL:   2 * time.Minute,
		SamplerIdleTTL:   10 * time.Minute,
	}
}

func applyOverlay(t *TrackingConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read overlay %q: %w", path, err)
	}

	var overlay struct {
		Tracking TrackingConfig `yaml:"tracking"`
	}
	overlay.Tracking = *t
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("config: parse overlay %q: %w", path, err)
	}
	*t = overlay.Tracking
	return nil
}

func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
