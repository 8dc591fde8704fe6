package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv       string
	Port         string
	DB           DatabaseConfig
	Registration RegistrationConfig
	Views        ViewsConfig
	HTTP         HTTPConfig
	CORS         CORSConfig
	Telemetry    TelemetryConfig
}

type DatabaseConfig struct {
	Engine   string
	Path     string
	Host     string
	Port     string
	Name     string
	Username string
	Password string
	SSLMode  string
}

type RegistrationConfig struct {
	MinPasswordLength int
	DefaultRole       string
}

type ViewsConfig struct {
	Dir string
}

type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type TelemetryConfig struct {
	ServiceName          string
	ServiceVersion       string
	OTLPEndpoint         string
	OTLPProtocol         string
	OTLPInsecure         bool
	ExportTimeout        time.Duration
	MetricExportInterval time.Duration
}

func Load() (Config, error) {
	appEnv := getEnv("APP_ENV", "dev")
	port := getEnv("APP_PORT", "8080")

	engine := getEnv("DB_ENGINE", "sqlite")

	minPasswordLength, err := strconv.Atoi(getEnv("REGISTRATION_MIN_PASSWORD_LENGTH", "6"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REGISTRATION_MIN_PASSWORD_LENGTH: %w", err)
	}
	if minPasswordLength < 1 {
		return Config{}, errors.New("REGISTRATION_MIN_PASSWORD_LENGTH must be at least 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_WRITE_TIMEOUT: %w", err)
	}

	exportTimeout, err := time.ParseDuration(getEnv("OTEL_EXPORT_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OTEL_EXPORT_TIMEOUT: %w", err)
	}
	metricInterval, err := time.ParseDuration(getEnv("OTEL_METRIC_EXPORT_INTERVAL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OTEL_METRIC_EXPORT_INTERVAL: %w", err)
	}

	dbSSLMode := getEnv("DB_SSLMODE", "")
	if dbSSLMode == "" {
		if appEnv == "prod" {
			dbSSLMode = "require"
		} else {
			dbSSLMode = "disable"
		}
	}

	cfg := Config{
		AppEnv: appEnv,
		Port:   port,
		DB: DatabaseConfig{
			Engine:   engine,
			Path:     getEnv("DB_PATH", "data/registration.sqlite3"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", ""),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  dbSSLMode,
		},
		Registration: RegistrationConfig{
			MinPasswordLength: minPasswordLength,
			DefaultRole:       getEnv("REGISTRATION_DEFAULT_ROLE", "User"),
		},
		Views: ViewsConfig{
			Dir: getEnv("VIEWS_DIR", "templates"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		CORS: CORSConfig{
			AllowedOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Telemetry: TelemetryConfig{
			ServiceName:          getEnv("OTEL_SERVICE_NAME", "registration-service"),
			ServiceVersion:       getEnv("OTEL_SERVICE_VERSION", "dev"),
			OTLPEndpoint:         os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			OTLPProtocol:         getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			OTLPInsecure:         getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", appEnv != "prod"),
			ExportTimeout:        exportTimeout,
			MetricExportInterval: metricInterval,
		},
	}

	switch engine {
	case "sqlite":
		if cfg.DB.Path == "" {
			return Config{}, errors.New("DB_PATH must be set for the sqlite engine")
		}
	case "postgres":
		if cfg.DB.Name == "" || cfg.DB.Username == "" {
			return Config{}, errors.New("DB_NAME and DB_USERNAME must be set for the postgres engine")
		}
	default:
		return Config{}, fmt.Errorf("unsupported database engine: %s", engine)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	var results []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
