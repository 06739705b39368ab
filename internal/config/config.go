package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the whole process configuration, loaded once at startup from the
// environment (with an optional .env overlay for local runs).
type Config struct {
	Port string

	UserServiceURL    string
	ProductServiceURL string
	OrderServiceURL   string

	RequestTimeout time.Duration
	TaxRate        float64

	CORSAllowedOrigins []string

	IdempotencyTTL      time.Duration
	IdempotencyCapacity int

	OTLPEndpoint string
}

func Load(logger *slog.Logger) (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		UserServiceURL:    getEnv("USER_SERVICE_URL", "http://localhost:8001"),
		ProductServiceURL: getEnv("PRODUCT_SERVICE_URL", "http://localhost:8002"),
		OrderServiceURL:   getEnv("ORDER_SERVICE_URL", "http://localhost:8003"),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	timeout, err := getEnvFloat("REQUEST_TIMEOUT", 5.0)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeout * float64(time.Second))

	cfg.TaxRate, err = getEnvFloat("TAX_RATE", 0.18)
	if err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "*"), logger)

	ttl, err := getEnvFloat("IDEMPOTENCY_TTL", (24 * time.Hour).Seconds())
	if err != nil {
		return nil, err
	}
	cfg.IdempotencyTTL = time.Duration(ttl * float64(time.Second))

	capacity := getEnv("IDEMPOTENCY_CAPACITY", "1024")
	cfg.IdempotencyCapacity, err = strconv.Atoi(capacity)
	if err != nil {
		return nil, fmt.Errorf("IDEMPOTENCY_CAPACITY: %w", err)
	}

	return cfg, nil
}

// parseCORSOrigins accepts "*" or a comma-separated allow-list. The legacy
// "regex:" prefix is not supported by the cors middleware's origin list, so it
// degrades to allow-all with a warning rather than failing startup.
func parseCORSOrigins(raw string, logger *slog.Logger) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	if strings.HasPrefix(strings.ToLower(raw), "regex:") {
		if logger != nil {
			logger.Warn("regex CORS origins are not supported, allowing all origins", "value", raw)
		}
		return []string{"*"}
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
