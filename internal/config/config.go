package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const maxLogRetentionDays = 7

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	JWTIssuer            string
	AccessTTLSeconds     int64
	RefreshTTLSeconds    int64
	AdminEmail           string
	AdminPassword        string
	MigrationsDir        string
	MetricsDiskPath      string
	MetricsSampleSeconds int
	CorsOrigins          []string
	LogDir               string
	LogRetentionDays     int
	LogLevel             string
	Port                 string
}

// Load reads .env when present and then the process environment. It panics
// when a required variable is missing.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		DatabaseURL:          mustEnv("DATABASE_URL"),
		JWTSecret:            mustEnv("JWT_SECRET"),
		JWTIssuer:            envOr("JWT_ISSUER", "chickstage"),
		AccessTTLSeconds:     int64(envOrInt("ACCESS_TTL_SECONDS", 14400)),
		RefreshTTLSeconds:    int64(envOrInt("REFRESH_TTL_SECONDS", 1209600)),
		AdminEmail:           envOr("ADMIN_EMAIL", ""),
		AdminPassword:        envOr("ADMIN_PASSWORD", ""),
		MigrationsDir:        envOr("MIGRATIONS_DIR", "migrations"),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "/"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 5),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
		LogDir:               envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays:     retentionDays(envOrInt("LOG_RETENTION_DAYS", maxLogRetentionDays)),
		LogLevel:             strings.ToLower(envOr("LOG_LEVEL", "info")),
		Port:                 envOr("PORT", "8080"),
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLSeconds) * time.Second
}

func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLSeconds) * time.Second
}

func (c Config) MetricsInterval() time.Duration {
	if c.MetricsSampleSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.MetricsSampleSeconds) * time.Second
}

func retentionDays(days int) int {
	if days <= 0 || days > maxLogRetentionDays {
		return maxLogRetentionDays
	}
	return days
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
