package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string

	// Actor is the identity recorded in the audit trail for every entry
	// written by this process.
	Actor string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	SendGridAPIKey      string
	SendGridFromName    string
	SendGridFromAddress string

	BotmakerAPIKey  string
	BotmakerURL     string
	BotmakerChannel string

	LogRetentionDays int

	WorkerMetricsAddr string
}

// Load reads env vars and falls back to defaults so the service can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("NOTIFY_ENV", "development"),
		HTTPPort:     getEnv("NOTIFY_HTTP_PORT", "8080"),
		DatabasePath: getEnv("NOTIFY_DB_PATH", filepath.Join("data", "notify.db")),

		Actor: getEnv("NOTIFY_ACTOR", "notify"),

		KafkaBrokers: strings.Split(getEnv("NOTIFY_KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("NOTIFY_KAFKA_TOPIC", "notify.dispatch"),
		KafkaGroupID: getEnv("NOTIFY_KAFKA_GROUP_ID", "notify-workers"),

		SendGridAPIKey:      getEnv("NOTIFY_SENDGRID_API_KEY", ""),
		SendGridFromName:    getEnv("NOTIFY_SENDGRID_FROM_NAME", "Notify"),
		SendGridFromAddress: getEnv("NOTIFY_SENDGRID_FROM_ADDRESS", "no-reply@lumaensino.com.br"),

		BotmakerAPIKey:  getEnv("NOTIFY_BOTMAKER_API_KEY", ""),
		BotmakerURL:     getEnv("NOTIFY_BOTMAKER_URL", "https://go.botmaker.com/api/v1.0/intent/v2"),
		BotmakerChannel: getEnv("NOTIFY_BOTMAKER_CHANNEL", ""),

		WorkerMetricsAddr: getEnv("NOTIFY_WORKER_METRICS_ADDR", ":9091"),
	}

	days, err := strconv.Atoi(getEnv("NOTIFY_LOG_RETENTION_DAYS", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	cfg.LogRetentionDays = days

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// LogRetention returns the audit window as a duration.
func (c Config) LogRetention() time.Duration {
	return time.Duration(c.LogRetentionDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
