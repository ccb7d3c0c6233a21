package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/dhima/dbutils/pkg/dbutils"
)

// App holds runtime configuration derived from env vars.
type App struct {
	Database dbutils.Config

	APIPort     string
	ReadOnly    bool
	Environment string
	LogLevel    string
	LogEncoding string
	CORSOrigins []string

	KafkaBrokers []string
	KafkaTopic   string

	KeepaliveSpec string
}

// FromEnv loads the application configuration from environment variables.
func FromEnv() App {
	return App{
		Database: dbutils.Config{
			Driver:   getEnv("DB_DRIVER", dbutils.DefaultDriver),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", dbutils.DefaultPort),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_NAME"),
			Charset:  getEnv("DB_CHARSET", dbutils.DefaultCharset),
			DSN:      os.Getenv("DB_DSN"),
		},
		APIPort:       getEnv("API_PORT", "8080"),
		ReadOnly:      getEnvBool("API_READ_ONLY", false),
		Environment:   getEnv("ENVIRONMENT", "production"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogEncoding:   getEnv("LOG_ENCODING", "json"),
		CORSOrigins:   getCORSOrigins(),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "dbutils.mutations"),
		KeepaliveSpec: getEnv("KEEPALIVE_SPEC", "@every 5m"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getCORSOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	return splitList(raw)
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
