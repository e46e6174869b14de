package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config описывает настройки запуска сервиса. Все значения читаются
// из окружения с префиксом COP_ (customer order processing).
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers []string

	StatusUpdateEnabled bool
	CooldownLifetime    time.Duration

	LogLevel string
}

// DefaultConfig возвращает конфигурацию для локального запуска:
// всё хранится в памяти, внешние зависимости выключены.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StatusUpdateEnabled: true,
		CooldownLifetime:    time.Hour,
		LogLevel:            "info",
	}
}

// LoadConfig собирает конфигурацию из переменных окружения поверх умолчаний.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	cfg.HTTPAddr = envOrDefault("COP_HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = envOrDefault("COP_METRICS_ADDR", cfg.MetricsAddr)
	cfg.PostgresDSN = strings.TrimSpace(os.Getenv("COP_POSTGRES_DSN"))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("COP_REDIS_ADDR"))
	cfg.LogLevel = envOrDefault("COP_LOG_LEVEL", cfg.LogLevel)

	if brokers := strings.TrimSpace(os.Getenv("COP_KAFKA_BROKERS")); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if raw := strings.TrimSpace(os.Getenv("COP_STATUS_UPDATE_ENABLED")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse COP_STATUS_UPDATE_ENABLED: %w", err)
		}
		cfg.StatusUpdateEnabled = enabled
	}

	if raw := strings.TrimSpace(os.Getenv("COP_COOLDOWN_LIFETIME_SECONDS")); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse COP_COOLDOWN_LIFETIME_SECONDS: %w", err)
		}
		if seconds < 0 {
			return Config{}, fmt.Errorf("COP_COOLDOWN_LIFETIME_SECONDS must not be negative, got %d", seconds)
		}
		cfg.CooldownLifetime = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
