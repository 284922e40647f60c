package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cart/internal/app"
	"github.com/vladislavdragonenkov/cart/internal/version"
)

// Имена переменных окружения, из которых читается конфигурация.
const (
	envHTTPAddr            = "CART_HTTP_ADDR"
	envMetricsAddr         = "CART_METRICS_ADDR"
	envStorageDriver       = "CART_STORAGE_DRIVER"
	envPostgresDSN         = "CART_POSTGRES_DSN"
	envPostgresAutoMigrate = "CART_POSTGRES_AUTO_MIGRATE"
	envKafkaBrokers        = "KAFKA_BROKERS"
	envCORSOrigins         = "CART_CORS_ORIGINS"
	envOutboxTopic         = "CART_OUTBOX_TOPIC"
	envOutboxPollInterval  = "CART_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize     = "CART_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts   = "CART_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay    = "CART_OUTBOX_RETRY_DELAY"
	envLogLevel            = "CART_LOG_LEVEL"
)

// lookupFunc изолирует чтение окружения для тестов.
type lookupFunc func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(lookup lookupFunc) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	if v, ok := lookup(envLogLevel); ok {
		if level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(v))); err == nil {
			log.SetLevel(level)
		}
	}
}

// readConfigFromEnv собирает конфигурацию из переменных окружения.
// Некорректные значения не прерывают запуск: параметр остаётся дефолтным,
// а в warnings добавляется пояснение.
func readConfigFromEnv(lookup lookupFunc) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	readString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	readString(envHTTPAddr, &cfg.HTTPAddr)
	readString(envMetricsAddr, &cfg.MetricsAddr)
	readString(envPostgresDSN, &cfg.PostgresDSN)
	readString(envKafkaBrokers, &cfg.KafkaBrokers)
	readString(envCORSOrigins, &cfg.CORSOrigins)
	readString(envOutboxTopic, &cfg.OutboxTopic)

	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := lookup(envPostgresAutoMigrate); ok {
		if parsed, err := parseBool(v); err == nil {
			cfg.PostgresAutoMigrate = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: invalid bool %q, keeping default", envPostgresAutoMigrate, v))
		}
	}

	if v, ok := lookup(envOutboxPollInterval); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && parsed > 0 {
			cfg.OutboxPollInterval = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: invalid duration %q, keeping default", envOutboxPollInterval, v))
		}
	}

	if v, ok := lookup(envOutboxRetryDelay); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			cfg.OutboxRetryDelay = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: invalid duration %q, keeping default", envOutboxRetryDelay, v))
		}
	}

	if v, ok := lookup(envOutboxBatchSize); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			cfg.OutboxBatchSize = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: invalid positive int %q, keeping default", envOutboxBatchSize, v))
		}
	}

	if v, ok := lookup(envOutboxMaxAttempts); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			cfg.OutboxMaxAttempts = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: invalid positive int %q, keeping default", envOutboxMaxAttempts, v))
		}
	}

	return cfg, warnings
}

// parseBool понимает strconv-значения плюс on/off/yes/no.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(raw))
}

func main() {
	setupLogger(os.LookupEnv)
	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
		"version":      version.String(),
	}).Info("запускаем сервис корзины")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("сервис корзины остановлен")
}
