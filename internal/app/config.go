package app

import (
	"os"
	"strings"
)

// StorageDriver определяет реализацию хранилища заказов.
type StorageDriver string

const (
	// StorageDriverMemory — in-memory хранилище для локальной разработки.
	StorageDriverMemory StorageDriver = "memory"
	// StorageDriverPostgres — PostgreSQL-хранилище для эксплуатации.
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес основного API.
	HTTPAddr string
	// MetricsAddr — адрес сервера метрик и health-проверок.
	MetricsAddr string
	// StorageDriver — выбранное хранилище: memory или postgres.
	StorageDriver StorageDriver
	// PostgresDSN обязателен при StorageDriverPostgres.
	PostgresDSN string
	// PostgresAutoMigrate применяет миграции при старте сервиса.
	PostgresAutoMigrate bool
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
	}
}

// LoadConfig собирает конфигурацию из переменных окружения с префиксом ORDERS_.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("ORDERS_HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_STORAGE_DRIVER")); v != "" {
		cfg.StorageDriver = StorageDriver(strings.ToLower(v))
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
		// Заданный DSN без явного драйвера означает postgres.
		if strings.TrimSpace(os.Getenv("ORDERS_STORAGE_DRIVER")) == "" {
			cfg.StorageDriver = StorageDriverPostgres
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_POSTGRES_AUTO_MIGRATE")); v != "" {
		cfg.PostgresAutoMigrate = v == "true" || v == "1"
	}

	return cfg
}
