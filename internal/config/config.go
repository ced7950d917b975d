package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Path — фиксированный путь к файлу конфигурации
// флагов и переменных окружения у консоли нет
const Path = "config/config.yaml"

// Config определяет структуру конфигурации всего приложения целиком
type Config struct {
	Postgres `yaml:"postgres"`
	Logger   `yaml:"logger"`
	Kafka    `yaml:"kafka"`
	Reports  `yaml:"reports"`
}

// Postgres содержит конфигурацию для подключения к базе данных
type Postgres struct {
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	DBName         string        `yaml:"db_name"`
	SSLMode        string        `yaml:"ssl_mode"`
	MaxConns       int32         `yaml:"max_conns"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Logger содержит конфигурацию для логгера
// если File пустой, логи пишутся в stderr, чтобы не мешать меню в stdout
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Kafka содержит конфигурацию публикации событий по заказам
// пустой список брокеров отключает публикацию
type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// Reports содержит настройки вывода отчётов
type Reports struct {
	Currency string `yaml:"currency"`
}

// Default возвращает конфигурацию, которой пользуемся при отсутствии файла
func Default() Config {
	return Config{
		Postgres: Postgres{
			User:           "postgres",
			Host:           "localhost",
			Port:           "5432",
			DBName:         "shop",
			SSLMode:        "disable",
			MaxConns:       1,
			ConnectTimeout: 5 * time.Second,
		},
		Logger: Logger{
			Level: "INFO",
		},
		Kafka: Kafka{
			Topic:   "order-events",
			GroupID: "shop-orders-journal",
		},
		Reports: Reports{
			Currency: "EUR",
		},
	}
}

// Load загружает конфигурацию из файла поверх значений по умолчанию
// отсутствующий файл не считается ошибкой, возвращаются значения по умолчанию
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	cfg := Default()

	file, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
	}

	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal config: %w", op, err)
	}

	// однопользовательский инструмент, хватает одного соединения
	if cfg.Postgres.MaxConns <= 0 {
		cfg.Postgres.MaxConns = 1
	}
	if cfg.Postgres.ConnectTimeout <= 0 {
		cfg.Postgres.ConnectTimeout = 5 * time.Second
	}

	return &cfg, nil
}

// MustLoad загружает конфигурацию из файла по указанному пути
// в случае ошибки программа завершается с фатальной ошибкой
func MustLoad(configPath string) *Config {
	if configPath == "" {
		log.Fatal("config path is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	return cfg
}

// DSN собирает строку подключения к PostgreSQL
func (p Postgres) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}
