package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	HTTP     HTTPConfig
	Backend  BackendConfig
	Payment  PaymentConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type HTTPConfig struct {
	Addr           string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

type BackendConfig struct {
	URL         string
	Token       string
	Timeout     time.Duration
	MaxFailures uint32
}

type PaymentConfig struct {
	AuthorizationDelay time.Duration
	ReceiptBaseURL     string
}

// PostgresConfig is optional; without DB_HOST the sale journal is disabled.
type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

func (c PostgresConfig) ConnString() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	CacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []string
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return d
	}

	maxFailures, err := strconv.ParseUint(getEnv("BACKEND_MAX_FAILURES", "5"), 10, 32)
	if err != nil {
		errs = append(errs, fmt.Sprintf("BACKEND_MAX_FAILURES: %v", err))
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:           getEnv("HTTP_ADDR", ":8090"),
			RequestTimeout: duration("REQUEST_TIMEOUT", "10s"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		},
		Backend: BackendConfig{
			URL:         getEnv("BACKEND_URL", "http://localhost:8000/api"),
			Token:       getEnv("BACKEND_TOKEN", ""),
			Timeout:     duration("BACKEND_TIMEOUT", "8s"),
			MaxFailures: uint32(maxFailures),
		},
		Payment: PaymentConfig{
			AuthorizationDelay: duration("CARD_AUTHORIZATION_DELAY", "2s"),
			ReceiptBaseURL:     getEnv("RECEIPT_BASE_URL", "http://localhost:3000"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "pos"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			CacheTTL: duration("CART_CACHE_TTL", "5m"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKER", "")),
			Topic:   getEnv("KAFKA_TOPIC", "checkout-events"),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.Backend.MaxFailures == 0 {
		return fmt.Errorf("BACKEND_MAX_FAILURES must be positive")
	}
	if c.Payment.AuthorizationDelay <= 0 {
		return fmt.Errorf("CARD_AUTHORIZATION_DELAY must be positive")
	}
	if c.Payment.ReceiptBaseURL == "" {
		return fmt.Errorf("RECEIPT_BASE_URL is required")
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKER is set")
	}
	return nil
}

func MustInitPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
