package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`

	// SessionID names the snapshot this process serves. Generated when empty.
	SessionID string `envconfig:"SESSION_ID" default:""`

	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"5s"`

	BreakerFailures uint32        `envconfig:"BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SnapshotTTL   time.Duration `envconfig:"SNAPSHOT_TTL" default:"24h"`

	KafkaBrokers  string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	AuthTopic     string `envconfig:"AUTH_TOPIC" default:"auth-sessions"`
	CheckoutTopic string `envconfig:"CHECKOUT_TOPIC" default:"checkout-outbox"`
	// ConsumerGroup is a prefix; each session joins <prefix>-<session id>.
	ConsumerGroup string `envconfig:"CONSUMER_GROUP" default:"session-service"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL must not be empty")
	}
	return &cfg, nil
}

func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
