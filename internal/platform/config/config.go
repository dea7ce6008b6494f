package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	StoreBackend  string // "memory" or "postgres"
	PostgresDSN   string
	JWTSigningKey string
	AdminToken    string
	Redis         RedisConfig
	Kafka         KafkaConfig
}

// RedisConfig configures the optional aggregation cache. An empty URL
// disables Redis entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the decree notification dispatcher. Empty seeds
// disable Kafka; the engine then runs with the in-process dispatcher.
type KafkaConfig struct {
	Seeds []string
	Topic string
}

// AggregationCacheTTL bounds how stale the diocese-wide decree listing may
// get. The read path explicitly tolerates a slightly stale view.
var AggregationCacheTTL = 30 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CHANCERY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	backend := os.Getenv("CHANCERY_STORE")
	if backend == "" {
		backend = "memory"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var seeds []string
	if raw := os.Getenv("KAFKA_SEEDS"); raw != "" {
		seeds = strings.Split(raw, ",")
	}
	topic := os.Getenv("KAFKA_DECREE_TOPIC")
	if topic == "" {
		topic = "chancery.decrees"
	}

	return Server{
		Addr:          addr,
		StoreBackend:  backend,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		JWTSigningKey: jwtSigningKey,
		AdminToken:    os.Getenv("CHANCERY_ADMIN_TOKEN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Seeds: seeds,
			Topic: topic,
		},
	}
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}
	return fallback
}
