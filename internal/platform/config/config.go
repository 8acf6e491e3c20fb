package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	pstrings "finhabit/pkg/platform/strings"
)

// Server captures process-level configuration.
type Server struct {
	Addr      string `validate:"required"`
	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=json text"`
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	Mission   MissionConfig
}

// DatabaseConfig selects the Postgres backend. An empty URL selects the
// in-memory stores with a seeded catalog.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int `validate:"gte=1"`
	MaxIdleConns    int `validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration
	SeedCatalog     bool
}

// RedisConfig configures the optional catalog cache.
type RedisConfig struct {
	URL          string
	PoolSize     int `validate:"gte=1"`
	MinIdleConns int `validate:"gte=0"`
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional lifecycle event producer.
type KafkaConfig struct {
	Brokers           []string
	Topic             string `validate:"required"`
	Partitions        int32  `validate:"gte=1"`
	ReplicationFactor int16  `validate:"gte=1"`
}

// JWTConfig configures bearer token validation.
type JWTConfig struct {
	SigningKey string `validate:"min=16"`
	Issuer     string `validate:"required"`
	Audience   string `validate:"required"`
}

// MissionConfig holds mission engine settings.
type MissionConfig struct {
	Location        *time.Location
	CatalogCacheTTL time.Duration `validate:"gt=0"`
}

// DefaultJWTSigningKey is used when JWT_SIGNING_KEY is unset. Development only.
const DefaultJWTSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Server, error) {
	env := envReader{getenv: getenv}

	zone := env.str("MISSION_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Server{}, fmt.Errorf("MISSION_TIMEZONE %q: %w", zone, err)
	}

	cfg := Server{
		Addr:      env.str("FINHABIT_ADDR", ":8080"),
		LogLevel:  env.str("LOG_LEVEL", "info"),
		LogFormat: env.str("LOG_FORMAT", "json"),
		Database: DatabaseConfig{
			URL:             env.str("DATABASE_URL", ""),
			MaxOpenConns:    env.integer("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    env.integer("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: env.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			SeedCatalog:     env.boolean("SEED_CATALOG", false),
		},
		Redis: RedisConfig{
			URL:          env.str("REDIS_URL", ""),
			PoolSize:     env.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: env.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  env.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  env.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: env.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           env.list("KAFKA_BROKERS"),
			Topic:             env.str("MISSION_EVENTS_TOPIC", "finhabit.mission.events"),
			Partitions:        int32(env.integer("MISSION_EVENTS_PARTITIONS", 3)),
			ReplicationFactor: int16(env.integer("MISSION_EVENTS_REPLICATION", 1)),
		},
		JWT: JWTConfig{
			SigningKey: env.str("JWT_SIGNING_KEY", DefaultJWTSigningKey),
			Issuer:     env.str("JWT_ISSUER", "finhabit"),
			Audience:   env.str("JWT_AUDIENCE", "finhabit-api"),
		},
		Mission: MissionConfig{
			Location:        loc,
			CatalogCacheTTL: env.duration("CATALOG_CACHE_TTL", 10*time.Minute),
		},
	}
	if env.err != nil {
		return Server{}, env.err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Server{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envReader reads typed values and keeps the first parse error.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *envReader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return b
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

func (e *envReader) list(key string) []string {
	return pstrings.DedupeAndTrim(strings.Split(e.getenv(key), ","))
}

func (e *envReader) fail(key, value string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%s %q: %w", key, value, err)
	}
}
