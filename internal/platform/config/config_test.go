package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefaults(t *testing.T) {
	cfg, err := fromLookup(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "finhabit.mission.events", cfg.Kafka.Topic)
	assert.Equal(t, DefaultJWTSigningKey, cfg.JWT.SigningKey)
	assert.Equal(t, time.UTC, cfg.Mission.Location)
	assert.Equal(t, 10*time.Minute, cfg.Mission.CatalogCacheTTL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestOverrides(t *testing.T) {
	cfg, err := fromLookup(lookup(map[string]string{
		"FINHABIT_ADDR":     ":9090",
		"DATABASE_URL":      "postgres://localhost/finhabit",
		"KAFKA_BROKERS":     "kafka-1:9092, kafka-2:9092,",
		"MISSION_TIMEZONE":  "Asia/Seoul",
		"CATALOG_CACHE_TTL": "90s",
		"REDIS_POOL_SIZE":   "32",
		"SEED_CATALOG":      "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/finhabit", cfg.Database.URL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "Asia/Seoul", cfg.Mission.Location.String())
	assert.Equal(t, 90*time.Second, cfg.Mission.CatalogCacheTTL)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.True(t, cfg.Database.SeedCatalog)
}

func TestInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"MISSION_TIMEZONE":  "Mars/Olympus",
		"CATALOG_CACHE_TTL": "soon",
		"REDIS_POOL_SIZE":   "many",
		"SEED_CATALOG":      "perhaps",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := fromLookup(lookup(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidationRejectsUnsafeValues(t *testing.T) {
	cases := map[string]map[string]string{
		"short signing key":  {"JWT_SIGNING_KEY": "short"},
		"unknown log format": {"LOG_FORMAT": "xml"},
		"zero partitions":    {"MISSION_EVENTS_PARTITIONS": "0"},
		"idle above open":    {"DATABASE_MAX_OPEN_CONNS": "2", "DATABASE_MAX_IDLE_CONNS": "5"},
		"non-positive ttl":   {"CATALOG_CACHE_TTL": "-1s"},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fromLookup(lookup(values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
