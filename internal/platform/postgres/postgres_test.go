package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finhabit/internal/platform/config"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
}

func TestInitialMigrationDeclaresOwnerDayUniqueness(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)
	schema := string(body)
	assert.True(t, strings.Contains(schema, "UNIQUE INDEX IF NOT EXISTS assignments_owner_day_uidx"))
	assert.True(t, strings.Contains(schema, "version        BIGINT"))
}

func TestOpenRejectsUnreachableDatabase(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	db, err := Open(ctx, config.DatabaseConfig{
		URL:          "postgres://nobody@127.0.0.1:1/none?sslmode=disable",
		MaxOpenConns: 1,
	})
	require.Error(t, err)
	assert.Nil(t, db)
}
