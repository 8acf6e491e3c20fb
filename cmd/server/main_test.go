package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "finhabit/internal/jwt_token"
	"finhabit/internal/platform/config"
)

func testConfig() config.Server {
	return config.Server{
		Addr:      ":0",
		LogLevel:  "info",
		LogFormat: "json",
		Kafka:     config.KafkaConfig{Topic: "mission-events", Partitions: 1, ReplicationFactor: 1},
		JWT: config.JWTConfig{
			SigningKey: "test-signing-key-0123456789",
			Issuer:     "finhabit-test",
			Audience:   "finhabit-api",
		},
		Mission: config.MissionConfig{Location: time.UTC, CatalogCacheTTL: time.Minute},
	}
}

func TestBuildInMemoryServesDemoUser(t *testing.T) {
	cfg := testConfig()
	app, err := build(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
	require.NoError(t, err)
	defer app.close()
	assert.Equal(t, "memory", app.storage)

	token, err := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience).
		GenerateAccessToken(DemoUserID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/mission/today", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Today *struct {
			AssignmentID string `json:"assignment_id"`
			DoneCount    int    `json:"done_count"`
		} `json:"today"`
		Ongoing []json.RawMessage `json:"ongoing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Today)
	assert.NotEmpty(t, body.Today.AssignmentID)
	assert.Zero(t, body.Today.DoneCount)
	assert.NotNil(t, body.Ongoing)
}

func TestBuildRejectsAnonymousRequests(t *testing.T) {
	app, err := build(context.Background(), testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
	require.NoError(t, err)
	defer app.close()

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mission/archive", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
