package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "http://localhost:8080", cfg.StationsBaseURL)
	assert.Equal(t, "charging-slot-bookings", cfg.BookingTable)
}

func TestWithEnvironment(t *testing.T) {
	cfg := New(WithEnvironment("development"))

	assert.Equal(t, "development", cfg.Environment)
}

func TestWithLogLevel(t *testing.T) {
	cfg := New(WithLogLevel("debug"))

	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestWithInvalidLogLevelFallsBack(t *testing.T) {
	cfg := New(WithLogLevel("shouting"))

	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestWithHTTPTimeout(t *testing.T) {
	cfg := New(WithHTTPTimeout(30 * time.Second))

	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestWithStationsBaseURL(t *testing.T) {
	cfg := New(WithStationsBaseURL("https://stations.example.com"))

	assert.Equal(t, "https://stations.example.com", cfg.StationsBaseURL)
}

func TestInitializeLogging(t *testing.T) {
	cfg := New(WithEnvironment("local"), WithLogLevel("debug"))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("STATIONS_BASE_URL", "https://stations.example.com")
	t.Setenv("BOOKING_TABLE", "test-bookings")
	t.Setenv("STATION_SNAPSHOT_BUCKET", "test-bucket")

	cfg := LoadFromEnv()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://stations.example.com", cfg.StationsBaseURL)
	assert.Equal(t, "test-bookings", cfg.BookingTable)
	assert.Equal(t, "test-bucket", cfg.SnapshotBucket)
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := LoadFromEnv()
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}
