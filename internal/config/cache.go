package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Proximity LRU settings
	ProximityLRUSize       int
	ProximityLRUTTLMinutes int

	// Station snapshot settings
	StationSnapshotTTLDays int

	// General settings
	EnableProximityCache bool
}

const (
	defaultProximityLRUSize       = 1000
	defaultProximityLRUTTLMinutes = 15
	defaultStationSnapshotTTLDays = 2
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		ProximityLRUSize:       getEnvInt("CACHE_PROXIMITY_LRU_SIZE", defaultProximityLRUSize),
		ProximityLRUTTLMinutes: getEnvInt("CACHE_PROXIMITY_LRU_TTL_MINUTES", defaultProximityLRUTTLMinutes),
		StationSnapshotTTLDays: getEnvInt("CACHE_STATION_SNAPSHOT_TTL_DAYS", defaultStationSnapshotTTLDays),
		EnableProximityCache:   getEnvBool("CACHE_ENABLE_PROXIMITY", true),
	}

	log.Debug().
		Int("ProximityLRUSize", config.ProximityLRUSize).
		Int("ProximityLRUTTLMinutes", config.ProximityLRUTTLMinutes).
		Int("StationSnapshotTTLDays", config.StationSnapshotTTLDays).
		Bool("EnableProximityCache", config.EnableProximityCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetProximityLRUTTL() time.Duration {
	return time.Duration(c.ProximityLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetStationSnapshotTTL() time.Duration {
	return time.Duration(c.StationSnapshotTTLDays) * 24 * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
