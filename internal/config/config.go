package config

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/rules"
)

const (
	defaultPort    = "8080"
	defaultCatalog = "full"
)

type Config struct {
	Port                string
	DatabaseURL         string
	AnisocoriaThreshold float64
	DefaultCatalog      string
	ProgramCacheSize    int
}

// Load reads an optional .env file, then the environment. Missing or
// unparsable values fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                strings.TrimPrefix(getEnv("PORT", defaultPort), ":"),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AnisocoriaThreshold: positiveFloat(os.Getenv("ANISOCORIA_THRESHOLD_MM"), features.DefaultAnisocoriaThreshold),
		DefaultCatalog:      getEnv("DEFAULT_CATALOG", defaultCatalog),
		ProgramCacheSize:    positiveInt(os.Getenv("PROGRAM_CACHE_SIZE"), rules.DefaultProgramCacheSize),
	}
}

// FeatureConfig returns the feature derivation settings
func (c *Config) FeatureConfig() features.Config {
	return features.Config{AnisocoriaThreshold: c.AnisocoriaThreshold}
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func positiveFloat(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

func positiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
