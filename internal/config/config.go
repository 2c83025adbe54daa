package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath       string
	AdvisoryConfigPath string
	StressServiceURL   string // Primary (cluster-internal) MCSI address
	StressServiceLocal string // Local fallback MCSI address
	YieldServiceURL    string // Primary (cluster-internal) yield address
	YieldServiceLocal  string // Local fallback yield address
	RetrievalURL       string // RAG query service (optional)
	GeminiAPIKey       string
	GeminiModel        string
	SeasonYear         int
	LogLevel           string
	Port               int
	DevMode            bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("GO_PORT", 8002), // Orchestrator on 8002 (MCSI 8000, yield 8001)
		DevMode:            getEnvAsBool("DEV_MODE", false),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/counties.db"),
		AdvisoryConfigPath: getEnv("ADVISORY_CONFIG_PATH", "./configs/advisory.toml"),
		StressServiceURL:   getEnv("MCSI_SERVICE_URL", "http://mcsi:8000"),
		StressServiceLocal: getEnv("MCSI_SERVICE_URL_LOCAL", "http://localhost:8000"),
		YieldServiceURL:    getEnv("YIELD_SERVICE_URL", "http://yield:8001"),
		YieldServiceLocal:  getEnv("YIELD_SERVICE_URL_LOCAL", "http://localhost:8001"),
		RetrievalURL:       getEnv("RAG_SERVICE_URL", "http://localhost:8003"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		SeasonYear:         getEnvAsInt("SEASON_YEAR", 2025),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.StressServiceURL == "" && c.StressServiceLocal == "" {
		return fmt.Errorf("at least one MCSI service address is required")
	}
	if c.YieldServiceURL == "" && c.YieldServiceLocal == "" {
		return fmt.Errorf("at least one yield service address is required")
	}

	// Note: Gemini credentials optional; narrative generation degrades without them

	return nil
}

// StressAddresses returns the ordered candidate addresses for the MCSI service.
func (c *Config) StressAddresses() []string {
	return candidates(c.StressServiceURL, c.StressServiceLocal)
}

// YieldAddresses returns the ordered candidate addresses for the yield service.
func (c *Config) YieldAddresses() []string {
	return candidates(c.YieldServiceURL, c.YieldServiceLocal)
}

func candidates(addrs ...string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
