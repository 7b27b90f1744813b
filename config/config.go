package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	Headless            bool
	NavigationTimeoutMs int
	ChromeBin           string

	MaxConcurrency int
	RateLimitMs    int

	DebugDir  string
	OutputDir string

	// RandomSeed makes user-agent selection and navigation jitter
	// reproducible. Zero means seed from the clock.
	RandomSeed int64
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-pro"),

		Headless:            getEnvBool("HEADLESS", true),
		NavigationTimeoutMs: getEnvInt("NAVIGATION_TIMEOUT_MS", 120000),
		ChromeBin:           getEnv("CHROME_BIN", ""),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),

		DebugDir:  getEnv("DEBUG_DIR", "./debug"),
		OutputDir: getEnv("OUTPUT_DIR", "./analysis_results"),

		RandomSeed: getEnvInt64("RANDOM_SEED", 0),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
