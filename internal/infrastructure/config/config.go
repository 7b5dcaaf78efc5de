package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// maxAPIKeys bounds the GEMINI_API_KEY_N scan. Keys must be numbered
// consecutively from 1; the scan stops at the first gap.
const maxAPIKeys = 5

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Gemini
	GeminiAPIKeys []string // GEMINI_API_KEY_1..N
	GeminiModel   string

	// Per-key rate limiting
	RateLimit        int // requests per key per window
	RateLimitWindow  time.Duration
	RateLimitBackoff time.Duration // poll interval while all keys are saturated

	// Archive database
	DBPath string

	// Speech-to-text service, e.g. "http://localhost:8001"
	STTURL string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:    mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:  mustGetDuration("SHUTDOWN_TIMEOUT"),
		GeminiAPIKeys:    collectAPIKeys(),
		GeminiModel:      getenvDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		RateLimit:        getenvInt("RATE_LIMIT", 15),
		RateLimitWindow:  getenvDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		RateLimitBackoff: getenvDuration("RATE_LIMIT_BACKOFF", 5*time.Second),
		DBPath:           getenvDefault("DB_PATH", "mockmate.db"),
		STTURL:           getenvDefault("STT_URL", "http://localhost:8001"),
	}
}

// collectAPIKeys reads GEMINI_API_KEY_1, GEMINI_API_KEY_2, ... until the
// first unset slot. At least one key is required.
func collectAPIKeys() []string {
	var keys []string
	for i := 1; i <= maxAPIKeys; i++ {
		v := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i))
		if v == "" {
			break
		}
		keys = append(keys, v)
	}
	if len(keys) == 0 {
		log.Fatal("config: no GEMINI_API_KEY_N variables set (need at least GEMINI_API_KEY_1)")
	}
	return keys
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}
