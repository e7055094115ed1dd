package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	DatabaseURL string
	// Upstream provider
	Provider        string
	ExchangeAPIBase string
	ExchangeAPIKey  string
	BaseCurrency    string
	// Other upstreams
	EuroRateURL string
	LiveRateURL string
	// Worker
	RefreshPoll time.Duration
	// Fetch transport
	RequestTimeout time.Duration
	// Redis (per-day fetch lock)
	DayLockBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DayLockTTL     time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// Load reads environment variables and applies defaults. It is the only place
// that touches ambient env state; everything downstream receives the struct.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", "8000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Provider:        getEnv("PROVIDER", "fake"),
		ExchangeAPIBase: getEnv("EXCHANGE_API_BASE", "https://data.fixer.io"),
		ExchangeAPIKey:  getEnv("EXCHANGE_API_KEY", ""),
		BaseCurrency:    getEnv("BASE_CURRENCY", "EUR"),
		EuroRateURL:     getEnv("EURO_RATE_URL", ""),
		LiveRateURL:     getEnv("LIVE_RATE_URL", ""),
		RefreshPoll:     time.Duration(atoiDef(getEnv("REFRESH_POLL_MS", "60000"), 60000)) * time.Millisecond,
		RequestTimeout:  time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "4000"), 4000)) * time.Millisecond,
		DayLockBackend:  getEnv("DAYLOCK_BACKEND", "redis"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		DayLockTTL:      time.Duration(atoiDef(getEnv("DAYLOCK_TTL_MS", "86400000"), 86400000)) * time.Millisecond,
	}
}
