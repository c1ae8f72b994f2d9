// internal/config/config.go
//
// Process configuration for the LexiBattle server.
// Responsibilities:
//   - Load a .env file when present (development convenience).
//   - Read every tunable from the environment with a sane default.
//
// Environment variables:
//   PORT, CLIENT_ORIGIN, LOG_LEVEL, LOG_PRETTY, MATCH_SECONDS, PUZZLE_WORDS,
//   GRID_SIZE, WORDS_POOL_FILE, HISTORY_DB, DAILY_SALT, WS_RATE_PER_SEC,
//   WS_RATE_BURST.

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port          string
	ClientOrigin  string // "*" accepts any websocket origin
	LogLevel      string
	LogPretty     bool
	MatchDuration time.Duration
	PuzzleWords   int
	GridSize      int
	WordsPoolFile string // empty → embedded master pool
	HistoryDB     string // empty → in-memory history
	DailySalt     string
	WSRatePerSec  float64
	WSRateBurst   int
}

// Load reads .env (if any) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          envStr("PORT", "5175"),
		ClientOrigin:  envStr("CLIENT_ORIGIN", "http://localhost:5173"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		LogPretty:     envStr("LOG_PRETTY", "") == "1",
		MatchDuration: time.Duration(envInt("MATCH_SECONDS", 60)) * time.Second,
		PuzzleWords:   envInt("PUZZLE_WORDS", 8),
		GridSize:      envInt("GRID_SIZE", 10),
		WordsPoolFile: envStr("WORDS_POOL_FILE", ""),
		HistoryDB:     envStr("HISTORY_DB", ""),
		DailySalt:     envStr("DAILY_SALT", "local_dev_salt"),
		WSRatePerSec:  envFloat("WS_RATE_PER_SEC", 20),
		WSRateBurst:   envInt("WS_RATE_BURST", 40),
	}
}

// envStr returns the value of k or def if unset/empty.
func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as a positive integer, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
