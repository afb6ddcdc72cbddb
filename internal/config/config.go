package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration, one field per environment variable.
type Config struct {
	Port           string   // CHIRP_PORT — HTTP listen port
	DBPath         string   // CHIRP_DB_PATH — SQLite database file
	LogLevel       string   // CHIRP_LOG_LEVEL — debug, info, warn, error
	AllowedOrigins []string // CHIRP_ALLOWED_ORIGINS — comma-separated CORS origins
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Every variable has a development default.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:           getenv("CHIRP_PORT", "8080"),
		DBPath:         getenv("CHIRP_DB_PATH", "chirp.db"),
		LogLevel:       getenv("CHIRP_LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getenv("CHIRP_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
