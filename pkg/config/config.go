package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "http://localhost:8000/api"

type Config struct {
	LogLevel string

	APIURL      string
	StorageDSN  string
	HTTPTimeout time.Duration

	ServerPort  int
	DatabaseURL string
	JWTSecret   []byte
	TokenTTL    time.Duration

	KafkaBrokers []string

	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("notice: .env not loaded: %v", err)
	}

	return Config{
		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		APIURL:      strings.TrimRight(EnvDefault("API_URL", DefaultAPIURL), "/"),
		StorageDSN:  EnvDefault("STORAGE_DSN", "storefront.db"),
		HTTPTimeout: EnvDurationDefault("HTTP_TIMEOUT", 10*time.Second),

		ServerPort:  EnvIntDefault("SERVER_PORT", 8000),
		DatabaseURL: EnvDefault("DATABASE_URL", "devserver.db"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:    EnvDurationDefault("TOKEN_TTL", 24*time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
