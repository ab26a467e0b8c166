package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port           string
	Env            string
	MongoURI       string
	MongoDB        string
	RedisURL       string
	JWTSecret      string
	TokenTTL       time.Duration
	SeedDemoData   bool
	AllowedOrigins string
}

// Load reads configuration from the environment, falling back to defaults
// suitable for local development. A .env file is honored when present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		Port:           getEnv("PORT", "5800"),
		Env:            getEnv("APP_ENV", "development"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "storefront"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:      getEnv("JWT_SECRET", "fallback-dev-secret-change-in-production"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		SeedDemoData:   getBool("SEED_DEMO_DATA", true),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using default %s", key, defaultVal)
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
