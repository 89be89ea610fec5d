package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreNeo4j  = "neo4j"
	StoreSQLite = "sqlite"
)

type Config struct {
	Address     string
	HTTPAddress string
	Env         string

	StoreDriver string

	Neo4jURI  string
	Neo4jUser string
	Neo4jPass string

	SQLitePath string

	JWTSecret string
	TokenTTL  time.Duration

	RecommendationLimit int
}

// GetConfig reads the environment, loading a .env file first when one exists.
func GetConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Address:             getEnv("SOCIAL_GRPC_ADDRESS", getEnv("FOLLOWER_SERVICE_ADDRESS", ":50051")),
		HTTPAddress:         os.Getenv("SOCIAL_HTTP_ADDRESS"),
		Env:                 getEnv("ENV", "development"),
		StoreDriver:         getEnv("STORE_DRIVER", StoreSQLite),
		Neo4jURI:            firstNonEmpty(os.Getenv("NEO4J_DB"), os.Getenv("NEO4J_URI")),
		Neo4jUser:           firstNonEmpty(os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_USER")),
		Neo4jPass:           os.Getenv("NEO4J_PASS"),
		SQLitePath:          getEnv("SQLITE_PATH", "social.db"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            getEnvDuration("TOKEN_TTL", 24*time.Hour),
		RecommendationLimit: getEnvInt("RECOMMENDATION_LIMIT", 3),
	}
	if _, ok := os.LookupEnv("SOCIAL_HTTP_ADDRESS"); !ok {
		cfg.HTTPAddress = ":8080"
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		// dev fallback, never used in production (Validate rejects it)
		cfg.JWTSecret = "dev-secret"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreNeo4j:
		if c.Neo4jURI == "" {
			return fmt.Errorf("NEO4J_URI is required when STORE_DRIVER=%s", StoreNeo4j)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=%s", StoreSQLite)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.RecommendationLimit <= 0 {
		return fmt.Errorf("RECOMMENDATION_LIMIT must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
