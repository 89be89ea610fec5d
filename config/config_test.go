package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Defaults(t *testing.T) {
	t.Setenv("SOCIAL_GRPC_ADDRESS", "")
	t.Setenv("FOLLOWER_SERVICE_ADDRESS", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("RECOMMENDATION_LIMIT", "")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, ":50051", cfg.Address)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 3, cfg.RecommendationLimit)
}

func TestGetConfig_LegacyAddressAndNeo4jNames(t *testing.T) {
	t.Setenv("SOCIAL_GRPC_ADDRESS", "")
	t.Setenv("FOLLOWER_SERVICE_ADDRESS", ":6000")
	t.Setenv("STORE_DRIVER", StoreNeo4j)
	t.Setenv("NEO4J_DB", "")
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_USERNAME", "")
	t.Setenv("NEO4J_USER", "neo4j")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Address)
	assert.Equal(t, "bolt://graph:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUser)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestGetConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORE_DRIVER", StoreSQLite)
	t.Setenv("JWT_SECRET", "")

	_, err := GetConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		StoreDriver:         StoreSQLite,
		SQLitePath:          "x.db",
		JWTSecret:           "k",
		TokenTTL:            time.Hour,
		RecommendationLimit: 3,
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }},
		{"neo4j without uri", func(c *Config) { c.StoreDriver = StoreNeo4j }},
		{"sqlite without path", func(c *Config) { c.SQLitePath = "" }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"zero limit", func(c *Config) { c.RecommendationLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
