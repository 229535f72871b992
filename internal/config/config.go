// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every externally supplied setting. Table and index names
// are opaque strings; the application performs no discovery.
type Config struct {
	API struct {
		Host string `envconfig:"API_HOST" default:"0.0.0.0"`
		Port string `envconfig:"API_PORT" default:"8080"`
	}

	AWS struct {
		Region string `envconfig:"AWS_REGION" default:"us-east-1"`
		// DynamoDBEndpoint overrides the SDK endpoint for local DynamoDB.
		DynamoDBEndpoint string `envconfig:"AWS_DYNAMODB_ENDPOINT"`
	}

	DynamoDB struct {
		TableMessages       string `envconfig:"DYNAMODB_TABLE_MESSAGES" default:"messages"`
		IndexSenderMessages string `envconfig:"DYNAMODB_INDEX_SENDER_MESSAGES" default:"GSI_SenderMessages"`
		IndexCreatedAt      string `envconfig:"DYNAMODB_INDEX_CREATED_AT" default:"GSI_CreatedAt"`
	}

	Auth struct {
		// JWTSecret signs tokens directly; JWTSecretParam names an SSM
		// SecureString to load instead. Exactly one must be set.
		JWTSecret      string        `envconfig:"JWT_SECRET"`
		JWTSecretParam string        `envconfig:"JWT_SECRET_SSM_PARAM"`
		TokenTTL       time.Duration `envconfig:"JWT_TOKEN_TTL" default:"24h"`
	}
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return c.API.Host + ":" + c.API.Port
}
