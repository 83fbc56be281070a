package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseDSN        string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	S3Region           string
	S3Bucket           string
	S3AccessKey        string
	S3SecretKey        string
	S3Endpoint         string
	CookieSecure       bool
}

// Load reads configuration from the environment (and .env if present).
// Both token secrets are mandatory and must be distinct so a refresh token
// can never verify as an access token.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("ACCESS_TOKEN_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 240 * time.Hour // 10 days
	if exp := os.Getenv("REFRESH_TOKEN_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=vidtube port=5432 sslmode=disable"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenExpiry:  accessExpiry,
		RefreshTokenExpiry: refreshExpiry,
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Bucket:           getEnv("S3_BUCKET", "vidtube-media"),
		S3AccessKey:        os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		CookieSecure:       getEnv("COOKIE_SECURE", "true") == "true",
	}

	if cfg.AccessTokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be distinct")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
