package global

import (
	"context"
	"log"
	"os"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDefaultTimer() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func GetMongoURI() string {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI is not set in environment variables")
	}
	return mongoURI
}

func GetDatabaseName() string {
	dbName := GetEnvOrDefault("MONGODB_DATABASE", "storefront")
	return dbName
}

func GetJWTAccessSecret() string {
	return GetEnvOrDefault("JWT_ACCESS_SECRET", "default-access-secret")
}

func GetJWTRefreshSecret() string {
	return GetEnvOrDefault("JWT_REFRESH_SECRET", "default-refresh-secret")
}

// GetDurationOrDefault parses a duration from the environment, falling back
// to the default when unset or malformed.
func GetDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid duration %q for %s, using default %s", raw, key, defaultValue)
		return defaultValue
	}
	return d
}

func GetAccessTokenTTL() time.Duration {
	return GetDurationOrDefault("JWT_ACCESS_EXPIRY", 15*time.Minute)
}

func GetRefreshTokenTTL() time.Duration {
	return GetDurationOrDefault("JWT_REFRESH_EXPIRY", 7*24*time.Hour)
}
