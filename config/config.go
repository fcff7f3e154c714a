package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
// It follows the 12-factor app methodology by prioritizing environment variables.
type Config struct {
	AppPort     string
	Environment string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	S3Region     string
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	S3PublicBase string
	S3PresignTTL time.Duration

	// Upper bound on a status/message write before it is reported as
	// a persistence failure.
	StoreWriteTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "gigmarket"),
		DBPassword: getEnv("DB_PASSWORD", "gigmarket"),
		DBName:     getEnv("DB_NAME", "gigmarket"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),

		S3Region:     getEnv("S3_REGION", ""),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		S3PublicBase: getEnv("S3_PUBLIC_BASE", ""),
		S3PresignTTL: getEnvAsDuration("S3_PRESIGN_TTL", 15*time.Minute),

		StoreWriteTimeout: getEnvAsDuration("STORE_WRITE_TIMEOUT", 5*time.Second),
	}
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
