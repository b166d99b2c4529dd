package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, read once at startup and passed
// to the components that need it.
type Config struct {
	Env     string
	Port    string
	BaseURL string

	AWSRegion string
	S3Bucket  string

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	JWTSecret string

	SMTP struct {
		Host     string
		Port     string
		Username string
		Password string
		From     string
		FromName string
	}
}

// Load reads configuration from the environment, with a best-effort .env
// load for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}

	cfg := &Config{}

	cfg.Env = getEnvDefault("APP_ENV", "development")
	cfg.Port = getEnvDefault("PORT", "8080")
	cfg.BaseURL = getEnvDefault("BASE_URL", "http://localhost:"+cfg.Port)

	cfg.AWSRegion = getEnvDefault("AWS_REGION", "us-east-1")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")

	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	cfg.JWTSecret = getEnvDefault("JWT_SECRET", "dev-only-secret")

	cfg.SMTP.Host = os.Getenv("EMAIL_SERVER_HOST")
	cfg.SMTP.Port = getEnvDefault("EMAIL_SERVER_PORT", "587")
	cfg.SMTP.Username = os.Getenv("EMAIL_SERVER_USER")
	cfg.SMTP.Password = os.Getenv("EMAIL_SERVER_PASSWORD")
	cfg.SMTP.From = os.Getenv("EMAIL_FROM")
	cfg.SMTP.FromName = getEnvDefault("EMAIL_FROM_NAME", "kbob")

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
