package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"go-storefront/client"
)

// Config is the storefront runtime configuration
type Config struct {
	Port              string
	APIBaseURL        string
	HTTPTimeout       time.Duration
	JWTSecret         string
	MongoURI          string
	MongoDatabase     string
	EmailProvider     string
	PostmarkToken     string
	SendgridKey       string
	EmailSender       string
	AdminPasswordHash string
	LogLevel          string
	Env               string
}

// LoadConfig reads an optional .env file and then the environment.
// It reports whether a .env file was found.
func LoadConfig(files ...string) (Config, bool) {
	envFound := godotenv.Load(files...) == nil

	cfg := Config{
		Port:              getEnv("PORT", "8000"),
		APIBaseURL:        getEnv("API_BASE_URL", client.DefaultBaseURL),
		HTTPTimeout:       getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     getEnv("MONGO_DB", "storefront"),
		EmailProvider:     getEnv("EMAIL_PROVIDER", "log"),
		PostmarkToken:     os.Getenv("POSTMARK_API_TOKEN"),
		SendgridKey:       os.Getenv("SENDGRID_API_KEY"),
		EmailSender:       os.Getenv("EMAIL_SENDER"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Env:               getEnv("APP_ENV", "dev"),
	}
	return cfg, envFound
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvDuration accepts Go durations ("10s") or plain seconds ("10")
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
