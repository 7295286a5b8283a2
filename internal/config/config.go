package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the runtime configuration loaded from the environment.
type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	JWTSecret     string
	GeminiAPIKey  string
	PushURL       string
	AllowedOrigin string
}

// LoadConfig reads configuration from a .env file (if present) and the
// environment. Missing optional values fall back to sensible defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "savepath"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		PushURL:       getEnv("PUSH_URL", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
