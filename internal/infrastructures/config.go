package infrastructures

import (
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	DATABASE_URL      string
	REDIS_ADDRESS     string
	REDIS_PASSWORD    string
	JWT_SECRET        string
	JWT_ISSUER        string
	STORAGE_BACKEND   string // "local" or "gcs"
	STORAGE_LOCAL_DIR string
	GCS_BUCKET        string
	LISTEN_ADDRESS    string
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	Config = &AppConfig{
		DATABASE_URL:      os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:     os.Getenv("REDIS_ADDRESS"),
		REDIS_PASSWORD:    os.Getenv("REDIS_PASSWORD"),
		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		JWT_ISSUER:        getEnv("JWT_ISSUER", "recibo-identity"),
		STORAGE_BACKEND:   getEnv("STORAGE_BACKEND", "local"),
		STORAGE_LOCAL_DIR: getEnv("STORAGE_LOCAL_DIR", "./uploads"),
		GCS_BUCKET:        os.Getenv("GCS_BUCKET"),
		LISTEN_ADDRESS:    getEnv("LISTEN_ADDRESS", ":8080"),
	}

	return Config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
