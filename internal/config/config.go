package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          string
	VerifyToken   string
	WhatsAppToken string
	PhoneNumberID string
	APIVersion    string

	// Database. Driver is "sqlite" or "postgres"; DBPath applies to sqlite,
	// the remaining DB* fields to postgres.
	DBDriver   string
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	LogLevel  string
	LogPretty bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file loaded")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppToken: getEnv("WHATSAPP_API_TOKEN", ""),
		PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		APIVersion:    getEnv("WHATSAPP_API_VERSION", "v21.0"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "./console.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "whatsapp_console"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnv("LOG_PRETTY", "") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
