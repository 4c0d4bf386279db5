package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SMTPAddress   string
	SMTPHost      string
	FromEmail     string
	FromEmailPass string

	MerchantID      string
	SaltKey         string
	SaltIndex       string
	GatewayBaseURL  string
	PaymentRedirect string
	PaymentCallback string

	CORSOrigins []string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "bookstore"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),

		SMTPAddress:   getEnvOrDefault("SMTP_ADDRESS", "smtp.gmail.com:587"),
		SMTPHost:      getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		FromEmail:     getEnvOrDefault("FROM_EMAIL", ""),
		FromEmailPass: getEnvOrDefault("FROM_EMAIL_PASSWORD", ""),

		MerchantID:      getEnvOrDefault("PAYMENT_MERCHANT_ID", ""),
		SaltKey:         getEnvOrDefault("PAYMENT_SALT_KEY", ""),
		SaltIndex:       getEnvOrDefault("PAYMENT_SALT_INDEX", "1"),
		GatewayBaseURL:  getEnvOrDefault("PAYMENT_GATEWAY_URL", "https://api.phonepe.com/apis/hermes"),
		PaymentRedirect: getEnvOrDefault("PAYMENT_REDIRECT_URL", ""),
		PaymentCallback: getEnvOrDefault("PAYMENT_CALLBACK_URL", ""),

		CORSOrigins: getListEnv("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
