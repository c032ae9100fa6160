package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr   string
	KafkaBroker string

	JWTSecret string

	StripeSecretKey     string
	StripeWebhookSecret string

	LLMAPIURL string
	LLMAPIKey string
	LLMModel  string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads the environment (optionally seeded from a .env file) into a
// Config. Secrets for the payment path are required; everything else falls
// back to local-dev defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	required := func(key string) (string, error) {
		v := os.Getenv(key)
		if v == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return v, nil
	}

	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      getEnv("DB_PASS", "postgres"),
		DBName:      getEnv("DB_NAME", "nodalwire"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: getEnv("KAFKA_BROKER", "kafka:9092"),
		LLMAPIURL:   getEnv("LLM_API_URL", "https://api.openai.com/v1"),
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),
		SMTPHost:    getEnv("SMTP_HOST", "localhost"),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		MailFrom:    getEnv("MAIL_FROM", "billing@nodalwire.com"),
		LLMAPIKey:   os.Getenv("LLM_API_KEY"),
	}

	var err error
	if cfg.JWTSecret, err = required("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.StripeSecretKey, err = required("STRIPE_SECRET_KEY"); err != nil {
		return nil, err
	}
	if cfg.StripeWebhookSecret, err = required("STRIPE_WEBHOOK_SECRET"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPass +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable TimeZone=UTC"
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
