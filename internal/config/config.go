package config

import "os"

// Config holds all runtime settings. Values come from the environment;
// main loads a .env file first via godotenv.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// SMTP settings for order notification emails. When SMTPHost is
	// empty the notification service falls back to a log-only sender.
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
}

func Load() Config {
	return Config{
		Addr:         getenv("SHOPEASE_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getenv("SMTP_FROM", "orders@shopease.example"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
