package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the application configuration loaded from the environment.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	TokenExpiry    time.Duration
	RefreshExpiry  time.Duration
	AllowedOrigins []string
	LogLevel       string

	SubscriptionMatchSchedule     string
	ReminderSweepSchedule         string
	RecommendationRefreshSchedule string
	RecommendationWindow          time.Duration

	SMTP SMTPConfig
}

// SMTPConfig configures reminder e-mail delivery. Delivery is off when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     string
	Sender   string
	Password string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using process environment")
	}

	cfg := &Config{
		Port:                          getEnv("PORT", "8080"),
		MongoURI:                      os.Getenv("MONGO_URI"),
		DBName:                        getEnv("DB_NAME", "recipe_manager"),
		JWTSecret:                     os.Getenv("JWT_SECRET"),
		AllowedOrigins:                splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:                      getEnv("LOG_LEVEL", "info"),
		SubscriptionMatchSchedule:     getEnv("SUBSCRIPTION_MATCH_SCHEDULE", "@hourly"),
		ReminderSweepSchedule:         getEnv("REMINDER_SWEEP_SCHEDULE", "0 0 * * *"),
		RecommendationRefreshSchedule: getEnv("RECOMMENDATION_REFRESH_SCHEDULE", "0 0 * * *"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	var err error
	if cfg.TokenExpiry, err = getDuration("TOKEN_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshExpiry, err = getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RecommendationWindow, err = getDuration("RECOMMENDATION_WINDOW", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
