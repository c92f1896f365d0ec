package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application.
// Missing credentials are never an error: each external integration is
// gated on its key and falls back to documented deterministic behavior.
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// News feed (NewsData.io)
	NewsDataAPIKey string

	// Language model (Groq, OpenAI-compatible endpoint)
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Image models (Hugging Face inference API)
	HuggingFaceAPIKey string

	// Crisis sweep schedule (cron expression, empty disables the sweep)
	CrisisSweepSchedule string

	// Alert notification channels
	AlertWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		NewsDataAPIKey: getEnv("NEWSDATA_API_KEY", ""),

		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),

		HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),

		CrisisSweepSchedule: getEnv("CRISIS_SWEEP_SCHEDULE", ""),

		AlertWebhookURL:   getEnv("ALERT_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	if cfg.NewsDataAPIKey == "" {
		logrus.Warn("NEWSDATA_API_KEY not set, news scanning will use canned fallback claims")
	}
	if cfg.GroqAPIKey == "" {
		logrus.Warn("GROQ_API_KEY not set, scoring will return UNVERIFIED")
	}
	if cfg.HuggingFaceAPIKey == "" {
		logrus.Warn("HUGGINGFACE_API_KEY not set, image analysis will use heuristic fallback")
	}
	if cfg.NotificationEmail != "" && (cfg.SMTPHost == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "") {
		logrus.Warn("NOTIFICATION_EMAIL set without complete SMTP configuration, email alerts disabled")
		cfg.NotificationEmail = ""
	}

	return cfg
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
