package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	PostgresURI     string
	RedisURI        string
	FrontendURL     string
	SecretKey       string
	CookieName      string
	XClientID       string
	XClientSecret   string
	XAPIBaseURL     string
	ShortLinkDomain string

	QueueName         string
	DeadLetterQueue   string
	WorkerConcurrency int
	MaxRetries        int
	RetryDelays       []time.Duration
	ScanInterval      time.Duration
	PublishTimeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:     getEnv("POSTGRES_URI", ""),
		RedisURI:        getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:       getEnv("SECRET_KEY", ""),
		CookieName:      getEnv("COOKIE_NAME", "linktraq_session"),
		XClientID:       getEnv("X_CLIENT_ID", ""),
		XClientSecret:   getEnv("X_CLIENT_SECRET", ""),
		XAPIBaseURL:     getEnv("X_API_BASE_URL", "https://api.twitter.com"),
		ShortLinkDomain: getEnv("SHORT_URL_DOMAIN", "https://go.linktraq.com"),

		QueueName:         getEnv("PUBLISH_QUEUE", "publish"),
		DeadLetterQueue:   getEnv("PUBLISH_DLQ", "publish_dead"),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 10),
		MaxRetries:        getEnvInt("PUBLISH_MAX_RETRIES", 3),
		RetryDelays: []time.Duration{
			5 * time.Minute,
			15 * time.Minute,
			60 * time.Minute,
		},
		ScanInterval:   getEnvDuration("SCAN_INTERVAL", time.Minute),
		PublishTimeout: getEnvDuration("PUBLISH_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
