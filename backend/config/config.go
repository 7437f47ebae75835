package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	JWTSecret  string
	ServerPort string
	LogMode    string

	// Dwell time before a text or video lesson may be marked complete.
	EngagementGate time.Duration

	SessionStore string // memory, redis
	RedisAddr    string
	SessionTTL   time.Duration

	// Wrap the completion write and the progress recompute in one transaction.
	ProgressAtomic bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "learning_platform"),
		DBPath:         getEnv("DB_PATH", "coursetrack.db"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogMode:        getEnv("LOG_MODE", "development"),
		EngagementGate: time.Duration(getEnvInt("ENGAGEMENT_GATE_MS", 3000)) * time.Millisecond,
		SessionStore:   strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
		ProgressAtomic: getEnvBool("PROGRESS_ATOMIC", false),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil || intValue < 0 {
		log.Printf("Invalid integer in %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean in %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}
