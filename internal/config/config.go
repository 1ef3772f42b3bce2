package config

import "os"

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	ServerPort    string
	StoreDriver   string
	StepSize      string
	PollActiveMS  string
	PollIdleMS    string
}

func Load() *Config {
	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "tugofwar"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		StoreDriver:   getEnv("STORE_DRIVER", "postgres"),
		StepSize:      getEnv("STEP_SIZE", "8"),
		PollActiveMS:  getEnv("POLL_ACTIVE_MS", "1000"),
		PollIdleMS:    getEnv("POLL_IDLE_MS", "3000"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
