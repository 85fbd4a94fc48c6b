// pkg/configs/redis_config.go
package configs

import (
	"os"
	"strconv"
)

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LoadRedisConfig reads the Redis settings from environment variables.
func LoadRedisConfig() *RedisConfig {
	db := 0
	if value := os.Getenv("REDIS_DB"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			db = parsed
		}
	}

	return &RedisConfig{
		Host:     envOr("REDIS_HOST", "localhost"),
		Port:     envOr("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}
