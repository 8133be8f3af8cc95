package common

import (
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Addr string
}

// LLMConfig holds inference-gateway configuration
type LLMConfig struct {
	URL      string
	Token    string
	UserCode string
	Model    string
	Timeout  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":" + getEnv("PORT", "5001"),
		},
		LLM: LLMConfig{
			URL:      getEnv("HK_API_URL", ""),
			Token:    getEnv("X_AI_TOKEN", ""),
			UserCode: getEnv("X_USER_CODE", ""),
			Model:    getEnv("LLM_MODEL", "Qwen3-32B"),
			Timeout:  getEnvAsDuration("LLM_TIMEOUT", 5*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.URL == "" {
		return NewAppError("CONFIG_ERROR", "HK_API_URL is required", ErrInvalidInput)
	}
	if c.LLM.Token == "" {
		return NewAppError("CONFIG_ERROR", "X_AI_TOKEN is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" || c.Server.Addr == ":" {
		return NewAppError("CONFIG_ERROR", "PORT is required", ErrInvalidInput)
	}
	return nil
}
