// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	DB struct {
		Host         string
		Port         string
		User         string
		Password     string
		DBName       string
		SSLMode      string
		MaxOpenConns int
		MaxIdleConns int
		ConnLifetime time.Duration
	}
	Oracle struct {
		Provider string // "gemini" or "openai"
		APIKey   string
		Model    string
	}
	Vision struct {
		Region        string
		MinConfidence float64
	}
	Display struct {
		Enabled bool
		Host    string
		Port    int
	}
	ShutdownTimeout time.Duration
}

// Load loads the configuration
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Create a new viper instance
	v := viper.New()

	// Set the config name (without extension)
	v.SetConfigName("config")

	// Add supported config file types
	v.SetConfigType("yaml")
	v.SetConfigType("json")

	// Add paths where to look for the config file
	v.AddConfigPath(".")               // Look in current directory
	v.AddConfigPath("./config")        // Look in config subdirectory
	v.AddConfigPath("../config")       // Look in sibling config directory
	v.AddConfigPath("$HOME/.gachipet") // Look in home directory

	// Set default values
	v.SetDefault("ShutdownTimeout", 10*time.Second)
	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Oracle.Provider", "gemini")
	v.SetDefault("Oracle.Model", "gemini-2.5-flash")
	v.SetDefault("Vision.Region", "us-east-1")
	v.SetDefault("Vision.MinConfidence", 0.0)
	v.SetDefault("Display.Enabled", false)
	v.SetDefault("Display.Port", 5005)
	v.SetDefault("DB.MaxOpenConns", 20)
	v.SetDefault("DB.MaxIdleConns", 10)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)

	// Enable environment variables to override config values
	v.AutomaticEnv()

	// Try to read config file
	err := v.ReadInConfig()

	// If can't find config file, build config from environment variables
	if err != nil {
		cfg := &Config{}

		cfg.Server.Port = getEnvOr("SERVER_PORT", "5000")
		cfg.DB.Host = getEnvOr("DB_HOST", "localhost")
		cfg.DB.Port = getEnvOr("DB_PORT", "5432")
		cfg.DB.User = getEnvOr("DB_USER", "postgres")
		cfg.DB.Password = getEnvOr("DB_PASSWORD", "postgres")
		cfg.DB.DBName = getEnvOr("DB_NAME", "gachipet")
		cfg.DB.SSLMode = getEnvOr("DB_SSL_MODE", "disable")
		cfg.DB.MaxOpenConns = 20
		cfg.DB.MaxIdleConns = 10
		cfg.DB.ConnLifetime = 5 * time.Minute
		cfg.Oracle.Provider = getEnvOr("ORACLE_PROVIDER", "gemini")
		cfg.Oracle.APIKey = os.Getenv("ORACLE_API_KEY")
		if cfg.Oracle.APIKey == "" {
			cfg.Oracle.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		cfg.Oracle.Model = getEnvOr("ORACLE_MODEL", "gemini-2.5-flash")
		cfg.Vision.Region = getEnvOr("AWS_REGION", "us-east-1")
		cfg.Display.Enabled = os.Getenv("DISPLAY_HOST") != ""
		cfg.Display.Host = os.Getenv("DISPLAY_HOST")
		cfg.Display.Port = getEnvIntOr("DISPLAY_PORT", 5005)
		cfg.ShutdownTimeout = 10 * time.Second

		return cfg, nil
	}

	// Process any ${ENV_VAR} syntax in the config values
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			envValue := os.Getenv(envVar)
			if envValue != "" {
				v.Set(key, envValue)
			}
		}
	}

	// Unmarshal config to struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Helper function to get environment variable with default value
func getEnvOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOr(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
