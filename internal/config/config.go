package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the demo dashboard service.
type Config struct {
	DBURL      string
	RedisURL   string
	RedisQueue string

	HTTPAddr    string
	CORSOrigins []string
	AdminToken  string

	UploadDir    string
	ParserBin    string
	ParserScript string

	LogLevel string
}

// Load builds a Config from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBURL:        os.Getenv("DB_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		RedisQueue:   getEnv("REDIS_QUEUE", "demo_imports"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		AdminToken:   os.Getenv("ADMIN_TOKEN"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		ParserBin:    getEnv("PARSER_BIN", "python3"),
		ParserScript: os.Getenv("PARSER_SCRIPT"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DBURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}

// RequireRedis errors when the Redis connection settings are absent. The
// read-only commands run without a queue; serve and worker do not.
func (c *Config) RequireRedis() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	return nil
}

// RequireParser errors when the demo parser script is not configured.
func (c *Config) RequireParser() error {
	if c.ParserScript == "" {
		return fmt.Errorf("PARSER_SCRIPT is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
