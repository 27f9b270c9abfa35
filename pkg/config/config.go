package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Extractor ExtractorConfig
	Converter ConverterConfig
	Session   SessionConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string // json or console
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int // bytes
}

type ExtractorConfig struct {
	Engine string // fitz or pure
}

type ConverterConfig struct {
	Workers  int
	MaxFiles int
}

type SessionConfig struct {
	TTL time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// current directory or one of its two parents is loaded first if present;
// variables already set in the environment win.
func Load() (*Config, error) {
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
			BodyLimit:    getEnvInt("SERVER_BODY_LIMIT_MB", 64) * 1024 * 1024,
		},
		Extractor: ExtractorConfig{
			Engine: strings.ToLower(getEnv("EXTRACTOR_ENGINE", "fitz")),
		},
		Converter: ConverterConfig{
			Workers:  getEnvInt("CONVERTER_WORKERS", 4),
			MaxFiles: getEnvInt("CONVERTER_MAX_FILES", 200),
		},
		Session: SessionConfig{
			TTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}

	switch cfg.Extractor.Engine {
	case "fitz", "pure":
	default:
		return nil, fmt.Errorf("invalid EXTRACTOR_ENGINE %q (supported: fitz, pure)", cfg.Extractor.Engine)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the positive integer in key, or defaultValue when the
// variable is unset or invalid.
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
