package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	Log        LogConfig        `json:"log"`
	Validation ValidationConfig `json:"validation"`
	Workers    WorkersConfig    `json:"workers"`
	Export     ExportConfig     `json:"export"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ValidationConfig holds fiscal key validation configuration
type ValidationConfig struct {
	// StrictCheckDigit enables modulo-11 verification of the key check digit
	StrictCheckDigit bool `json:"strict_check_digit"`
}

// WorkersConfig holds batch worker pool configuration
type WorkersConfig struct {
	Count        int           `json:"count"`
	QueueSize    int           `json:"queue_size"`
	BatchTimeout time.Duration `json:"batch_timeout"`
}

// ExportConfig holds report export configuration
type ExportConfig struct {
	Dir string `json:"dir"`
}

// Load loads configuration from environment variables. The given env files
// are loaded first; without arguments a .env in the working directory is
// used when present. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Validation: ValidationConfig{
			StrictCheckDigit: getEnvAsBool("CHAVE_DV_ESTRITO", false),
		},
		Workers: WorkersConfig{
			Count:        getEnvAsInt("WORKERS_COUNT", 4),
			QueueSize:    getEnvAsInt("WORKERS_QUEUE_SIZE", 100),
			BatchTimeout: time.Duration(getEnvAsInt("BATCH_TIMEOUT", 120)) * time.Second,
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "."),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL inválido: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT inválido: %q (use json ou text)", c.Log.Format)
	}

	if c.Workers.Count < 1 {
		return fmt.Errorf("WORKERS_COUNT deve ser maior que zero, recebido %d", c.Workers.Count)
	}
	if c.Workers.QueueSize < 1 {
		return fmt.Errorf("WORKERS_QUEUE_SIZE deve ser maior que zero, recebido %d", c.Workers.QueueSize)
	}
	if c.Workers.BatchTimeout <= 0 {
		return errors.New("BATCH_TIMEOUT deve ser maior que zero")
	}
	if strings.TrimSpace(c.Export.Dir) == "" {
		return errors.New("EXPORT_DIR não pode ser vazio")
	}

	return nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("falha ao carregar %s: %w", strings.Join(files, ", "), err)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
