package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Pipeline  PipelineConfig
	Journal   JournalConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Addr string
}

// InferenceConfig holds detection-model configuration
type InferenceConfig struct {
	URL         string
	Transport   string // "http" | "ws"
	Timeout     time.Duration
	Concurrent  bool // whether the model server tolerates concurrent calls
	TargetClass string
}

// PipelineConfig holds per-document pipeline configuration
type PipelineConfig struct {
	Workers         int
	DocumentTimeout time.Duration
	PDFDPI          int
	BinaryThreshold int
	Pdftoppm        string // binary name or absolute path; if empty -> "pdftoppm"
}

// JournalConfig holds the optional sqlite job journal configuration
type JournalConfig struct {
	DBPath string // empty disables journaling
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":" + getEnv("PORT", "8000"),
		},
		Inference: InferenceConfig{
			URL:         getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
			Transport:   getEnv("INFERENCE_TRANSPORT", "http"),
			Timeout:     getEnvAsDuration("INFERENCE_TIMEOUT", 60*time.Second),
			Concurrent:  getEnvAsBool("INFERENCE_CONCURRENT", false),
			TargetClass: getEnv("TARGET_CLASS", "door"),
		},
		Pipeline: PipelineConfig{
			Workers:         getEnvAsInt("PIPELINE_WORKERS", 4),
			DocumentTimeout: getEnvAsDuration("PIPELINE_TIMEOUT", 3*time.Minute),
			PDFDPI:          getEnvAsInt("PDF_DPI", 150),
			BinaryThreshold: getEnvAsInt("BINARY_THRESHOLD", 250),
			Pdftoppm:        getEnv("PDFTOPPM", "pdftoppm"),
		},
		Journal: JournalConfig{
			DBPath: getEnv("JOURNAL_DB_PATH", ""),
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

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Inference.URL == "" {
		return NewAppError("CONFIG_ERROR", "INFERENCE_URL is required", ErrInvalidInput)
	}
	if c.Inference.Transport != "http" && c.Inference.Transport != "ws" {
		return NewAppError("CONFIG_ERROR", "INFERENCE_TRANSPORT must be http or ws", ErrInvalidInput)
	}
	if c.Pipeline.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_WORKERS must be positive", ErrInvalidInput)
	}
	if c.Pipeline.BinaryThreshold < 0 || c.Pipeline.BinaryThreshold > 255 {
		return NewAppError("CONFIG_ERROR", "BINARY_THRESHOLD must be in 0..255", ErrInvalidInput)
	}
	return nil
}
