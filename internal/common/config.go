package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR    OCRConfig
	Batch  BatchConfig
	Rename RenameConfig
	Watch  WatchConfig
	Report ReportConfig
	Log    LogConfig

	TuningFile string
	Tuning     Tuning
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	PdftoppmBin  string
	TesseractBin string
	TessdataDir  string
	Language     string
	DPI          int
	WorkDir      string
	ExecTimeout  time.Duration
}

// BatchConfig holds worker pool configuration
type BatchConfig struct {
	Workers     int
	FileTimeout time.Duration // per document
}

// RenameConfig holds rename behaviour
type RenameConfig struct {
	DryRun       bool
	MaxAttempts  int
	RetryBackoff time.Duration
	MaxSuffix    int
}

// WatchConfig holds drop-folder configuration
type WatchConfig struct {
	Dir       string
	Debounce  time.Duration
	QueueSize int
}

// ReportConfig holds XLSX run report configuration
type ReportConfig struct {
	Path string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level slog.Level
}

// LoadConfig loads configuration from environment variables, then the
// tuning file named by RENAMER_TUNING_FILE (if any).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OCR: OCRConfig{
			PdftoppmBin:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TesseractBin: getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir:  getEnv("TESSDATA_PREFIX", ""),
			Language:     getEnv("OCR_LANG", "eng"),
			DPI:          getEnvAsInt("OCR_DPI", 300),
			WorkDir:      getEnv("OCR_WORK_DIR", ""),
			ExecTimeout:  getEnvAsDuration("OCR_EXEC_TIMEOUT", 0),
		},
		Batch: BatchConfig{
			Workers:     getEnvAsInt("RENAMER_WORKERS", 1),
			FileTimeout: getEnvAsDuration("RENAMER_FILE_TIMEOUT", 3*time.Minute),
		},
		Rename: RenameConfig{
			DryRun:       getEnvAsBool("RENAMER_DRY_RUN", false),
			MaxAttempts:  getEnvAsInt("RENAMER_RETRY_ATTEMPTS", 3),
			RetryBackoff: getEnvAsDuration("RENAMER_RETRY_BACKOFF", 100*time.Millisecond),
			MaxSuffix:    getEnvAsInt("RENAMER_MAX_SUFFIX", 1000),
		},
		Watch: WatchConfig{
			Dir:       getEnv("RENAMER_WATCH_DIR", ""),
			Debounce:  getEnvAsDuration("RENAMER_WATCH_DEBOUNCE", 750*time.Millisecond),
			QueueSize: getEnvAsInt("RENAMER_WATCH_QUEUE", 256),
		},
		Report: ReportConfig{
			Path: getEnv("RENAMER_REPORT", ""),
		},
		Log: LogConfig{
			Level: parseLevel(getEnv("LOG_LEVEL", "info")),
		},
		TuningFile: getEnv("RENAMER_TUNING_FILE", ""),
	}

	tuning, err := LoadTuning(cfg.TuningFile)
	if err != nil {
		return nil, err
	}
	cfg.Tuning = tuning
	return cfg, nil
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
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("OCR_DPI", c.OCR.DPI, Positive)
	v.Field("PDFTOPPM_BIN", c.OCR.PdftoppmBin, Required)
	v.Field("TESSERACT_BIN", c.OCR.TesseractBin, Required)
	v.Field("RENAMER_WORKERS", c.Batch.Workers, Positive)
	v.Field("RENAMER_WATCH_QUEUE", c.Watch.QueueSize, Positive)
	v.Field("RENAMER_RETRY_ATTEMPTS", c.Rename.MaxAttempts, Positive)
	v.Field("RENAMER_MAX_SUFFIX", c.Rename.MaxSuffix, Positive)
	c.Tuning.validate(v)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
