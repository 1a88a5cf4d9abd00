package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
	"unicode/utf8"
)

type Config struct {
	Port string

	// Auth; empty disables it.
	APIKey string

	// Documents
	ReferencePath    string
	DefaultInputPath string

	// Parsing and comparison
	Separator string
	AllowDiff float64

	// Block grouping
	RowTolerance float64
	BlockGap     float64
	ColumnGap    float64

	// Upload limits
	MaxUploadBytes int64

	// Extraction stats window
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("LAYOUTCHECK_API_KEY"),

		ReferencePath:    envOr("REFERENCE_PDF", "files/standard.pdf"),
		DefaultInputPath: envOr("DEFAULT_INPUT_PDF", "files/standard.pdf"),

		Separator: envOr("PARAM_SEPARATOR", ":"),
		AllowDiff: envFloat("ALLOW_DIFF", 0.5),

		RowTolerance: envFloat("ROW_TOLERANCE", 2.0),
		BlockGap:     envFloat("BLOCK_GAP", 0.8),
		ColumnGap:    envFloat("COLUMN_GAP", 30),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("PARAM_SEPARATOR must be a single character, got %q", c.Separator)
	}
	if !positiveFinite(c.AllowDiff) {
		return fmt.Errorf("ALLOW_DIFF must be a positive finite number, got %v", c.AllowDiff)
	}
	if c.ReferencePath == "" {
		return fmt.Errorf("REFERENCE_PDF is required")
	}
	if !positiveFinite(c.RowTolerance) || !positiveFinite(c.BlockGap) || !positiveFinite(c.ColumnGap) {
		return fmt.Errorf("ROW_TOLERANCE, BLOCK_GAP and COLUMN_GAP must be positive")
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
