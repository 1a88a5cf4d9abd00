package config

import (
	"math"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "REFERENCE_PDF", "PARAM_SEPARATOR", "ALLOW_DIFF", "PDF_FALLBACK_PDFTOTEXT", "STATS_WINDOW"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.ReferencePath != "files/standard.pdf" {
		t.Errorf("expected default reference path, got %q", cfg.ReferencePath)
	}
	if cfg.Separator != ":" || cfg.AllowDiff != 0.5 {
		t.Errorf("expected ':' and 0.5, got %q and %v", cfg.Separator, cfg.AllowDiff)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback enabled by default")
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected 1h stats window, got %v", cfg.StatsWindow)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REFERENCE_PDF", "/srv/templates/ref.pdf")
	t.Setenv("PARAM_SEPARATOR", "=")
	t.Setenv("ALLOW_DIFF", "1.25")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")

	cfg := Load()
	if cfg.ReferencePath != "/srv/templates/ref.pdf" {
		t.Errorf("unexpected reference path %q", cfg.ReferencePath)
	}
	if cfg.Separator != "=" || cfg.AllowDiff != 1.25 {
		t.Errorf("unexpected separator/tolerance %q %v", cfg.Separator, cfg.AllowDiff)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected fallback disabled")
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("expected invalid upload limit to reset, got %d", cfg.MaxUploadBytes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"multi-char separator", func(c *Config) { c.Separator = "::" }},
		{"zero tolerance", func(c *Config) { c.AllowDiff = 0 }},
		{"NaN tolerance", func(c *Config) { c.AllowDiff = math.NaN() }},
		{"infinite tolerance", func(c *Config) { c.AllowDiff = math.Inf(1) }},
		{"NaN row tolerance", func(c *Config) { c.RowTolerance = math.NaN() }},
		{"no reference", func(c *Config) { c.ReferencePath = "" }},
		{"negative block gap", func(c *Config) { c.BlockGap = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PARAM_SEPARATOR", "")
			cfg := Load()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_NonFiniteFromEnv(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "+Inf"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("ALLOW_DIFF", v)
			if err := Load().Validate(); err == nil {
				t.Errorf("expected ALLOW_DIFF=%s to be rejected", v)
			}
		})
	}
}
