package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "bloomlab.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ExportDir != "exports" {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
	if cfg.BaselineDwell != 30*time.Second {
		t.Errorf("BaselineDwell = %v", cfg.BaselineDwell)
	}
	if cfg.MarkerAddr != "" {
		t.Errorf("MarkerAddr = %q, want empty default", cfg.MarkerAddr)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BLOOMLAB_DB_PATH", "/tmp/run.db")
	t.Setenv("BLOOMLAB_MARKER_ADDR", "127.0.0.1:5005")
	t.Setenv("BLOOMLAB_BASELINE_DWELL", "5s")
	t.Setenv("BLOOMLAB_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/run.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.MarkerAddr != "127.0.0.1:5005" {
		t.Errorf("MarkerAddr = %q", cfg.MarkerAddr)
	}
	if cfg.BaselineDwell != 5*time.Second {
		t.Errorf("BaselineDwell = %v", cfg.BaselineDwell)
	}
	if !cfg.Debug {
		t.Error("Debug not set")
	}
}

func TestLoadRejectsNonPositiveDwell(t *testing.T) {
	t.Setenv("BLOOMLAB_BASELINE_DWELL", "0s")
	if _, err := Load(); err == nil {
		t.Error("zero dwell accepted")
	}
}
