package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInit_Defaults(t *testing.T) {
	var cfg Config
	if err := Init(&cfg); err != nil {
		t.Fatal(err)
	}
	want := Config{Format: "wiggle", Threads: 1, LogLevel: "info", LogFormat: "console"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults (-want +got):\n%s", diff)
	}
}

func TestInit_FromEnv(t *testing.T) {
	t.Setenv("GCWIG_WINDOW", "500")
	t.Setenv("GCWIG_SHIFT", "250")
	t.Setenv("GCWIG_OMIT_TAIL", "true")
	t.Setenv("GCWIG_FORMAT", "bigwig")
	var cfg Config
	if err := Init(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Window != 500 || cfg.Shift != 250 || !cfg.OmitTail || cfg.Format != "bigwig" {
		t.Fatalf("unexpected %+v", cfg)
	}
}

func TestInit_BadNumber(t *testing.T) {
	t.Setenv("GCWIG_WINDOW", "wide")
	var cfg Config
	if err := Init(&cfg); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gcwig.env")
	if err := os.WriteFile(p, []byte("GCWIG_THREADS=3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GCWIG_THREADS", "") // registered for cleanup; dotenv does not override set vars
	os.Unsetenv("GCWIG_THREADS")
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Threads != 3 {
		t.Fatalf("threads %d, want 3", cfg.Threads)
	}
}

func TestLoad_MissingNamedFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for a named dotenv file that does not exist")
	}
}
