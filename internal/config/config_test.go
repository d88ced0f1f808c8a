package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DatasetsDir != "./datasets" || c.ListenAddr != "127.0.0.1:8501" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.DefaultRows != 5 || c.MaxRows != 0 || c.ChartWidth != 800 || c.ChartHeight != 480 {
		t.Fatalf("unexpected numeric defaults: %+v", c)
	}
	if c.LogLevel != "info" || len(c.SidebarFooter) != 1 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestSaveLoadRoundTripAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	c.DatasetsDir = "/data/ml"
	c.DefaultRows = 12
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DatasetsDir != "/data/ml" || got.DefaultRows != 12 {
		t.Fatalf("round trip lost values: %+v", got)
	}

	t.Setenv("MLEXPLORER_LISTEN_ADDR", "0.0.0.0:9000")
	got, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ListenAddr != "0.0.0.0:9000" {
		t.Fatalf("env override ignored: %s", got.ListenAddr)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("datasets_dir: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestLoadClampsDefaultRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_rows: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DefaultRows != 1 {
		t.Fatalf("default_rows = %d, want 1", c.DefaultRows)
	}
}
