package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != defaultDataDir {
		t.Fatalf("got DataDir %q, want %q", cfg.DataDir, defaultDataDir)
	}
}

func TestLoadParsesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zentrydb.toml")
	if err := os.WriteFile(path, []byte(`data_dir = "/var/lib/zentrydb"`+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/var/lib/zentrydb" {
		t.Fatalf("got DataDir %q, want /var/lib/zentrydb", cfg.DataDir)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zentrydb.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed TOML")
	}
}
