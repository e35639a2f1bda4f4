package storage

import (
	"path/filepath"
	"testing"
)

func TestResolveConfigOverridePath(t *testing.T) {
	cfg, err := resolveConfig("  /tmp/monthlens-custom.db ")
	if err != nil {
		t.Fatalf("resolveConfig() unexpected error: %v", err)
	}
	if cfg.Mode != ModePlain {
		t.Fatalf("cfg.Mode = %q, want %q", cfg.Mode, ModePlain)
	}
	if cfg.Path != "/tmp/monthlens-custom.db" {
		t.Fatalf("cfg.Path = %q, want %q", cfg.Path, "/tmp/monthlens-custom.db")
	}
}

func TestResolveConfigDefaultsToUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := resolveConfig("")
	if err != nil {
		t.Fatalf("resolveConfig() unexpected error: %v", err)
	}
	if filepath.Base(cfg.Path) != "monthlens.db" || filepath.Base(filepath.Dir(cfg.Path)) != "monthlens" {
		t.Fatalf("cfg.Path = %q, want .../monthlens/monthlens.db", cfg.Path)
	}
}
