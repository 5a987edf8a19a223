package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/PolyPack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultStrategy = model.StrategyItems
	cfg.DefaultNodeBudget = 50000
	cfg.DefaultTimeout = 3 * time.Second
	cfg.Theme = "dark"
	cfg.RecentPuzzles = []string{"/tmp/a.polypack", "/tmp/b.polypack"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultStrategy != model.StrategyItems {
		t.Errorf("expected DefaultStrategy=items, got %s", loaded.DefaultStrategy)
	}
	if loaded.DefaultNodeBudget != 50000 {
		t.Errorf("expected DefaultNodeBudget=50000, got %d", loaded.DefaultNodeBudget)
	}
	if loaded.DefaultTimeout != 3*time.Second {
		t.Errorf("expected DefaultTimeout=3s, got %s", loaded.DefaultTimeout)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if len(loaded.RecentPuzzles) != 2 {
		t.Errorf("expected 2 recent puzzles, got %d", len(loaded.RecentPuzzles))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	if cfg.DefaultStrategy != model.StrategyCells {
		t.Errorf("expected default strategy cells, got %s", cfg.DefaultStrategy)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestLoadAppConfigUnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{"default_strategy":"random"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultStrategy != model.StrategyCells {
		t.Errorf("expected unknown strategy to fall back to cells, got %s", cfg.DefaultStrategy)
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentPuzzles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"theme":"light","recent_puzzles":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentPuzzles == nil {
		t.Error("RecentPuzzles should not be nil after loading")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".polypack" {
		t.Errorf("expected config under .polypack, got %s", path)
	}
}

func TestLoadAppConfigRejectsNegativeDefaults(t *testing.T) {
	cases := map[string]string{
		"budget":  `{"default_node_budget":-1}`,
		"workers": `{"default_workers":-4}`,
		"timeout": `{"default_timeout":-1000000}`,
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadAppConfig(path)
		if !errors.Is(err, model.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestSaveAppConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultWorkers = -1
	if err := SaveAppConfig(path, cfg); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config should not be written")
	}
}

func TestLoadAppConfigNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"theme":"neon","recent_puzzles":["a.polypack","","a.polypack","b.polypack"]}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected unknown theme to fall back to system, got %s", cfg.Theme)
	}
	want := []string{"a.polypack", "b.polypack"}
	if len(cfg.RecentPuzzles) != len(want) || cfg.RecentPuzzles[0] != want[0] || cfg.RecentPuzzles[1] != want[1] {
		t.Errorf("expected recent %v, got %v", want, cfg.RecentPuzzles)
	}
}

func TestSaveAppConfigLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary config file left behind")
	}
}
