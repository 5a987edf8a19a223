package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PolyPack/internal/model"
)

// DefaultConfigDir is ~/.polypack, or ./.polypack without a home directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".polypack")
}

// DefaultConfigPath returns the config file the desktop app reads on start.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig validates config and writes it to path through a temporary
// file, so a crash never leaves a truncated config behind.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadAppConfig reads the config at path. A missing file yields
// DefaultAppConfig. Unknown strategy and theme names fall back to their
// defaults; negative budgets, timeouts or worker counts are errors
// wrapping model.ErrInvalidConfig.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DefaultAppConfig(), nil
	}
	if err != nil {
		return model.AppConfig{}, err
	}

	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := model.ParseStrategy(string(config.DefaultStrategy)); err != nil || config.DefaultStrategy == "" {
		config.DefaultStrategy = model.StrategyCells
	}
	switch config.Theme {
	case "light", "dark", "system":
	default:
		config.Theme = "system"
	}
	config.RecentPuzzles = cleanRecent(config.RecentPuzzles)

	if err := config.Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// cleanRecent drops blank and repeated entries, keeping first occurrences.
func cleanRecent(paths []string) []string {
	kept := []string{}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		kept = append(kept, p)
	}
	return kept
}
