package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by AppConfig.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default solver settings applied to new puzzles
	DefaultStrategy   Strategy      `json:"default_strategy"`
	DefaultNodeBudget int64         `json:"default_node_budget"`
	DefaultTimeout    time.Duration `json:"default_timeout"`
	DefaultWorkers    int           `json:"default_workers"`

	// Application preferences
	RecentPuzzles []string `json:"recent_puzzles"`
	Theme         string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultStrategy:   defaults.Strategy,
		DefaultNodeBudget: defaults.NodeBudget,
		DefaultTimeout:    defaults.Timeout,
		DefaultWorkers:    defaults.Workers,
		RecentPuzzles:     []string{},
		Theme:             "system",
	}
}

// Validate rejects defaults no search could run with.
func (c AppConfig) Validate() error {
	if _, err := ParseStrategy(string(c.DefaultStrategy)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.DefaultNodeBudget < 0 {
		return fmt.Errorf("%w: node budget %d is negative", ErrInvalidConfig, c.DefaultNodeBudget)
	}
	if c.DefaultTimeout < 0 {
		return fmt.Errorf("%w: timeout %s is negative", ErrInvalidConfig, c.DefaultTimeout)
	}
	if c.DefaultWorkers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.DefaultWorkers)
	}
	return nil
}

// ApplyToSettings copies the default values from AppConfig into s.
// New puzzles inherit the user's saved defaults this way.
func (c AppConfig) ApplyToSettings(s *SolveSettings) {
	if c.DefaultStrategy != "" {
		s.Strategy = c.DefaultStrategy
	}
	s.NodeBudget = c.DefaultNodeBudget
	s.Timeout = c.DefaultTimeout
	s.Workers = c.DefaultWorkers
}

// maxRecent bounds the recent puzzles list.
const maxRecent = 10

// AddRecent moves path to the front of the recent puzzles list.
func (c *AppConfig) AddRecent(path string) {
	kept := []string{path}
	for _, p := range c.RecentPuzzles {
		if p != path {
			kept = append(kept, p)
		}
	}
	if len(kept) > maxRecent {
		kept = kept[:maxRecent]
	}
	c.RecentPuzzles = kept
}
