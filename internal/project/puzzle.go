// Package project persists puzzles, the shape library and application
// configuration as JSON files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PolyPack/internal/model"
)

// FileExtension is the extension of saved puzzle files.
const FileExtension = ".polypack"

// SavePuzzle writes the puzzle, including its last result if any, as JSON.
func SavePuzzle(path string, p model.Puzzle) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode puzzle: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write puzzle: %w", err)
	}
	return nil
}

// LoadPuzzle reads a puzzle saved by SavePuzzle. Shapes are re-normalized
// and missing settings fall back to the defaults.
func LoadPuzzle(path string) (model.Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Puzzle{}, fmt.Errorf("failed to read puzzle: %w", err)
	}

	p := model.Puzzle{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Puzzle{}, fmt.Errorf("failed to parse puzzle: %w", err)
	}

	if p.Shapes == nil {
		p.Shapes = model.Catalog{}
	}
	if p.Regions == nil {
		p.Regions = []model.Region{}
	}
	normalizeCatalog(p.Shapes)
	if _, err := model.ParseStrategy(string(p.Settings.Strategy)); err != nil {
		return model.Puzzle{}, fmt.Errorf("failed to parse puzzle: %w", err)
	}
	if p.Settings.Strategy == "" {
		p.Settings.Strategy = model.StrategyCells
	}
	return p, nil
}
