package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/PolyPack/internal/model"
)

// DefaultLibraryPath returns the default file path for the shape library.
// This is located at ~/.polypack/library.json.
func DefaultLibraryPath() string {
	return filepath.Join(DefaultConfigDir(), "library.json")
}

// SaveLibrary writes the shape library to a JSON file.
func SaveLibrary(path string, lib model.ShapeLibrary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLibrary reads a shape library from a JSON file.
// If the file does not exist, returns an empty library.
func LoadLibrary(path string) (model.ShapeLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewShapeLibrary(), nil
		}
		return model.ShapeLibrary{}, err
	}
	var lib model.ShapeLibrary
	if err := json.Unmarshal(data, &lib); err != nil {
		return model.ShapeLibrary{}, err
	}
	if lib.Entries == nil {
		lib.Entries = []model.LibraryEntry{}
	}
	for i := range lib.Entries {
		normalizeCatalog(lib.Entries[i].Shapes)
	}
	return lib, nil
}

// MergeLibrary imports the entries of the library at path into existing.
// Entries whose ID is already present are skipped.
func MergeLibrary(path string, existing model.ShapeLibrary) (model.ShapeLibrary, error) {
	imported, err := LoadLibrary(path)
	if err != nil {
		return existing, err
	}

	ids := make(map[string]bool, len(existing.Entries))
	for _, e := range existing.Entries {
		ids[e.ID] = true
	}
	for _, e := range imported.Entries {
		if !ids[e.ID] {
			existing.Entries = append(existing.Entries, e)
			ids[e.ID] = true
		}
	}
	return existing, nil
}

// LoadDefaultLibrary loads the library from the default path.
func LoadDefaultLibrary() (model.ShapeLibrary, error) {
	return LoadLibrary(DefaultLibraryPath())
}

// SaveDefaultLibrary saves the library to the default path.
func SaveDefaultLibrary(lib model.ShapeLibrary) error {
	return SaveLibrary(DefaultLibraryPath(), lib)
}

// normalizeCatalog re-normalizes hand-edited shapes in place.
func normalizeCatalog(cat model.Catalog) {
	for i := range cat {
		cat[i].Shape = model.Normalize(cat[i].Shape)
	}
}
