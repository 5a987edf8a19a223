package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PolyPack/internal/model"
)

func TestSaveAndLoadPuzzle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzles", "presents"+FileExtension)

	p := model.NewPuzzle()
	p.Name = "Presents"
	p.Shapes = model.NewCatalog(
		model.ParseShape([]string{"###", "#..", "###"}),
		model.ParseShape([]string{"#.", "##"}),
	)
	p.Regions = []model.Region{
		model.NewRegion("", 4, 4, 0, 2),
		model.NewRegion("big", 12, 5, 1, 3),
	}
	p.Settings.Strategy = model.StrategyItems
	p.Settings.NodeBudget = 1000
	p.Result = &model.PuzzleResult{Regions: []model.RegionResult{
		{Region: p.Regions[0], Verdict: model.VerdictPackable, Nodes: 3},
		{Region: p.Regions[1], Verdict: model.VerdictAborted, Nodes: 1001},
	}}

	require.NoError(t, SavePuzzle(path, p))

	loaded, err := LoadPuzzle(path)
	require.NoError(t, err)

	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, "Presents", loaded.Name)
	require.Len(t, loaded.Shapes, 2)
	assert.True(t, loaded.Shapes[0].Shape.Key() == p.Shapes[0].Shape.Key())
	assert.Equal(t, p.Regions, loaded.Regions)
	assert.Equal(t, p.Settings, loaded.Settings)
	require.NotNil(t, loaded.Result)
	assert.Equal(t, 1, loaded.Result.PackableCount())
	assert.Equal(t, 1, loaded.Result.AbortedCount())
}

func TestLoadPuzzleDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal"+FileExtension)
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"minimal"}`), 0644))

	p, err := LoadPuzzle(path)
	require.NoError(t, err)
	assert.Equal(t, model.StrategyCells, p.Settings.Strategy)
	assert.NotNil(t, p.Shapes)
	assert.NotNil(t, p.Regions)
	assert.Nil(t, p.Result)
}

func TestLoadPuzzleUnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+FileExtension)
	require.NoError(t, os.WriteFile(path, []byte(`{"settings":{"strategy":"guess"}}`), 0644))

	_, err := LoadPuzzle(path)
	assert.Error(t, err)
}

func TestLoadPuzzleErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPuzzle(filepath.Join(dir, "missing"+FileExtension))
	assert.Error(t, err)

	path := filepath.Join(dir, "broken"+FileExtension)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = LoadPuzzle(path)
	assert.Error(t, err)
}
