package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PolyPack/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, model.StrategyItems, scenarios[1].Settings.Strategy)
	assert.Equal(t, 1, scenarios[2].Settings.Workers)

	single := model.DefaultSettings()
	single.Strategy = model.StrategyItems
	single.Workers = 1
	scenarios = BuildDefaultScenarios(single)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "Cell Strategy", scenarios[1].Name)
	assert.Equal(t, model.StrategyCells, scenarios[1].Settings.Strategy)
}

func TestCompareScenarios(t *testing.T) {
	puzzle := model.NewPuzzle()
	puzzle.Shapes = smallCatalog
	puzzle.Regions = []model.Region{
		model.NewRegion("", 4, 4, 0, 0, 4),
		model.NewRegion("", 3, 3, 0, 3),
		model.NewRegion("", 2, 2, 0, 0, 2),
	}

	results, err := CompareScenarios(context.Background(), BuildDefaultScenarios(model.DefaultSettings()), puzzle)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.Equal(t, 1, r.PackableCount, r.Scenario.Name)
		assert.Equal(t, 0, r.AbortedCount)
		assert.Positive(t, r.Nodes)
	}
	assert.True(t, VerdictsAgree(results))
}

func TestCompareScenarios_InvalidRegion(t *testing.T) {
	puzzle := model.NewPuzzle()
	puzzle.Regions = []model.Region{model.NewRegion("", 0, 0)}

	_, err := CompareScenarios(context.Background(), BuildDefaultScenarios(model.DefaultSettings()), puzzle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "Current Settings"`)
}

func TestVerdictsAgree(t *testing.T) {
	result := func(verdicts ...model.Verdict) ComparisonResult {
		var pr model.PuzzleResult
		for _, v := range verdicts {
			pr.Regions = append(pr.Regions, model.RegionResult{Verdict: v})
		}
		return ComparisonResult{Result: pr}
	}

	assert.True(t, VerdictsAgree(nil))
	assert.True(t, VerdictsAgree([]ComparisonResult{
		result(model.VerdictPackable, model.VerdictNotPackable),
		result(model.VerdictPackable, model.VerdictAborted),
	}), "aborted regions carry no verdict")
	assert.False(t, VerdictsAgree([]ComparisonResult{
		result(model.VerdictPackable),
		result(model.VerdictNotPackable),
	}))
	assert.False(t, VerdictsAgree([]ComparisonResult{
		result(model.VerdictPackable),
		result(model.VerdictPackable, model.VerdictPackable),
	}))
}
