package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/piwi3910/PolyPack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.SolveSettings
}

// ComparisonResult holds the solve result and summary statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PuzzleResult
	PackableCount int
	AbortedCount  int
	Nodes         int64
	Elapsed       time.Duration
}

// CompareScenarios solves the puzzle once per scenario and returns the
// results in scenario order.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, puzzle model.Puzzle) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		start := time.Now()
		result, err := New(scenario.Settings).Solve(ctx, puzzle)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			PackableCount: result.PackableCount(),
			AbortedCount:  result.AbortedCount(),
			Nodes:         result.TotalNodes(),
			Elapsed:       time.Since(start),
		})
	}

	return results, nil
}

// VerdictsAgree reports whether every scenario reached the same verdict for
// every region. Aborted regions carry no verdict and are skipped.
func VerdictsAgree(results []ComparisonResult) bool {
	if len(results) == 0 {
		return true
	}
	n := len(results[0].Result.Regions)
	for _, r := range results[1:] {
		if len(r.Result.Regions) != n {
			return false
		}
	}
	for i := 0; i < n; i++ {
		var want model.Verdict
		for _, r := range results {
			v := r.Result.Regions[i].Verdict
			if v == model.VerdictAborted {
				continue
			}
			if want == "" {
				want = v
			} else if v != want {
				return false
			}
		}
	}
	return true
}

// BuildDefaultScenarios generates comparison scenarios from the current
// settings, varying the search strategy.
func BuildDefaultScenarios(baseSettings model.SolveSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: try the other strategy
	alt := baseSettings
	if baseSettings.Strategy == model.StrategyItems {
		alt.Strategy = model.StrategyCells
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Cell Strategy",
			Settings: alt,
		})
	} else {
		alt.Strategy = model.StrategyItems
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Item Strategy",
			Settings: alt,
		})
	}

	// Scenario: sequential evaluation
	if baseSettings.Workers != 1 {
		single := baseSettings
		single.Workers = 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Single Worker",
			Settings: single,
		})
	}

	return scenarios
}
