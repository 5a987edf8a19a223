package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PolyPack/internal/model"
)

// presentCatalog is six heptomino-sized presents on 3x3 footprints.
func presentCatalog() model.Catalog {
	return model.NewCatalog(
		model.ParseShape([]string{"###", "##.", "##."}),
		model.ParseShape([]string{"###", "##.", ".##"}),
		model.ParseShape([]string{".##", "###", "##."}),
		model.ParseShape([]string{"##.", "###", "##."}),
		model.ParseShape([]string{"###", "#..", "###"}),
		model.ParseShape([]string{"###", ".#.", "###"}),
	)
}

// smallCatalog holds the shapes used by the strategy agreement table.
var smallCatalog = model.NewCatalog(
	model.ParseShape([]string{"##"}),               // 0 domino
	model.ParseShape([]string{"#.", "##"}),         // 1 L-tromino
	model.ParseShape([]string{"###", ".#."}),       // 2 T-tetromino
	model.ParseShape([]string{"##", "##"}),         // 3 square
	model.ParseShape([]string{".#.", "###", ".#."}), // 4 plus
	model.ParseShape([]string{"#"}),                // 5 monomino
	model.ParseShape([]string{"#.", "#.", "##"}),   // 6 L-tetromino
	model.ParseShape([]string{".##", "##."}),       // 7 S-tetromino
	model.ParseShape([]string{"####"}),             // 8 I-tetromino
)

func settingsFor(strategy model.Strategy) model.SolveSettings {
	s := model.DefaultSettings()
	s.Strategy = strategy
	return s
}

var strategies = []model.Strategy{model.StrategyCells, model.StrategyItems}

// assertValidPacking checks that the placements of a packable result are
// legal orientations, inside the region, disjoint, and match the counts.
func assertValidPacking(t *testing.T, res model.RegionResult, cat model.Catalog) {
	t.Helper()
	require.True(t, res.Packable())

	seen := make(map[model.Cell]bool)
	used := make(map[int]int)
	for _, p := range res.Placements {
		shape, ok := cat.Shape(p.ShapeIndex)
		require.True(t, ok)
		orients := model.Orientations(shape)
		require.Less(t, p.Orientation, len(orients))

		o := orients[p.Orientation]
		require.Len(t, p.Cells, o.Size())
		for i, off := range o {
			c := p.Anchor.Add(off)
			assert.Equal(t, c, p.Cells[i])
			assert.True(t, c.Row >= 0 && c.Row < res.Region.Height && c.Col >= 0 && c.Col < res.Region.Width,
				"cell %v outside %s", c, res.Region)
			assert.False(t, seen[c], "cell %v covered twice", c)
			seen[c] = true
		}
		used[p.ShapeIndex]++
	}

	for i, n := range res.Region.Counts {
		if _, ok := cat.Shape(i); ok && n > 0 {
			assert.Equal(t, n, used[i], "instances of shape %d", i)
		}
	}
}

func TestEvaluate_TwoTetrominoesInFourByFour(t *testing.T) {
	ell := model.ParseShape([]string{"#.", "#.", "##"})
	cat := model.NewCatalog(ell)
	region := model.NewRegion("", 4, 4, 2)

	for _, st := range strategies {
		t.Run(string(st), func(t *testing.T) {
			res, err := New(settingsFor(st)).Evaluate(context.Background(), region, cat)
			require.NoError(t, err)
			assert.Equal(t, model.VerdictPackable, res.Verdict)
			assert.Len(t, res.Placements, 2)
			assertValidPacking(t, res, cat)
			assert.Equal(t, 8, res.UsedCells())
		})
	}
}

func TestEvaluate_FastFailOnCellCount(t *testing.T) {
	cat := presentCatalog()
	region := model.NewRegion("", 3, 3, 0, 0, 0, 0, 0, 2)

	for _, st := range strategies {
		t.Run(string(st), func(t *testing.T) {
			res, err := New(settingsFor(st)).Evaluate(context.Background(), region, cat)
			require.NoError(t, err)
			assert.Equal(t, model.VerdictNotPackable, res.Verdict)
			assert.True(t, res.FastFail)
			assert.Equal(t, int64(0), res.Nodes, "no search node should be visited")
		})
	}
}

func TestEvaluate_NothingRequired(t *testing.T) {
	cat := presentCatalog()

	for _, st := range strategies {
		res, err := New(settingsFor(st)).Evaluate(context.Background(), model.NewRegion("", 2, 2), cat)
		require.NoError(t, err)
		assert.True(t, res.Packable())
		assert.Empty(t, res.Placements)
	}
}

func TestEvaluate_CountsBeyondCatalogIgnored(t *testing.T) {
	cat := model.NewCatalog(model.ParseShape([]string{"##"}))
	region := model.NewRegion("", 2, 1, 1, 5, 7)

	res, err := New(model.DefaultSettings()).Evaluate(context.Background(), region, cat)
	require.NoError(t, err)
	assert.True(t, res.Packable())
	assert.Len(t, res.Placements, 1)
}

func TestEvaluate_EmptyShapeNeedsNoCells(t *testing.T) {
	cat := model.NewCatalog(model.Normalize(nil), model.ParseShape([]string{"#"}))
	region := model.NewRegion("", 1, 1, 3, 1)

	for _, st := range strategies {
		res, err := New(settingsFor(st)).Evaluate(context.Background(), region, cat)
		require.NoError(t, err)
		assert.True(t, res.Packable(), string(st))
		assert.Len(t, res.Placements, 1)
	}
}

func TestEvaluate_InvalidRegion(t *testing.T) {
	cat := presentCatalog()

	_, err := New(model.DefaultSettings()).Evaluate(context.Background(), model.NewRegion("", 0, 4), cat)
	assert.ErrorIs(t, err, model.ErrInvalidRegion)

	_, err = New(model.DefaultSettings()).Evaluate(context.Background(), model.NewRegion("", 4, 4, 1, -1), cat)
	assert.ErrorIs(t, err, model.ErrInvalidRegion)

	// Rejected before any grid is allocated.
	_, err = New(model.DefaultSettings()).Evaluate(context.Background(), model.NewRegion("", 65536, 65536), cat)
	assert.ErrorIs(t, err, model.ErrInvalidRegion)
}

func TestEvaluate_StrategiesAgree(t *testing.T) {
	tests := []struct {
		w, h   int
		counts []int
		want   bool
	}{
		{3, 2, []int{0, 2}, true},
		{3, 3, []int{0, 3}, false},
		{4, 4, []int{0, 0, 4}, true},
		{3, 3, []int{0, 0, 0, 2}, false},
		{3, 3, []int{0, 0, 0, 0, 1, 4}, true},
		{5, 1, []int{2}, true},
		{4, 4, []int{0, 0, 0, 0, 0, 0, 4}, true},
		{4, 4, []int{0, 0, 0, 0, 0, 0, 0, 4}, false},
		{4, 2, []int{0, 0, 0, 0, 0, 0, 0, 2}, false},
		{5, 5, []int{0, 0, 0, 0, 1, 0, 0, 0, 2}, true},
		{4, 4, []int{0, 0, 0, 4}, true},
		{6, 2, []int{0, 0, 0, 0, 0, 0, 3}, false},
	}

	for _, tt := range tests {
		region := model.NewRegion("", tt.w, tt.h, tt.counts...)
		for _, st := range strategies {
			t.Run(fmt.Sprintf("%s %v %s", region, tt.counts, st), func(t *testing.T) {
				res, err := New(settingsFor(st)).Evaluate(context.Background(), region, smallCatalog)
				require.NoError(t, err)
				assert.Equal(t, tt.want, res.Packable())
				assert.False(t, res.FastFail)
				if tt.want {
					assertValidPacking(t, res, smallCatalog)
				} else {
					assert.Empty(t, res.Placements)
				}
			})
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	cat := presentCatalog()
	region := model.NewRegion("", 12, 5, 1, 0, 1, 0, 2, 2)

	for _, st := range strategies {
		solver := New(settingsFor(st))
		first, err := solver.Evaluate(context.Background(), region, cat)
		require.NoError(t, err)
		second, err := solver.Evaluate(context.Background(), region, cat)
		require.NoError(t, err)

		assert.Equal(t, first.Placements, second.Placements)
		assert.Equal(t, first.Nodes, second.Nodes)
	}
}

func TestEvaluate_NodeBudgetAborts(t *testing.T) {
	cat := presentCatalog()
	region := model.NewRegion("", 12, 5, 1, 0, 1, 0, 3, 2)

	settings := settingsFor(model.StrategyItems)
	settings.NodeBudget = 10000

	res, err := New(settings).Evaluate(context.Background(), region, cat)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchAborted))
	assert.Equal(t, model.VerdictAborted, res.Verdict)
	assert.False(t, res.Packable())
	assert.Equal(t, int64(10001), res.Nodes)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Placements)

	_, err = New(settings).Packable(context.Background(), region, cat)
	assert.ErrorIs(t, err, ErrSearchAborted)
}

func TestEvaluate_CanceledContextAborts(t *testing.T) {
	cat := presentCatalog()
	region := model.NewRegion("", 12, 5, 1, 0, 1, 0, 3, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(settingsFor(model.StrategyItems)).Evaluate(ctx, region, cat)
	assert.ErrorIs(t, err, ErrSearchAborted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.VerdictAborted, res.Verdict)
	assert.Equal(t, int64(checkInterval), res.Nodes)
}

func TestEvaluate_TimeoutAborts(t *testing.T) {
	cat := presentCatalog()
	region := model.NewRegion("", 12, 5, 1, 0, 1, 0, 3, 2)

	settings := settingsFor(model.StrategyItems)
	settings.Timeout = time.Millisecond

	res, err := New(settings).Evaluate(context.Background(), region, cat)
	assert.ErrorIs(t, err, ErrSearchAborted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.VerdictAborted, res.Verdict)
	assert.Empty(t, res.Placements)
}

func TestEvaluate_Logs(t *testing.T) {
	var buf bytes.Buffer
	solver := New(model.DefaultSettings())
	solver.Logger = log.New(&buf, "", 0)

	_, err := solver.Evaluate(context.Background(), model.NewRegion("tiny", 2, 1, 1), model.NewCatalog(model.ParseShape([]string{"##"})))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "region tiny (2x1): packable")
}

func TestPackable_PresentRegions(t *testing.T) {
	cat := presentCatalog()
	solver := New(model.DefaultSettings())

	ok, err := solver.Packable(context.Background(), model.NewRegion("", 4, 4, 0, 0, 0, 0, 2, 0), cat)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = solver.Packable(context.Background(), model.NewRegion("", 12, 5, 1, 0, 1, 0, 2, 2), cat)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = solver.Packable(context.Background(), model.NewRegion("", 12, 5, 1, 0, 1, 0, 3, 2), cat)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSolve_PresentPuzzle(t *testing.T) {
	puzzle := model.NewPuzzle()
	puzzle.Shapes = presentCatalog()
	puzzle.Regions = []model.Region{
		model.NewRegion("first", 4, 4, 0, 0, 0, 0, 2, 0),
		model.NewRegion("second", 12, 5, 1, 0, 1, 0, 2, 2),
		model.NewRegion("third", 12, 5, 1, 0, 1, 0, 3, 2),
	}

	settings := model.DefaultSettings()
	settings.Workers = 2
	result, err := New(settings).Solve(context.Background(), puzzle)
	require.NoError(t, err)

	require.Len(t, result.Regions, 3)
	assert.Equal(t, 2, result.PackableCount())
	assert.Equal(t, 0, result.AbortedCount())
	for i, label := range []string{"first", "second", "third"} {
		assert.Equal(t, label, result.Regions[i].Region.Label, "results keep input order")
	}
	assert.True(t, result.Regions[0].Packable())
	assert.True(t, result.Regions[1].Packable())
	assert.False(t, result.Regions[2].Packable())
	assertValidPacking(t, result.Regions[1], puzzle.Shapes)
}

func TestSolve_AbortedRegionIsRecorded(t *testing.T) {
	puzzle := model.NewPuzzle()
	puzzle.Shapes = presentCatalog()
	puzzle.Regions = []model.Region{
		model.NewRegion("", 4, 4, 0, 0, 0, 0, 2, 0),
		model.NewRegion("", 12, 5, 1, 0, 1, 0, 3, 2),
	}

	settings := settingsFor(model.StrategyItems)
	settings.NodeBudget = 10000
	result, err := New(settings).Solve(context.Background(), puzzle)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PackableCount())
	assert.Equal(t, 1, result.AbortedCount())
	assert.Equal(t, model.VerdictAborted, result.Regions[1].Verdict)
}

func TestSolve_InvalidRegionFails(t *testing.T) {
	puzzle := model.NewPuzzle()
	puzzle.Shapes = presentCatalog()
	puzzle.Regions = []model.Region{
		model.NewRegion("", 4, 4),
		model.NewRegion("broken", -1, 4),
	}

	_, err := New(model.DefaultSettings()).Solve(context.Background(), puzzle)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidRegion)
	assert.Contains(t, err.Error(), "region 2 (broken)")
}

func TestSolve_EmptyPuzzle(t *testing.T) {
	result, err := New(model.DefaultSettings()).Solve(context.Background(), model.NewPuzzle())
	require.NoError(t, err)
	assert.Empty(t, result.Regions)
	assert.Equal(t, 0, result.PackableCount())
}
