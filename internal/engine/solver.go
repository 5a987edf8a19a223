package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PolyPack/internal/model"
)

// Solver evaluates regions against a shape catalog.
type Solver struct {
	Settings model.SolveSettings
	Logger   *log.Logger // optional; nil disables logging
}

func New(settings model.SolveSettings) *Solver {
	return &Solver{Settings: settings}
}

func (s *Solver) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// Packable reports whether every shape instance required by region fits
// into it at once. A search that hits its budget or deadline returns an
// error wrapping ErrSearchAborted.
func (s *Solver) Packable(ctx context.Context, region model.Region, cat model.Catalog) (bool, error) {
	res, err := s.Evaluate(ctx, region, cat)
	if err != nil {
		return false, err
	}
	return res.Packable(), nil
}

// Evaluate searches for a packing of region and returns the verdict with
// the layout found. The catalog is only read, so one catalog may be shared
// by concurrent evaluations.
//
// A region whose required cells exceed its area is rejected without
// searching. When the search is aborted the result carries
// model.VerdictAborted and the returned error wraps ErrSearchAborted.
func (s *Solver) Evaluate(ctx context.Context, region model.Region, cat model.Catalog) (model.RegionResult, error) {
	res := model.RegionResult{Region: region}
	if err := region.Validate(); err != nil {
		res.Verdict = model.VerdictNotPackable
		res.Error = err.Error()
		return res, err
	}

	start := time.Now()

	kinds, required := buildKinds(region, cat)
	if required > region.Area() {
		res.Verdict = model.VerdictNotPackable
		res.FastFail = true
		s.logf("region %s (%s): %d cells required, %d available, rejected", region.Label, region, required, region.Area())
		res.Elapsed = time.Since(start)
		return res, nil
	}

	if s.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Settings.Timeout)
		defer cancel()
	}

	grid := NewGrid(region.Width, region.Height)
	p := newPacker(ctx, grid, s.Settings.NodeBudget)

	var ok bool
	switch s.Settings.Strategy {
	case model.StrategyItems:
		items := expandItems(kinds)
		sortItems(items)
		ok = p.packItems(items)
	default:
		left := 0
		for _, k := range kinds {
			left += k.remaining
		}
		ok = p.packCells(kinds, 0, region.Area()-required, left, required)
	}

	res.Nodes = p.nodes
	res.Elapsed = time.Since(start)
	switch {
	case p.err != nil:
		res.Verdict = model.VerdictAborted
		res.Error = p.err.Error()
		s.logf("region %s (%s): aborted after %d nodes: %v", region.Label, region, p.nodes, p.err)
		return res, p.err
	case ok:
		res.Verdict = model.VerdictPackable
		res.Placements = append([]model.Placement(nil), p.placed...)
	default:
		res.Verdict = model.VerdictNotPackable
	}
	s.logf("region %s (%s): %s in %d nodes (%s)", region.Label, region, res.Verdict, res.Nodes, res.Elapsed)
	return res, nil
}

// buildKinds expands the orientation set of every referenced shape once
// and returns the groups largest first, plus the total cells required.
// Counts beyond the catalog and empty shapes are skipped: neither occupies
// any cell.
func buildKinds(region model.Region, cat model.Catalog) ([]*kind, int) {
	var kinds []*kind
	required := 0
	for i, n := range region.Counts {
		if n <= 0 {
			continue
		}
		shape, ok := cat.Shape(i)
		if !ok || shape.Size() == 0 {
			continue
		}
		kinds = append(kinds, &kind{
			shape:        i,
			orientations: model.Orientations(shape),
			size:         shape.Size(),
			remaining:    n,
		})
		required += n * shape.Size()
	}
	// Largest shapes first; they constrain the layout most.
	for i := 1; i < len(kinds); i++ {
		for j := i; j > 0 && kinds[j].size > kinds[j-1].size; j-- {
			kinds[j], kinds[j-1] = kinds[j-1], kinds[j]
		}
	}
	return kinds, required
}

// expandItems turns each kind into one work item per required instance.
func expandItems(kinds []*kind) []item {
	var items []item
	for _, k := range kinds {
		for n := 0; n < k.remaining; n++ {
			items = append(items, item{shape: k.shape, orientations: k.orientations, size: k.size})
		}
	}
	return items
}

// Solve evaluates every region of the puzzle. Regions are independent and
// run in parallel on up to Settings.Workers goroutines. Aborted regions are
// recorded in their result; Solve only fails on malformed regions or when
// ctx itself is done.
func (s *Solver) Solve(ctx context.Context, puzzle model.Puzzle) (model.PuzzleResult, error) {
	for i, r := range puzzle.Regions {
		if err := r.Validate(); err != nil {
			return model.PuzzleResult{}, fmt.Errorf("region %d (%s): %w", i+1, r.Label, err)
		}
	}

	workers := s.Settings.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]model.RegionResult, len(puzzle.Regions))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, r := range puzzle.Regions {
		g.Go(func() error {
			res, err := s.Evaluate(ctx, r, puzzle.Shapes)
			if err != nil && !errors.Is(err, ErrSearchAborted) {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PuzzleResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.PuzzleResult{Regions: results}, err
	}
	return model.PuzzleResult{Regions: results}, nil
}
