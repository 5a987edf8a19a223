package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/piwi3910/PolyPack/internal/model"
)

// ErrSearchAborted is returned when a search stops on its node budget or
// its context before reaching a definite answer. It never means "no
// packing exists".
var ErrSearchAborted = errors.New("search aborted")

// checkInterval is how many nodes are visited between context checks.
const checkInterval = 1024

// item is one required shape instance with its precomputed orientations.
// Instances of the same shape share the orientation slice.
type item struct {
	shape        int
	orientations []model.Shape
	size         int
}

// kind groups the remaining instances of one shape for the cell strategy.
type kind struct {
	shape        int
	orientations []model.Shape
	size         int
	remaining    int
}

// choice records where an item was placed, for ordering identical items.
type choice struct {
	orientation int
	pos         int
}

// packer runs one backtracking search over a grid it exclusively owns.
type packer struct {
	ctx    context.Context
	grid   *Grid
	budget int64 // 0 = unlimited
	nodes  int64
	placed []model.Placement
	err    error
}

func newPacker(ctx context.Context, grid *Grid, budget int64) *packer {
	return &packer{ctx: ctx, grid: grid, budget: budget}
}

// visit counts a search node and reports whether the search may continue.
func (p *packer) visit() bool {
	if p.err != nil {
		return false
	}
	p.nodes++
	if p.budget > 0 && p.nodes > p.budget {
		p.err = fmt.Errorf("%w: node budget of %d exhausted", ErrSearchAborted, p.budget)
		return false
	}
	if p.nodes%checkInterval == 0 {
		select {
		case <-p.ctx.Done():
			p.err = fmt.Errorf("%w: %w", ErrSearchAborted, p.ctx.Err())
			return false
		default:
		}
	}
	return true
}

func (p *packer) push(shape, orientation int, o model.Shape, anchor model.Cell) {
	cells := make([]model.Cell, len(o))
	for i, off := range o {
		cells[i] = anchor.Add(off)
	}
	p.placed = append(p.placed, model.Placement{
		ShapeIndex:  shape,
		Orientation: orientation,
		Anchor:      anchor,
		Cells:       cells,
	})
}

func (p *packer) pop() {
	p.placed = p.placed[:len(p.placed)-1]
}

// sortItems orders work items largest first. Ties keep catalog order so
// instances of one shape stay adjacent.
func sortItems(items []item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].size != items[j].size {
			return items[i].size > items[j].size
		}
		return items[i].shape < items[j].shape
	})
}

// packItems places items in order, trying every orientation at every
// anchor in row-major order. items must already be sorted.
func (p *packer) packItems(items []item) bool {
	// suffix[i] = cells still needed by items[i:]
	suffix := make([]int, len(items)+1)
	for i := len(items) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + items[i].size
	}
	choices := make([]choice, len(items))
	return p.placeItem(items, 0, suffix, choices)
}

func (p *packer) placeItem(items []item, idx int, suffix []int, choices []choice) bool {
	if idx == len(items) {
		return true
	}
	if !p.visit() {
		return false
	}
	if p.grid.CountEmpty() < suffix[idx] {
		return false
	}

	it := items[idx]
	w, h := p.grid.Width(), p.grid.Height()

	// Identical instances are interchangeable: only try placements at or
	// after the previous instance's choice.
	start := choice{}
	if idx > 0 && items[idx-1].shape == it.shape {
		start = choices[idx-1]
	}

	for oi := start.orientation; oi < len(it.orientations); oi++ {
		o := it.orientations[oi]
		oh, ow := o.Bounds()
		first := 0
		if oi == start.orientation {
			first = start.pos
		}
		for pos := first; pos < w*h; pos++ {
			anchor := model.Cell{Row: pos / w, Col: pos % w}
			if anchor.Row+oh > h {
				break
			}
			if anchor.Col+ow > w {
				continue
			}
			if !p.grid.CanPlace(o, anchor) {
				continue
			}
			p.grid.Place(o, anchor)
			p.push(it.shape, oi, o, anchor)
			choices[idx] = choice{orientation: oi, pos: pos}

			if p.placeItem(items, idx+1, suffix, choices) {
				return true
			}

			p.pop()
			p.grid.Remove(o, anchor)
			if p.err != nil {
				return false
			}
		}
	}
	return false
}

// packCells decides grid cells in row-major order. The first undecided
// cell is either covered by a remaining shape, aligned so the shape's
// first cell lands on it, or left empty for good, which spends one unit
// of slack. from is the row-major index where undecided cells start; left
// is the number of instances still to place.
func (p *packer) packCells(kinds []*kind, from, slack, left, need int) bool {
	if left == 0 {
		return true
	}
	if !p.visit() {
		return false
	}
	if slack < 0 || p.grid.CountEmpty() < need {
		return false
	}

	i := p.grid.FirstEmptyFrom(from)
	if i < 0 {
		return false
	}
	target := p.grid.cellAt(i)

	for _, k := range kinds {
		if k.remaining == 0 {
			continue
		}
		for oi, o := range k.orientations {
			// o[0] is the orientation's first cell in row-major order
			anchor := model.Cell{Row: target.Row - o[0].Row, Col: target.Col - o[0].Col}
			if !p.grid.CanPlace(o, anchor) {
				continue
			}
			p.grid.Place(o, anchor)
			p.push(k.shape, oi, o, anchor)
			k.remaining--

			if p.packCells(kinds, i+1, slack, left-1, need-k.size) {
				return true
			}

			k.remaining++
			p.pop()
			p.grid.Remove(o, anchor)
			if p.err != nil {
				return false
			}
		}
	}

	if slack > 0 {
		return p.packCells(kinds, i+1, slack-1, left, need)
	}
	return false
}
