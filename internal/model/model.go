package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRegion is returned by Region.Validate for impossible regions.
var ErrInvalidRegion = errors.New("invalid region")

// ShapeDef is one entry of a shape catalog.
type ShapeDef struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Label string `json:"label"`
	Shape Shape  `json:"cells"`
}

func NewShapeDef(index int, label string, s Shape) ShapeDef {
	if label == "" {
		label = fmt.Sprintf("Shape %d", index)
	}
	return ShapeDef{
		ID:    uuid.New().String()[:8],
		Index: index,
		Label: label,
		Shape: s,
	}
}

// Catalog is the ordered list of shapes a puzzle refers to by index.
type Catalog []ShapeDef

// NewCatalog builds a catalog with default labels from plain shapes.
func NewCatalog(shapes ...Shape) Catalog {
	cat := make(Catalog, len(shapes))
	for i, s := range shapes {
		cat[i] = NewShapeDef(i, "", s)
	}
	return cat
}

// Shape returns the shape at catalog index i. Out-of-range indexes report
// false.
func (c Catalog) Shape(i int) (Shape, bool) {
	if i < 0 || i >= len(c) {
		return nil, false
	}
	return c[i].Shape, true
}

// Region is a fixed-size grid plus the number of instances required of
// each catalog shape. Counts[i] refers to catalog index i; entries past the
// end of the catalog are ignored.
type Region struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Counts []int  `json:"counts"`
}

func NewRegion(label string, w, h int, counts ...int) Region {
	if label == "" {
		label = fmt.Sprintf("%dx%d", w, h)
	}
	return Region{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
		Counts: append([]int(nil), counts...),
	}
}

// Area returns the number of cells in the region.
func (r Region) Area() int {
	return r.Width * r.Height
}

// RequiredCells sums the cells of every required shape instance that
// exists in the catalog.
func (r Region) RequiredCells(cat Catalog) int {
	total := 0
	for i, n := range r.Counts {
		if s, ok := cat.Shape(i); ok && n > 0 {
			total += n * s.Size()
		}
	}
	return total
}

// Pieces returns the number of shape instances required from the catalog.
func (r Region) Pieces(cat Catalog) int {
	total := 0
	for i, n := range r.Counts {
		if i < len(cat) && n > 0 {
			total += n
		}
	}
	return total
}

// MaxRegionCells bounds the area of a region the solver accepts.
const MaxRegionCells = 1 << 24

// Validate checks dimensions and counts.
func (r Region) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidRegion, r.Width, r.Height)
	}
	if r.Width > MaxRegionCells/r.Height {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d cells", ErrInvalidRegion, r.Width, r.Height, MaxRegionCells)
	}
	for i, n := range r.Counts {
		if n < 0 {
			return fmt.Errorf("%w: count %d for shape %d is negative", ErrInvalidRegion, n, i)
		}
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Strategy selects the search order used by the packer.
type Strategy string

const (
	StrategyCells Strategy = "cells" // Cover the first undecided cell (fast)
	StrategyItems Strategy = "items" // Place work items largest first over every anchor
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyCells, StrategyItems:
		return Strategy(s), nil
	case "":
		return StrategyCells, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, StrategyCells, StrategyItems)
	}
}

// SolveSettings holds search configuration.
type SolveSettings struct {
	Strategy   Strategy      `json:"strategy"`    // Search order
	NodeBudget int64         `json:"node_budget"` // Max search nodes per region, 0 = unlimited
	Timeout    time.Duration `json:"timeout"`     // Per-region deadline, 0 = none
	Workers    int           `json:"workers"`     // Regions evaluated in parallel, 0 = GOMAXPROCS
}

func DefaultSettings() SolveSettings {
	return SolveSettings{
		Strategy:   StrategyCells,
		NodeBudget: 0,
		Timeout:    0,
		Workers:    0,
	}
}

// Verdict is the outcome of evaluating one region.
type Verdict string

const (
	VerdictPackable    Verdict = "packable"
	VerdictNotPackable Verdict = "not_packable"
	VerdictAborted     Verdict = "aborted" // Budget or deadline hit before a definite answer
)

// Placement is one shape instance fixed on the region grid.
type Placement struct {
	ShapeIndex  int    `json:"shape"`
	Orientation int    `json:"orientation"` // Index into Orientations(shape)
	Anchor      Cell   `json:"anchor"`
	Cells       []Cell `json:"cells"` // Absolute grid cells
}

// RegionResult is the evaluation of one region.
type RegionResult struct {
	Region     Region        `json:"region"`
	Verdict    Verdict       `json:"verdict"`
	Placements []Placement   `json:"placements,omitempty"`
	Nodes      int64         `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	FastFail   bool          `json:"fast_fail,omitempty"` // Rejected on cell count alone
	Error      string        `json:"error,omitempty"`
}

// Packable reports whether the region was proven packable.
func (rr RegionResult) Packable() bool {
	return rr.Verdict == VerdictPackable
}

// Layout returns a Height x Width matrix holding the placement number of
// each cell, or -1 for empty cells.
func (rr RegionResult) Layout() [][]int {
	grid := make([][]int, rr.Region.Height)
	for r := range grid {
		grid[r] = make([]int, rr.Region.Width)
		for c := range grid[r] {
			grid[r][c] = -1
		}
	}
	for i, p := range rr.Placements {
		for _, c := range p.Cells {
			if c.Row >= 0 && c.Row < rr.Region.Height && c.Col >= 0 && c.Col < rr.Region.Width {
				grid[c.Row][c.Col] = i
			}
		}
	}
	return grid
}

// UsedCells returns the number of cells covered by placements.
func (rr RegionResult) UsedCells() int {
	n := 0
	for _, p := range rr.Placements {
		n += len(p.Cells)
	}
	return n
}

// Fill returns the covered percentage of the region.
func (rr RegionResult) Fill() float64 {
	area := rr.Region.Area()
	if area == 0 {
		return 0
	}
	return float64(rr.UsedCells()) / float64(area) * 100.0
}

// PuzzleResult holds the evaluation of every region of a puzzle, in input
// order.
type PuzzleResult struct {
	Regions []RegionResult `json:"regions"`
}

// PackableCount returns how many regions can be packed.
func (pr PuzzleResult) PackableCount() int {
	n := 0
	for _, r := range pr.Regions {
		if r.Packable() {
			n++
		}
	}
	return n
}

// AbortedCount returns how many regions hit the budget or deadline.
func (pr PuzzleResult) AbortedCount() int {
	n := 0
	for _, r := range pr.Regions {
		if r.Verdict == VerdictAborted {
			n++
		}
	}
	return n
}

// TotalNodes sums search nodes over all regions.
func (pr PuzzleResult) TotalNodes() int64 {
	var n int64
	for _, r := range pr.Regions {
		n += r.Nodes
	}
	return n
}

// Puzzle ties a catalog and its regions together for save/load.
type Puzzle struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Shapes   Catalog       `json:"shapes"`
	Regions  []Region      `json:"regions"`
	Settings SolveSettings `json:"settings"`
	Result   *PuzzleResult `json:"result,omitempty"`
}

func NewPuzzle() Puzzle {
	return Puzzle{
		ID:       uuid.New().String()[:8],
		Name:     "Untitled",
		Shapes:   Catalog{},
		Regions:  []Region{},
		Settings: DefaultSettings(),
	}
}
