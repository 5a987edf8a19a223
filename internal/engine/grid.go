package engine

import "github.com/piwi3910/PolyPack/internal/model"

// Grid is a mutable occupancy surface. It is created per region evaluation
// and owned by a single search; it is not safe for concurrent use.
type Grid struct {
	width, height int
	cells         []bool // row-major, true = occupied
	empty         int
}

// NewGrid returns an empty width x height grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
		empty:  width * height,
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) index(c model.Cell) int {
	return c.Row*g.width + c.Col
}

func (g *Grid) inBounds(c model.Cell) bool {
	return c.Row >= 0 && c.Row < g.height && c.Col >= 0 && c.Col < g.width
}

// CanPlace reports whether every cell of s translated by anchor is inside
// the grid and free. Bounds are checked before occupancy.
func (g *Grid) CanPlace(s model.Shape, anchor model.Cell) bool {
	for _, off := range s {
		c := anchor.Add(off)
		if !g.inBounds(c) {
			return false
		}
		if g.cells[g.index(c)] {
			return false
		}
	}
	return true
}

// Place marks every cell of s translated by anchor as occupied. The caller
// must have checked CanPlace with the same arguments.
func (g *Grid) Place(s model.Shape, anchor model.Cell) {
	for _, off := range s {
		g.cells[g.index(anchor.Add(off))] = true
	}
	g.empty -= len(s)
}

// Remove undoes Place for the same arguments.
func (g *Grid) Remove(s model.Shape, anchor model.Cell) {
	for _, off := range s {
		g.cells[g.index(anchor.Add(off))] = false
	}
	g.empty += len(s)
}

// CountEmpty returns the number of unoccupied cells.
func (g *Grid) CountEmpty() int {
	return g.empty
}

// FirstEmptyFrom returns the row-major index of the first unoccupied cell at
// or after from, or -1.
func (g *Grid) FirstEmptyFrom(from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(g.cells); i++ {
		if !g.cells[i] {
			return i
		}
	}
	return -1
}

func (g *Grid) cellAt(i int) model.Cell {
	return model.Cell{Row: i / g.width, Col: i % g.width}
}
