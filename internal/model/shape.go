package model

import (
	"sort"
	"strconv"
	"strings"
)

// Cell is a (row, col) offset. Inside a Shape it is relative to the shape's
// origin; inside a grid it is an absolute position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add translates c by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

// Less orders cells by row, then column.
func (c Cell) Less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Shape is a normalized set of occupied cells: sorted by row then column,
// free of duplicates, with both the minimum row and minimum column at zero.
// Build shapes with Normalize or ParseShape; treat the slice as read-only.
type Shape []Cell

// Normalize translates cells so the bounding box touches (0,0), sorts them
// and removes duplicates. The input slice is not modified. An empty input
// yields an empty shape.
func Normalize(cells []Cell) Shape {
	if len(cells) == 0 {
		return Shape{}
	}

	minR, minC := cells[0].Row, cells[0].Col
	for _, c := range cells[1:] {
		if c.Row < minR {
			minR = c.Row
		}
		if c.Col < minC {
			minC = c.Col
		}
	}

	out := make(Shape, len(cells))
	for i, c := range cells {
		out[i] = Cell{Row: c.Row - minR, Col: c.Col - minC}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	// Drop duplicates in place
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// ParseShape builds a shape from rows of marker characters, '#' meaning
// occupied. Every other character is empty.
func ParseShape(rows []string) Shape {
	var cells []Cell
	for r, line := range rows {
		for c, ch := range line {
			if ch == '#' {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return Normalize(cells)
}

// Size returns the number of occupied cells.
func (s Shape) Size() int { return len(s) }

// Bounds returns the bounding box height and width.
func (s Shape) Bounds() (height, width int) {
	for _, c := range s {
		if c.Row+1 > height {
			height = c.Row + 1
		}
		if c.Col+1 > width {
			width = c.Col + 1
		}
	}
	return height, width
}

// Key returns a canonical string for the shape, usable as a map key.
func (s Shape) Key() string {
	var b strings.Builder
	for i, c := range s {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Itoa(c.Row))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(c.Col))
	}
	return b.String()
}

// Rows renders the shape as marker rows ('#' occupied, '.' empty).
func (s Shape) Rows() []string {
	h, w := s.Bounds()
	grid := make([][]byte, h)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(".", w))
	}
	for _, c := range s {
		grid[c.Row][c.Col] = '#'
	}
	rows := make([]string, h)
	for r := range grid {
		rows[r] = string(grid[r])
	}
	return rows
}

func (s Shape) String() string {
	return strings.Join(s.Rows(), "\n")
}
