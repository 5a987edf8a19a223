package model

// NumTransforms is the order of the dihedral group of the square.
const NumTransforms = 8

// rotate turns every cell a quarter turn: (r, c) -> (c, -r).
func rotate(c Cell) Cell { return Cell{Row: c.Col, Col: -c.Row} }

// mirror reflects every cell across the vertical axis: (r, c) -> (r, -c).
func mirror(c Cell) Cell { return Cell{Row: c.Row, Col: -c.Col} }

// Transform applies dihedral transform t to s and renormalizes the result.
// Transforms 0-3 are 0..3 quarter turns; 4-7 mirror first, then turn
// t-4 times.
func Transform(s Shape, t int) Shape {
	t = ((t % NumTransforms) + NumTransforms) % NumTransforms
	cells := make([]Cell, len(s))
	for i, c := range s {
		if t >= 4 {
			c = mirror(c)
		}
		for k := 0; k < t%4; k++ {
			c = rotate(c)
		}
		cells[i] = c
	}
	return Normalize(cells)
}

// Orientations returns the distinct rotations and reflections of s.
// Congruent transforms collapse to one entry, so a symmetric shape yields
// fewer than eight. The order is fixed for a given input: transforms are
// generated 0..7 and the first occurrence of each shape is kept.
func Orientations(s Shape) []Shape {
	seen := make(map[string]bool, NumTransforms)
	out := make([]Shape, 0, NumTransforms)
	for t := 0; t < NumTransforms; t++ {
		o := Transform(s, t)
		k := o.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, o)
	}
	return out
}
