package model

// CapacityEstimate summarizes how much of a region the required shapes
// would cover.
type CapacityEstimate struct {
	Area          int     `json:"area"`           // Region cells
	RequiredCells int     `json:"required_cells"` // Cells of all required instances
	Pieces        int     `json:"pieces"`         // Required instances
	Slack         int     `json:"slack"`          // Area minus required cells; negative means overfull
	FillPercent   float64 `json:"fill_percent"`   // Required cells as a share of the area
}

// Fits reports whether the required cells fit in the area. It is a
// necessary condition only: a region that fits may still be unpackable.
func (e CapacityEstimate) Fits() bool {
	return e.Slack >= 0
}

// Estimate computes the capacity figures of a region against a catalog.
func Estimate(r Region, cat Catalog) CapacityEstimate {
	area := r.Area()
	required := r.RequiredCells(cat)

	est := CapacityEstimate{
		Area:          area,
		RequiredCells: required,
		Pieces:        r.Pieces(cat),
		Slack:         area - required,
	}
	if area > 0 {
		est.FillPercent = float64(required) / float64(area) * 100.0
	}
	return est
}
