package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/PolyPack/internal/model"
)

// ExportDXF writes the layout of a packed region as a DXF drawing in grid
// units: the region outline on layer REGION and every placed cell as a
// closed unit square on a PIECE_n layer, one layer per piece. Row 0 is at
// the top of the drawing.
func ExportDXF(path string, rr model.RegionResult) error {
	if !rr.Packable() {
		return fmt.Errorf("region %s has no layout to export", rr.Region.Label)
	}

	d := dxf.NewDrawing()
	w := float64(rr.Region.Width)
	h := float64(rr.Region.Height)

	if _, err := d.AddLayer("REGION", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if _, err := d.LwPolyline(true, []float64{0, 0}, []float64{w, 0}, []float64{w, h}, []float64{0, h}); err != nil {
		return fmt.Errorf("failed to draw region outline: %w", err)
	}

	for i, p := range rr.Placements {
		layer := fmt.Sprintf("PIECE_%d", i+1)
		// ACI colors 1 to 6 are the primaries
		if _, err := d.AddLayer(layer, color.ColorNumber(i%6+1), dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layer, err)
		}
		for _, c := range p.Cells {
			x := float64(c.Col)
			y := h - float64(c.Row) - 1
			if _, err := d.LwPolyline(true, []float64{x, y}, []float64{x + 1, y}, []float64{x + 1, y + 1}, []float64{x, y + 1}); err != nil {
				return fmt.Errorf("failed to draw piece %d: %w", i+1, err)
			}
		}
	}

	return d.SaveAs(path)
}
