package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PolyPack/internal/model"
)

// point is a drawing coordinate in grid units.
type point struct {
	x, y float64
}

// ImportShapesDXF imports shapes from a DXF file. Every closed LWPOLYLINE
// drawn on a unit grid becomes a shape made of the unit squares whose
// centres lie inside it. Drawing Y grows upwards, so the topmost row of a
// polyline becomes shape row 0.
func ImportShapesDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skipped := 0
	for _, ent := range entities {
		lw, ok := ent.(*entity.LwPolyline)
		if !ok {
			skipped++
			continue
		}
		if !lw.Closed || len(lw.Vertices) < 3 {
			result.Warnings = append(result.Warnings, "Skipped open LWPOLYLINE or one with fewer than 3 vertices")
			continue
		}

		poly := make([]point, len(lw.Vertices))
		for i, v := range lw.Vertices {
			poly[i] = point{x: v[0], y: v[1]}
		}
		shape := cellsInside(poly)
		if shape.Size() == 0 {
			result.Warnings = append(result.Warnings, "Skipped polyline that covers no grid cell")
			continue
		}

		idx := len(result.Shapes)
		result.Shapes = append(result.Shapes, model.NewShapeDef(idx, fmt.Sprintf("DXF Shape %d", idx), shape))
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}
	if len(result.Shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
	}

	return result
}

// cellsInside returns the normalized shape of unit cells whose centre lies
// inside poly.
func cellsInside(poly []point) model.Shape {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}

	var cells []model.Cell
	top := int(math.Ceil(maxY))
	for y := int(math.Floor(minY)); y < top; y++ {
		for x := int(math.Floor(minX)); x < int(math.Ceil(maxX)); x++ {
			if pointInPolygon(point{x: float64(x) + 0.5, y: float64(y) + 0.5}, poly) {
				cells = append(cells, model.Cell{Row: top - 1 - y, Col: x})
			}
		}
	}
	return model.Normalize(cells)
}

// pointInPolygon uses the even-odd ray casting rule.
func pointInPolygon(p point, poly []point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.y > p.y) != (b.y > p.y) {
			xCross := a.x + (p.y-a.y)*(b.x-a.x)/(b.y-a.y)
			if p.x < xCross {
				inside = !inside
			}
		}
	}
	return inside
}
