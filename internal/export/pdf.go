// Package export writes packing results to PDF reports, QR label sheets,
// Excel workbooks, DXF drawings, JSON and plain text.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PolyPack/internal/model"
)

// pieceColor represents an RGB color for a placed piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors mirrors the color scheme used in the UI region canvas widget.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0
)

// ExportPDF generates a PDF report of a solved puzzle. Every packable
// region is drawn on its own page, followed by a summary page with the
// verdict of every region and the shape catalog.
func ExportPDF(path string, result model.PuzzleResult, cat model.Catalog) error {
	if len(result.Regions) == 0 {
		return fmt.Errorf("no regions to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, rr := range result.Regions {
		if !rr.Packable() {
			continue
		}
		pdf.AddPage()
		renderRegionPage(pdf, rr, cat, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, cat)

	return pdf.OutputFileAndClose(path)
}

// renderRegionPage draws a single packed region on the current PDF page.
func renderRegionPage(pdf *fpdf.Fpdf, rr model.RegionResult, cat model.Catalog, regionNum int) {
	region := rr.Region

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Region %d: %s (%d x %d)", regionNum, region.Label, region.Width, region.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Used cells: %d | Area: %d | Fill: %.1f%% | Search nodes: %d",
		len(rr.Placements), rr.UsedCells(), region.Area(), rr.Fill(), rr.Nodes)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/float64(region.Width), drawHeight/float64(region.Height))
	canvasW := float64(region.Width) * scale
	canvasH := float64(region.Height) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawGridLines(pdf, region, scale, offsetX, offsetY)

	for i, p := range rr.Placements {
		col := pieceColors[i%len(pieceColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		for _, c := range p.Cells {
			pdf.Rect(offsetX+float64(c.Col)*scale, offsetY+float64(c.Row)*scale, scale, scale, "FD")
		}

		// Piece number on its first cell
		if scale > 6 && len(p.Cells) > 0 {
			c := p.Cells[0]
			pdf.SetFont("Helvetica", "", labelFontSize(scale))
			pdf.SetTextColor(0, 0, 0)
			pdf.SetXY(offsetX+float64(c.Col)*scale, offsetY+float64(c.Row)*scale+scale/2-2)
			pdf.CellFormat(scale, 4, fmt.Sprintf("%d", i+1), "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, region, offsetX, offsetY, canvasW, canvasH)
	drawPiecesLegend(pdf, rr, cat, offsetY+canvasH+5)
}

// drawGridLines draws the unit cell grid of the region.
func drawGridLines(pdf *fpdf.Fpdf, region model.Region, scale, offsetX, offsetY float64) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	for c := 1; c < region.Width; c++ {
		x := offsetX + float64(c)*scale
		pdf.Line(x, offsetY, x, offsetY+float64(region.Height)*scale)
	}
	for r := 1; r < region.Height; r++ {
		y := offsetY + float64(r)*scale
		pdf.Line(offsetX, y, offsetX+float64(region.Width)*scale, y)
	}
}

// drawDimensionAnnotations adds width and height labels outside the region rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, region model.Region, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d cells", region.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d cells", region.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPiecesLegend renders a compact legend of placed pieces at the bottom of the page.
func drawPiecesLegend(pdf *fpdf.Fpdf, rr model.RegionResult, cat model.Catalog, startY float64) {
	if len(rr.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range rr.Placements {
		col := pieceColors[i%len(pieceColors)]
		label := fmt.Sprintf("%d: %s @ (%d, %d) o%d", i+1, shapeLabel(cat, p.ShapeIndex), p.Anchor.Row, p.Anchor.Col, p.Orientation)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the verdict table and the shape catalog.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PuzzleResult, cat model.Catalog) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	total := len(result.Regions)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Regions", fmt.Sprintf("%d", total)},
		{"Packable", fmt.Sprintf("%d", result.PackableCount())},
		{"Not Packable", fmt.Sprintf("%d", total-result.PackableCount()-result.AbortedCount())},
		{"Aborted", fmt.Sprintf("%d", result.AbortedCount())},
		{"Search Nodes", fmt.Sprintf("%d", result.TotalNodes())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Region Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 60, 35, 30, 40, 40, 42}
	headers := []string{"#", "Region", "Size", "Pieces", "Verdict", "Nodes", "Time"}
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += rowHeight
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, rr := range result.Regions {
		if y+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		rowData := []string{
			fmt.Sprintf("%d", i+1),
			rr.Region.Label,
			rr.Region.String(),
			fmt.Sprintf("%d", rr.Region.Pieces(cat)),
			verdictText(rr),
			fmt.Sprintf("%d", rr.Nodes),
			rr.Elapsed.String(),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}

	renderCatalog(pdf, cat, y+8)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PolyPack - Polyomino Region Packer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderCatalog draws every catalog shape as a small cell diagram.
func renderCatalog(pdf *fpdf.Fpdf, cat model.Catalog, y float64) {
	if len(cat) == 0 {
		return
	}
	const cell = 3.0
	const boxW = 30.0

	if y+30 > pageHeight-marginBottom {
		pdf.AddPage()
		y = marginTop
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Shapes", "", 0, "L", false, 0, "")
	y += 9

	x := marginLeft
	rowMax := 0.0
	for i, def := range cat {
		h, w := def.Shape.Bounds()
		boxH := float64(h)*cell + 6
		if x+boxW > pageWidth-marginRight {
			x = marginLeft
			y += rowMax + 4
			rowMax = 0
		}
		if y+boxH > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(x, y)
		pdf.CellFormat(boxW, 4, fmt.Sprintf("%d: %s", def.Index, def.Label), "", 0, "L", false, 0, "")

		col := pieceColors[i%len(pieceColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		for _, c := range def.Shape {
			pdf.Rect(x+float64(c.Col)*cell, y+5+float64(c.Row)*cell, cell, cell, "FD")
		}

		x += math.Max(boxW, float64(w)*cell+4)
		rowMax = math.Max(rowMax, boxH)
	}
}

func verdictText(rr model.RegionResult) string {
	switch rr.Verdict {
	case model.VerdictPackable:
		return "Packable"
	case model.VerdictAborted:
		return "Aborted"
	default:
		if rr.FastFail {
			return "Too small"
		}
		return "Not packable"
	}
}

func shapeLabel(cat model.Catalog, idx int) string {
	if idx >= 0 && idx < len(cat) {
		return cat[idx].Label
	}
	return fmt.Sprintf("Shape %d", idx)
}

// labelFontSize returns an appropriate font size for a cell of the given size.
func labelFontSize(cell float64) float64 {
	switch {
	case cell > 20:
		return 9
	case cell > 10:
		return 7
	default:
		return 5
	}
}
