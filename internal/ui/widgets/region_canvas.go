package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolyPack/internal/model"
)

// Piece colors, cycled by placement number.
var pieceColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	emptyCellColor = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	gridLineColor  = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
	outlineColor   = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
)

// PieceColor returns the display color of placement i.
func PieceColor(i int) color.NRGBA {
	return pieceColors[i%len(pieceColors)]
}

// RegionCanvas renders the layout of a single evaluated region.
type RegionCanvas struct {
	widget.BaseWidget
	result    model.RegionResult
	maxWidth  float32
	maxHeight float32
}

func NewRegionCanvas(result model.RegionResult, maxW, maxH float32) *RegionCanvas {
	rc := &RegionCanvas{
		result:    result,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	rc.ExtendBaseWidget(rc)
	return rc
}

// SetResult swaps the displayed region and redraws.
func (rc *RegionCanvas) SetResult(result model.RegionResult) {
	rc.result = result
	rc.Refresh()
}

func (rc *RegionCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newRegionCanvasRenderer(rc)
}

// cellSize returns the side of one grid cell so the region fits the bounds.
func (rc *RegionCanvas) cellSize() float32 {
	w := rc.result.Region.Width
	h := rc.result.Region.Height
	if w <= 0 || h <= 0 {
		return 0
	}
	cell := rc.maxWidth / float32(w)
	if byH := rc.maxHeight / float32(h); byH < cell {
		cell = byH
	}
	return cell
}

type regionCanvasRenderer struct {
	rc      *RegionCanvas
	objects []fyne.CanvasObject
}

func newRegionCanvasRenderer(rc *RegionCanvas) *regionCanvasRenderer {
	r := &regionCanvasRenderer{rc: rc}
	r.rebuild()
	return r
}

func (r *regionCanvasRenderer) rebuild() {
	r.objects = nil

	rr := r.rc.result
	cell := r.rc.cellSize()
	if cell == 0 {
		return
	}
	canvasW := float32(rr.Region.Width) * cell
	canvasH := float32(rr.Region.Height) * cell

	bg := canvas.NewRectangle(emptyCellColor)
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	layout := rr.Layout()
	for row, line := range layout {
		for col, piece := range line {
			fill := canvas.NewRectangle(color.Transparent)
			if piece >= 0 {
				fill.FillColor = PieceColor(piece)
			}
			fill.StrokeColor = gridLineColor
			fill.StrokeWidth = 1
			fill.Resize(fyne.NewSize(cell, cell))
			fill.Move(fyne.NewPos(float32(col)*cell, float32(row)*cell))
			r.objects = append(r.objects, fill)
		}
	}

	// Piece numbers at each placement anchor when cells are large enough
	if cell >= 14 {
		for i, p := range rr.Placements {
			if len(p.Cells) == 0 {
				continue
			}
			first := p.Cells[0]
			for _, c := range p.Cells[1:] {
				if c.Less(first) {
					first = c
				}
			}
			label := canvas.NewText(fmt.Sprintf("%d", i+1), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(float32(first.Col)*cell+3, float32(first.Row)*cell+1))
			r.objects = append(r.objects, label)
		}
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = outlineColor
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	border.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, border)
}

func (r *regionCanvasRenderer) Layout(size fyne.Size)        {}
func (r *regionCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *regionCanvasRenderer) Destroy()                     {}
func (r *regionCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *regionCanvasRenderer) MinSize() fyne.Size {
	cell := r.rc.cellSize()
	return fyne.NewSize(float32(r.rc.result.Region.Width)*cell, float32(r.rc.result.Region.Height)*cell)
}

// RegionHeader formats the one-line description shown above a region.
func RegionHeader(i int, rr model.RegionResult) string {
	head := fmt.Sprintf("Region %d: %s (%d × %d)", i+1, rr.Region.Label, rr.Region.Width, rr.Region.Height)
	switch {
	case rr.Packable():
		return fmt.Sprintf("%s: packable, %d pieces, %.1f%% filled, %d nodes",
			head, len(rr.Placements), rr.Fill(), rr.Nodes)
	case rr.Verdict == model.VerdictAborted:
		return fmt.Sprintf("%s: aborted after %d nodes", head, rr.Nodes)
	case rr.FastFail:
		return fmt.Sprintf("%s: not packable (pieces need more cells than the region has)", head)
	default:
		return fmt.Sprintf("%s: not packable, %d nodes", head, rr.Nodes)
	}
}

// RenderRegionResults creates a scrollable container of all region results.
// Only packable regions get a layout canvas.
func RenderRegionResults(result *model.PuzzleResult) fyne.CanvasObject {
	if result == nil || len(result.Regions) == 0 {
		return widget.NewLabel("No results yet. Open a puzzle, then click Solve.")
	}

	var items []fyne.CanvasObject

	for i, rr := range result.Regions {
		header := widget.NewLabel(RegionHeader(i, rr))
		header.TextStyle = fyne.TextStyle{Bold: rr.Packable()}
		if rr.Verdict == model.VerdictAborted {
			header.Importance = widget.WarningImportance
		}
		items = append(items, header)

		if rr.Packable() {
			items = append(items, container.NewHBox(NewRegionCanvas(rr, 600, 300)))
		}
		items = append(items, widget.NewSeparator())
	}

	if n := result.AbortedCount(); n > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d regions hit the node budget or timeout and have no definite answer.", n,
		))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d of %d regions packable, %d search nodes",
		result.PackableCount(), len(result.Regions), result.TotalNodes(),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}
