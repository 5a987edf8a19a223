package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolyPack/internal/model"
)

// ShapePreview draws a catalog shape as filled unit squares.
type ShapePreview struct {
	widget.BaseWidget
	shape model.Shape
	fill  color.Color
	cell  float32
}

func NewShapePreview(s model.Shape, fill color.Color, cell float32) *ShapePreview {
	sp := &ShapePreview{shape: s, fill: fill, cell: cell}
	sp.ExtendBaseWidget(sp)
	return sp
}

func (sp *ShapePreview) CreateRenderer() fyne.WidgetRenderer {
	r := &shapePreviewRenderer{sp: sp}
	r.rebuild()
	return r
}

type shapePreviewRenderer struct {
	sp      *ShapePreview
	objects []fyne.CanvasObject
}

func (r *shapePreviewRenderer) rebuild() {
	r.objects = nil
	for _, c := range r.sp.shape {
		sq := canvas.NewRectangle(r.sp.fill)
		sq.StrokeColor = outlineColor
		sq.StrokeWidth = 1
		sq.Resize(fyne.NewSize(r.sp.cell, r.sp.cell))
		sq.Move(fyne.NewPos(float32(c.Col)*r.sp.cell, float32(c.Row)*r.sp.cell))
		r.objects = append(r.objects, sq)
	}
}

func (r *shapePreviewRenderer) Layout(size fyne.Size)        {}
func (r *shapePreviewRenderer) Refresh()                     { r.rebuild() }
func (r *shapePreviewRenderer) Destroy()                     {}
func (r *shapePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *shapePreviewRenderer) MinSize() fyne.Size {
	h, w := r.sp.shape.Bounds()
	return fyne.NewSize(float32(w)*r.sp.cell, float32(h)*r.sp.cell)
}
