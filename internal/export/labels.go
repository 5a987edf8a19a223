package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PolyPack/internal/model"
)

// LabelInfo holds the data encoded into each region label's QR code.
type LabelInfo struct {
	Index   int           `json:"region"`
	Label   string        `json:"label"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Verdict model.Verdict `json:"verdict"`
	Pieces  int           `json:"pieces"`
	Fill    float64       `json:"fill_pct"`
	Nodes   int64         `json:"nodes"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per evaluated
// region. Each label shows the region name, size and verdict, and a QR
// code encoding the same data as JSON. Labels are laid out on a standard
// label sheet (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.PuzzleResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no regions to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_region_%d", info.Index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := fmt.Sprintf("%d. %s", info.Index, info.Label)
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%d x %d, %d pieces", info.Width, info.Height, info.Pieces)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%d nodes, %.0f%% filled", info.Nodes, info.Fill), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.SetFont("Helvetica", "B", 7)
	switch info.Verdict {
	case model.VerdictPackable:
		pdf.SetTextColor(0, 130, 0)
	case model.VerdictAborted:
		pdf.SetTextColor(150, 100, 0)
	default:
		pdf.SetTextColor(180, 0, 0)
	}
	pdf.CellFormat(textW, 3, string(info.Verdict), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from a puzzle result for
// use in testing or alternative export formats.
func CollectLabelInfos(result model.PuzzleResult) []LabelInfo {
	var labels []LabelInfo
	for i, rr := range result.Regions {
		labels = append(labels, LabelInfo{
			Index:   i + 1,
			Label:   rr.Region.Label,
			Width:   rr.Region.Width,
			Height:  rr.Region.Height,
			Verdict: rr.Verdict,
			Pieces:  len(rr.Placements),
			Fill:    rr.Fill(),
			Nodes:   rr.Nodes,
		})
	}
	return labels
}
