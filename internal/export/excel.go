package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PolyPack/internal/model"
)

const summarySheet = "Summary"

// ExportExcel writes a workbook with a Summary sheet listing every region
// and one layout sheet per packable region. Layout cells hold the 1-based
// piece number and are filled with the piece color.
func ExportExcel(path string, result model.PuzzleResult, cat model.Catalog) error {
	if len(result.Regions) == 0 {
		return fmt.Errorf("no regions to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, result, cat); err != nil {
		return err
	}

	styles, err := pieceStyles(f)
	if err != nil {
		return err
	}

	for i, rr := range result.Regions {
		if !rr.Packable() {
			continue
		}
		if err := writeLayoutSheet(f, LayoutSheetName(i), rr, styles); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// LayoutSheetName returns the sheet name used for region i (0-based).
func LayoutSheetName(i int) string {
	return fmt.Sprintf("Region %d", i+1)
}

func writeSummarySheet(f *excelize.File, result model.PuzzleResult, cat model.Catalog) error {
	headers := []interface{}{"#", "Label", "Width", "Height", "Pieces", "Required Cells", "Verdict", "Nodes", "Time (ms)"}
	if err := f.SetSheetRow(summarySheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i, rr := range result.Regions {
		row := []interface{}{
			i + 1,
			rr.Region.Label,
			rr.Region.Width,
			rr.Region.Height,
			rr.Region.Pieces(cat),
			rr.Region.RequiredCells(cat),
			string(rr.Verdict),
			rr.Nodes,
			rr.Elapsed.Milliseconds(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	totalRow := len(result.Regions) + 3
	totals := []interface{}{"", "Packable", result.PackableCount(), "Aborted", result.AbortedCount()}
	cell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(summarySheet, cell, &totals); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}
	return nil
}

func pieceStyles(f *excelize.File) ([]int, error) {
	styles := make([]int, len(pieceColors))
	for i, c := range pieceColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{
				Type:    "pattern",
				Pattern: 1,
				Color:   []string{fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)},
			},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		styles[i] = id
	}
	return styles, nil
}

func writeLayoutSheet(f *excelize.File, name string, rr model.RegionResult, styles []int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", name, err)
	}

	last, err := excelize.ColumnNumberToName(rr.Region.Width)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(name, "A", last, 4); err != nil {
		return err
	}

	for r, row := range rr.Layout() {
		for c, piece := range row {
			if piece < 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, piece+1); err != nil {
				return err
			}
			if err := f.SetCellStyle(name, cell, cell, styles[piece%len(styles)]); err != nil {
				return err
			}
		}
	}
	return nil
}
