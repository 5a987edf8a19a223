// Package importer reads puzzles from the text format, region lists from
// CSV and Excel, and shapes from DXF drawings. Spreadsheet import supports
// automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PolyPack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Regions  []model.Region
	Shapes   model.Catalog
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// Counts maps a catalog index to the column holding its count.
type ColumnMapping struct {
	Label  int
	Width  int
	Height int
	Counts map[int]int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":  {"label", "name", "region", "id", "description", "desc"},
	"width":  {"width", "w", "cols", "columns", "x"},
	"height": {"height", "h", "rows", "y"},
}

// countHeader matches count column headers such as "s0", "shape 1",
// "count_2" or "#3".
var countHeader = regexp.MustCompile(`^(?:s|shape|c|count|#)\s*_?(\d+)$`)

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a positional
// mapping (label, width, height, then one count per shape) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Counts: map[int]int{}}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		if m := countHeader.FindStringSubmatch(normalized); m != nil {
			idx, _ := strconv.Atoi(m[1])
			if _, dup := mapping.Counts[idx]; !dup {
				mapping.Counts[idx] = i
			}
			isHeader = true
			continue
		}
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(len(row)), false
	}
	return mapping, true
}

func positionalMapping(cols int) ColumnMapping {
	m := ColumnMapping{Label: 0, Width: 1, Height: 2, Counts: map[int]int{}}
	for c := 3; c < cols; c++ {
		m.Counts[c-3] = c
	}
	return m
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Region from a row using the given column mapping.
// Returns the region and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Region, string) {
	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.Region{}, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return model.Region{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.Region{}, fmt.Sprintf("%s: Missing height value", rowLabel)
	}
	height, err := strconv.Atoi(heightStr)
	if err != nil {
		return model.Region{}, fmt.Sprintf("%s: Invalid height '%s'", rowLabel, heightStr)
	}

	if width <= 0 || height <= 0 {
		return model.Region{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel)
	}

	maxIdx := -1
	for idx := range mapping.Counts {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	counts := make([]int, maxIdx+1)
	for idx, col := range mapping.Counts {
		s := getCell(row, col)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return model.Region{}, fmt.Sprintf("%s: Invalid count '%s' for shape %d", rowLabel, s, idx)
		}
		counts[idx] = n
	}
	// Trailing zero counts carry no information.
	for len(counts) > 0 && counts[len(counts)-1] == 0 {
		counts = counts[:len(counts)-1]
	}

	return model.NewRegion(getCell(row, mapping.Label), width, height, counts...), ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportRegionsCSV imports regions from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportRegionsCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportRegionsCSVFromReader imports regions from a CSV reader with a
// known delimiter.
func ImportRegionsCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportRegionsExcel imports regions from the first sheet of an Excel
// workbook and auto-detects the column mapping from headers.
func ImportRegionsExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
		if len(mapping.Counts) == 0 {
			result.Warnings = append(result.Warnings, "No shape count columns found")
		} else if gaps := missingIndexes(mapping.Counts); len(gaps) > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("No count column for shapes %v, assuming 0", gaps))
		}
	} else if len(rows[0]) >= 3 {
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][1])); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		if !hasHeader {
			mapping = positionalMapping(len(row))
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		region, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Regions = append(result.Regions, region)
	}

	return result
}

// missingIndexes lists catalog indexes below the highest mapped one that
// have no column.
func missingIndexes(counts map[int]int) []int {
	var idx []int
	for i := range counts {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	var gaps []int
	for i := 0; i < idx[len(idx)-1]; i++ {
		if _, ok := counts[i]; !ok {
			gaps = append(gaps, i)
		}
	}
	return gaps
}
