package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/piwi3910/PolyPack/internal/model"
)

// parseCounts reads whitespace or comma separated shape counts.
func parseCounts(text string) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	counts := make([]int, 0, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("count %d (%q) must be a non-negative integer", i, f)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func formatCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// parseShapeText builds a shape from '#'/'.' rows typed into a text box.
func parseShapeText(text string) (model.Shape, error) {
	var rows []string
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Trim(line, "#.") != "" {
			return nil, fmt.Errorf("row %d: only '#' and '.' are allowed", i+1)
		}
		rows = append(rows, line)
	}
	s := model.ParseShape(rows)
	if s.Size() == 0 {
		return nil, fmt.Errorf("shape has no cells")
	}
	return s, nil
}

// parseRegionForm validates the region dialog fields.
func parseRegionForm(label, width, height, counts string) (model.Region, error) {
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil || w <= 0 {
		return model.Region{}, fmt.Errorf("width must be a positive integer")
	}
	h, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil || h <= 0 {
		return model.Region{}, fmt.Errorf("height must be a positive integer")
	}
	c, err := parseCounts(counts)
	if err != nil {
		return model.Region{}, err
	}
	return model.NewRegion(strings.TrimSpace(label), w, h, c...), nil
}

// parseTimeout accepts a Go duration or a bare number of seconds. Empty
// means no deadline.
func parseTimeout(text string) (time.Duration, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "0" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(text, 64); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("timeout must not be negative")
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(text)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", text)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative")
	}
	return d, nil
}

// compareOutcome maps the error of a finished comparison to a status line
// and whether it must be reported as a failure. A user cancel is not one.
func compareOutcome(err error) (string, bool) {
	switch {
	case err == nil:
		return "Ready", false
	case errors.Is(err, context.Canceled):
		return "Comparison canceled", false
	default:
		return "Compare failed", true
	}
}
