package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/PolyPack/internal/model"
)

const pieceLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RenderText draws a region layout as text, one letter per piece and '.'
// for empty cells. Letters repeat after 52 pieces.
func RenderText(rr model.RegionResult) string {
	var b strings.Builder
	for _, row := range rr.Layout() {
		for _, piece := range row {
			if piece < 0 {
				b.WriteByte('.')
			} else {
				b.WriteByte(pieceLetters[piece%len(pieceLetters)])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderSummary returns one line per region followed by the packable count.
func RenderSummary(result model.PuzzleResult) string {
	var b strings.Builder
	for i, rr := range result.Regions {
		fmt.Fprintf(&b, "%4d  %-12s %-8s %-13s %10d nodes  %s\n",
			i+1, rr.Region.Label, rr.Region.String(), rr.Verdict, rr.Nodes, rr.Elapsed)
	}
	fmt.Fprintf(&b, "packable: %d of %d", result.PackableCount(), len(result.Regions))
	if n := result.AbortedCount(); n > 0 {
		fmt.Fprintf(&b, " (%d aborted)", n)
	}
	b.WriteByte('\n')
	return b.String()
}

// ExportJSON writes the puzzle result as indented JSON.
func ExportJSON(path string, result model.PuzzleResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
