package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/piwi3910/PolyPack/internal/model"
)

// ParseError reports a malformed line in a puzzle file.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParsePuzzleFile reads a puzzle in text form from path. The puzzle is
// named after the file.
func ParsePuzzleFile(path string) (model.Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Puzzle{}, fmt.Errorf("cannot open puzzle: %w", err)
	}
	defer f.Close()

	p, err := ParsePuzzle(f)
	if err != nil {
		return model.Puzzle{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p, nil
}

// ParsePuzzle reads the text puzzle format:
//
//	0:
//	###
//	##.
//
//	4x4: 0 2
//
// A shape block is an "N:" header followed by rows of '#' and '.' up to a
// blank line or the next header. Shape headers must number the catalog
// from 0 without gaps. A region line is "WxH:" followed by one count per
// catalog index. Other lines are ignored.
func ParsePuzzle(r io.Reader) (model.Puzzle, error) {
	p := model.NewPuzzle()

	var rows []string
	inShape := false
	flush := func() {
		if inShape {
			idx := len(p.Shapes)
			p.Shapes = append(p.Shapes, model.NewShapeDef(idx, "", model.ParseShape(rows)))
		}
		rows = nil
		inShape = false
	}

	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(strings.TrimRight(sc.Text(), "\r"))

		switch {
		case line == "":
			flush()

		case isShapeHeader(line):
			flush()
			idx, err := strconv.Atoi(strings.TrimSuffix(line, ":"))
			if err != nil {
				return model.Puzzle{}, &ParseError{Line: lineNum, Msg: fmt.Sprintf("invalid shape index %q", line)}
			}
			if idx != len(p.Shapes) {
				return model.Puzzle{}, &ParseError{Line: lineNum, Msg: fmt.Sprintf("shape %d out of order, expected %d", idx, len(p.Shapes))}
			}
			inShape = true

		case strings.Contains(line, ":"):
			flush()
			if !isRegionLine(line) {
				continue
			}
			region, err := parseRegionLine(line)
			if err != nil {
				return model.Puzzle{}, &ParseError{Line: lineNum, Msg: err.Error()}
			}
			p.Regions = append(p.Regions, region)

		case inShape:
			if i := strings.IndexFunc(line, func(r rune) bool { return r != '#' && r != '.' }); i >= 0 {
				bad, _ := utf8.DecodeRuneInString(line[i:])
				return model.Puzzle{}, &ParseError{Line: lineNum, Msg: fmt.Sprintf("unexpected %q in shape row", bad)}
			}
			rows = append(rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return model.Puzzle{}, fmt.Errorf("cannot read puzzle: %w", err)
	}
	flush()

	return p, nil
}

func isShapeHeader(line string) bool {
	if len(line) < 2 || !strings.HasSuffix(line, ":") {
		return false
	}
	for _, r := range line[:len(line)-1] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isRegionLine reports whether line starts like "WxH:".
func isRegionLine(line string) bool {
	dims, _, _ := strings.Cut(line, ":")
	return dims != "" && dims[0] >= '0' && dims[0] <= '9' && strings.Contains(dims, "x")
}

// parseRegionLine parses "WxH: c0 c1 ...".
func parseRegionLine(line string) (model.Region, error) {
	dims, rest, _ := strings.Cut(line, ":")
	ws, hs, ok := strings.Cut(strings.TrimSpace(dims), "x")
	if !ok {
		return model.Region{}, fmt.Errorf("invalid region size %q", dims)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || w <= 0 {
		return model.Region{}, fmt.Errorf("invalid region width %q", ws)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h <= 0 {
		return model.Region{}, fmt.Errorf("invalid region height %q", hs)
	}

	fields := strings.Fields(rest)
	counts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return model.Region{}, fmt.Errorf("invalid count %q", f)
		}
		counts = append(counts, n)
	}

	return model.NewRegion("", w, h, counts...), nil
}
