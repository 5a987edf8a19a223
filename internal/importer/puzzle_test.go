package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PolyPack/internal/model"
)

const presentPuzzle = `0:
###
##.
##.

1:
###
##.
.##

2:
.##
###
##.

3:
##.
###
##.

4:
###
#..
###

5:
###
.#.
###

4x4: 0 0 0 0 2 0
12x5: 1 0 1 0 2 2
12x5: 1 0 1 0 3 2
`

func TestParsePuzzle_Presents(t *testing.T) {
	p, err := ParsePuzzle(strings.NewReader(presentPuzzle))
	require.NoError(t, err)

	require.Len(t, p.Shapes, 6)
	for i, def := range p.Shapes {
		assert.Equal(t, i, def.Index)
		assert.Equal(t, 7, def.Shape.Size(), "shape %d", i)
	}
	assert.True(t, p.Shapes[4].Shape.Key() == model.ParseShape([]string{"###", "#..", "###"}).Key())

	require.Len(t, p.Regions, 3)
	assert.Equal(t, 4, p.Regions[0].Width)
	assert.Equal(t, 4, p.Regions[0].Height)
	assert.Equal(t, []int{0, 0, 0, 0, 2, 0}, p.Regions[0].Counts)
	assert.Equal(t, 12, p.Regions[2].Width)
	assert.Equal(t, 5, p.Regions[2].Height)
	assert.Equal(t, []int{1, 0, 1, 0, 3, 2}, p.Regions[2].Counts)
}

func TestParsePuzzle_CRLF(t *testing.T) {
	input := strings.ReplaceAll("0:\n##\n#.\n\n2x2: 1\n", "\n", "\r\n")

	p, err := ParsePuzzle(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, p.Shapes, 1)
	assert.Equal(t, 3, p.Shapes[0].Shape.Size())
	require.Len(t, p.Regions, 1)
	assert.Equal(t, []int{1}, p.Regions[0].Counts)
}

func TestParsePuzzle_ShapeEndsAtNextHeader(t *testing.T) {
	p, err := ParsePuzzle(strings.NewReader("0:\n#\n1:\n##\n3x1: 1 1\n"))
	require.NoError(t, err)

	require.Len(t, p.Shapes, 2)
	assert.Equal(t, 1, p.Shapes[0].Shape.Size())
	assert.Equal(t, 2, p.Shapes[1].Shape.Size())
	require.Len(t, p.Regions, 1)
}

func TestParsePuzzle_EmptyShape(t *testing.T) {
	p, err := ParsePuzzle(strings.NewReader("0:\n...\n\n1:\n\n2x2: 1 0\n"))
	require.NoError(t, err)

	require.Len(t, p.Shapes, 2)
	assert.Equal(t, 0, p.Shapes[0].Shape.Size())
	assert.Equal(t, 0, p.Shapes[1].Shape.Size())
}

func TestParsePuzzle_IgnoresUnknownLines(t *testing.T) {
	input := "# presents\nnotes: none\n0:\n#\n\nsome text\n1x1: 1\n"

	p, err := ParsePuzzle(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, p.Shapes, 1)
	assert.Len(t, p.Regions, 1)
}

func TestParsePuzzle_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"bad width", "0:\n#\n\naxb: 1\n4x: 1\n", 5},
		{"bad count", "0:\n#\n\n4x4: 1 two\n", 4},
		{"negative count", "4x4: -1\n", 1},
		{"zero size", "0x4: 1\n", 1},
		{"shape out of order", "0:\n#\n\n2:\n#\n", 4},
		{"bad shape row", "0:\n#x#\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePuzzle(strings.NewReader(tt.input))
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %T", err)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParsePuzzleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presents.txt")
	require.NoError(t, os.WriteFile(path, []byte(presentPuzzle), 0644))

	p, err := ParsePuzzleFile(path)
	require.NoError(t, err)
	assert.Equal(t, "presents", p.Name)
	assert.Len(t, p.Regions, 3)

	_, err = ParsePuzzleFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestParsePuzzleFile_ErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte("4x4: x\n"), 0644))

	_, err := ParsePuzzleFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.txt: line 1")

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
