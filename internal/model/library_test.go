package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibraryEntry_CopiesShapes(t *testing.T) {
	cat := NewCatalog(ParseShape([]string{"##", "#."}))
	e := NewLibraryEntry("Trominoes", "small pieces", cat)

	require.Len(t, e.Shapes, 1)
	assert.NotEmpty(t, e.ID)
	assert.NotEmpty(t, e.CreatedAt)

	// Mutating the source catalog must not leak into the entry
	cat[0].Shape[0] = Cell{Row: 9, Col: 9}
	assert.Equal(t, Cell{Row: 0, Col: 0}, e.Shapes[0].Shape[0])
}

func TestLibraryEntry_ToPuzzle(t *testing.T) {
	e := NewLibraryEntry("Set", "", NewCatalog(ParseShape([]string{"#"}), ParseShape([]string{"##"})))

	p := e.ToPuzzle("From library")

	assert.Equal(t, "From library", p.Name)
	require.Len(t, p.Shapes, 2)
	assert.NotEqual(t, e.Shapes[0].ID, p.Shapes[0].ID, "shapes should get fresh IDs")
	assert.True(t, e.Shapes[1].Shape.Key() == p.Shapes[1].Shape.Key())
	assert.Empty(t, p.Regions)
}

func TestShapeLibrary_AddFindRemove(t *testing.T) {
	lib := NewShapeLibrary()
	a := NewLibraryEntry("A", "", nil)
	b := NewLibraryEntry("B", "", nil)
	lib.Add(a)
	lib.Add(b)

	assert.Equal(t, []string{"A", "B"}, lib.Names())
	require.NotNil(t, lib.FindByID(b.ID))
	assert.Equal(t, "B", lib.FindByID(b.ID).Name)
	require.NotNil(t, lib.FindByName("A"))
	assert.Nil(t, lib.FindByName("C"))

	assert.True(t, lib.Remove(a.ID))
	assert.False(t, lib.Remove(a.ID))
	assert.Equal(t, []string{"B"}, lib.Names())
	assert.NotNil(t, a.Shapes, "nil catalog should be copied as empty")
}
