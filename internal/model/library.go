package model

import (
	"time"

	"github.com/google/uuid"
)

// LibraryEntry is a named, reusable shape catalog.
type LibraryEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	Shapes      Catalog `json:"shapes"`
}

// NewLibraryEntry snapshots a catalog under a name.
func NewLibraryEntry(name, description string, shapes Catalog) LibraryEntry {
	now := time.Now().UTC().Format(time.RFC3339)
	return LibraryEntry{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Shapes:      copyCatalog(shapes),
	}
}

// ToPuzzle creates an empty puzzle that uses this entry's shapes.
// Shapes get fresh IDs so the puzzle is independent of the library.
func (e LibraryEntry) ToPuzzle(name string) Puzzle {
	p := NewPuzzle()
	p.Name = name
	p.Shapes = make(Catalog, len(e.Shapes))
	for i, d := range e.Shapes {
		p.Shapes[i] = NewShapeDef(d.Index, d.Label, d.Shape)
	}
	return p
}

// ShapeLibrary holds saved catalogs.
type ShapeLibrary struct {
	Entries []LibraryEntry `json:"entries"`
}

func NewShapeLibrary() ShapeLibrary {
	return ShapeLibrary{Entries: []LibraryEntry{}}
}

func (l *ShapeLibrary) Add(e LibraryEntry) {
	l.Entries = append(l.Entries, e)
}

// Remove removes an entry by ID. Returns true if found and removed.
func (l *ShapeLibrary) Remove(id string) bool {
	for i, e := range l.Entries {
		if e.ID == id {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the entry with the given ID, or nil.
func (l *ShapeLibrary) FindByID(id string) *LibraryEntry {
	for i := range l.Entries {
		if l.Entries[i].ID == id {
			return &l.Entries[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first entry with the given name, or nil.
func (l *ShapeLibrary) FindByName(name string) *LibraryEntry {
	for i := range l.Entries {
		if l.Entries[i].Name == name {
			return &l.Entries[i]
		}
	}
	return nil
}

// Names lists entry names in storage order.
func (l *ShapeLibrary) Names() []string {
	names := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		names[i] = e.Name
	}
	return names
}

func copyCatalog(c Catalog) Catalog {
	if c == nil {
		return Catalog{}
	}
	cp := make(Catalog, len(c))
	for i, d := range c {
		d.Shape = append(Shape(nil), d.Shape...)
		cp[i] = d
	}
	return cp
}
