package ui

import "github.com/piwi3910/PolyPack/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the shape catalog and regions at a point in time.
type Snapshot struct {
	Shapes  model.Catalog
	Regions []model.Region
	Label   string // Human-readable description (e.g. "Add Region")
}

// History manages undo/redo stacks of puzzle snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// current onto the redo stack. It returns false if there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// current onto the undo stack. It returns false if there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func copyShapes(shapes model.Catalog) model.Catalog {
	if shapes == nil {
		return nil
	}
	cp := make(model.Catalog, len(shapes))
	for i, d := range shapes {
		cp[i] = d
		cp[i].Shape = append(model.Shape(nil), d.Shape...)
	}
	return cp
}

func copyRegions(regions []model.Region) []model.Region {
	if regions == nil {
		return nil
	}
	cp := make([]model.Region, len(regions))
	for i, r := range regions {
		cp[i] = r
		cp[i].Counts = append([]int(nil), r.Counts...)
	}
	return cp
}

// MakeSnapshot deep-copies the puzzle contents under a label.
func MakeSnapshot(shapes model.Catalog, regions []model.Region, label string) Snapshot {
	return Snapshot{
		Shapes:  copyShapes(shapes),
		Regions: copyRegions(regions),
		Label:   label,
	}
}
