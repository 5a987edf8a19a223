package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/PolyPack/internal/model"
	"github.com/piwi3910/PolyPack/internal/project"
	"github.com/piwi3910/PolyPack/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	puzzle  model.Puzzle
	config  model.AppConfig
	library model.ShapeLibrary
	history *History
	logger  *log.Logger
	tabs    *container.AppTabs

	// UI references for dynamic updates
	shapesContainer  *fyne.Container
	regionsContainer *fyne.Container
	resultContainer  *fyne.Container
	settingsPanel    *fyne.Container
	status           *widget.Label
	recentItem       *fyne.MenuItem

	mu     sync.Mutex
	cancel context.CancelFunc // non-nil while a solve is running
}

// NewApp loads the saved configuration and shape library and prepares an
// empty puzzle that uses the configured defaults.
func NewApp(application fyne.App, window fyne.Window) *App {
	a := &App{
		app:     application,
		window:  window,
		history: NewHistory(),
		logger:  log.New(os.Stderr, "polypack: ", log.LstdFlags),
	}

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		a.logger.Printf("config: %v, using defaults", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg

	lib, err := project.LoadDefaultLibrary()
	if err != nil {
		a.logger.Printf("library: %v", err)
		lib = model.NewShapeLibrary()
	}
	a.library = lib

	a.puzzle = a.newPuzzle()
	application.Settings().SetTheme(NewPolyPackThemeFor(cfg.Theme))
	return a
}

func (a *App) newPuzzle() model.Puzzle {
	p := model.NewPuzzle()
	a.config.ApplyToSettings(&p.Settings)
	return p
}

// SetupMenus creates the native menu bar and keyboard shortcuts.
func (a *App) SetupMenus() {
	a.recentItem = fyne.NewMenuItem("Open Recent", nil)
	a.recentItem.ChildMenu = a.buildRecentMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Puzzle", func() {
			a.setPuzzle(a.newPuzzle())
		}),
		fyne.NewMenuItem("Open Puzzle Text...", func() {
			a.openPuzzleText()
		}),
		fyne.NewMenuItem("Open Project...", func() {
			a.loadProject()
		}),
		a.recentItem,
		fyne.NewMenuItem("Save Project...", func() {
			a.saveProject()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Regions from CSV...", func() {
			a.importRegionsCSV()
		}),
		fyne.NewMenuItem("Import Regions from Excel...", func() {
			a.importRegionsExcel()
		}),
		fyne.NewMenuItem("Import Shapes from DXF...", func() {
			a.importShapesDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Excel Workbook...", func() {
			a.exportExcel()
		}),
		fyne.NewMenuItem("Export Region Labels...", func() {
			a.exportLabels()
		}),
		fyne.NewMenuItem("Export Layout DXF...", func() {
			a.exportDXF()
		}),
		fyne.NewMenuItem("Export Result JSON...", func() {
			a.exportJSON()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { a.undo() }),
		fyne.NewMenuItem("Redo", func() { a.redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Regions", func() {
			a.saveState("Clear Regions")
			a.puzzle.Regions = nil
			a.refreshRegionsList()
		}),
		fyne.NewMenuItem("Clear All Shapes", func() {
			a.saveState("Clear Shapes")
			a.puzzle.Shapes = model.Catalog{}
			a.refreshShapesList()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Solve", func() {
			a.runSolve()
		}),
		fyne.NewMenuItem("Cancel Solve", func() {
			a.cancelSolve()
		}),
		fyne.NewMenuItem("Compare Strategies", func() {
			a.runCompare()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Shapes to Library...", func() {
			a.showSaveToLibraryDialog()
		}),
		fyne.NewMenuItem("New Puzzle from Library...", func() {
			a.showLibraryDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItem("Import / Export Data...", func() {
			a.showImportExportDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))

	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.runSolve() })
}

func (a *App) buildRecentMenu() *fyne.Menu {
	var items []*fyne.MenuItem
	for _, path := range a.config.RecentPuzzles {
		p := path
		items = append(items, fyne.NewMenuItem(p, func() {
			a.openPath(p)
		}))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		items = append(items, none)
	}
	return fyne.NewMenu("", items...)
}

// rememberRecent records path in the recent list and rebuilds the menu.
func (a *App) rememberRecent(path string) {
	a.config.AddRecent(path)
	if err := a.saveConfig(); err != nil {
		a.logger.Printf("config: %v", err)
	}
	if a.recentItem != nil {
		a.recentItem.ChildMenu = a.buildRecentMenu()
		if m := a.window.MainMenu(); m != nil {
			m.Refresh()
		}
	}
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PolyPack",
		"PolyPack: Polyomino Region Packer\n\n"+
			"Decides whether a list of polyomino pieces fits into\n"+
			"rectangular regions and shows the layouts found.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	shapesTab := container.NewTabItem("Shapes", a.buildShapesPanel())
	regionsTab := container.NewTabItem("Regions", a.buildRegionsPanel())
	settingsTab := container.NewTabItem("Settings", a.buildSettingsPanel())
	resultsTab := container.NewTabItem("Results", a.buildResultsPanel())

	a.tabs = container.NewAppTabs(shapesTab, regionsTab, settingsTab, resultsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.status = widget.NewLabel("Ready")
	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open puzzle text", a.openPuzzleText),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save project", a.saveProject),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.MediaPlayIcon(), "Solve all regions", a.runSolve),
		newIconButtonWithTooltip(theme.MediaStopIcon(), "Cancel the running solve", a.cancelSolve),
		layout.NewSpacer(),
		a.status,
	)

	content := container.NewBorder(toolbar, nil, nil, nil, a.tabs)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

// setPuzzle replaces the current puzzle and redraws every panel.
func (a *App) setPuzzle(p model.Puzzle) {
	a.cancelSolve()
	a.puzzle = p
	a.history.Clear()
	a.refreshShapesList()
	a.refreshRegionsList()
	a.refreshSettingsPanel()
	a.refreshResults()
	a.window.SetTitle("PolyPack: " + p.Name)
}

func (a *App) setStatus(text string) {
	if a.status != nil {
		a.status.SetText(text)
	}
}

// ─── Undo / Redo ───────────────────────────────────────────

// saveState records the puzzle before a modification.
func (a *App) saveState(label string) {
	a.history.Push(MakeSnapshot(a.puzzle.Shapes, a.puzzle.Regions, label))
}

func (a *App) restore(s Snapshot) {
	a.puzzle.Shapes = s.Shapes
	a.puzzle.Regions = s.Regions
	a.refreshShapesList()
	a.refreshRegionsList()
}

func (a *App) undo() {
	current := MakeSnapshot(a.puzzle.Shapes, a.puzzle.Regions, "")
	if s, ok := a.history.Undo(current); ok {
		a.restore(s)
		a.setStatus("Undo: " + s.Label)
	}
}

func (a *App) redo() {
	current := MakeSnapshot(a.puzzle.Shapes, a.puzzle.Regions, "")
	if s, ok := a.history.Redo(current); ok {
		a.restore(s)
		a.setStatus("Redo")
	}
}

// ─── Shapes Panel ──────────────────────────────────────────

func (a *App) buildShapesPanel() fyne.CanvasObject {
	a.shapesContainer = container.NewVBox()
	a.refreshShapesList()

	addBtn := widget.NewButtonWithIcon("Add Shape", theme.ContentAddIcon(), func() {
		a.showShapeDialog(-1)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Shape Catalog", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.shapesContainer),
	)
}

func (a *App) refreshShapesList() {
	if a.shapesContainer == nil {
		return
	}
	a.shapesContainer.RemoveAll()

	if len(a.puzzle.Shapes) == 0 {
		a.shapesContainer.Add(widget.NewLabel("No shapes defined. Open a puzzle or click 'Add Shape' to begin."))
		return
	}

	for i := range a.puzzle.Shapes {
		idx := i
		def := a.puzzle.Shapes[idx]
		h, w := def.Shape.Bounds()
		row := container.NewHBox(
			widget.NewLabelWithStyle(strconv.Itoa(idx), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widgets.NewShapePreview(def.Shape, widgets.PieceColor(idx), 14),
			widget.NewLabel(fmt.Sprintf("%s: %d cells, %dx%d", def.Label, def.Shape.Size(), w, h)),
			layout.NewSpacer(),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit shape", func() {
				a.showShapeDialog(idx)
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Delete shape", func() {
				a.saveState("Delete Shape")
				a.puzzle.Shapes = append(a.puzzle.Shapes[:idx], a.puzzle.Shapes[idx+1:]...)
				for j := range a.puzzle.Shapes {
					a.puzzle.Shapes[j].Index = j
				}
				a.refreshShapesList()
			}),
		)
		a.shapesContainer.Add(row)
		a.shapesContainer.Add(widget.NewSeparator())
	}
}

// showShapeDialog edits shape idx, or adds a new shape when idx < 0.
func (a *App) showShapeDialog(idx int) {
	labelEntry := widget.NewEntry()
	cellsEntry := widget.NewMultiLineEntry()
	cellsEntry.SetMinRowsVisible(5)
	cellsEntry.SetPlaceHolder("###\n#..")

	title, confirm := "Add Shape", "Add"
	if idx >= 0 {
		def := a.puzzle.Shapes[idx]
		labelEntry.SetText(def.Label)
		cellsEntry.SetText(def.Shape.String())
		title, confirm = "Edit Shape", "Save"
	} else {
		labelEntry.SetText(fmt.Sprintf("Shape %d", len(a.puzzle.Shapes)))
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Cells (# and .)", cellsEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			s, err := parseShapeText(cellsEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if idx >= 0 {
				a.saveState("Edit Shape")
				a.puzzle.Shapes[idx].Label = labelEntry.Text
				a.puzzle.Shapes[idx].Shape = s
			} else {
				a.saveState("Add Shape")
				n := len(a.puzzle.Shapes)
				a.puzzle.Shapes = append(a.puzzle.Shapes, model.NewShapeDef(n, labelEntry.Text, s))
			}
			a.refreshShapesList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 350))
	form.Show()
}

// ─── Regions Panel ─────────────────────────────────────────

func (a *App) buildRegionsPanel() fyne.CanvasObject {
	a.regionsContainer = container.NewVBox()
	a.refreshRegionsList()

	addBtn := widget.NewButtonWithIcon("Add Region", theme.ContentAddIcon(), func() {
		a.showRegionDialog(-1)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Regions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.regionsContainer),
	)
}

func (a *App) refreshRegionsList() {
	if a.regionsContainer == nil {
		return
	}
	a.regionsContainer.RemoveAll()

	if len(a.puzzle.Regions) == 0 {
		a.regionsContainer.Add(widget.NewLabel("No regions added yet. Click 'Add Region' to begin."))
		return
	}

	header := container.NewGridWithColumns(7,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Size", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Counts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Cells needed", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Load", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.regionsContainer.Add(header)
	a.regionsContainer.Add(widget.NewSeparator())

	for i := range a.puzzle.Regions {
		idx := i
		r := a.puzzle.Regions[idx]
		est := model.Estimate(r, a.puzzle.Shapes)
		need := widget.NewLabel(fmt.Sprintf("%d / %d", est.RequiredCells, est.Area))
		if !est.Fits() {
			need.Importance = widget.DangerImportance
		}
		row := container.NewGridWithColumns(7,
			widget.NewLabel(r.Label),
			widget.NewLabel(r.String()),
			widget.NewLabel(formatCounts(r.Counts)),
			need,
			widget.NewLabel(fmt.Sprintf("%d pieces, %.0f%% fill", est.Pieces, est.FillPercent)),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit region", func() {
				a.showRegionDialog(idx)
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Delete region", func() {
				a.saveState("Delete Region")
				a.puzzle.Regions = append(a.puzzle.Regions[:idx], a.puzzle.Regions[idx+1:]...)
				a.refreshRegionsList()
			}),
		)
		a.regionsContainer.Add(row)
	}
}

// showRegionDialog edits region idx, or adds a new region when idx < 0.
func (a *App) showRegionDialog(idx int) {
	labelEntry := widget.NewEntry()
	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()
	countsEntry := widget.NewEntry()
	countsEntry.SetPlaceHolder("one count per shape, e.g. 0 1 2")

	title, confirm := "Add Region", "Add"
	if idx >= 0 {
		r := a.puzzle.Regions[idx]
		labelEntry.SetText(r.Label)
		widthEntry.SetText(strconv.Itoa(r.Width))
		heightEntry.SetText(strconv.Itoa(r.Height))
		countsEntry.SetText(formatCounts(r.Counts))
		title, confirm = "Edit Region", "Save"
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Width (cells)", widthEntry),
			widget.NewFormItem("Height (cells)", heightEntry),
			widget.NewFormItem("Shape Counts", countsEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			r, err := parseRegionForm(labelEntry.Text, widthEntry.Text, heightEntry.Text, countsEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if idx >= 0 {
				a.saveState("Edit Region")
				r.ID = a.puzzle.Regions[idx].ID
				a.puzzle.Regions[idx] = r
			} else {
				a.saveState("Add Region")
				a.puzzle.Regions = append(a.puzzle.Regions, r)
			}
			a.refreshRegionsList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsPanel = container.NewVBox()
	a.refreshSettingsPanel()
	return container.NewVScroll(a.settingsPanel)
}

func (a *App) refreshSettingsPanel() {
	if a.settingsPanel == nil {
		return
	}
	a.settingsPanel.RemoveAll()
	s := &a.puzzle.Settings

	strategySelect := widget.NewSelect([]string{"Cells (Fast)", "Items (Largest First)"}, func(selected string) {
		switch selected {
		case "Items (Largest First)":
			s.Strategy = model.StrategyItems
		default:
			s.Strategy = model.StrategyCells
		}
	})
	if s.Strategy == model.StrategyItems {
		strategySelect.SetSelected("Items (Largest First)")
	} else {
		strategySelect.SetSelected("Cells (Fast)")
	}

	budgetEntry := widget.NewEntry()
	budgetEntry.SetText(strconv.FormatInt(s.NodeBudget, 10))
	budgetEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil && v >= 0 {
			s.NodeBudget = v
		}
	}

	timeoutEntry := widget.NewEntry()
	timeoutEntry.SetText(s.Timeout.String())
	timeoutEntry.OnChanged = func(text string) {
		if d, err := parseTimeout(text); err == nil {
			s.Timeout = d
		}
	}

	workersEntry := widget.NewEntry()
	workersEntry.SetText(strconv.Itoa(s.Workers))
	workersEntry.OnChanged = func(text string) {
		if v, err := strconv.Atoi(text); err == nil && v >= 0 {
			s.Workers = v
		}
	}

	a.settingsPanel.Add(widget.NewCard("Search", "", container.NewGridWithColumns(2,
		widget.NewLabel("Strategy"), strategySelect,
		widget.NewLabel("Node Budget per Region (0 = unlimited)"), budgetEntry,
		widget.NewLabel("Timeout per Region (0 = none)"), timeoutEntry,
		widget.NewLabel("Parallel Workers (0 = all CPUs)"), workersEntry,
	)))
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack(
		widget.NewLabel("No results yet. Open a puzzle, then click Solve."),
	)
	return a.resultContainer
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderRegionResults(a.puzzle.Result))
	a.resultContainer.Refresh()
}
