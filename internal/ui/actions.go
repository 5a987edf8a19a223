package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolyPack/internal/engine"
	"github.com/piwi3910/PolyPack/internal/export"
	"github.com/piwi3910/PolyPack/internal/importer"
	"github.com/piwi3910/PolyPack/internal/model"
	"github.com/piwi3910/PolyPack/internal/project"
)

// ─── Solving ───────────────────────────────────────────────

// startSearch registers a cancelable context for a background search.
// It reports false if a search is already running.
func (a *App) startSearch() (context.Context, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return nil, false
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	return ctx, true
}

func (a *App) finishSearch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *App) cancelSolve() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
		a.setStatus("Canceling...")
	}
}

// solveInput copies the puzzle so edits made while the search runs do not
// race with it.
func (a *App) solveInput() model.Puzzle {
	p := a.puzzle
	p.Shapes = copyShapes(a.puzzle.Shapes)
	p.Regions = copyRegions(a.puzzle.Regions)
	p.Result = nil
	return p
}

func (a *App) runSolve() {
	if len(a.puzzle.Regions) == 0 {
		dialog.ShowInformation("Nothing to solve", "Add at least one region first.", a.window)
		return
	}
	ctx, ok := a.startSearch()
	if !ok {
		return
	}

	input := a.solveInput()
	solver := engine.New(input.Settings)
	solver.Logger = a.logger
	a.setStatus(fmt.Sprintf("Solving %d regions...", len(input.Regions)))

	go func() {
		defer a.finishSearch()
		start := time.Now()
		result, err := solver.Solve(ctx, input)
		elapsed := time.Since(start)

		fyne.Do(func() {
			if err != nil && !errors.Is(err, context.Canceled) {
				a.setStatus("Solve failed")
				dialog.ShowError(err, a.window)
				return
			}
			if a.puzzle.ID != input.ID {
				return
			}
			a.puzzle.Result = &result
			a.refreshResults()
			if a.tabs != nil {
				a.tabs.SelectIndex(3)
			}
			status := fmt.Sprintf("%d of %d regions packable in %s",
				result.PackableCount(), len(result.Regions), elapsed.Round(time.Millisecond))
			if errors.Is(err, context.Canceled) {
				status += " (canceled)"
			}
			a.setStatus(status)
		})
	}()
}

func (a *App) runCompare() {
	if len(a.puzzle.Regions) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one region first.", a.window)
		return
	}
	ctx, ok := a.startSearch()
	if !ok {
		return
	}

	input := a.solveInput()
	scenarios := engine.BuildDefaultScenarios(input.Settings)
	a.setStatus(fmt.Sprintf("Comparing %d scenarios...", len(scenarios)))

	go func() {
		defer a.finishSearch()
		results, err := engine.CompareScenarios(ctx, scenarios, input)

		fyne.Do(func() {
			status, failed := compareOutcome(err)
			a.setStatus(status)
			if failed {
				dialog.ShowError(err, a.window)
			}
			if err != nil {
				return
			}
			a.showComparison(results)
		})
	}()
}

func (a *App) showComparison(results []engine.ComparisonResult) {
	grid := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Scenario", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Packable", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Aborted", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Nodes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Time", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, r := range results {
		grid.Add(widget.NewLabel(r.Scenario.Name))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d / %d", r.PackableCount, len(r.Result.Regions))))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.AbortedCount)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.Nodes)))
		grid.Add(widget.NewLabel(r.Elapsed.Round(time.Millisecond).String()))
	}

	agree := widget.NewLabel("All scenarios reached the same verdicts.")
	if !engine.VerdictsAgree(results) {
		agree.SetText("Scenarios disagree on at least one region!")
		agree.Importance = widget.DangerImportance
	}

	d := dialog.NewCustom("Strategy Comparison", "Close", container.NewVBox(grid, widget.NewSeparator(), agree), a.window)
	d.Resize(fyne.NewSize(600, 250))
	d.Show()
}

// ─── Files ─────────────────────────────────────────────────

// Open loads a puzzle text file or saved project into the window.
func (a *App) Open(path string) {
	a.openPath(path)
}

// openPath loads a saved project or a puzzle text file by extension.
func (a *App) openPath(path string) {
	var (
		p   model.Puzzle
		err error
	)
	if strings.EqualFold(filepath.Ext(path), project.FileExtension) {
		p, err = project.LoadPuzzle(path)
	} else {
		p, err = importer.ParsePuzzleFile(path)
		if err == nil {
			a.config.ApplyToSettings(&p.Settings)
		}
	}
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.setPuzzle(p)
	a.rememberRecent(path)
	a.setStatus(fmt.Sprintf("Loaded %d shapes, %d regions", len(p.Shapes), len(p.Regions)))
}

func (a *App) openPuzzleText() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openPath(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".txt", ".in", ".puzzle"}))
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openPath(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.FileExtension}))
	d.Show()
}

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.SavePuzzle(path, a.puzzle); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberRecent(path)
		a.setStatus("Saved " + filepath.Base(path))
	}, a.window)
	d.SetFileName(a.puzzle.Name + project.FileExtension)
	d.Show()
}

// ─── Import ────────────────────────────────────────────────

func (a *App) importRegionsCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(importer.ImportRegionsCSV(reader.URI().Path()))
	}, a.window)
}

func (a *App) importRegionsExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(importer.ImportRegionsExcel(reader.URI().Path()))
	}, a.window)
}

func (a *App) importShapesDXF() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(importer.ImportShapesDXF(reader.URI().Path()))
	}, a.window)
}

// handleImportResult appends imported regions and shapes to the puzzle.
// Imported shapes are renumbered after the existing catalog.
func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	for _, w := range result.Warnings {
		a.logger.Printf("import: %s", w)
	}

	if len(result.Regions) == 0 && len(result.Shapes) == 0 {
		return
	}

	a.saveState("Import")
	a.puzzle.Regions = append(a.puzzle.Regions, result.Regions...)
	for _, def := range result.Shapes {
		n := len(a.puzzle.Shapes)
		a.puzzle.Shapes = append(a.puzzle.Shapes, model.NewShapeDef(n, def.Label, def.Shape))
	}
	a.refreshShapesList()
	a.refreshRegionsList()

	msg := fmt.Sprintf("Imported %d regions and %d shapes.", len(result.Regions), len(result.Shapes))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

// ─── Export ────────────────────────────────────────────────

// requireResult shows a hint and returns false when nothing has been solved.
func (a *App) requireResult() bool {
	if a.puzzle.Result == nil || len(a.puzzle.Result.Regions) == 0 {
		dialog.ShowInformation("No results", "Solve the puzzle first before exporting.", a.window)
		return false
	}
	return true
}

// saveExport asks for a destination and runs write on it.
func (a *App) saveExport(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportPDF() {
	if !a.requireResult() {
		return
	}
	a.saveExport(a.puzzle.Name+".pdf", func(path string) error {
		return export.ExportPDF(path, *a.puzzle.Result, a.puzzle.Shapes)
	})
}

func (a *App) exportExcel() {
	if !a.requireResult() {
		return
	}
	a.saveExport(a.puzzle.Name+".xlsx", func(path string) error {
		return export.ExportExcel(path, *a.puzzle.Result, a.puzzle.Shapes)
	})
}

func (a *App) exportLabels() {
	if !a.requireResult() {
		return
	}
	a.saveExport(a.puzzle.Name+"-labels.pdf", func(path string) error {
		return export.ExportLabels(path, *a.puzzle.Result)
	})
}

func (a *App) exportJSON() {
	if !a.requireResult() {
		return
	}
	a.saveExport(a.puzzle.Name+".json", func(path string) error {
		return export.ExportJSON(path, *a.puzzle.Result)
	})
}

// exportDXF asks which packable region to export as a layout drawing.
func (a *App) exportDXF() {
	if !a.requireResult() {
		return
	}
	var (
		names   []string
		indexes []int
	)
	for i, rr := range a.puzzle.Result.Regions {
		if rr.Packable() {
			names = append(names, fmt.Sprintf("%d: %s", i+1, rr.Region.Label))
			indexes = append(indexes, i)
		}
	}
	if len(names) == 0 {
		dialog.ShowInformation("No layouts", "No region was packable, so there is no layout to export.", a.window)
		return
	}

	regionSelect := widget.NewSelect(names, nil)
	regionSelect.SetSelectedIndex(0)
	dialog.ShowForm("Export Layout DXF", "Next", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Region", regionSelect)},
		func(ok bool) {
			if !ok || regionSelect.SelectedIndex() < 0 {
				return
			}
			rr := a.puzzle.Result.Regions[indexes[regionSelect.SelectedIndex()]]
			a.saveExport(fmt.Sprintf("%s-%s.dxf", a.puzzle.Name, rr.Region.Label), func(path string) error {
				return export.ExportDXF(path, rr)
			})
		},
		a.window,
	)
}
