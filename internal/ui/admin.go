package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolyPack/internal/model"
	"github.com/piwi3910/PolyPack/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	strategySelect := widget.NewSelect([]string{string(model.StrategyCells), string(model.StrategyItems)}, func(selected string) {
		cfg.DefaultStrategy = model.Strategy(selected)
	})
	strategySelect.SetSelected(string(cfg.DefaultStrategy))

	budgetEntry := widget.NewEntry()
	budgetEntry.SetText(strconv.FormatInt(cfg.DefaultNodeBudget, 10))

	timeoutEntry := widget.NewEntry()
	timeoutEntry.SetText(cfg.DefaultTimeout.String())

	workersEntry := widget.NewEntry()
	workersEntry.SetText(strconv.Itoa(cfg.DefaultWorkers))

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Strategy", strategySelect),
		widget.NewFormItem("Default Node Budget", budgetEntry),
		widget.NewFormItem("Default Timeout", timeoutEntry),
		widget.NewFormItem("Default Workers", workersEntry),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			budget, err := strconv.ParseInt(budgetEntry.Text, 10, 64)
			if err != nil || budget < 0 {
				dialog.ShowError(fmt.Errorf("node budget must be a non-negative integer"), a.window)
				return
			}
			timeout, err := parseTimeout(timeoutEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			workers, err := strconv.Atoi(workersEntry.Text)
			if err != nil || workers < 0 {
				dialog.ShowError(fmt.Errorf("workers must be a non-negative integer"), a.window)
				return
			}
			cfg.DefaultNodeBudget = budget
			cfg.DefaultTimeout = timeout
			cfg.DefaultWorkers = workers

			a.config = cfg
			a.app.Settings().SetTheme(NewPolyPackThemeFor(cfg.Theme))
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Defaults apply to puzzles opened from now on.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(450, 380))
	d.Show()
}

// showImportExportDialog displays the backup and restore dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.library); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("polypack-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current settings and shape library.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					a.library = backup.Library
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					if err := project.SaveDefaultLibrary(a.library); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported library: %w", err), a.window)
						return
					}
					a.app.Settings().SetTheme(NewPolyPackThemeFor(a.config.Theme))
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	mergeBtn := widget.NewButton("Merge Shape Library...", func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			merged, err := project.MergeLibrary(reader.URI().Path(), a.library)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			added := len(merged.Entries) - len(a.library.Entries)
			a.library = merged
			if err := project.SaveDefaultLibrary(a.library); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			dialog.ShowInformation("Library Merged", fmt.Sprintf("Added %d catalogs.", added), a.window)
		}, a.window)
		d.Show()
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings and the shape library to a backup file,\nor restore them from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
		mergeBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 280))
	d.Show()
}

// showSaveToLibraryDialog stores the current catalog as a library entry.
func (a *App) showSaveToLibraryDialog() {
	if len(a.puzzle.Shapes) == 0 {
		dialog.ShowInformation("No shapes", "The puzzle has no shapes to save.", a.window)
		return
	}
	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.puzzle.Name)
	descEntry := widget.NewEntry()

	dialog.ShowForm("Save Shapes to Library", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if nameEntry.Text == "" {
				dialog.ShowError(fmt.Errorf("name must not be empty"), a.window)
				return
			}
			a.library.Add(model.NewLibraryEntry(nameEntry.Text, descEntry.Text, a.puzzle.Shapes))
			if err := project.SaveDefaultLibrary(a.library); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
}

// showLibraryDialog starts a new puzzle from a saved catalog.
func (a *App) showLibraryDialog() {
	names := a.library.Names()
	if len(names) == 0 {
		dialog.ShowInformation("Library empty", "Save a shape catalog to the library first.", a.window)
		return
	}
	entrySelect := widget.NewSelect(names, nil)
	entrySelect.SetSelectedIndex(0)

	dialog.ShowForm("New Puzzle from Library", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Catalog", entrySelect)},
		func(ok bool) {
			if !ok {
				return
			}
			e := a.library.FindByName(entrySelect.Selected)
			if e == nil {
				return
			}
			p := e.ToPuzzle(e.Name)
			a.config.ApplyToSettings(&p.Settings)
			a.setPuzzle(p)
		},
		a.window,
	)
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
