// PolyPack desktop application.
//
// Build:
//   go build -o polypack-gui ./cmd/polypack-gui
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o polypack-gui.exe ./cmd/polypack-gui
//   GOOS=darwin  GOARCH=amd64 go build -o polypack-gui-darwin ./cmd/polypack-gui
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/PolyPack/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.polypack")
	window := application.NewWindow("PolyPack: Polyomino Region Packer")

	appUI := ui.NewApp(application, window)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	if len(os.Args) > 1 {
		appUI.Open(os.Args[1])
	}
	window.ShowAndRun()
}
