// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"pixelforge/internal/app"
	pimage "pixelforge/internal/image"
	"pixelforge/internal/raster"
	"pixelforge/internal/version"
	"pixelforge/pkg/geometry"
	"pixelforge/ui/canvas"
	"pixelforge/ui/dialogs"
	"pixelforge/ui/panels"
)

const (
	appTitle       = "PixelForge"
	projectExt     = ".json"
	prefKeyLastDir = "lastDirectory"
	exportScale    = 8
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	log       *zap.Logger
	canvas    *canvas.PixelCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	cursorPos *widget.Label
	historyLb *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, log *zap.Logger) *MainWindow {
	fyneApp.Settings().SetTheme(&PixelForgeTheme{})
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		log:    log,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.updateTitle()

	win.Resize(fyne.NewSize(1100, 760))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPixelCanvas(mw.state, mw.log)
	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")
	mw.cursorPos = widget.NewLabel("")
	mw.historyLb = widget.NewLabel("")
	mw.updateHistory()

	mw.canvas.OnHover(func(p geometry.Point, inside bool) {
		if inside {
			mw.cursorPos.SetText(p.String())
		} else {
			mw.cursorPos.SetText("")
		}
	})

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.canvas,          // center
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.22)

	status := container.NewBorder(nil, nil, nil,
		container.NewHBox(mw.cursorPos, mw.historyLb),
		mw.statusBar,
	)

	mw.SetContent(container.NewBorder(nil, container.NewPadded(status), nil, nil, split))
}

// createToolbar creates the toolbar with zoom and history controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Undo", mw.onUndo),
		widget.NewButton("Redo", mw.onRedo),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("1:1", func() { mw.state.SetZoom(app.MinZoom) }),
		widget.NewCheck("Grid", func(on bool) {
			_, col, size := mw.state.Grid()
			mw.state.SetGrid(on, col, size)
		}),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Canvas...", mw.onNewCanvas),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Image...", mw.onImportImage),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Layer", mw.onClearLayer),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Grid", func() {
			on, col, size := mw.state.Grid()
			mw.state.SetGrid(!on, col, size)
		}),
	)

	layerMenu := fyne.NewMenu("Layer",
		fyne.NewMenuItem("Add Layer", func() { mw.state.AddLayer() }),
		fyne.NewMenuItem("Delete Layer", func() { mw.report(mw.state.DeleteLayer(mw.state.ActiveLayerID())) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Raise Layer", func() { mw.report(mw.state.MoveLayer(mw.state.ActiveLayerID(), pimage.Raise)) }),
		fyne.NewMenuItem("Lower Layer", func() { mw.report(mw.state.MoveLayer(mw.state.ActiveLayerID(), pimage.Lower)) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Visibility", func() { mw.toggleActive(false) }),
		fyne.NewMenuItem("Toggle Lock", func() { mw.toggleActive(true) }),
	)

	var toolItems []*fyne.MenuItem
	for _, t := range []raster.Tool{
		raster.ToolPencil, raster.ToolEraser, raster.ToolFill, raster.ToolEyedropper,
		raster.ToolLine, raster.ToolRectangle, raster.ToolEllipse,
	} {
		t := t
		name := t.String()
		toolItems = append(toolItems, fyne.NewMenuItem(strings.ToUpper(name[:1])+name[1:], func() { mw.state.SetTool(t) }))
	}
	toolsMenu := fyne.NewMenu("Tools", toolItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, layerMenu, toolsMenu, helpMenu))
}

// setupShortcuts routes typed keys through the editor's shortcut table.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedRune(func(r rune) {
		mw.state.HandleShortcut(r, false, false)
	})

	ctrl := []struct {
		key   fyne.KeyName
		shift bool
		r     rune
	}{
		{fyne.KeyZ, false, 'z'},
		{fyne.KeyZ, true, 'z'},
		{fyne.KeyY, false, 'y'},
		{fyne.KeyS, false, 's'},
	}
	for _, c := range ctrl {
		c := c
		mod := fyne.KeyModifierShortcutDefault
		if c.shift {
			mod |= fyne.KeyModifierShift
		}
		mw.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: c.key, Modifier: mod}, func(fyne.Shortcut) {
			mw.state.HandleShortcut(c.r, true, c.shift)
		})
	}
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	refresh := func(interface{}) { mw.canvas.Refresh() }
	mw.state.On(app.EventLayersChanged, refresh)
	mw.state.On(app.EventSettingsChanged, refresh)
	mw.state.On(app.EventToolChanged, func(data interface{}) {
		if t, ok := data.(raster.Tool); ok {
			mw.updateStatus("Tool: " + t.String())
		}
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventHistoryChanged, func(interface{}) {
		mw.updateHistory()
		mw.updateTitle()
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventProjectLoaded, func(interface{}) {
		mw.updateTitle()
		mw.canvas.Refresh()
	})
	mw.state.On(app.EventProjectSaved, func(interface{}) { mw.updateTitle() })

	mw.state.On(app.EventSaveRequested, func(interface{}) { mw.onSaveProject() })

	mw.state.On(app.EventNotice, func(data interface{}) {
		if n, ok := data.(app.Notice); ok {
			mw.updateStatus(n.Message)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateHistory() {
	cur, total := mw.state.HistoryPosition()
	mw.historyLb.SetText(fmt.Sprintf("History %d/%d", cur, total))
}

func (mw *MainWindow) updateTitle() {
	title := appTitle + " - " + mw.state.Name()
	if path := mw.state.ProjectPath(); path != "" {
		title += " (" + filepath.Base(path) + ")"
	}
	if mw.state.Modified() {
		title += " *"
	}
	mw.SetTitle(title)
}

func (mw *MainWindow) report(err error) {
	if err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) toggleActive(lock bool) {
	id := mw.state.ActiveLayerID()
	for _, l := range mw.state.Layers() {
		if l.ID != id {
			continue
		}
		if lock {
			mw.report(mw.state.SetLayerLocked(id, !l.Locked))
		} else {
			mw.report(mw.state.SetLayerVisible(id, !l.Visible))
		}
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// openFile shows a file-open dialog filtered to exts and passes the chosen path to fn.
func (mw *MainWindow) openFile(exts []string, fn func(path string) error) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.report(fn(path))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// saveFile shows a file-save dialog, forcing ext onto the chosen name.
func (mw *MainWindow) saveFile(name, ext string, fn func(path string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.EqualFold(filepath.Ext(path), ext) {
			path += ext
		}
		mw.saveLastDir(path)
		mw.report(fn(path))
	}, mw.Window)
	fd.SetFileName(name + ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// Menu action handlers

func (mw *MainWindow) onNewCanvas() {
	w, h := mw.state.Size()
	dialogs.NewCanvasSizeDialog(mw.Window, w, h, func(name string, width, height int) {
		mw.report(mw.state.NewCanvas(name, width, height))
	}).Show()
}

func (mw *MainWindow) onOpenProject() {
	mw.openFile([]string{projectExt}, mw.state.OpenProject)
}

func (mw *MainWindow) onSaveProject() {
	path := mw.state.ProjectPath()
	if path == "" {
		mw.onSaveProjectAs()
		return
	}
	mw.report(mw.state.SaveProject(path))
}

func (mw *MainWindow) onSaveProjectAs() {
	mw.saveFile(mw.state.Name(), projectExt, mw.state.SaveProject)
}

func (mw *MainWindow) onImportImage() {
	mw.openFile(pimage.SupportedFormats(), mw.state.ImportImage)
}

func (mw *MainWindow) onExportPNG() {
	mw.saveFile(mw.state.Name(), ".png", func(path string) error {
		return mw.state.ExportPNG(path, exportScale)
	})
}

func (mw *MainWindow) onUndo() {
	mw.state.Undo()
}

func (mw *MainWindow) onRedo() {
	mw.state.Redo()
}

func (mw *MainWindow) onClearLayer() {
	mw.report(mw.state.ClearLayer())
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"A layered pixel-art editor.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
