// Package panels provides UI panels for the application.
package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pixelforge/internal/app"
	"pixelforge/internal/image"
	"pixelforge/internal/raster"
	"pixelforge/pkg/colorutil"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	window    fyne.Window
	container *container.AppTabs

	toolsPanel  *ToolsPanel
	colorsPanel *ColorsPanel
	layersPanel *LayersPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.toolsPanel = NewToolsPanel(state)
	sp.colorsPanel = NewColorsPanel(state)
	sp.layersPanel = NewLayersPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Tools", sp.toolsPanel.Container()),
		container.NewTabItem("Colors", sp.colorsPanel.Container()),
		container.NewTabItem("Layers", sp.layersPanel.Container()),
	)

	state.On(app.EventToolChanged, func(interface{}) { sp.toolsPanel.Sync() })
	state.On(app.EventColorChanged, func(interface{}) { sp.colorsPanel.Sync() })
	state.On(app.EventLayersChanged, func(interface{}) { sp.layersPanel.Sync() })
	state.On(app.EventProjectLoaded, func(interface{}) { sp.Sync() })
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.window = w
	sp.colorsPanel.window = w
	sp.layersPanel.window = w
}

// Sync refreshes every tab from state.
func (sp *SidePanel) Sync() {
	sp.toolsPanel.Sync()
	sp.colorsPanel.Sync()
	sp.layersPanel.Sync()
}

// ToolsPanel selects the active tool.
type ToolsPanel struct {
	state     *app.State
	container fyne.CanvasObject
	buttons   map[raster.Tool]*widget.Button
}

// NewToolsPanel creates a new tools panel.
func NewToolsPanel(state *app.State) *ToolsPanel {
	tp := &ToolsPanel{state: state, buttons: make(map[raster.Tool]*widget.Button)}

	box := container.NewVBox()
	for _, t := range tools {
		t := t
		btn := widget.NewButton(toolLabel(t), func() { state.SetTool(t) })
		tp.buttons[t] = btn
		box.Add(btn)
	}
	tp.container = widget.NewCard("Tools", "", box)
	tp.Sync()
	return tp
}

// Container returns the panel container.
func (tp *ToolsPanel) Container() fyne.CanvasObject {
	return tp.container
}

// Sync highlights the active tool.
func (tp *ToolsPanel) Sync() {
	active := tp.state.Tool()
	for t, btn := range tp.buttons {
		if t == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

// ColorsPanel shows the primary and secondary colours, recent colours and
// the project palette.
type ColorsPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	current *fyne.Container
	recent  *fyne.Container
	palette *fyne.Container
	hex     *widget.Entry
}

// NewColorsPanel creates a new colors panel.
func NewColorsPanel(state *app.State) *ColorsPanel {
	cp := &ColorsPanel{state: state}

	cp.current = container.NewHBox()
	cp.recent = container.NewGridWrap(fyne.NewSize(22, 22))
	cp.palette = container.NewGridWrap(fyne.NewSize(22, 22))

	cp.hex = widget.NewEntry()
	cp.hex.SetPlaceHolder("#RRGGBB or name")
	cp.hex.OnSubmitted = func(text string) { cp.applyHex(text) }

	swap := widget.NewButton("Swap", state.SwapColors)
	add := widget.NewButton("Add to Palette", func() {
		state.AddPaletteColor(state.PrimaryColor())
		cp.Sync()
	})

	cp.container = container.NewVBox(
		widget.NewCard("Current", "", container.NewVBox(cp.current, cp.hex, container.NewHBox(swap, add))),
		widget.NewCard("Recent", "", cp.recent),
		widget.NewCard("Palette", "Tap to select, then Add to keep the primary colour", cp.palette),
	)
	cp.Sync()
	return cp
}

// Container returns the panel container.
func (cp *ColorsPanel) Container() fyne.CanvasObject {
	return cp.container
}

func (cp *ColorsPanel) applyHex(text string) {
	c, err := colorutil.Parse(text)
	if err != nil {
		if cp.window != nil {
			dialog.ShowError(err, cp.window)
		}
		return
	}
	cp.state.SetPrimaryColor(c)
}

// Sync rebuilds the swatches from state.
func (cp *ColorsPanel) Sync() {
	primary, secondary := cp.state.PrimaryColor(), cp.state.SecondaryColor()
	cp.current.Objects = []fyne.CanvasObject{
		swatch(primary, 32, nil),
		swatch(secondary, 24, cp.state.SwapColors),
	}
	cp.current.Refresh()
	cp.hex.SetText(primary.String())

	cp.recent.Objects = nil
	for _, c := range cp.state.RecentColors() {
		c := c
		cp.recent.Add(swatch(c, 20, func() { cp.state.SetPrimaryColor(c) }))
	}
	cp.recent.Refresh()

	cp.palette.Objects = nil
	for _, c := range cp.state.Palette() {
		c := c
		cp.palette.Add(swatch(c, 20, func() { cp.state.SetPrimaryColor(c) }))
	}
	cp.palette.Refresh()
}

// LayersPanel lists layers and edits their properties.
type LayersPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	list    *widget.List
	layers  []app.LayerInfo
	visible *widget.Check
	locked  *widget.Check
	opacity *widget.Slider
	name    *widget.Entry

	syncing bool
}

// NewLayersPanel creates a new layers panel.
func NewLayersPanel(state *app.State) *LayersPanel {
	lp := &LayersPanel{state: state}

	lp.list = widget.NewList(
		func() int { return len(lp.layers) },
		func() fyne.CanvasObject { return widget.NewLabel("layer") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(lp.layers) {
				o.(*widget.Label).SetText(layerLabel(lp.layers[i]))
			}
		},
	)
	lp.list.OnSelected = func(i widget.ListItemID) {
		if lp.syncing || i >= len(lp.layers) {
			return
		}
		_ = state.SelectLayer(lp.layers[i].ID)
	}

	lp.visible = widget.NewCheck("Visible", func(on bool) {
		lp.onActive(func(id string) error { return state.SetLayerVisible(id, on) })
	})
	lp.locked = widget.NewCheck("Locked", func(on bool) {
		lp.onActive(func(id string) error { return state.SetLayerLocked(id, on) })
	})
	lp.opacity = widget.NewSlider(image.MinOpacity, image.MaxOpacity)
	lp.opacity.OnChangeEnded = func(v float64) {
		lp.onActive(func(id string) error { return state.SetLayerOpacity(id, int(v)) })
	}
	lp.name = widget.NewEntry()
	lp.name.OnSubmitted = func(text string) {
		lp.onActive(func(id string) error { return state.RenameLayer(id, text) })
	}

	buttons := container.NewGridWithColumns(2,
		widget.NewButton("Add", func() { state.AddLayer() }),
		widget.NewButton("Delete", func() {
			lp.onActive(state.DeleteLayer)
		}),
		widget.NewButton("Raise", func() {
			lp.onActive(func(id string) error { return state.MoveLayer(id, image.Raise) })
		}),
		widget.NewButton("Lower", func() {
			lp.onActive(func(id string) error { return state.MoveLayer(id, image.Lower) })
		}),
	)

	lp.container = container.NewBorder(
		buttons,
		widget.NewCard("Active Layer", "", container.NewVBox(
			widget.NewForm(widget.NewFormItem("Name", lp.name)),
			lp.visible,
			lp.locked,
			widget.NewLabel("Opacity:"),
			lp.opacity,
		)),
		nil, nil,
		lp.list,
	)
	lp.Sync()
	return lp
}

// Container returns the panel container.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}

// onActive runs fn on the active layer unless the panel is mid-sync.
func (lp *LayersPanel) onActive(fn func(id string) error) {
	if lp.syncing {
		return
	}
	if err := fn(lp.state.ActiveLayerID()); err != nil && lp.window != nil {
		dialog.ShowError(err, lp.window)
	}
}

// Sync reloads the list and the active layer's controls.
func (lp *LayersPanel) Sync() {
	lp.syncing = true
	defer func() { lp.syncing = false }()

	lp.layers = lp.state.Layers()
	lp.list.Refresh()
	for i, l := range lp.layers {
		if !l.Active {
			continue
		}
		lp.list.Select(i)
		lp.name.SetText(l.Name)
		lp.visible.SetChecked(l.Visible)
		lp.locked.SetChecked(l.Locked)
		lp.opacity.SetValue(float64(l.Opacity))
	}
}
