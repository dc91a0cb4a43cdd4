// Package canvas provides the zoomable pixel canvas widget.
package canvas

import (
	"errors"
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"pixelforge/internal/app"
	pimage "pixelforge/internal/image"
	"pixelforge/pkg/geometry"
)

// PixelCanvas shows the composited document and turns pointer input into
// editor gestures. One cell is drawn as zoom x zoom screen pixels.
type PixelCanvas struct {
	widget.BaseWidget

	state *app.State
	log   *zap.Logger

	raster  *fynecanvas.Raster
	content *pointerContent
	scroll  *zoomScroll

	// Interaction state
	pressed  bool
	hovering bool
	hover    geometry.Point

	onHover func(p geometry.Point, inside bool)
}

// zoomScroll is a scroll container whose wheel events change the zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PixelCanvas
}

func newZoomScroll(content fyne.CanvasObject, pc *PixelCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: pc}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	zs.canvas.wheel(ev)
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pointerContent wraps the raster and receives mouse events in its own
// coordinate space.
type pointerContent struct {
	widget.BaseWidget
	canvas *PixelCanvas
	raster *fynecanvas.Raster
}

var (
	_ desktop.Mouseable = (*pointerContent)(nil)
	_ desktop.Hoverable = (*pointerContent)(nil)
	_ fyne.Draggable    = (*pointerContent)(nil)
)

func newPointerContent(pc *PixelCanvas, raster *fynecanvas.Raster) *pointerContent {
	c := &pointerContent{canvas: pc, raster: raster}
	c.ExtendBaseWidget(c)
	return c
}

func (c *pointerContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

func (c *pointerContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

func (c *pointerContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.canvas.pointerDown(ev.Position)
}

func (c *pointerContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.canvas.pointerUp(ev.Position)
}

func (c *pointerContent) MouseIn(ev *desktop.MouseEvent) {
	c.canvas.pointerHover(ev.Position)
}

func (c *pointerContent) MouseMoved(ev *desktop.MouseEvent) {
	c.canvas.pointerHover(ev.Position)
	if c.canvas.pressed {
		c.canvas.pointerMove(ev.Position)
	}
}

func (c *pointerContent) MouseOut() {
	c.canvas.pointerLeave()
}

func (c *pointerContent) Dragged(ev *fyne.DragEvent) {
	c.canvas.pointerHover(ev.Position)
	if c.canvas.pressed {
		c.canvas.pointerMove(ev.Position)
	}
}

// DragEnd is followed by MouseUp, which finishes the gesture.
func (c *pointerContent) DragEnd() {}

// NewPixelCanvas creates a canvas bound to state.
func NewPixelCanvas(state *app.State, log *zap.Logger) *PixelCanvas {
	if log == nil {
		log = zap.NewNop()
	}
	pc := &PixelCanvas{state: state, log: log}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.content = newPointerContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	pc.ExtendBaseWidget(pc)
	pc.updateContentSize()
	return pc
}

// OnHover sets a callback for the cell under the pointer.
func (pc *PixelCanvas) OnHover(fn func(p geometry.Point, inside bool)) {
	pc.onHover = fn
}

// ZoomIn increases the zoom by one step.
func (pc *PixelCanvas) ZoomIn() {
	pc.state.SetZoom(pc.state.Zoom() + 1)
	pc.updateContentSize()
}

// ZoomOut decreases the zoom by one step.
func (pc *PixelCanvas) ZoomOut() {
	pc.state.SetZoom(pc.state.Zoom() - 1)
	pc.updateContentSize()
}

func (pc *PixelCanvas) wheel(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		pc.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.ZoomOut()
	}
}

// Refresh redraws the canvas and picks up size or zoom changes.
func (pc *PixelCanvas) Refresh() {
	pc.updateContentSize()
	pc.raster.Refresh()
}

func (pc *PixelCanvas) updateContentSize() {
	w, h := pc.state.Size()
	zoom := float32(pc.state.Zoom())
	size := fyne.NewSize(float32(w)*zoom, float32(h)*zoom)

	pc.raster.SetMinSize(size)
	pc.raster.Resize(size)
	pc.content.Resize(size)
	pc.scroll.Refresh()
}

func (pc *PixelCanvas) cellAt(pos fyne.Position) (geometry.Point, bool) {
	w, h := pc.state.Size()
	return CellAt(pos, pc.state.Zoom(), w, h)
}

func (pc *PixelCanvas) pointerDown(pos fyne.Position) {
	p, ok := pc.cellAt(pos)
	if !ok {
		return
	}
	pc.pressed = true
	pc.report(pc.state.PointerDown(p))
}

func (pc *PixelCanvas) pointerMove(pos fyne.Position) {
	if p, ok := pc.cellAt(pos); ok {
		pc.report(pc.state.PointerMove(p))
		pc.raster.Refresh()
	}
}

func (pc *PixelCanvas) pointerUp(pos fyne.Position) {
	if !pc.pressed {
		return
	}
	pc.pressed = false
	p, ok := pc.cellAt(pos)
	pc.report(pc.state.PointerUp(p, ok))
	pc.raster.Refresh()
}

func (pc *PixelCanvas) pointerLeave() {
	pc.hovering = false
	if pc.onHover != nil {
		pc.onHover(geometry.Point{}, false)
	}
	if pc.pressed {
		pc.pressed = false
		pc.state.PointerLeave()
	}
	pc.raster.Refresh()
}

func (pc *PixelCanvas) pointerHover(pos fyne.Position) {
	p, ok := pc.cellAt(pos)
	if ok == pc.hovering && p == pc.hover {
		return
	}
	pc.hover, pc.hovering = p, ok
	if pc.onHover != nil {
		pc.onHover(p, ok)
	}
	pc.raster.Refresh()
}

// report logs gesture errors. Locked-layer refusals already reach the user
// as notices.
func (pc *PixelCanvas) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, app.ErrLayerLocked) {
		pc.log.Debug("edit rejected", zap.Error(err))
		return
	}
	pc.log.Warn("gesture", zap.Error(err))
}

// draw renders the zoomed composite with grid, shape preview and cursor.
func (pc *PixelCanvas) draw(_, _ int) image.Image {
	zoom := pc.state.Zoom()
	w, h := pc.state.Size()
	out := pimage.Scale(pc.state.Render(), zoom)

	if enabled, col, size := pc.state.Grid(); enabled && zoom*size >= 4 {
		pimage.RenderGrid(out, zoom, size, col)
	}
	if prev, ok := pc.state.Preview(); ok {
		DrawCells(out, prev.Points(geometry.Bounds(w, h)), zoom, previewColor(pc.state.PrimaryColor()))
	}
	if pc.hovering {
		DrawCursor(out, pc.hover, zoom)
	}
	return out
}

// CreateRenderer implements fyne.Widget.
func (pc *PixelCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pixelCanvasRenderer{canvas: pc}
}

type pixelCanvasRenderer struct {
	canvas *PixelCanvas
}

func (r *pixelCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
}

func (r *pixelCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *pixelCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *pixelCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *pixelCanvasRenderer) Destroy() {}
