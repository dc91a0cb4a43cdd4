// Package app holds the editor state and the operations the UI drives.
package app

import (
	"errors"
	"fmt"
	goimage "image"
	"sync"

	"go.uber.org/zap"

	"pixelforge/internal/history"
	"pixelforge/internal/image"
	"pixelforge/internal/project"
	"pixelforge/internal/raster"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

// Editor limits.
const (
	MinZoom         = 1
	MaxZoom         = 16
	MinGridSize     = 1
	MaxGridSize     = 32
	MaxRecentColors = 10
)

var (
	// ErrLayerLocked is returned when a pixel edit targets a locked layer.
	ErrLayerLocked = errors.New("layer is locked")

	// ErrPaletteIndex is returned for a palette index out of range.
	ErrPaletteIndex = errors.New("palette index out of range")
)

// EventType identifies different editor events.
type EventType int

const (
	EventLayersChanged EventType = iota
	EventHistoryChanged
	EventToolChanged
	EventColorChanged
	EventSettingsChanged
	EventProjectLoaded
	EventProjectSaved
	EventAutosaved
	EventAutosaveFailed
	EventSaveRequested
	EventNotice
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NoticeLevel grades a Notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Notice is the payload of EventNotice: a short message for the status line.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// LayerInfo describes a layer without its pixels.
type LayerInfo struct {
	ID      string
	Name    string
	Visible bool
	Locked  bool
	Opacity int
	Pixels  int
	Active  bool
}

// State is the whole editor: the document being edited plus tool settings.
//
// All methods are safe for concurrent use. Mutations hold the write lock
// for their full duration and emit events after releasing it, so listeners
// may call back into State.
type State struct {
	mu  sync.RWMutex
	log *zap.Logger

	// Document
	name        string
	width       int
	height      int
	stack       *image.Stack
	history     *history.Manager
	palette     []colorutil.Color
	background  colorutil.Color
	gridEnabled bool
	gridColor   colorutil.Color
	gridSize    int
	projectPath string
	modified    bool

	// Editing
	activeID  string
	tool      raster.Tool
	primary   colorutil.Color
	secondary colorutil.Color
	recent    []colorutil.Color
	gesture   gesture

	// Settings
	zoom         int
	autosave     bool
	coalesce     bool
	interpolate  bool
	historyLimit int

	listeners map[EventType][]EventListener
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger; the default discards.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) { s.log = l }
}

// WithCanvasSize sets the size of the initial canvas.
func WithCanvasSize(width, height int) Option {
	return func(s *State) {
		if width > 0 && height > 0 && width <= project.MaxSize && height <= project.MaxSize {
			s.width, s.height = width, height
		}
	}
}

// WithHistoryLimit caps undo depth. Zero keeps every step.
func WithHistoryLimit(n int) Option {
	return func(s *State) { s.historyLimit = n }
}

// WithCoalesceStrokes makes a whole pencil or eraser drag a single undo step
// instead of one step per pointer tick.
func WithCoalesceStrokes(on bool) Option {
	return func(s *State) { s.coalesce = on }
}

// WithInterpolateStrokes fills the gaps a fast pencil or eraser drag leaves
// between pointer ticks. Off, each tick touches only the cell under the pointer.
func WithInterpolateStrokes(on bool) Option {
	return func(s *State) { s.interpolate = on }
}

// WithZoom sets the initial zoom.
func WithZoom(z int) Option {
	return func(s *State) { s.zoom = clampInt(z, MinZoom, MaxZoom) }
}

// NewState creates an editor holding a fresh default project.
func NewState(opts ...Option) *State {
	s := &State{
		log:       zap.NewNop(),
		width:     project.DefaultWidth,
		height:    project.DefaultHeight,
		tool:      raster.ToolPencil,
		primary:   colorutil.Black,
		secondary: colorutil.White,
		zoom:      4,
		autosave:  true,
		listeners: make(map[EventType][]EventListener),
	}
	for _, opt := range opts {
		opt(s)
	}

	p := project.New("")
	p.Width, p.Height = s.width, s.height
	s.install(p)
	return s
}

// install replaces the document with p and starts a new history. Caller
// holds the lock or owns s exclusively; p must already be a private copy.
func (s *State) install(p *project.Project) {
	s.name = p.Name
	s.width, s.height = p.Width, p.Height
	s.stack = image.NewStackFrom(p.Layers)
	s.palette = p.Palette
	s.background = p.Background
	s.gridEnabled = p.GridEnabled
	s.gridColor = p.GridColor
	s.gridSize = p.GridSize
	s.activeID = s.stack.First().ID
	s.gesture = gesture{}
	s.modified = false
	s.history = history.New(s.stack.Layers(), history.WithLimit(s.historyLimit))
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

type queuedEvent struct {
	event EventType
	data  interface{}
}

type eventQueue []queuedEvent

func (q *eventQueue) add(event EventType, data interface{}) {
	*q = append(*q, queuedEvent{event, data})
}

func (q *eventQueue) notice(level NoticeLevel, format string, args ...interface{}) {
	q.add(EventNotice, Notice{Level: level, Message: fmt.Sprintf(format, args...)})
}

// mutate runs fn under the write lock, then emits whatever fn queued.
func (s *State) mutate(fn func(q *eventQueue) error) error {
	var q eventQueue
	s.mu.Lock()
	err := fn(&q)
	s.mu.Unlock()

	for _, e := range q {
		s.Emit(e.event, e.data)
	}
	return err
}

// commit records the live stack as a new undo step.
func (s *State) commit(q *eventQueue) {
	s.history.Commit(s.stack.Layers())
	s.modified = true
	q.add(EventLayersChanged, nil)
	q.add(EventHistoryChanged, nil)
}

func (s *State) bounds() geometry.Rect {
	return geometry.Bounds(s.width, s.height)
}

// editableLayer returns the active layer, or ErrLayerLocked.
func (s *State) editableLayer() (*image.Layer, error) {
	l, err := s.stack.Get(s.activeID)
	if err != nil {
		return nil, err
	}
	if l.Locked {
		return nil, fmt.Errorf("%w: %s", ErrLayerLocked, l.Name)
	}
	return l, nil
}

// Name returns the project name.
func (s *State) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Size returns the canvas size in cells.
func (s *State) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Modified reports unsaved changes.
func (s *State) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// ProjectPath returns the file the project was last opened from or saved to.
func (s *State) ProjectPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectPath
}

// ActiveLayerID returns the layer drawing operations target.
func (s *State) ActiveLayerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Layers describes the stack, top first.
func (s *State) Layers() []LayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LayerInfo, s.stack.Len())
	for i, l := range s.stack.Layers() {
		out[i] = LayerInfo{
			ID:      l.ID,
			Name:    l.Name,
			Visible: l.Visible,
			Locked:  l.Locked,
			Opacity: l.Opacity,
			Pixels:  l.Pixels.Len(),
			Active:  l.ID == s.activeID,
		}
	}
	return out
}

// LayerPixels returns a copy of one layer's pixels.
func (s *State) LayerPixels(id string) (*image.Layer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, err := s.stack.Get(id)
	if err != nil {
		return nil, err
	}
	return l.Clone(), nil
}

// Render composites the live stack at native resolution.
func (s *State) Render() *goimage.NRGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return image.CompositeLayers(s.stack.Layers(), s.width, s.height, s.background)
}

// Tool returns the current tool.
func (s *State) Tool() raster.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool switches tools. An unfinished gesture is ended first.
func (s *State) SetTool(t raster.Tool) {
	_ = s.mutate(func(q *eventQueue) error {
		if s.tool == t {
			return nil
		}
		s.endGesture(q, false)
		s.tool = t
		q.add(EventToolChanged, t)
		return nil
	})
}

// Zoom returns the display scale, one cell to Zoom screen pixels.
func (s *State) Zoom() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// SetZoom sets the display scale, clamped to MinZoom-MaxZoom.
func (s *State) SetZoom(z int) {
	_ = s.mutate(func(q *eventQueue) error {
		z = clampInt(z, MinZoom, MaxZoom)
		if z != s.zoom {
			s.zoom = z
			q.add(EventSettingsChanged, nil)
		}
		return nil
	})
}

// Background returns the canvas background colour.
func (s *State) Background() colorutil.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

// SetBackground sets the canvas background; Transparent leaves it clear.
func (s *State) SetBackground(c colorutil.Color) {
	_ = s.mutate(func(q *eventQueue) error {
		s.background = c
		s.modified = true
		q.add(EventSettingsChanged, nil)
		return nil
	})
}

// Grid returns the grid overlay settings.
func (s *State) Grid() (enabled bool, col colorutil.Color, size int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gridEnabled, s.gridColor, s.gridSize
}

// SetGrid updates the grid overlay. size is clamped to MinGridSize-MaxGridSize.
func (s *State) SetGrid(enabled bool, col colorutil.Color, size int) {
	_ = s.mutate(func(q *eventQueue) error {
		s.gridEnabled = enabled
		s.gridColor = col
		s.gridSize = clampInt(size, MinGridSize, MaxGridSize)
		s.modified = true
		q.add(EventSettingsChanged, nil)
		return nil
	})
}

// AutosaveEnabled reports whether the autosaver should write.
func (s *State) AutosaveEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autosave
}

// SetAutosave turns autosave on or off.
func (s *State) SetAutosave(on bool) {
	_ = s.mutate(func(q *eventQueue) error {
		if s.autosave != on {
			s.autosave = on
			q.add(EventSettingsChanged, nil)
		}
		return nil
	})
}

// CoalesceStrokes reports whether freehand drags commit once per drag.
func (s *State) CoalesceStrokes() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coalesce
}

// SetCoalesceStrokes changes the freehand commit policy. A drag in progress
// keeps the policy it started with.
func (s *State) SetCoalesceStrokes(on bool) {
	_ = s.mutate(func(q *eventQueue) error {
		s.coalesce = on
		return nil
	})
}

// InterpolateStrokes reports whether freehand ticks are joined by lines.
func (s *State) InterpolateStrokes() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interpolate
}

// SetInterpolateStrokes changes the freehand gap policy. A drag in progress
// keeps the policy it started with.
func (s *State) SetInterpolateStrokes(on bool) {
	_ = s.mutate(func(q *eventQueue) error {
		s.interpolate = on
		return nil
	})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
