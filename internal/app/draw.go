package app

import (
	"go.uber.org/zap"

	"pixelforge/internal/image"
	"pixelforge/internal/pixel"
	"pixelforge/internal/raster"
	"pixelforge/pkg/geometry"
)

// gesture is the pointer state machine: idle until a pointer-down on the
// canvas, dragging until pointer-up or pointer-leave.
type gesture struct {
	active   bool
	tool     raster.Tool
	layerID  string
	start    geometry.Point
	last     geometry.Point
	coalesce    bool // Freehand changes pending a single commit
	interpolate bool // Join freehand ticks with line segments
	dirty       bool
}

// ShapePreview describes an in-progress line, rectangle or ellipse drag.
type ShapePreview struct {
	Tool  raster.Tool
	Start geometry.Point
	End   geometry.Point
}

// Points returns the cells the shape would cover, clipped to the canvas.
func (p ShapePreview) Points(bounds geometry.Rect) []geometry.Point {
	var pts []geometry.Point
	switch p.Tool {
	case raster.ToolLine:
		pts = raster.LinePoints(p.Start, p.End)
	case raster.ToolRectangle:
		pts = raster.RectPoints(p.Start, p.End)
	case raster.ToolEllipse:
		pts = raster.EllipsePoints(p.Start, p.End)
	}
	out := pts[:0]
	for _, pt := range pts {
		if bounds.Contains(pt) {
			out = append(out, pt)
		}
	}
	return out
}

// Preview returns the shape being dragged, if any. Nothing is written to
// the layer until pointer-up.
func (s *State) Preview() (ShapePreview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.gesture
	if !g.active || !g.tool.IsShape() {
		return ShapePreview{}, false
	}
	return ShapePreview{Tool: g.tool, Start: g.start, End: g.last}, true
}

// Dragging reports whether a gesture is in progress.
func (s *State) Dragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gesture.active
}

// PointerDown starts a gesture at p, in canvas cells. Points outside the
// canvas are ignored. Fill and eyedropper act immediately; pencil and
// eraser paint p; shape tools only remember p.
func (s *State) PointerDown(p geometry.Point) error {
	return s.mutate(func(q *eventQueue) error {
		if !s.bounds().Contains(p) {
			return nil
		}
		s.endGesture(q, false)

		switch {
		case s.tool == raster.ToolEyedropper:
			s.pick(q, p)
			return nil
		case s.tool == raster.ToolSelection:
			return nil
		}

		l, err := s.editableLayer()
		if err != nil {
			q.notice(NoticeError, "%s", err)
			return err
		}

		switch {
		case s.tool == raster.ToolFill:
			filled := raster.FloodFill(l.Pixels, s.bounds(), p, s.primary)
			if filled == l.Pixels {
				return nil
			}
			s.apply(l, filled)
			s.commit(q)
			s.log.Debug("fill", zap.String("layer", l.ID), zap.Stringer("at", p))

		case s.tool.IsFreehand():
			s.gesture = gesture{
				active:   true,
				tool:     s.tool,
				layerID:  l.ID,
				start:       p,
				last:        p,
				coalesce:    s.coalesce,
				interpolate: s.interpolate,
			}
			return s.stroke(q, p, p)

		case s.tool.IsShape():
			s.gesture = gesture{active: true, tool: s.tool, layerID: l.ID, start: p, last: p}
			q.add(EventLayersChanged, nil)
		}
		return nil
	})
}

// PointerMove extends the gesture to p. Pencil and eraser paint p, or the
// segment from the previous point when interpolation is on; shape tools
// update the preview.
func (s *State) PointerMove(p geometry.Point) error {
	return s.mutate(func(q *eventQueue) error {
		g := &s.gesture
		if !g.active || p == g.last {
			return nil
		}
		from := g.last
		g.last = p
		if g.tool.IsShape() {
			q.add(EventLayersChanged, nil)
			return nil
		}
		return s.stroke(q, from, p)
	})
}

// PointerUp finishes the gesture at p. inside reports whether the pointer
// was released over the canvas; a shape released outside is discarded.
func (s *State) PointerUp(p geometry.Point, inside bool) error {
	return s.mutate(func(q *eventQueue) error {
		if !s.gesture.active {
			return nil
		}
		if inside && s.bounds().Contains(p) {
			s.gesture.last = p
		} else {
			inside = false
		}
		return s.endGesture(q, inside)
	})
}

// PointerLeave ends the gesture as the pointer leaves the canvas. Freehand
// strokes already painted stay; a shape in progress is dropped.
func (s *State) PointerLeave() {
	_ = s.mutate(func(q *eventQueue) error {
		return s.endGesture(q, false)
	})
}

// stroke paints or erases the cell at to on the gesture's layer. With
// interpolation the whole segment from..to is painted.
func (s *State) stroke(q *eventQueue, from, to geometry.Point) error {
	l, err := s.stack.Get(s.gesture.layerID)
	if err != nil {
		s.gesture = gesture{}
		return err
	}
	if l.Locked {
		s.gesture = gesture{}
		return ErrLayerLocked
	}

	var next *pixel.Map
	erase := s.gesture.tool == raster.ToolEraser
	switch {
	case s.gesture.interpolate && erase:
		next = raster.EraseLine(l.Pixels, s.bounds(), from, to)
	case s.gesture.interpolate:
		next = raster.Line(l.Pixels, s.bounds(), from, to, s.primary)
	case erase:
		next = raster.Erase(l.Pixels, s.bounds(), to)
	default:
		next = raster.Plot(l.Pixels, s.bounds(), to, s.primary)
	}
	if next.Equal(l.Pixels) {
		return nil
	}
	s.apply(l, next)

	if s.gesture.coalesce {
		s.gesture.dirty = true
		q.add(EventLayersChanged, nil)
		return nil
	}
	s.commit(q)
	return nil
}

// endGesture returns to idle. apply commits a pending shape; otherwise the
// shape is cancelled. Coalesced freehand strokes are committed either way.
func (s *State) endGesture(q *eventQueue, apply bool) error {
	g := s.gesture
	s.gesture = gesture{}
	if !g.active {
		return nil
	}

	switch {
	case g.tool.IsFreehand():
		if g.dirty {
			s.commit(q)
		}

	case g.tool.IsShape():
		if !apply {
			q.add(EventLayersChanged, nil)
			return nil
		}
		l, err := s.stack.Get(g.layerID)
		if err != nil {
			return err
		}
		if l.Locked {
			q.notice(NoticeError, "%s", ErrLayerLocked)
			return ErrLayerLocked
		}
		switch g.tool {
		case raster.ToolLine:
			s.apply(l, raster.Line(l.Pixels, s.bounds(), g.start, g.last, s.primary))
		case raster.ToolRectangle:
			s.apply(l, raster.Rectangle(l.Pixels, s.bounds(), g.start, g.last, s.primary))
		case raster.ToolEllipse:
			s.apply(l, raster.Ellipse(l.Pixels, s.bounds(), g.start, g.last, s.primary))
		}
		s.commit(q)
		s.log.Debug("shape", zap.Stringer("tool", g.tool), zap.Stringer("from", g.start), zap.Stringer("to", g.last))
	}
	return nil
}

// apply installs m as l's pixels. Every drawing operation goes through here.
func (s *State) apply(l *image.Layer, m *pixel.Map) {
	_ = s.stack.ReplacePixels(l.ID, m)
}

// pick copies the active layer's colour at p into the primary colour.
// Unset cells leave it unchanged.
func (s *State) pick(q *eventQueue, p geometry.Point) {
	l, err := s.stack.Get(s.activeID)
	if err != nil {
		return
	}
	if c, ok := raster.Pick(l.Pixels, p); ok {
		s.setPrimary(q, c)
	}
}

// ClearLayer removes every pixel from the active layer.
func (s *State) ClearLayer() error {
	return s.mutate(func(q *eventQueue) error {
		l, err := s.editableLayer()
		if err != nil {
			return err
		}
		if l.Pixels.Len() == 0 {
			return nil
		}
		s.endGesture(q, false)
		s.apply(l, pixel.New())
		s.commit(q)
		q.notice(NoticeInfo, "Cleared %s", l.Name)
		return nil
	})
}

// ReplaceActivePixels installs m on the active layer as one undo step.
// m must be a private copy clipped to the canvas.
func (s *State) ReplaceActivePixels(m *pixel.Map) error {
	return s.mutate(func(q *eventQueue) error {
		l, err := s.editableLayer()
		if err != nil {
			return err
		}
		s.endGesture(q, false)
		if err := s.stack.ReplacePixels(l.ID, m); err != nil {
			return err
		}
		s.commit(q)
		return nil
	})
}

// Undo steps back one history entry. It reports false at the oldest entry.
func (s *State) Undo() bool {
	var ok bool
	_ = s.mutate(func(q *eventQueue) error {
		s.endGesture(q, false)
		layers, done := s.history.Undo()
		if !done {
			return nil
		}
		s.restore(q, layers)
		q.notice(NoticeInfo, "Undo")
		ok = true
		return nil
	})
	return ok
}

// Redo steps forward one history entry. It reports false at the newest entry.
func (s *State) Redo() bool {
	var ok bool
	_ = s.mutate(func(q *eventQueue) error {
		s.endGesture(q, false)
		layers, done := s.history.Redo()
		if !done {
			return nil
		}
		s.restore(q, layers)
		q.notice(NoticeInfo, "Redo")
		ok = true
		return nil
	})
	return ok
}

func (s *State) restore(q *eventQueue, layers []*image.Layer) {
	s.stack.Restore(layers)
	if s.stack.Index(s.activeID) < 0 {
		s.activeID = s.stack.First().ID
	}
	s.modified = true
	q.add(EventLayersChanged, nil)
	q.add(EventHistoryChanged, nil)
}

// CanUndo reports whether Undo would do anything.
func (s *State) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (s *State) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanRedo()
}

// HistoryPosition returns the history cursor and length.
func (s *State) HistoryPosition() (current, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Position()
}
