// Package history provides a linear undo/redo timeline of layer snapshots.
package history

import (
	"time"

	"pixelforge/internal/image"
)

// Snapshot is an immutable deep copy of the layer stack.
type Snapshot struct {
	Layers    []*image.Layer
	Timestamp time.Time
}

// Manager holds snapshots and a cursor. The cursor always points at the
// snapshot that matches the live state; 0 <= cursor < len(snapshots).
//
// Snapshots own their pixel maps. Commit clones on the way in and Undo, Redo
// and Current clone on the way out, so no map is ever shared with the caller.
type Manager struct {
	snapshots []Snapshot
	cursor    int
	limit     int
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit caps the number of retained snapshots; the oldest are dropped.
// Zero means unbounded.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a timeline whose first entry is the given state.
func New(initial []*image.Layer, opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset(initial)
	return m
}

// Reset discards the timeline and starts over from layers.
func (m *Manager) Reset(layers []*image.Layer) {
	m.snapshots = []Snapshot{m.snapshot(layers)}
	m.cursor = 0
}

// Commit records layers as the newest state. Any redo branch is discarded.
func (m *Manager) Commit(layers []*image.Layer) {
	m.snapshots = append(m.snapshots[:m.cursor+1:m.cursor+1], m.snapshot(layers))
	m.cursor++

	if m.limit > 0 && len(m.snapshots) > m.limit {
		drop := len(m.snapshots) - m.limit
		m.snapshots = append([]Snapshot(nil), m.snapshots[drop:]...)
		m.cursor -= drop
	}
}

// Undo steps back one snapshot and returns a fresh copy of it. It reports
// false, changing nothing, when already at the oldest snapshot.
func (m *Manager) Undo() ([]*image.Layer, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	m.cursor--
	return image.CloneLayers(m.snapshots[m.cursor].Layers), true
}

// Redo steps forward one snapshot and returns a fresh copy of it. It reports
// false, changing nothing, when already at the newest snapshot.
func (m *Manager) Redo() ([]*image.Layer, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.cursor++
	return image.CloneLayers(m.snapshots[m.cursor].Layers), true
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool {
	return m.cursor > 0
}

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool {
	return m.cursor < len(m.snapshots)-1
}

// Position returns the cursor and the number of snapshots.
func (m *Manager) Position() (current, total int) {
	return m.cursor, len(m.snapshots)
}

// Current returns a copy of the snapshot under the cursor.
func (m *Manager) Current() Snapshot {
	s := m.snapshots[m.cursor]
	return Snapshot{Layers: image.CloneLayers(s.Layers), Timestamp: s.Timestamp}
}

func (m *Manager) snapshot(layers []*image.Layer) Snapshot {
	return Snapshot{Layers: image.CloneLayers(layers), Timestamp: m.now()}
}
