// Package pixel provides sparse per-layer pixel storage.
//
// A Map holds only the cells that have been painted. A missing cell is
// "unset", which is distinct from a cell holding an explicit transparent
// color. The map does not know the canvas size; callers clip coordinates
// before writing.
package pixel

import (
	"sort"

	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

// Map is a sparse mapping from cell coordinate to color.
// A nil *Map reads as empty.
type Map struct {
	cells map[geometry.Point]colorutil.Color
}

// New returns an empty map.
func New() *Map {
	return &Map{cells: make(map[geometry.Point]colorutil.Color)}
}

// WithCapacity returns an empty map sized for n cells.
func WithCapacity(n int) *Map {
	return &Map{cells: make(map[geometry.Point]colorutil.Color, n)}
}

// Get returns the color at p and whether the cell is set.
func (m *Map) Get(p geometry.Point) (colorutil.Color, bool) {
	if m == nil {
		return colorutil.Color{}, false
	}
	c, ok := m.cells[p]
	return c, ok
}

// Set stores c at p.
func (m *Map) Set(p geometry.Point, c colorutil.Color) {
	if m.cells == nil {
		m.cells = make(map[geometry.Point]colorutil.Color)
	}
	m.cells[p] = c
}

// Clear removes p, making the cell unset.
func (m *Map) Clear(p geometry.Point) {
	if m == nil {
		return
	}
	delete(m.cells, p)
}

// Len returns the number of set cells.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.cells)
}

// Clone returns an independent copy. Cost is O(set cells); every history
// commit pays it once per layer.
func (m *Map) Clone() *Map {
	out := WithCapacity(m.Len())
	if m == nil {
		return out
	}
	for p, c := range m.cells {
		out.cells[p] = c
	}
	return out
}

// Equal reports whether both maps hold the same cells with the same colors.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m == nil {
		return true
	}
	for p, c := range m.cells {
		oc, ok := other.Get(p)
		if !ok || oc != c {
			return false
		}
	}
	return true
}

// Range calls fn for every set cell in unspecified order until fn returns false.
func (m *Map) Range(fn func(p geometry.Point, c colorutil.Color) bool) {
	if m == nil {
		return
	}
	for p, c := range m.cells {
		if !fn(p, c) {
			return
		}
	}
}

// Points returns the set coordinates in row-major order.
func (m *Map) Points() []geometry.Point {
	pts := make([]geometry.Point, 0, m.Len())
	m.Range(func(p geometry.Point, _ colorutil.Color) bool {
		pts = append(pts, p)
		return true
	})
	sort.Slice(pts, func(i, j int) bool { return pts[i].Less(pts[j]) })
	return pts
}

// Entry is one set cell.
type Entry struct {
	Point geometry.Point
	Color colorutil.Color
}

// Entries returns all set cells in row-major order.
func (m *Map) Entries() []Entry {
	pts := m.Points()
	out := make([]Entry, len(pts))
	for i, p := range pts {
		c, _ := m.Get(p)
		out[i] = Entry{Point: p, Color: c}
	}
	return out
}

// InBounds reports whether every set cell lies within r.
func (m *Map) InBounds(r geometry.Rect) bool {
	ok := true
	m.Range(func(p geometry.Point, _ colorutil.Color) bool {
		ok = r.Contains(p)
		return ok
	})
	return ok
}
