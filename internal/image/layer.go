// Package image provides the editor's layers, the layer stack, and compositing.
package image

import (
	"github.com/google/uuid"

	"pixelforge/internal/pixel"
)

// Opacity bounds, in percent.
const (
	MinOpacity = 0
	MaxOpacity = 100
)

// Layer is one sparse raster sheet of the canvas.
//
// Locked is advisory. Nothing in this package or in the rasterizer checks it;
// the editor state rejects edits to locked layers before they get here.
type Layer struct {
	ID      string     // Stable for the layer's lifetime
	Name    string     // Display label
	Visible bool       // Invisible layers are not composited
	Locked  bool       // Edits rejected by the caller
	Opacity int        // Compositing weight, 0-100
	Pixels  *pixel.Map // Set cells only
}

// NewLayer creates a visible, unlocked, fully opaque empty layer.
func NewLayer(name string) *Layer {
	return &Layer{
		ID:      NewID(),
		Name:    name,
		Visible: true,
		Opacity: MaxOpacity,
		Pixels:  pixel.New(),
	}
}

// NewID returns a fresh layer identifier.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy; the pixel map is not shared.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Pixels = l.Pixels.Clone()
	return &c
}

// Equal reports whether two layers have identical fields and pixels.
func (l *Layer) Equal(other *Layer) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.ID == other.ID &&
		l.Name == other.Name &&
		l.Visible == other.Visible &&
		l.Locked == other.Locked &&
		l.Opacity == other.Opacity &&
		l.Pixels.Equal(other.Pixels)
}

// CloneLayers deep-copies a layer slice.
func CloneLayers(layers []*Layer) []*Layer {
	out := make([]*Layer, len(layers))
	for i, l := range layers {
		out[i] = l.Clone()
	}
	return out
}

// LayersEqual compares two layer slices element by element.
func LayersEqual(a, b []*Layer) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func clampOpacity(v int) int {
	if v < MinOpacity {
		return MinOpacity
	}
	if v > MaxOpacity {
		return MaxOpacity
	}
	return v
}
