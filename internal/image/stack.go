package image

import (
	"errors"
	"fmt"

	"pixelforge/internal/pixel"
)

var (
	// ErrLastLayer is returned when deleting the only remaining layer.
	ErrLastLayer = errors.New("cannot delete the last layer")

	// ErrLayerNotFound is returned for an unknown layer ID.
	ErrLayerNotFound = errors.New("layer not found")
)

// Direction moves a layer within the stacking order.
type Direction int

const (
	Raise Direction = iota // toward index 0, drawn on top
	Lower                  // toward the end, drawn beneath
)

func (d Direction) String() string {
	if d == Raise {
		return "raise"
	}
	return "lower"
}

// Stack is the ordered layer collection. Index 0 is the topmost layer.
// A Stack always holds at least one layer.
type Stack struct {
	layers []*Layer
}

// NewStack creates a stack holding a single empty "Layer 1".
func NewStack() *Stack {
	return &Stack{layers: []*Layer{NewLayer("Layer 1")}}
}

// NewStackFrom installs deep copies of layers. An empty slice yields NewStack.
func NewStackFrom(layers []*Layer) *Stack {
	if len(layers) == 0 {
		return NewStack()
	}
	return &Stack{layers: CloneLayers(layers)}
}

// Layers returns the live layers, top first. Callers must not mutate them
// other than through Stack methods.
func (s *Stack) Layers() []*Layer {
	return s.layers
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// Index returns the position of id, or -1.
func (s *Stack) Index(id string) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the layer with the given id.
func (s *Stack) Get(id string) (*Layer, error) {
	i := s.Index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	return s.layers[i], nil
}

// First returns the topmost layer.
func (s *Stack) First() *Layer {
	return s.layers[0]
}

// Add appends a new empty layer named after its position and returns it.
func (s *Stack) Add() *Layer {
	l := NewLayer(fmt.Sprintf("Layer %d", len(s.layers)+1))
	s.layers = append(s.layers, l)
	return l
}

// Delete removes a layer. The last remaining layer cannot be deleted.
func (s *Stack) Delete(id string) error {
	i := s.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if len(s.layers) == 1 {
		return ErrLastLayer
	}
	s.layers = append(s.layers[:i:i], s.layers[i+1:]...)
	return nil
}

// Move swaps a layer with its neighbour in the given direction. It reports
// false, without error, when the layer is already at that end.
func (s *Stack) Move(id string, dir Direction) (bool, error) {
	i := s.Index(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	j := i - 1
	if dir == Lower {
		j = i + 1
	}
	if j < 0 || j >= len(s.layers) {
		return false, nil
	}
	s.layers[i], s.layers[j] = s.layers[j], s.layers[i]
	return true, nil
}

// SetVisible shows or hides a layer.
func (s *Stack) SetVisible(id string, visible bool) error {
	return s.update(id, func(l *Layer) { l.Visible = visible })
}

// SetLocked locks or unlocks a layer.
func (s *Stack) SetLocked(id string, locked bool) error {
	return s.update(id, func(l *Layer) { l.Locked = locked })
}

// SetOpacity sets a layer's opacity, clamped to 0-100.
func (s *Stack) SetOpacity(id string, opacity int) error {
	return s.update(id, func(l *Layer) { l.Opacity = clampOpacity(opacity) })
}

// Rename changes a layer's display name.
func (s *Stack) Rename(id, name string) error {
	return s.update(id, func(l *Layer) { l.Name = name })
}

// ReplacePixels installs a new pixel map on a layer. It is the only way
// drawing operations change a layer.
func (s *Stack) ReplacePixels(id string, m *pixel.Map) error {
	if m == nil {
		m = pixel.New()
	}
	return s.update(id, func(l *Layer) { l.Pixels = m })
}

// Clone returns a deep copy of the layers.
func (s *Stack) Clone() []*Layer {
	return CloneLayers(s.layers)
}

// Restore replaces the whole stack with deep copies of layers. An empty
// slice is ignored so the stack never becomes empty.
func (s *Stack) Restore(layers []*Layer) {
	if len(layers) == 0 {
		return
	}
	s.layers = CloneLayers(layers)
}

func (s *Stack) update(id string, fn func(l *Layer)) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	fn(l)
	return nil
}
