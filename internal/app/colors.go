package app

import (
	"fmt"

	"pixelforge/pkg/colorutil"
)

// PrimaryColor is the colour pencil, fill and shapes paint with.
func (s *State) PrimaryColor() colorutil.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary
}

// SecondaryColor is the alternate colour SwapColors exchanges with.
func (s *State) SecondaryColor() colorutil.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secondary
}

// RecentColors returns recently chosen primaries, newest first.
func (s *State) RecentColors() []colorutil.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]colorutil.Color(nil), s.recent...)
}

// SetPrimaryColor selects the drawing colour and records it as recent.
func (s *State) SetPrimaryColor(c colorutil.Color) {
	_ = s.mutate(func(q *eventQueue) error {
		s.setPrimary(q, c)
		return nil
	})
}

func (s *State) setPrimary(q *eventQueue, c colorutil.Color) {
	s.primary = c
	s.addRecent(c)
	q.add(EventColorChanged, c)
}

// addRecent moves c to the front of the recent list, dropping duplicates
// and anything past MaxRecentColors.
func (s *State) addRecent(c colorutil.Color) {
	if c.IsTransparent() {
		return
	}
	recent := make([]colorutil.Color, 0, MaxRecentColors)
	recent = append(recent, c)
	for _, r := range s.recent {
		if r != c && len(recent) < MaxRecentColors {
			recent = append(recent, r)
		}
	}
	s.recent = recent
}

// SetSecondaryColor sets the alternate colour.
func (s *State) SetSecondaryColor(c colorutil.Color) {
	_ = s.mutate(func(q *eventQueue) error {
		s.secondary = c
		q.add(EventColorChanged, c)
		return nil
	})
}

// SwapColors exchanges the primary and secondary colours.
func (s *State) SwapColors() {
	_ = s.mutate(func(q *eventQueue) error {
		s.primary, s.secondary = s.secondary, s.primary
		q.add(EventColorChanged, s.primary)
		return nil
	})
}

// Palette returns a copy of the project palette.
func (s *State) Palette() []colorutil.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]colorutil.Color(nil), s.palette...)
}

// AddPaletteColor appends c. Duplicates are allowed.
func (s *State) AddPaletteColor(c colorutil.Color) {
	_ = s.mutate(func(q *eventQueue) error {
		s.palette = append(s.palette, c)
		s.modified = true
		q.add(EventColorChanged, c)
		return nil
	})
}

// RemovePaletteColor deletes the entry at index i.
func (s *State) RemovePaletteColor(i int) error {
	return s.mutate(func(q *eventQueue) error {
		if i < 0 || i >= len(s.palette) {
			return fmt.Errorf("%w: %d", ErrPaletteIndex, i)
		}
		s.palette = append(s.palette[:i:i], s.palette[i+1:]...)
		s.modified = true
		q.add(EventColorChanged, nil)
		return nil
	})
}
