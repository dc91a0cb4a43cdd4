package app

import (
	"errors"

	"go.uber.org/zap"

	"pixelforge/internal/image"
)

// AddLayer appends an empty layer and makes it active.
func (s *State) AddLayer() string {
	var id string
	_ = s.mutate(func(q *eventQueue) error {
		s.endGesture(q, false)
		l := s.stack.Add()
		s.activeID = l.ID
		id = l.ID
		s.commit(q)
		s.log.Debug("add layer", zap.String("layer", l.ID), zap.String("name", l.Name))
		return nil
	})
	return id
}

// DeleteLayer removes a layer. Deleting the only layer fails with
// image.ErrLastLayer. If the active layer goes, the top layer becomes active.
func (s *State) DeleteLayer(id string) error {
	return s.mutate(func(q *eventQueue) error {
		s.endGesture(q, false)
		if err := s.stack.Delete(id); err != nil {
			if errors.Is(err, image.ErrLastLayer) {
				q.notice(NoticeError, "Cannot delete the last layer")
			}
			return err
		}
		if s.activeID == id {
			s.activeID = s.stack.First().ID
		}
		s.commit(q)
		return nil
	})
}

// MoveLayer swaps a layer with its neighbour. Moving past either end is a
// no-op and records nothing.
func (s *State) MoveLayer(id string, dir image.Direction) error {
	return s.mutate(func(q *eventQueue) error {
		s.endGesture(q, false)
		moved, err := s.stack.Move(id, dir)
		if err != nil || !moved {
			return err
		}
		s.commit(q)
		return nil
	})
}

// SelectLayer makes id the target of drawing operations.
func (s *State) SelectLayer(id string) error {
	return s.mutate(func(q *eventQueue) error {
		if _, err := s.stack.Get(id); err != nil {
			return err
		}
		if s.activeID == id {
			return nil
		}
		s.endGesture(q, false)
		s.activeID = id
		q.add(EventLayersChanged, nil)
		return nil
	})
}

// SetLayerVisible shows or hides a layer.
func (s *State) SetLayerVisible(id string, visible bool) error {
	return s.updateLayer(id, func() error { return s.stack.SetVisible(id, visible) })
}

// SetLayerLocked locks or unlocks a layer. Locked layers reject pixel edits.
func (s *State) SetLayerLocked(id string, locked bool) error {
	return s.updateLayer(id, func() error { return s.stack.SetLocked(id, locked) })
}

// SetLayerOpacity sets a layer's opacity, clamped to 0-100.
func (s *State) SetLayerOpacity(id string, opacity int) error {
	return s.updateLayer(id, func() error { return s.stack.SetOpacity(id, opacity) })
}

// RenameLayer changes a layer's display name.
func (s *State) RenameLayer(id, name string) error {
	return s.updateLayer(id, func() error { return s.stack.Rename(id, name) })
}

// updateLayer applies a property change and records it if anything changed.
func (s *State) updateLayer(id string, fn func() error) error {
	return s.mutate(func(q *eventQueue) error {
		before, err := s.stack.Get(id)
		if err != nil {
			return err
		}
		prev := *before
		if err := fn(); err != nil {
			return err
		}
		if prev == *before {
			return nil
		}
		s.commit(q)
		return nil
	})
}
