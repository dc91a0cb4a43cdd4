package app

import (
	"unicode"

	"pixelforge/internal/raster"
)

// HandleShortcut dispatches a key press. ctrl covers Cmd on macOS. It
// reports whether the key was bound to anything.
//
//	b e g i l r c v      tools
//	Ctrl+Z               undo
//	Ctrl+Shift+Z, Ctrl+Y redo
//	Ctrl+S               EventSaveRequested
func (s *State) HandleShortcut(key rune, ctrl, shift bool) bool {
	key = unicode.ToLower(key)
	if !ctrl {
		t, ok := raster.ToolForKey(key)
		if ok {
			s.SetTool(t)
		}
		return ok
	}

	switch {
	case key == 'z' && !shift:
		s.Undo()
	case key == 'y', key == 'z' && shift:
		s.Redo()
	case key == 's':
		s.Emit(EventSaveRequested, nil)
	default:
		return false
	}
	return true
}
