package raster

import (
	"fmt"
	"unicode"
)

// Tool identifies a drawing tool.
type Tool int

const (
	ToolPencil Tool = iota
	ToolEraser
	ToolFill
	ToolEyedropper
	ToolLine
	ToolRectangle
	ToolEllipse
	ToolSelection // placeholder, does nothing
)

var toolNames = [...]string{
	ToolPencil:     "pencil",
	ToolEraser:     "eraser",
	ToolFill:       "fill",
	ToolEyedropper: "eyedropper",
	ToolLine:       "line",
	ToolRectangle:  "rectangle",
	ToolEllipse:    "ellipse",
	ToolSelection:  "selection",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool maps a tool name back to its Tool.
func ParseTool(name string) (Tool, error) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// IsFreehand reports whether the tool paints on every pointer tick.
func (t Tool) IsFreehand() bool {
	return t == ToolPencil || t == ToolEraser
}

// IsShape reports whether the tool applies once on pointer-up.
func (t Tool) IsShape() bool {
	return t == ToolLine || t == ToolRectangle || t == ToolEllipse
}

// ToolForKey returns the tool bound to a single-letter shortcut.
func ToolForKey(r rune) (Tool, bool) {
	switch unicode.ToLower(r) {
	case 'b':
		return ToolPencil, true
	case 'e':
		return ToolEraser, true
	case 'g':
		return ToolFill, true
	case 'i':
		return ToolEyedropper, true
	case 'l':
		return ToolLine, true
	case 'r':
		return ToolRectangle, true
	case 'c':
		return ToolEllipse, true
	case 'v':
		return ToolSelection, true
	}
	return 0, false
}
