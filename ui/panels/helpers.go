package panels

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pixelforge/internal/app"
	"pixelforge/internal/raster"
	"pixelforge/pkg/colorutil"
)

// tools lists the toolbox buttons in display order.
var tools = []raster.Tool{
	raster.ToolPencil,
	raster.ToolEraser,
	raster.ToolFill,
	raster.ToolEyedropper,
	raster.ToolLine,
	raster.ToolRectangle,
	raster.ToolEllipse,
	raster.ToolSelection,
}

var toolKeys = map[raster.Tool]rune{
	raster.ToolPencil:     'B',
	raster.ToolEraser:     'E',
	raster.ToolFill:       'G',
	raster.ToolEyedropper: 'I',
	raster.ToolLine:       'L',
	raster.ToolRectangle:  'R',
	raster.ToolEllipse:    'C',
	raster.ToolSelection:  'V',
}

// toolLabel is the button caption, e.g. "Pencil (B)".
func toolLabel(t raster.Tool) string {
	name := t.String()
	label := strings.ToUpper(name[:1]) + name[1:]
	if k, ok := toolKeys[t]; ok {
		label += fmt.Sprintf(" (%c)", k)
	}
	return label
}

// layerLabel summarises a layer row for the layer list.
func layerLabel(l app.LayerInfo) string {
	var b strings.Builder
	if l.Active {
		b.WriteString("> ")
	}
	b.WriteString(l.Name)
	if !l.Visible {
		b.WriteString(" [hidden]")
	}
	if l.Locked {
		b.WriteString(" [locked]")
	}
	if l.Opacity < 100 {
		fmt.Fprintf(&b, " %d%%", l.Opacity)
	}
	return b.String()
}

// swatch is a clickable colour square.
func swatch(c colorutil.Color, size float32, onTap func()) fyne.CanvasObject {
	rect := fynecanvas.NewRectangle(c.NRGBA())
	rect.StrokeColor = color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}
	rect.StrokeWidth = 1
	rect.SetMinSize(fyne.NewSize(size, size))
	btn := widget.NewButton("", onTap)
	btn.Importance = widget.LowImportance
	return container.NewStack(rect, btn)
}
