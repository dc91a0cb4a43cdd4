package canvas

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"

	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

func TestCellAt(t *testing.T) {
	tests := []struct {
		name   string
		pos    fyne.Position
		zoom   int
		want   geometry.Point
		inside bool
	}{
		{"origin", fyne.NewPos(0, 0), 4, geometry.Pt(0, 0), true},
		{"inside cell", fyne.NewPos(7.9, 4), 4, geometry.Pt(1, 1), true},
		{"last cell", fyne.NewPos(511.5, 511.5), 4, geometry.Pt(127, 127), true},
		{"right edge", fyne.NewPos(512, 3), 4, geometry.Pt(128, 0), false},
		{"negative", fyne.NewPos(-0.5, 3), 4, geometry.Pt(-1, 0), false},
		{"zero zoom", fyne.NewPos(3, 3), 0, geometry.Pt(3, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CellAt(tt.pos, tt.zoom, 128, 128)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.inside, ok)
		})
	}
}

func TestDrawCells(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	DrawCells(dst, []geometry.Point{geometry.Pt(1, 0), geometry.Pt(9, 9)}, 2, color.NRGBA{R: 255, A: 255})

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, dst.NRGBAAt(3, 1))
	assert.Equal(t, color.NRGBA{}, dst.NRGBAAt(1, 1))
}

func TestPreviewColorHalvesAlpha(t *testing.T) {
	assert.Equal(t, uint8(127), previewColor(colorutil.Red).A)
	assert.Equal(t, uint8(127), previewColor(colorutil.Transparent).A)
}

func TestDrawCursor(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	DrawCursor(dst, geometry.Pt(1, 1), 4)
	assert.Equal(t, uint8(200), dst.NRGBAAt(4, 4).A)
	assert.Equal(t, uint8(200), dst.NRGBAAt(7, 7).A)
	assert.Equal(t, uint8(0), dst.NRGBAAt(5, 5).A)
}
