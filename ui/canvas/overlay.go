package canvas

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"

	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

// CellAt maps a position in zoomed canvas space to a cell. It reports false
// outside the width x height canvas.
func CellAt(pos fyne.Position, zoom, width, height int) (geometry.Point, bool) {
	if zoom < 1 {
		zoom = 1
	}
	p := geometry.Pt(
		int(math.Floor(float64(pos.X)/float64(zoom))),
		int(math.Floor(float64(pos.Y)/float64(zoom))),
	)
	return p, geometry.Bounds(width, height).Contains(p)
}

// previewColor is the primary colour at half strength.
func previewColor(c colorutil.Color) color.NRGBA {
	n := c.NRGBA()
	if n.A == 0 {
		n = color.NRGBA{A: 255}
	}
	n.A /= 2
	return n
}

// DrawCells blends col over each cell's zoom x zoom block.
func DrawCells(dst *image.NRGBA, cells []geometry.Point, zoom int, col color.NRGBA) {
	a := uint32(col.A)
	for _, p := range cells {
		for y := p.Y * zoom; y < (p.Y+1)*zoom; y++ {
			for x := p.X * zoom; x < (p.X+1)*zoom; x++ {
				if !(image.Point{X: x, Y: y}).In(dst.Rect) {
					continue
				}
				i := dst.PixOffset(x, y)
				px := dst.Pix[i : i+4 : i+4]
				px[0] = uint8((uint32(col.R)*a + uint32(px[0])*(255-a)) / 255)
				px[1] = uint8((uint32(col.G)*a + uint32(px[1])*(255-a)) / 255)
				px[2] = uint8((uint32(col.B)*a + uint32(px[2])*(255-a)) / 255)
				px[3] = uint8(a + uint32(px[3])*(255-a)/255)
			}
		}
	}
}

// DrawCursor outlines the cell under the pointer.
func DrawCursor(dst *image.NRGBA, p geometry.Point, zoom int) {
	if zoom < 3 {
		return
	}
	outline := color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	x0, y0 := p.X*zoom, p.Y*zoom
	x1, y1 := x0+zoom-1, y0+zoom-1
	for x := x0; x <= x1; x++ {
		set(dst, x, y0, outline)
		set(dst, x, y1, outline)
	}
	for y := y0; y <= y1; y++ {
		set(dst, x0, y, outline)
		set(dst, x1, y, outline)
	}
}

func set(dst *image.NRGBA, x, y int, c color.NRGBA) {
	if (image.Point{X: x, Y: y}).In(dst.Rect) {
		dst.SetNRGBA(x, y, c)
	}
}
