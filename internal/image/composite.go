package image

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

// Composite flattens a layer stack onto a background.
//
// Layers are held top first, as in Stack. Render paints them from the last
// entry to the first so index 0 ends up on top; live preview and export both
// go through Render so the order cannot drift.
type Composite struct {
	Width     int
	Height    int
	Layers    []*Layer
	BackColor colorutil.Color
}

// NewComposite creates a Composite with a transparent background.
func NewComposite(width, height int) *Composite {
	return &Composite{
		Width:     width,
		Height:    height,
		BackColor: colorutil.Transparent,
	}
}

// CompositeLayers renders layers (top first) at width x height over bg.
func CompositeLayers(layers []*Layer, width, height int, bg colorutil.Color) *image.NRGBA {
	c := NewComposite(width, height)
	c.Layers = layers
	c.BackColor = bg
	return c.Render()
}

// Render produces the final composited image, one cell per pixel.
func (c *Composite) Render() *image.NRGBA {
	result := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))

	if !c.BackColor.IsTransparent() {
		draw.Draw(result, result.Bounds(), &image.Uniform{C: c.BackColor.NRGBA()}, image.Point{}, draw.Src)
	}

	for i := len(c.Layers) - 1; i >= 0; i-- {
		l := c.Layers[i]
		if l == nil || !l.Visible || l.Opacity <= 0 {
			continue
		}
		c.compositeLayer(result, l)
	}

	return result
}

// compositeLayer blends a single layer's set cells onto dst.
func (c *Composite) compositeLayer(dst *image.NRGBA, l *Layer) {
	bounds := geometry.Bounds(c.Width, c.Height)
	opacity := float64(l.Opacity) / 100

	l.Pixels.Range(func(p geometry.Point, col colorutil.Color) bool {
		if !bounds.Contains(p) || col.IsTransparent() {
			return true
		}
		i := dst.PixOffset(p.X, p.Y)
		below := color.NRGBA{R: dst.Pix[i], G: dst.Pix[i+1], B: dst.Pix[i+2], A: dst.Pix[i+3]}
		out := blend(below, col, opacity)
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = out.R, out.G, out.B, out.A
		return true
	})
}

// blend paints src over dst with the layer opacity applied to src's alpha.
// Over an opaque dst this is dst*(1-a) + src*a.
func blend(dst color.NRGBA, src colorutil.Color, opacity float64) color.NRGBA {
	a := opacity * float64(src.A) / 255
	da := float64(dst.A) / 255

	outA := a + da*(1-a)
	if outA <= 0 {
		return color.NRGBA{}
	}

	ch := func(s, d uint8) uint8 {
		v := (float64(s)*a + float64(d)*da*(1-a)) / outA
		return uint8(math.Round(clamp(v, 0, 255)))
	}

	return color.NRGBA{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: uint8(math.Round(clamp(outA*255, 0, 255))),
	}
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img image.Image, factor int) *image.NRGBA {
	b := img.Bounds()
	if factor < 1 {
		factor = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// RenderGrid draws grid lines every gridSize cells onto a preview that was
// scaled by zoom. It is a display aid and never part of an export.
func RenderGrid(dst *image.NRGBA, zoom, gridSize int, col colorutil.Color) {
	if zoom < 1 || gridSize < 1 || col.IsTransparent() {
		return
	}
	step := zoom * gridSize
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if (x-b.Min.X)%step != 0 && (y-b.Min.Y)%step != 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			below := color.NRGBA{R: dst.Pix[i], G: dst.Pix[i+1], B: dst.Pix[i+2], A: dst.Pix[i+3]}
			out := blend(below, col, 1)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = out.R, out.G, out.B, out.A
		}
	}
}
