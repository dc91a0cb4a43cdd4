package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layerWith(name string, opacity int, cells map[geometry.Point]colorutil.Color) *Layer {
	l := NewLayer(name)
	l.Opacity = opacity
	for p, c := range cells {
		l.Pixels.Set(p, c)
	}
	return l
}

func TestRenderTransparentBackground(t *testing.T) {
	img := CompositeLayers([]*Layer{NewLayer("empty")}, 4, 3, colorutil.Transparent)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	for _, v := range img.Pix {
		require.Zero(t, v)
	}
}

func TestRenderBackgroundFill(t *testing.T) {
	img := CompositeLayers([]*Layer{NewLayer("empty")}, 2, 2, colorutil.White)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(1, 1))
}

func TestRenderIndexZeroOnTop(t *testing.T) {
	p := geometry.Pt(1, 1)
	top := layerWith("top", 100, map[geometry.Point]colorutil.Color{p: colorutil.Red})
	bottom := layerWith("bottom", 100, map[geometry.Point]colorutil.Color{
		p:                 colorutil.Blue,
		geometry.Pt(0, 0): colorutil.Green,
	})

	img := CompositeLayers([]*Layer{top, bottom}, 2, 2, colorutil.Transparent)
	assert.Equal(t, colorutil.Red.NRGBA(), img.NRGBAAt(1, 1))
	assert.Equal(t, colorutil.Green.NRGBA(), img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(1, 0), "unset cells stay transparent")
}

func TestRenderSkipsInvisible(t *testing.T) {
	l := layerWith("hidden", 100, map[geometry.Point]colorutil.Color{geometry.Pt(0, 0): colorutil.Red})
	l.Visible = false
	img := CompositeLayers([]*Layer{l}, 1, 1, colorutil.White)
	assert.Equal(t, colorutil.White.NRGBA(), img.NRGBAAt(0, 0))
}

func TestRenderOpacityBlend(t *testing.T) {
	l := layerWith("half", 50, map[geometry.Point]colorutil.Color{geometry.Pt(0, 0): colorutil.Red})

	over := CompositeLayers([]*Layer{l}, 1, 1, colorutil.White)
	assert.Equal(t, color.NRGBA{255, 128, 128, 255}, over.NRGBAAt(0, 0))

	alone := CompositeLayers([]*Layer{l}, 1, 1, colorutil.Transparent)
	assert.Equal(t, color.NRGBA{255, 0, 0, 128}, alone.NRGBAAt(0, 0))
}

func TestRenderSkipsTransparentPixelsAndOutOfBounds(t *testing.T) {
	l := layerWith("l", 100, map[geometry.Point]colorutil.Color{
		geometry.Pt(0, 0): colorutil.Transparent,
		geometry.Pt(5, 5): colorutil.Red,
	})
	img := CompositeLayers([]*Layer{l}, 2, 2, colorutil.Blue)
	assert.Equal(t, colorutil.Blue.NRGBA(), img.NRGBAAt(0, 0))
}

func TestRenderPNGRoundTripExact(t *testing.T) {
	l := layerWith("l", 100, map[geometry.Point]colorutil.Color{
		geometry.Pt(0, 0): colorutil.RGB(1, 2, 3),
		geometry.Pt(1, 0): colorutil.RGB(250, 251, 252),
	})
	img := CompositeLayers([]*Layer{l}, 2, 1, colorutil.Transparent)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, colorutil.RGB(1, 2, 3), colorutil.FromColor(decoded.At(0, 0)))
	assert.Equal(t, colorutil.RGB(250, 251, 252), colorutil.FromColor(decoded.At(1, 0)))
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, colorutil.Red.NRGBA())
	src.SetNRGBA(1, 0, colorutil.Blue.NRGBA())

	dst := Scale(src, 3)
	assert.Equal(t, image.Rect(0, 0, 6, 3), dst.Bounds())
	assert.Equal(t, colorutil.Red.NRGBA(), dst.NRGBAAt(2, 2))
	assert.Equal(t, colorutil.Blue.NRGBA(), dst.NRGBAAt(3, 0))
}

func TestRenderGrid(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	RenderGrid(dst, 2, 2, colorutil.Black)

	assert.Equal(t, colorutil.Black.NRGBA(), dst.NRGBAAt(0, 3))
	assert.Equal(t, colorutil.Black.NRGBA(), dst.NRGBAAt(4, 1))
	assert.Equal(t, color.NRGBA{}, dst.NRGBAAt(1, 1))
}
