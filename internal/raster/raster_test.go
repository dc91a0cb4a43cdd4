package raster

import (
	"math/rand"
	"testing"

	"pixelforge/internal/pixel"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canvas = geometry.Bounds(128, 128)

func pointSet(pts []geometry.Point) map[geometry.Point]bool {
	s := make(map[geometry.Point]bool, len(pts))
	for _, p := range pts {
		s[p] = true
	}
	return s
}

func TestLineHorizontal(t *testing.T) {
	got := Line(pixel.New(), canvas, geometry.Pt(0, 0), geometry.Pt(4, 0), colorutil.Black)

	require.Equal(t, 5, got.Len())
	for x := 0; x <= 4; x++ {
		c, ok := got.Get(geometry.Pt(x, 0))
		assert.True(t, ok, "cell (%d,0) should be set", x)
		assert.Equal(t, colorutil.Black, c)
	}
}

func TestLinePointsKnownShapes(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 geometry.Point
		want   []geometry.Point
	}{
		{"single", geometry.Pt(3, 3), geometry.Pt(3, 3), []geometry.Point{{X: 3, Y: 3}}},
		{"vertical up", geometry.Pt(1, 3), geometry.Pt(1, 0), []geometry.Point{{X: 1, Y: 3}, {X: 1, Y: 2}, {X: 1, Y: 1}, {X: 1, Y: 0}}},
		{"diagonal", geometry.Pt(0, 0), geometry.Pt(3, 3), []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}},
		{"shallow", geometry.Pt(0, 0), geometry.Pt(4, 2), []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 4, Y: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinePoints(tt.p0, tt.p1))
		})
	}
}

func TestLinePointsConnectedAndUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		p0 := geometry.Pt(rng.Intn(128), rng.Intn(128))
		p1 := geometry.Pt(rng.Intn(128), rng.Intn(128))
		pts := LinePoints(p0, p1)

		require.Equal(t, p0, pts[0])
		require.Equal(t, p1, pts[len(pts)-1])
		require.Len(t, pointSet(pts), len(pts), "line %v-%v revisits a cell", p0, p1)

		for j := 1; j < len(pts); j++ {
			dx := abs(pts[j].X - pts[j-1].X)
			dy := abs(pts[j].Y - pts[j-1].Y)
			require.True(t, dx <= 1 && dy <= 1 && dx+dy > 0,
				"line %v-%v has a gap between %v and %v", p0, p1, pts[j-1], pts[j])
		}
	}
}

func TestRectangleInclusiveAndSymmetric(t *testing.T) {
	a, b := geometry.Pt(2, 5), geometry.Pt(6, 3)
	got := Rectangle(pixel.New(), canvas, a, b, colorutil.Red)
	assert.Equal(t, 5*3, got.Len())
	assert.True(t, got.Equal(Rectangle(pixel.New(), canvas, b, a, colorutil.Red)))

	for _, p := range []geometry.Point{{X: 2, Y: 3}, {X: 6, Y: 3}, {X: 2, Y: 5}, {X: 6, Y: 5}, {X: 4, Y: 4}} {
		_, ok := got.Get(p)
		assert.True(t, ok, "corner/inner cell %v missing", p)
	}
	_, ok := got.Get(geometry.Pt(7, 4))
	assert.False(t, ok)
}

func TestRectangleClipsToBounds(t *testing.T) {
	got := Rectangle(pixel.New(), geometry.Bounds(4, 4), geometry.Pt(-2, -2), geometry.Pt(1, 1), colorutil.Red)
	assert.Equal(t, 4, got.Len())
	assert.True(t, got.InBounds(geometry.Bounds(4, 4)))
}

func TestEllipseKnownShape(t *testing.T) {
	got := EllipsePoints(geometry.Pt(0, 0), geometry.Pt(4, 4))
	want := []geometry.Point{
		{X: 2, Y: 0},
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1},
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 2},
		{X: 1, Y: 3}, {X: 2, Y: 3}, {X: 3, Y: 3},
		{X: 2, Y: 4},
	}
	assert.Equal(t, want, got)
}

func TestEllipseSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		a := geometry.Pt(rng.Intn(40), rng.Intn(40))
		b := geometry.Pt(rng.Intn(40), rng.Intn(40))
		m1 := Ellipse(pixel.New(), canvas, a, b, colorutil.Blue)
		m2 := Ellipse(pixel.New(), canvas, b, a, colorutil.Blue)
		m3 := Ellipse(pixel.New(), canvas, geometry.Pt(a.X, b.Y), geometry.Pt(b.X, a.Y), colorutil.Blue)
		require.True(t, m1.Equal(m2), "ellipse %v-%v depends on corner order", a, b)
		require.True(t, m1.Equal(m3), "ellipse %v-%v depends on corner choice", a, b)
	}
}

func TestEllipseDegenerate(t *testing.T) {
	t.Run("zero width is a vertical line", func(t *testing.T) {
		got := EllipsePoints(geometry.Pt(5, 1), geometry.Pt(5, 4))
		assert.Equal(t, []geometry.Point{{X: 5, Y: 1}, {X: 5, Y: 2}, {X: 5, Y: 3}, {X: 5, Y: 4}}, got)
	})
	t.Run("zero height is a horizontal line", func(t *testing.T) {
		got := EllipsePoints(geometry.Pt(3, 7), geometry.Pt(0, 7))
		assert.Equal(t, []geometry.Point{{X: 0, Y: 7}, {X: 1, Y: 7}, {X: 2, Y: 7}, {X: 3, Y: 7}}, got)
	})
	t.Run("single cell", func(t *testing.T) {
		assert.Equal(t, []geometry.Point{{X: 9, Y: 9}}, EllipsePoints(geometry.Pt(9, 9), geometry.Pt(9, 9)))
	})
}

func TestEllipseDropsOutOfBounds(t *testing.T) {
	b := geometry.Bounds(10, 10)
	got := Ellipse(pixel.New(), b, geometry.Pt(-5, -5), geometry.Pt(5, 5), colorutil.Red)
	assert.True(t, got.InBounds(b))
	assert.NotZero(t, got.Len())
}

func TestDrawingDoesNotMutateSource(t *testing.T) {
	src := pixel.New()
	src.Set(geometry.Pt(0, 0), colorutil.White)
	before := src.Clone()

	Plot(src, canvas, geometry.Pt(1, 1), colorutil.Red)
	Erase(src, canvas, geometry.Pt(0, 0))
	Line(src, canvas, geometry.Pt(0, 0), geometry.Pt(9, 9), colorutil.Red)
	Rectangle(src, canvas, geometry.Pt(0, 0), geometry.Pt(9, 9), colorutil.Red)
	Ellipse(src, canvas, geometry.Pt(0, 0), geometry.Pt(9, 9), colorutil.Red)
	FloodFill(src, canvas, geometry.Pt(5, 5), colorutil.Red)

	assert.True(t, src.Equal(before))
}

func TestPlotAndEraseOutOfBounds(t *testing.T) {
	src := pixel.New()
	assert.Equal(t, 0, Plot(src, canvas, geometry.Pt(128, 0), colorutil.Red).Len())

	src.Set(geometry.Pt(2, 2), colorutil.Red)
	assert.Equal(t, 0, Erase(src, canvas, geometry.Pt(2, 2)).Len())
	assert.Equal(t, 1, Erase(src, canvas, geometry.Pt(-1, 2)).Len())
}

func TestEraseLine(t *testing.T) {
	src := Rectangle(pixel.New(), canvas, geometry.Pt(0, 0), geometry.Pt(5, 2), colorutil.Red)
	got := EraseLine(src, canvas, geometry.Pt(0, 1), geometry.Pt(9, 1))

	assert.Equal(t, 18, src.Len())
	assert.Equal(t, 12, got.Len())
	_, ok := got.Get(geometry.Pt(3, 1))
	assert.False(t, ok)
	_, ok = got.Get(geometry.Pt(3, 0))
	assert.True(t, ok)
}

func TestToolForKey(t *testing.T) {
	tests := map[rune]Tool{
		'b': ToolPencil, 'E': ToolEraser, 'g': ToolFill, 'i': ToolEyedropper,
		'l': ToolLine, 'r': ToolRectangle, 'c': ToolEllipse, 'v': ToolSelection,
	}
	for r, want := range tests {
		got, ok := ToolForKey(r)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ToolForKey('x')
	assert.False(t, ok)
}

func TestParseTool(t *testing.T) {
	for tool := ToolPencil; tool <= ToolSelection; tool++ {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	_, err := ParseTool("lasso")
	assert.Error(t, err)
	assert.True(t, ToolLine.IsShape())
	assert.True(t, ToolEraser.IsFreehand())
	assert.False(t, ToolFill.IsShape() || ToolFill.IsFreehand())
}
