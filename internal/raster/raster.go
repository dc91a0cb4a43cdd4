// Package raster computes the cells touched by drawing operations.
//
// Every drawing function takes the layer's current pixel map and returns a
// new map with the operation applied; the input is never modified. Cells that
// fall outside the canvas bounds are dropped without error.
package raster

import (
	"pixelforge/internal/pixel"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

// Plot sets a single cell (pencil).
func Plot(src *pixel.Map, bounds geometry.Rect, p geometry.Point, c colorutil.Color) *pixel.Map {
	return paint(src, bounds, []geometry.Point{p}, c)
}

// Erase clears a single cell (eraser).
func Erase(src *pixel.Map, bounds geometry.Rect, p geometry.Point) *pixel.Map {
	out := src.Clone()
	if bounds.Contains(p) {
		out.Clear(p)
	}
	return out
}

// EraseLine clears every cell on the line from p0 to p1. Freehand erasing
// uses it so fast drags leave no gaps.
func EraseLine(src *pixel.Map, bounds geometry.Rect, p0, p1 geometry.Point) *pixel.Map {
	out := src.Clone()
	for _, p := range LinePoints(p0, p1) {
		if bounds.Contains(p) {
			out.Clear(p)
		}
	}
	return out
}

// Line draws a one-cell-wide line from p0 to p1 inclusive.
func Line(src *pixel.Map, bounds geometry.Rect, p0, p1 geometry.Point, c colorutil.Color) *pixel.Map {
	return paint(src, bounds, LinePoints(p0, p1), c)
}

// Rectangle fills the axis-aligned box spanned by two corners.
func Rectangle(src *pixel.Map, bounds geometry.Rect, p0, p1 geometry.Point, c colorutil.Color) *pixel.Map {
	return paint(src, bounds, RectPoints(p0, p1), c)
}

// Ellipse fills the ellipse inscribed in the box spanned by two corners.
func Ellipse(src *pixel.Map, bounds geometry.Rect, p0, p1 geometry.Point, c colorutil.Color) *pixel.Map {
	return paint(src, bounds, EllipsePoints(p0, p1), c)
}

func paint(src *pixel.Map, bounds geometry.Rect, pts []geometry.Point, c colorutil.Color) *pixel.Map {
	out := src.Clone()
	for _, p := range pts {
		if bounds.Contains(p) {
			out.Set(p, c)
		}
	}
	return out
}

// LinePoints returns the Bresenham path from p0 to p1, both endpoints
// included, each cell once.
func LinePoints(p0, p1 geometry.Point) []geometry.Point {
	dx := abs(p1.X - p0.X)
	dy := abs(p1.Y - p0.Y)
	sx, sy := -1, -1
	if p0.X < p1.X {
		sx = 1
	}
	if p0.Y < p1.Y {
		sy = 1
	}
	err := dx - dy

	pts := make([]geometry.Point, 0, max(dx, dy)+1)
	x, y := p0.X, p0.Y
	for {
		pts = append(pts, geometry.Pt(x, y))
		if x == p1.X && y == p1.Y {
			return pts
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// RectPoints returns every cell of the inclusive box spanned by p0 and p1.
func RectPoints(p0, p1 geometry.Point) []geometry.Point {
	r := geometry.Span(p0, p1)
	pts := make([]geometry.Point, 0, r.Area())
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			pts = append(pts, geometry.Pt(x, y))
		}
	}
	return pts
}

// EllipsePoints returns the cells of the filled ellipse inscribed in the box
// spanned by p0 and p1.
//
// The inside test ((x-cx)/rx)² + ((y-cy)/ry)² ≤ 1 is evaluated in doubled
// integer coordinates so half-cell centers stay exact. A zero radius on one
// axis degenerates to a line segment along the other.
func EllipsePoints(p0, p1 geometry.Point) []geometry.Point {
	r := geometry.Span(p0, p1)
	cx2 := 2*r.X + r.Width - 1
	cy2 := 2*r.Y + r.Height - 1
	rx2 := int64(r.Width - 1)
	ry2 := int64(r.Height - 1)

	pts := make([]geometry.Point, 0, r.Area())
	for y := r.Y; y < r.Y+r.Height; y++ {
		dy := int64(2*y - cy2)
		for x := r.X; x < r.X+r.Width; x++ {
			dx := int64(2*x - cx2)
			if insideEllipse(dx, dy, rx2, ry2) {
				pts = append(pts, geometry.Pt(x, y))
			}
		}
	}
	return pts
}

func insideEllipse(dx, dy, rx, ry int64) bool {
	switch {
	case rx == 0 && ry == 0:
		return dx == 0 && dy == 0
	case rx == 0:
		return dx == 0 && abs64(dy) <= ry
	case ry == 0:
		return dy == 0 && abs64(dx) <= rx
	}
	return dx*dx*ry*ry+dy*dy*rx*rx <= rx*rx*ry*ry
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
