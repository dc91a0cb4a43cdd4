// Package geometry provides the integer coordinate types used throughout the editor.
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a canvas cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Less orders points row-major: by Y, then by X.
func (p Point) Less(other Point) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// Key returns the "x,y" text form used by the project file.
func (p Point) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ParsePointKey parses the "x,y" form produced by Key. Only the exact text
// Key would produce is accepted: no signs other than '-', no leading zeros.
func ParsePointKey(s string) (Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("invalid coordinate key %q", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Point{}, fmt.Errorf("invalid coordinate key %q: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Point{}, fmt.Errorf("invalid coordinate key %q: %w", s, err)
	}
	pt := Point{X: x, Y: y}
	if pt.Key() != s {
		return Point{}, fmt.Errorf("invalid coordinate key %q", s)
	}
	return pt, nil
}

// Rect is an integer rectangle anchored at X,Y.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bounds returns the canvas rectangle [0,w) x [0,h).
func Bounds(width, height int) Rect {
	return Rect{Width: width, Height: height}
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Area returns the number of cells covered.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Span returns the inclusive box spanned by two corners, in any order.
func Span(a, b Point) Rect {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}
