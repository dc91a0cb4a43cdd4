package raster

import (
	"pixelforge/internal/pixel"
	"pixelforge/pkg/colorutil"
	"pixelforge/pkg/geometry"
)

var neighbors4 = [4]geometry.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// FloodFill replaces the 4-connected region around start that shares start's
// color (or is unset along with it) with c.
//
// When the region already has color c, src is returned unchanged: the same
// pointer, no copy. The walk uses an explicit stack and marks cells visited on
// acceptance, so each cell is processed at most once.
func FloodFill(src *pixel.Map, bounds geometry.Rect, start geometry.Point, c colorutil.Color) *pixel.Map {
	if !bounds.Contains(start) {
		return src
	}
	target, targetSet := src.Get(start)
	if targetSet && target == c {
		return src
	}

	matches := func(p geometry.Point) bool {
		cur, ok := src.Get(p)
		if ok != targetSet {
			return false
		}
		return !ok || cur == target
	}

	out := src.Clone()
	visited := make(map[geometry.Point]struct{})
	stack := []geometry.Point{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !bounds.Contains(p) {
			continue
		}
		if _, seen := visited[p]; seen {
			continue
		}
		if !matches(p) {
			continue
		}

		visited[p] = struct{}{}
		out.Set(p, c)

		for _, d := range neighbors4 {
			stack = append(stack, p.Add(d))
		}
	}
	return out
}

// Pick returns the color at p on the layer, if any (eyedropper).
func Pick(src *pixel.Map, p geometry.Point) (colorutil.Color, bool) {
	return src.Get(p)
}
