// Package geom holds the planar geometry used for board and part outlines:
// hulls, bounding rectangles, even-odd hit testing and scanline fill.
package geom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds returns the axis-aligned box around pts. The zero box is
// returned for no points.
func Bounds(pts []r2.Vec) r2.Box {
	if len(pts) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Inflate grows b by d on every side.
func Inflate(b r2.Box, d float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: b.Min.X - d, Y: b.Min.Y - d},
		Max: r2.Vec{X: b.Max.X + d, Y: b.Max.Y + d},
	}
}

// Corners returns the four corners of b, counter-clockwise from Min.
func Corners(b r2.Box) [4]r2.Vec {
	return [4]r2.Vec{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// ConvexHull returns the convex hull of pts in counter-clockwise order
// using Andrew's monotone chain. Collinear points are dropped and the
// first point is not repeated at the end.
func ConvexHull(pts []r2.Vec) []r2.Vec {
	sorted := make([]r2.Vec, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	uniq := sorted[:0]
	for _, p := range sorted {
		if len(uniq) == 0 || p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}

	hull := make([]r2.Vec, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// turn is positive for a counter-clockwise turn o->a->b.
func turn(o, a, b r2.Vec) float64 {
	return r2.Cross(r2.Sub(a, o), r2.Sub(b, o))
}

// MinBoundingBox returns the minimum-area rectangle enclosing hull, grown
// by inflate on every side. One rectangle side is always collinear with a
// hull edge; the first edge reaching the minimum wins. Hulls with fewer
// than two distinct points give an axis-aligned square.
func MinBoundingBox(hull []r2.Vec, inflate float64) [4]r2.Vec {
	if len(hull) < 2 {
		var c r2.Vec
		if len(hull) == 1 {
			c = hull[0]
		}
		return Corners(Inflate(r2.Box{Min: c, Max: c}, inflate))
	}

	bestArea := math.Inf(1)
	var bestU, bestV r2.Vec
	var lo, hi [2]float64
	for i := range hull {
		edge := r2.Sub(hull[(i+1)%len(hull)], hull[i])
		if r2.Norm(edge) == 0 {
			continue
		}
		u := r2.Unit(edge)
		v := r2.Vec{X: -u.Y, Y: u.X}

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			pu, pv := r2.Dot(p, u), r2.Dot(p, v)
			minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
			minV, maxV = math.Min(minV, pv), math.Max(maxV, pv)
		}
		if area := (maxU - minU) * (maxV - minV); area < bestArea {
			bestArea = area
			bestU, bestV = u, v
			lo = [2]float64{minU - inflate, minV - inflate}
			hi = [2]float64{maxU + inflate, maxV + inflate}
		}
	}

	at := func(a, b float64) r2.Vec {
		return r2.Add(r2.Scale(a, bestU), r2.Scale(b, bestV))
	}
	return [4]r2.Vec{
		at(lo[0], lo[1]),
		at(hi[0], lo[1]),
		at(hi[0], hi[1]),
		at(lo[0], hi[1]),
	}
}
