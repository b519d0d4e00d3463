package geom

import "gonum.org/v1/gonum/spatial/r2"

// PointInPolygon reports whether p lies inside poly by the even-odd rule.
// Points exactly on an edge or vertex may land on either side.
func PointInPolygon(p r2.Vec, poly []r2.Vec) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Segment is a free-standing boundary piece.
type Segment struct {
	A, B r2.Vec
}

// crossX returns where a-b crosses the horizontal line at y. Lines through
// an endpoint do not count.
func crossX(a, b r2.Vec, y float64) (float64, bool) {
	if !(a.Y > b.Y && y < a.Y && y > b.Y) && !(a.Y < b.Y && y > a.Y && y < b.Y) {
		return 0, false
	}
	if a.X == b.X {
		return a.X, true
	}
	return (b.X-a.X)/(b.Y-a.Y)*(y-a.Y) + a.X, true
}

// BoundaryCrossings returns the x positions where the horizontal line at y
// crosses an ordered boundary path. The path may hold several loops back
// to back: once an edge returns to the loop's first vertex the bridging
// edge to the next loop is skipped. Zero-length edges are ignored.
func BoundaryCrossings(path []r2.Vec, y float64) []float64 {
	if len(path) < 2 {
		return nil
	}
	var xs []float64
	first := path[0]
	jump := true
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		if a == b {
			continue
		}
		if !jump && b == first {
			if i < len(path)-2 {
				first = path[i+2]
				jump = true
				i++
			}
		} else {
			jump = false
		}
		if x, ok := crossX(a, b, y); ok {
			xs = append(xs, x)
		}
	}
	return xs
}

// SegmentCrossings is BoundaryCrossings for unordered segments.
func SegmentCrossings(segs []Segment, y float64) []float64 {
	var xs []float64
	for _, s := range segs {
		if s.A == s.B {
			continue
		}
		if x, ok := crossX(s.A, s.B, y); ok {
			xs = append(xs, x)
		}
	}
	return xs
}
