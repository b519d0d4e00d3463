package brd

import "math"

// arcStep is the angular slice used when flattening arcs, in radians.
const arcStep = 0.1

// MaxArcSweep bounds the sweep ArcToSegments flattens. Longer sweeps only
// retrace the circle, so they are cut to a single full turn.
const MaxArcSweep = 2 * math.Pi

// ArcToSegments flattens a circular arc into line segments. The last
// segment ends exactly on the end angle's point, or on the start point when
// the sweep was cut to MaxArcSweep. A sweep that is not positive yields a
// single chord.
func ArcToSegments(startAngle, endAngle, radius float64, center Point) []Segment {
	at := func(a float64) Point {
		return Point{
			X: int(float64(center.X) + radius*math.Cos(a)),
			Y: int(float64(center.Y) + radius*math.Sin(a)),
		}
	}

	sweep := endAngle - startAngle
	if !(sweep > 0) {
		return []Segment{{A: at(startAngle), B: at(endAngle)}}
	}
	if sweep > MaxArcSweep {
		sweep = MaxArcSweep
		endAngle = startAngle + sweep
	}
	p1, p2 := at(startAngle), at(endAngle)

	n := int(math.Ceil(sweep / arcStep))
	segs := make([]Segment, 0, n)
	prev := p1
	for i := 1; i < n; i++ {
		p := at(startAngle + float64(i)*arcStep)
		segs = append(segs, Segment{A: prev, B: p})
		prev = p
	}
	return append(segs, Segment{A: prev, B: p2})
}
