package geom

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxScanlines caps the number of lines ScanlineFill will cast.
const MaxScanlines = 1 << 16

// Chord is one filled run of a scanline.
type Chord struct {
	Y, X0, X1 float64
}

// ScanlineFill casts horizontal lines every spacing units across the
// bounds of the boundary path and the loose segments, and pairs up the
// sorted crossings into inside runs. Coincident crossings count once.
// It stops after MaxScanlines lines.
func ScanlineFill(path []r2.Vec, segs []Segment, spacing float64) []Chord {
	if spacing <= 0 {
		return nil
	}
	pts := append([]r2.Vec(nil), path...)
	for _, s := range segs {
		pts = append(pts, s.A, s.B)
	}
	if len(pts) == 0 {
		return nil
	}
	bounds := Bounds(pts)

	var chords []Chord
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y && n < MaxScanlines; y += spacing {
		n++
		xs := append(BoundaryCrossings(path, y), SegmentCrossings(segs, y)...)
		sort.Float64s(xs)
		xs = dedupe(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			chords = append(chords, Chord{Y: y, X0: xs[i], X1: xs[i+1]})
		}
	}
	return chords
}

func dedupe(xs []float64) []float64 {
	if len(xs) == 0 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
