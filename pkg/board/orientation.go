package board

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/OpenTraceLab/boardgraph/pkg/geom"
)

// Orientation is the result of CheckOrientation.
type Orientation struct {
	// Outside counts pins that fall outside the mirrored outline and the
	// outline as loaded, in that order.
	Outside [2]int
	// Flipped is set when the mirrored outline was kept.
	Flipped bool
}

// CheckOrientation guards against outlines stored upside down relative to
// the pins. It counts the pins whose horizontal ray crosses the outline an
// even number of times on both sides, once for the outline mirrored about
// its vertical extent and once as loaded, and keeps the mirrored outline
// only if strictly fewer pins fall outside it. Ties keep the outline as
// loaded. The check runs once; later calls return the first result.
func (b *Board) CheckOrientation() Orientation {
	if b.orientation != nil {
		return *b.orientation
	}
	res := Orientation{}
	b.orientation = &res
	if len(b.outline) == 0 {
		return res
	}

	mirrored := mirrorY(b.outline)
	res.Outside[0] = b.outsidePins(mirrored)
	res.Outside[1] = b.outsidePins(b.outline)
	if res.Outside[0] < res.Outside[1] {
		b.outline = mirrored
		res.Flipped = true
	}
	return res
}

// mirrorY reflects pts about the top of their bounding box.
func mirrorY(pts []r2.Vec) []r2.Vec {
	maxY := geom.Bounds(pts).Max.Y
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		out[i] = r2.Vec{X: p.X, Y: maxY - p.Y}
	}
	return out
}

func (b *Board) outsidePins(outline []r2.Vec) int {
	n := 0
	for _, p := range b.pins {
		var l, r int
		for _, x := range geom.BoundaryCrossings(outline, p.Position.Y) {
			switch {
			case x > p.Position.X:
				r++
			case x < p.Position.X:
				l++
			}
		}
		if l%2 == 0 && r%2 == 0 {
			n++
		}
	}
	return n
}
