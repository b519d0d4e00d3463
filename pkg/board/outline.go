package board

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/OpenTraceLab/boardgraph/pkg/geom"
)

// OutlineShape tells how a part outline was derived.
type OutlineShape int

const (
	OutlineBox     OutlineShape = iota // axis-aligned box around the pins
	OutlineRaw                         // box plus the raw pin positions as hull
	OutlineRotated                     // rectangle along the first two pins
	OutlineHull                        // minimum bounding box of the pin hull
	OutlineSpecial                     // corners given by the source file
)

func (s OutlineShape) String() string {
	switch s {
	case OutlineRaw:
		return "raw"
	case OutlineRotated:
		return "rotated"
	case OutlineHull:
		return "hull"
	case OutlineSpecial:
		return "special"
	}
	return "box"
}

// Outline is the derived silhouette of a component.
type Outline struct {
	Shape     OutlineShape
	Corners   [4]r2.Vec
	Hull      []r2.Vec // pin hull for OutlineRaw and OutlineHull
	Min, Max  r2.Vec   // pin box grown by the pad radius
	Center    r2.Vec
	Expanse   float64 // pin separation of large capacitors
	Capacitor bool    // Center and Expanse locate the polarity mark
	Warning   bool    // part has no pins; the box is its reference corners
}

type pitchRule struct {
	lo, hi, radius float64
}

// pitchRules map the distance between a small part's extreme pins to the
// pad radius of common footprints. Bounds are exclusive; first match wins.
var pitchRules = []pitchRule{
	{52, 57, 15},   // 0603
	{247, 253, 50}, // SMC
	{195, 199, 50}, // inductor
	{165, 169, 35}, // SMB
	{101, 109, 30}, // SMA, tantalum
	{108, 112, 30}, // 1206
	{64, 68, 25},   // 0805
	{18, 22, 5},    // 0201
	{28, 32, 10},   // 0402
}

// PitchRadius returns the pad radius implied by the distance between the
// extreme pins of a small part.
func PitchRadius(distance float64) (float64, bool) {
	for _, r := range pitchRules {
		if distance > r.lo && distance < r.hi {
			return r.radius, true
		}
	}
	return 0, false
}

// designator returns the first two bytes of a part name, zero when absent.
func designator(name string) (p0, p1 byte) {
	if len(name) > 0 {
		p0 = name[0]
	}
	if len(name) > 1 {
		p1 = name[1]
	}
	return p0, p1
}

func leadsWith(set string, p0, p1 byte) bool {
	return (p0 != 0 && strings.IndexByte(set, p0) >= 0) ||
		(p1 != 0 && strings.IndexByte(set, p1) >= 0)
}

// ComputeComponentOutline derives and caches the outline of a component.
// Later calls return the cached result. Deriving an outline may set the
// diameter of the component's pins from the pitch table.
func (b *Board) ComputeComponentOutline(id ComponentID) Outline {
	c := b.Component(id)
	if c == nil {
		return Outline{}
	}
	if b.outlineDone[id] {
		return b.outlines[id]
	}

	var o Outline
	switch {
	case len(c.Pins) == 0:
		box := geom.Bounds([]r2.Vec{c.P1, c.P2})
		o = boxOutline(box)
		o.Warning = true
	case c.IsDummy():
		o = boxOutline(geom.Inflate(b.pinBounds(c), b.opts.OutlinePinDiameter/2))
	default:
		o = b.deriveOutline(c)
	}
	if len(c.SpecialOutline) == 4 {
		o.Shape = OutlineSpecial
		copy(o.Corners[:], c.SpecialOutline)
	}

	b.outlines[id] = o
	b.outlineDone[id] = true
	return o
}

func boxOutline(box r2.Box) Outline {
	return Outline{
		Shape:   OutlineBox,
		Corners: geom.Corners(box),
		Min:     box.Min,
		Max:     box.Max,
		Center:  box.Center(),
	}
}

func (b *Board) pinPositions(c *Component) []r2.Vec {
	pts := make([]r2.Vec, len(c.Pins))
	for i, id := range c.Pins {
		pts[i] = b.pins[id].Position
	}
	return pts
}

func (b *Board) pinBounds(c *Component) r2.Box {
	return geom.Bounds(b.pinPositions(c))
}

func (b *Board) setPinDiameters(c *Component, d float64) {
	for _, id := range c.Pins {
		b.pins[id].Diameter = d
	}
}

func (b *Board) deriveOutline(c *Component) Outline {
	pts := b.pinPositions(c)
	n := len(pts)
	box := geom.Bounds(pts)
	size := box.Size()
	distance := math.Hypot(size.X, size.Y)
	radius := b.opts.OutlinePinDiameter / 2

	p0, p1 := designator(c.Name)
	if n < 4 && p0 != 'U' && p0 != 'Q' {
		if r, ok := PitchRadius(distance); ok {
			radius = r
			b.setPinDiameters(c, r)
		}
	}

	dbox := geom.Inflate(box, radius)
	o := boxOutline(dbox)
	var aspect float64
	if h := dbox.Max.Y - dbox.Min.Y; h >= 0.01 {
		aspect = (dbox.Max.X - dbox.Min.X) / h
	}

	switch {
	case n == 3 && math.Abs(aspect) > 0.5 &&
		(leadsWith("DQZ", p0, p1) || strings.HasPrefix(c.Name, "LED")):
		o.Shape = OutlineRaw
		o.Hull = pts

	case n > 1 && n < 4 && leadsWith("CRLD", p0, p1):
		b.rotatedOutline(c, &o, pts, distance, radius)

	case n >= 4 && (leadsWith("UJL", p0, p1) || strings.HasPrefix(c.Name, "CN")):
		hull := geom.ConvexHull(pts)
		o.Shape = OutlineHull
		o.Hull = hull
		o.Corners = geom.MinBoundingBox(hull, radius)
	}
	return o
}

// rotatedOutline lays a rectangle along the line from the first pin to
// the second. Inductors and large capacitors get longer arms.
func (b *Board) rotatedOutline(c *Component, o *Outline, pts []r2.Vec, distance, radius float64) {
	p0, p1 := designator(c.Name)
	a, z := pts[0], pts[1]
	d := r2.Sub(z, a)
	angle := math.Atan2(d.Y, d.X)

	var armx, army float64
	switch {
	case (p0 == 'L' || p1 == 'L') && distance > 50:
		radius = 15
		b.setPinDiameters(c, radius)
		armx, army = radius, distance/2
	case (p0 == 'C' || p1 == 'C') && distance > 90:
		radius = 15
		b.setPinDiameters(c, radius)
		armx, army = radius, distance/4
		o.Capacitor = true
		o.Center = r2.Add(a, r2.Scale(0.5, d))
		o.Expanse = distance
	default:
		armx, army = radius, radius
	}

	o.Shape = OutlineRotated
	o.Corners = [4]r2.Vec{
		r2.Rotate(r2.Vec{X: a.X - armx, Y: a.Y - army}, angle, a),
		r2.Rotate(r2.Vec{X: a.X - armx, Y: a.Y + army}, angle, a),
		r2.Rotate(r2.Vec{X: z.X + armx, Y: z.Y + army}, angle, z),
		r2.Rotate(r2.Vec{X: z.X + armx, Y: z.Y - army}, angle, z),
	}
}
