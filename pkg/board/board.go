// Package board turns raw board records into a cross-referenced graph of
// nets, components and pins, and derives the outline geometry drawn for
// parts and the board itself.
//
// Entities live in flat slices indexed by NetID, ComponentID and PinID.
// Components and nets own lists of pin IDs; pins point back at their net
// and component by ID. A Board is read-only once built, apart from the
// cached part outlines and the one-off orientation check. It is not safe
// for concurrent use.
package board

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/OpenTraceLab/boardgraph/pkg/brd"
	"github.com/OpenTraceLab/boardgraph/pkg/geom"
)

// Board is a built board graph.
type Board struct {
	format      brd.Format
	opts        Options
	nets        []Net
	components  []Component
	pins        []Pin
	tracks      []Track
	vias        []Via
	arcs        []Arc
	outline     []r2.Vec
	segments    []geom.Segment
	sides       []Side
	unconnected NetID

	netByName       map[string]NetID
	componentByName map[string]ComponentID

	outlines    []Outline
	outlineDone []bool
	orientation *Orientation

	diag Diagnostics
}

// Format returns the dialect the board was read from.
func (b *Board) Format() brd.Format { return b.format }

// Options returns the tuning the board was built with.
func (b *Board) Options() Options { return b.opts }

// Nets returns all nets sorted by name. The slice must not be modified.
func (b *Board) Nets() []Net { return b.nets }

// Components returns all components sorted by name. The slice must not be
// modified.
func (b *Board) Components() []Component { return b.components }

// Pins returns all pins, component pins first and nails last.
func (b *Board) Pins() []Pin { return b.pins }

// Tracks returns the scaled copper tracks.
func (b *Board) Tracks() []Track { return b.tracks }

// Vias returns the scaled vias.
func (b *Board) Vias() []Via { return b.vias }

// Arcs returns the scaled copper arcs.
func (b *Board) Arcs() []Arc { return b.arcs }

// OutlinePoints returns the ordered board boundary.
func (b *Board) OutlinePoints() []r2.Vec { return b.outline }

// OutlineSegments returns boundary pieces that are not part of the
// ordered outline.
func (b *Board) OutlineSegments() []Segment { return b.segments }

// Sides returns the distinct sides used by tracks, vias and arcs, in
// ascending order.
func (b *Board) Sides() []Side { return b.sides }

// Diagnostics reports what Build had to recover from.
func (b *Board) Diagnostics() Diagnostics { return b.diag }

// Net returns the net with the given ID.
func (b *Board) Net(id NetID) *Net {
	if id < 0 || int(id) >= len(b.nets) {
		return nil
	}
	return &b.nets[id]
}

// Component returns the component with the given ID.
func (b *Board) Component(id ComponentID) *Component {
	if id < 0 || int(id) >= len(b.components) {
		return nil
	}
	return &b.components[id]
}

// Pin returns the pin with the given ID.
func (b *Board) Pin(id PinID) *Pin {
	if id < 0 || int(id) >= len(b.pins) {
		return nil
	}
	return &b.pins[id]
}

// Unconnected returns the sentinel net.
func (b *Board) Unconnected() NetID { return b.unconnected }

// NetByName looks a net up by its unique name.
func (b *Board) NetByName(name string) (*Net, bool) {
	id, ok := b.netByName[name]
	if !ok {
		return nil, false
	}
	return &b.nets[id], true
}

// ComponentByName looks a component up by name. With duplicate names the
// first in sorted order wins.
func (b *Board) ComponentByName(name string) (*Component, bool) {
	id, ok := b.componentByName[name]
	if !ok {
		return nil, false
	}
	return &b.components[id], true
}

// PinsOf returns the pins of a component or net.
func (b *Board) PinsOf(ids []PinID) []*Pin {
	out := make([]*Pin, 0, len(ids))
	for _, id := range ids {
		out = append(out, &b.pins[id])
	}
	return out
}

// Fill scanline-fills the board outline with lines every spacing units.
func (b *Board) Fill(spacing float64) []geom.Chord {
	return geom.ScanlineFill(b.outline, b.segments, spacing)
}

// Contains reports whether p lies inside the ordered board outline.
func (b *Board) Contains(p r2.Vec) bool {
	return geom.PointInPolygon(p, b.outline)
}
