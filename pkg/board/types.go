package board

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/OpenTraceLab/boardgraph/pkg/brd"
	"github.com/OpenTraceLab/boardgraph/pkg/geom"
)

// Side is the canonical board side shared with the record parser.
type Side = brd.Side

const (
	SideBoth   = brd.SideBoth
	SideTop    = brd.SideTop
	SideBottom = brd.SideBottom
)

// NetID indexes Board.Nets.
type NetID int

// ComponentID indexes Board.Components.
type ComponentID int

// PinID indexes Board.Pins.
type PinID int

// NoComponent is the owner of pins that belong to no component (nails).
const NoComponent ComponentID = -1

// PinKind classifies a contact.
type PinKind int

const (
	PinComponent PinKind = iota
	PinTestPad
	PinNotConnected
	PinNail
)

func (k PinKind) String() string {
	switch k {
	case PinTestPad:
		return "testpad"
	case PinNotConnected:
		return "nc"
	case PinNail:
		return "nail"
	}
	return "pin"
}

// ComponentKind classifies a component.
type ComponentKind int

const (
	ComponentNormal ComponentKind = iota
	ComponentDummy
	ComponentFiducial
)

func (k ComponentKind) String() string {
	switch k {
	case ComponentDummy:
		return "dummy"
	case ComponentFiducial:
		return "fiducial"
	}
	return "normal"
}

// Net is an electrically connected group of pins.
type Net struct {
	ID        NetID
	Name      string  // unique across the board
	ShowName  string  // display name
	Number    int     // file net id or probe number
	HasNumber bool    // Number came from the file
	Ground    bool    // name is exactly GND or GROUND
	Side      Side    // side of the record that created the net
	Info      string  // free-form net table annotation
	Diode     string  // diode-mode reading
	Voltage   string  // expected voltage
	Pins      []PinID // owned pins, in input order
}

// Component is a part owning one or more pins.
type Component struct {
	ID             ComponentID
	Name           string
	MfgCode        string
	Mount          brd.MountType
	Kind           ComponentKind
	Side           Side
	Pins           []PinID  // owned pins, in input order
	P1, P2         r2.Vec   // reference corners from the source
	SpecialOutline []r2.Vec // explicit four-corner outline, if any
}

// IsDummy reports whether c is a test-pad group rather than a real part.
func (c *Component) IsDummy() bool { return c.Kind == ComponentDummy }

// Pin is a probeable contact.
type Pin struct {
	ID        PinID
	Kind      PinKind
	Number    string // positional or source pin number
	Name      string // display label, defaults to Number
	Position  r2.Vec
	Diameter  float64 // drawn pad size; the pitch table may overwrite it
	Size      r2.Vec  // pad extent when the source gives one
	Shape     brd.PadShape
	Angle     float64
	Side      Side
	Net       NetID
	Component ComponentID // NoComponent for nails
	Probe     int
	Diode     string
	Voltage   string
}

// Track is a copper segment.
type Track struct {
	A, B  r2.Vec
	Width float64
	Side  Side
	Net   NetID
}

// Via joins two sides at one position.
type Via struct {
	Pos        r2.Vec
	Size       float64
	Side       Side
	TargetSide Side
	Net        NetID
}

// Arc is a circular copper arc. Angles are in radians.
type Arc struct {
	Center     r2.Vec
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Width      float64
	Side       Side
	Net        NetID
}

// Segment is a loose board outline piece.
type Segment = geom.Segment

// Options tunes graph construction and outline derivation.
type Options struct {
	// PinDiameter replaces pin sizes the source gives as zero or negative.
	PinDiameter float64
	// OutlinePinDiameter is the pad size assumed when deriving part
	// outlines and no pitch rule applies.
	OutlinePinDiameter float64
	// FallbackMargin grows the synthesised board outline, in raw file units.
	FallbackMargin float64
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		PinDiameter:        brd.DefaultPinRadius,
		OutlinePinDiameter: 20,
		FallbackMargin:     200,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PinDiameter <= 0 {
		o.PinDiameter = d.PinDiameter
	}
	if o.OutlinePinDiameter <= 0 {
		o.OutlinePinDiameter = d.OutlinePinDiameter
	}
	if o.FallbackMargin <= 0 {
		o.FallbackMargin = d.FallbackMargin
	}
	return o
}

// Diagnostics lists what Build recovered from.
type Diagnostics struct {
	DroppedPins     int  // pins whose part index was out of range
	SentinelPins    int  // pins resolved to the unconnected net
	CreatedNets     int  // nets first seen on a record rather than the net table
	FallbackOutline bool // the board outline was synthesised from pin positions
}
