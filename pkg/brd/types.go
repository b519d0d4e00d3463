package brd

// Point is a raw coordinate in file units.
type Point struct {
	X, Y int
}

// Segment is an unordered pair of endpoints.
type Segment struct {
	A, B Point
}

// MountType tells surface mount parts from through-hole ones.
type MountType int

const (
	MountSMD MountType = iota
	MountThroughHole
)

func (m MountType) String() string {
	if m == MountThroughHole {
		return "TH"
	}
	return "SMD"
}

// PadShape is the pad outline declared by the source file.
type PadShape int

const (
	ShapeFold PadShape = iota
	ShapeCircle
	ShapeRect
)

func (s PadShape) String() string {
	switch s {
	case ShapeFold:
		return "fold"
	case ShapeRect:
		return "rect"
	}
	return "circle"
}

// DefaultPinRadius is the raw radius of a pin whose record carries none.
const DefaultPinRadius = 7.0

// UnconnectedNet is the name of the sentinel net. Any net name with this
// prefix means "no connection".
const UnconnectedNet = "UNCONNECTED"

// DummyPrefix marks a part name as a group of test pads.
const DummyPrefix = "..."

// Part is a raw component record.
type Part struct {
	Name      string
	MfgCode   string
	Side      Side
	Mount     MountType
	EndOfPins int // count of pins read when the part was closed
	P1, P2    Point
	Outline   []Point // explicit outline override, usually four corners
}

// Pin is a raw contact record. Part is 1-based into File.Parts.
type Pin struct {
	Pos     Point
	Probe   int
	Part    int
	Side    Side
	Net     string
	NetID   int // 0 when the file carries names only
	Radius  float64
	Number  string
	Name    string
	Diode   string
	Voltage string
	Size    Point
	Shape   PadShape
	Angle   float64
}

func newPin() Pin {
	return Pin{Radius: DefaultPinRadius, Shape: ShapeCircle}
}

// Nail is a bed-of-nails probe.
type Nail struct {
	Probe int
	Pos   Point
	Side  Side
	Net   string
	NetID int
}

// Track is a copper segment.
type Track struct {
	A, B  Point
	Side  Side
	Width float64
	Net   string
	NetID int
}

func newTrack() Track {
	return Track{Width: 1}
}

// Via joins two layers at one position.
type Via struct {
	Pos        Point
	Size       float64
	Side       Side
	TargetSide Side
	Net        string
	NetID      int
}

// Arc is a circular copper arc. Angles are in radians.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Width      float64
	Side       Side
	Net        string
	NetID      int
}

func newArc() Arc {
	return Arc{Width: 1}
}

// NetInfo is an entry of a file-level net table.
type NetInfo struct {
	ID      int
	Name    string
	Info    string
	Diode   string
	Voltage string
}

// File holds every record read from one board dump.
//
// Outline is the ordered board boundary; OutlineSegments are independent
// boundary pieces that were not stitched into it.
type File struct {
	Format          Format
	Scale           float64
	Outline         []Point
	OutlineSegments []Segment
	Parts           []Part
	Pins            []Pin
	Nails           []Nail
	Tracks          []Track
	Vias            []Via
	Arcs            []Arc
	Nets            []NetInfo

	Valid bool
	Err   string
}

func newFile(format Format) *File {
	return &File{Format: format, Scale: 1}
}

// finish sets Valid from the collected records.
func (f *File) finish() *File {
	f.Valid = len(f.Parts) > 0 || len(f.Outline) > 0
	if !f.Valid && f.Err == "" {
		f.Err = "no parts or outline found"
	}
	return f
}

func invalid(format Format, msg string) *File {
	f := newFile(format)
	f.Err = msg
	return f
}
