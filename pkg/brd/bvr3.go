package brd

import (
	"bytes"
	"math"
)

const bvr3Magic = "BVRAW_FORMAT_3"

// IsBVR3 reports whether buf looks like a BVR3 dump.
func IsBVR3(buf []byte) bool {
	return bytes.Contains(buf, []byte(bvr3Magic))
}

// bvr3Parser accumulates one record of each kind until its *_END keyword.
type bvr3Parser struct {
	f       *File
	part    Part
	pin     Pin
	track   Track
	via     Via
	arc     Arc
	pending []Segment // OUTLINE_SEGMENTED pieces not yet stitched
}

var bvr3Keywords = map[string]func(p *bvr3Parser, args *fields){
	"PART_NAME":  func(p *bvr3Parser, a *fields) { p.part.Name = a.str() },
	"PART_SIDE":  func(p *bvr3Parser, a *fields) { p.part.Side = bvr3Side(a.str()) },
	"PART_MOUNT": func(p *bvr3Parser, a *fields) { p.part.Mount = bvr3Mount(a.str()) },
	"PART_OUTLINE_RELATIVE_CUSTOM": func(p *bvr3Parser, a *fields) {
		p.part.Outline = append(p.part.Outline, a.points()...)
	},
	"PART_END": func(p *bvr3Parser, _ *fields) {
		p.part.EndOfPins = len(p.f.Pins)
		p.f.Parts = append(p.f.Parts, p.part)
		p.part = Part{}
	},

	"PIN_NUMBER":        func(p *bvr3Parser, a *fields) { p.pin.Number = a.str() },
	"PIN_NAME":          func(p *bvr3Parser, a *fields) { p.pin.Name = a.str() },
	"PIN_SIDE":          func(p *bvr3Parser, a *fields) { p.pin.Side = bvr3Side(a.str()) },
	"PIN_ORIGIN":        func(p *bvr3Parser, a *fields) { p.pin.Pos = a.point() },
	"PIN_RADIUS":        func(p *bvr3Parser, a *fields) { p.pin.Radius = a.float() },
	"PIN_NET":           func(p *bvr3Parser, a *fields) { p.pin.Net = a.str() },
	"PIN_DIODE_VALUE":   func(p *bvr3Parser, a *fields) { p.pin.Diode = a.str() },
	"PIN_VOLTAGE_VALUE": func(p *bvr3Parser, a *fields) { p.pin.Voltage = a.str() },
	"PIN_SIZE":          func(p *bvr3Parser, a *fields) { p.pin.Size = a.point() },
	"PIN_ANGLE":         func(p *bvr3Parser, a *fields) { p.pin.Angle = a.float() },
	"PIN_SHAPE":         func(p *bvr3Parser, a *fields) { p.pin.Shape = PadShape(a.int()) },
	"PIN_END": func(p *bvr3Parser, _ *fields) {
		// the owning part is still open, so it lands at len(Parts)+1
		p.pin.Part = len(p.f.Parts) + 1
		p.f.Pins = append(p.f.Pins, p.pin)
		p.pin = newPin()
	},

	"TRACK_NET":         func(p *bvr3Parser, a *fields) { p.track.Net = a.str() },
	"TRACK_POINT_START": func(p *bvr3Parser, a *fields) { p.track.A = a.point() },
	"TRACK_POINT_END":   func(p *bvr3Parser, a *fields) { p.track.B = a.point() },
	"TRACK_SIDE":        func(p *bvr3Parser, a *fields) { p.track.Side = bvr3Side(a.str()) },
	"TRACK_END": func(p *bvr3Parser, _ *fields) {
		p.f.Tracks = append(p.f.Tracks, p.track)
		p.track = newTrack()
	},

	"VIA_SIZE":        func(p *bvr3Parser, a *fields) { p.via.Size = a.float() },
	"VIA_NET":         func(p *bvr3Parser, a *fields) { p.via.Net = a.str() },
	"VIA_POS":         func(p *bvr3Parser, a *fields) { p.via.Pos = a.point() },
	"VIA_SIDE":        func(p *bvr3Parser, a *fields) { p.via.Side = bvr3Side(a.str()) },
	"VIA_SIDE_TARGET": func(p *bvr3Parser, a *fields) { p.via.TargetSide = bvr3Side(a.str()) },
	"VIA_END": func(p *bvr3Parser, _ *fields) {
		p.f.Vias = append(p.f.Vias, p.via)
		p.via = Via{}
	},

	"ARC_POS":         func(p *bvr3Parser, a *fields) { p.arc.Center = a.point() },
	"ARC_SIDE":        func(p *bvr3Parser, a *fields) { p.arc.Side = bvr3Side(a.str()) },
	"ARC_NET":         func(p *bvr3Parser, a *fields) { p.arc.Net = a.str() },
	"ARC_RADIUS":      func(p *bvr3Parser, a *fields) { p.arc.Radius = a.float() },
	"ARC_START_ANGLE": func(p *bvr3Parser, a *fields) { p.arc.StartAngle = radians(a.float()) },
	"ARC_END_ANGLE":   func(p *bvr3Parser, a *fields) { p.arc.EndAngle = radians(a.float()) },
	"ARC_END": func(p *bvr3Parser, _ *fields) {
		p.f.Arcs = append(p.f.Arcs, p.arc)
		p.arc = newArc()
	},

	"OUTLINE_POINTS": func(p *bvr3Parser, a *fields) {
		p.f.Outline = append(p.f.Outline, a.points()...)
	},
	"OUTLINE_SEGMENTED_CUSTOM": func(p *bvr3Parser, a *fields) {
		p.f.OutlineSegments = append(p.f.OutlineSegments, segmentList(a)...)
	},
	"OUTLINE_ARC": func(p *bvr3Parser, a *fields) {
		center := a.point()
		radius := a.float()
		start := radians(a.float())
		end := radians(a.float())
		p.f.OutlineSegments = append(p.f.OutlineSegments, ArcToSegments(start, end, radius, center)...)
	},
	"OUTLINE_SEGMENTED": func(p *bvr3Parser, a *fields) {
		p.pending = append(p.pending, segmentList(a)...)
		var path []Point
		path, p.pending = stitch(p.pending)
		p.f.Outline = append(p.f.Outline, path...)
	},
}

// ParseBVR3 reads a BVR3 dump.
func ParseBVR3(buf []byte) *File {
	p := &bvr3Parser{
		f:     newFile(FormatBVR3),
		pin:   newPin(),
		track: newTrack(),
		arc:   newArc(),
	}
	if len(buf) <= 4 {
		return invalid(FormatBVR3, "file too small")
	}
	for _, line := range splitLines(buf) {
		kw, rest := keyword(line)
		if fn, ok := bvr3Keywords[kw]; ok {
			fn(p, newFields(rest))
		}
	}
	return p.f.finish()
}

func bvr3Side(tok string) Side {
	switch tok {
	case "T", "1":
		return SideTop
	case "B":
		return SideBottom
	case "O":
		return SideBoth
	}
	v, ok := parseFloat(tok)
	if !ok {
		return SideBoth
	}
	if int(v) == bvr3Bottom {
		return SideBottom
	}
	return innerLayer(int(v))
}

// bvr3Bottom is the numeric side BVR3 writers use for the bottom surface.
const bvr3Bottom = 10

func bvr3Mount(tok string) MountType {
	if tok == "SMD" {
		return MountSMD
	}
	return MountThroughHole
}

// segmentList reads x1 y1 x2 y2 groups until the line ends or a group does
// not parse.
func segmentList(a *fields) []Segment {
	pts := a.points()
	segs := make([]Segment, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		segs = append(segs, Segment{A: pts[i], B: pts[i+1]})
	}
	return segs
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
