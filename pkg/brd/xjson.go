package brd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// xjsonScale converts XJSON coordinates to raw units.
const xjsonScale = 10000

// XJSON layer ids.
const (
	xjsonBottom  = 16
	xjsonTop     = 17
	xjsonTop2    = 18
	xjsonBoard   = 28
	xjsonTestPad = 34
)

type xjsonPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type xjsonTrack struct {
	Width *float64  `json:"width"`
	Start *xjsonPos `json:"start"`
	End   *xjsonPos `json:"end"`
	Layer int       `json:"layer"`
	NetID int       `json:"netId"`
}

type xjsonPad struct {
	Position *xjsonPos `json:"position"`
	Size     *xjsonPos `json:"size"`
	Shape    int       `json:"shape"`
	Length   float64   `json:"length"`
	Angle    float64   `json:"angle"`
	Name     string    `json:"name"`
	Diode    string    `json:"diode"`
	Layer    int       `json:"layer"`
	NetID    int       `json:"netId"`
}

type xjsonArc struct {
	StartAngle float64   `json:"startAngle"`
	EndAngle   float64   `json:"endAngle"`
	RectWidth  *float64  `json:"rectWidth"`
	Width      *float64  `json:"width"`
	Position   *xjsonPos `json:"position"`
	Layer      int       `json:"layer"`
	NetID      int       `json:"netId"`
}

type xjsonVia struct {
	Position *xjsonPos `json:"position"`
	Layer    int       `json:"layer"`
	To       *int      `json:"to"`
	Size     *float64  `json:"size"`
	NetID    int       `json:"netId"`
}

type xjsonText struct {
	Text string `json:"text"`
}

type xjsonModule struct {
	Text  *xjsonText        `json:"text"`
	Layer int               `json:"layer"`
	Items []json.RawMessage `json:"items"`
}

type xjsonNet struct {
	Name    string `json:"name"`
	Info    string `json:"info"`
	Diode   string `json:"diode"`
	Voltage string `json:"voltage"`
}

type xjsonDoc struct {
	Root struct {
		Track  []xjsonTrack  `json:"track"`
		Arc    []xjsonArc    `json:"arc"`
		Via    []xjsonVia    `json:"via"`
		Pad    []xjsonPad    `json:"pad"`
		Module []xjsonModule `json:"module"`
	} `json:"root"`
	Nets map[int]xjsonNet `json:"nets"`
	Name string           `json:"name"`
}

// IsXJSON reports whether buf looks like an XJSON board.
func IsXJSON(buf []byte) bool {
	trimmed := bytes.TrimLeft(buf, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("{")) && bytes.Contains(buf, []byte(`"root"`))
}

// ParseXJSON reads an XJSON board.
func ParseXJSON(buf []byte) *File {
	var doc xjsonDoc
	if err := json.Unmarshal(buf, &doc); err != nil {
		return invalid(FormatXJSON, fmt.Sprintf("failed to decode json: %v", err))
	}

	f := newFile(FormatXJSON)
	f.Scale = xjsonScale

	for _, t := range doc.Root.Track {
		if t.Layer == xjsonBoard {
			f.OutlineSegments = append(f.OutlineSegments, Segment{A: t.Start.point(), B: t.End.point()})
			continue
		}
		f.Tracks = append(f.Tracks, Track{
			A:     t.Start.point(),
			B:     t.End.point(),
			Side:  xjsonSide(t.Layer),
			Width: orDefault(t.Width, 0.1) * xjsonScale,
			NetID: t.NetID,
		})
	}

	for _, a := range doc.Root.Arc {
		arc := a.arc()
		if a.Layer == xjsonBoard {
			f.OutlineSegments = append(f.OutlineSegments,
				ArcToSegments(arc.StartAngle, arc.EndAngle, arc.Radius, arc.Center)...)
			continue
		}
		f.Arcs = append(f.Arcs, arc)
	}

	for _, v := range doc.Root.Via {
		via := Via{
			Pos:   v.Position.point(),
			Side:  xjsonSide(v.Layer),
			Size:  orDefault(v.Size, 1) * xjsonScale,
			NetID: v.NetID,
		}
		if v.To != nil {
			via.TargetSide = xjsonSide(*v.To)
		}
		f.Vias = append(f.Vias, via)
	}

	// free pads become single-pin dummy parts
	for _, pad := range doc.Root.Pad {
		pin := pad.pin()
		pin.Part = len(f.Parts) + 1
		f.Pins = append(f.Pins, pin)
		f.Parts = append(f.Parts, Part{
			Name:      DummyPrefix + pad.Name,
			Side:      xjsonSide(pad.Layer),
			Mount:     MountSMD,
			EndOfPins: len(f.Pins),
		})
	}

	for _, mod := range doc.Root.Module {
		part := Part{Side: xjsonSide(mod.Layer), Mount: MountSMD}
		if mod.Text != nil {
			part.Name = mod.Text.Text
		}
		partID := len(f.Parts) + 1
		before := len(f.Pins)
		for _, raw := range mod.Items {
			var kind struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(raw, &kind); err != nil {
				continue
			}
			switch kind.Type {
			case "track":
				var t xjsonTrack
				if json.Unmarshal(raw, &t) == nil {
					part.Outline = append(part.Outline, t.Start.point(), t.End.point())
				}
			case "pad", "":
				var pad xjsonPad
				if json.Unmarshal(raw, &pad) == nil {
					pin := pad.pin()
					pin.Part = partID
					f.Pins = append(f.Pins, pin)
				}
			}
		}
		part.Outline = cornerOrder(part.Outline)
		part.EndOfPins = len(f.Pins)
		if part.EndOfPins-before == 1 {
			part.Name = DummyPrefix + part.Name
		}
		f.Parts = append(f.Parts, part)
	}

	ids := make([]int, 0, len(doc.Nets))
	for id := range doc.Nets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		n := doc.Nets[id]
		f.Nets = append(f.Nets, NetInfo{ID: id, Name: n.Name, Info: n.Info, Diode: n.Diode, Voltage: n.Voltage})
	}
	return f.finish()
}

func (p *xjsonPos) point() Point {
	if p == nil {
		return Point{}
	}
	return Point{X: int(p.X * xjsonScale), Y: int(p.Y * xjsonScale)}
}

func (pad xjsonPad) pin() Pin {
	pin := Pin{
		Pos:   pad.Position.point(),
		Name:  pad.Name,
		Diode: pad.Diode,
		Side:  xjsonSide(pad.Layer),
		NetID: pad.NetID,
		Size:  pad.Size.point(),
		Shape: PadShape(pad.Shape),
		Angle: pad.Angle,
	}
	pin.Radius = pad.Length * xjsonScale
	if pin.Radius < 0.0001 {
		pin.Radius = float64(max(pin.Size.X, pin.Size.Y)) / 2
	}
	return pin
}

func (a xjsonArc) arc() Arc {
	start, end := a.StartAngle, a.EndAngle
	if start > end {
		start -= 360
	}
	return Arc{
		Center:     a.Position.point(),
		Radius:     orDefault(a.RectWidth, 0.1) * xjsonScale,
		StartAngle: radians(start),
		EndAngle:   radians(end),
		Width:      orDefault(a.Width, 0.1) * xjsonScale,
		Side:       xjsonSide(a.Layer),
		NetID:      a.NetID,
	}
}

func xjsonSide(layer int) Side {
	switch layer {
	case xjsonTop, xjsonTop2, xjsonTestPad:
		return SideTop
	case xjsonBottom:
		return SideBottom
	case xjsonBoard:
		return SideBoth
	}
	return innerLayer(layer)
}

// cornerOrder sorts and dedupes the silkscreen points of a module and
// swaps the first two so four corners come out in drawing order.
func cornerOrder(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	if len(out) > 1 {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
