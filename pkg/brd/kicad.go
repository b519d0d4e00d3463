package brd

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/boardgraph/pkg/kicadsexp"
)

// KiCad boards are in millimetres. Raw units are 0.1 mil and the file
// scale brings them to mils like the other dialects.
const (
	kicadRawPerMM = 10000 / 25.4
	kicadScale    = 10
)

// IsKiCad reports whether buf is a KiCad board file.
func IsKiCad(buf []byte) bool {
	trimmed := bytes.TrimLeft(buf, " \t\r\n\xef\xbb\xbf")
	return bytes.HasPrefix(trimmed, []byte("(kicad_pcb"))
}

// ParseKiCad reads a KiCad .kicad_pcb board.
func ParseKiCad(buf []byte) *File {
	exprs, err := kicadsexp.Parse(buf)
	if err != nil {
		return invalid(FormatKiCad, fmt.Sprintf("failed to parse board: %v", err))
	}
	if len(exprs) == 0 {
		return invalid(FormatKiCad, "empty board file")
	}
	root, ok := exprs[0].(*kicadsexp.List)
	if !ok || root.Head() != "kicad_pcb" {
		return invalid(FormatKiCad, "missing kicad_pcb root")
	}

	f := newFile(FormatKiCad)
	f.Scale = kicadScale

	for _, n := range root.FindAll("net") {
		id, name := netRef(n)
		if name != "" {
			f.Nets = append(f.Nets, NetInfo{ID: id, Name: name})
		}
	}

	footprints := append(root.FindAll("footprint"), root.FindAll("module")...)
	for _, fp := range footprints {
		parseKiCadFootprint(f, fp)
	}

	for _, seg := range root.FindAll("segment") {
		t := newTrack()
		t.A = kicadPoint(seg, "start")
		t.B = kicadPoint(seg, "end")
		t.Width = kicadRaw(getFloat(seg, "width", 1))
		t.Side = kicadLayerSide(getString(seg, "layer", 1))
		t.NetID, t.Net = kicadNet(seg)
		f.Tracks = append(f.Tracks, t)
	}

	for _, v := range root.FindAll("via") {
		via := Via{
			Pos:  kicadPoint(v, "at"),
			Size: kicadRaw(getFloat(v, "size", 1)),
		}
		if layers, ok := v.Find("layers"); ok {
			first, _ := layers.AtomAt(1)
			last, _ := layers.AtomAt(layers.Len() - 1)
			via.Side = kicadLayerSide(first)
			via.TargetSide = kicadLayerSide(last)
		}
		via.NetID, via.Net = kicadNet(v)
		f.Vias = append(f.Vias, via)
	}

	for _, a := range root.FindAll("arc") {
		arc, ok := threePointArc(kicadVec(a, "start"), kicadVec(a, "mid"), kicadVec(a, "end"))
		if !ok {
			continue
		}
		arc.Width = kicadRaw(getFloat(a, "width", 1))
		arc.Side = kicadLayerSide(getString(a, "layer", 1))
		arc.NetID, arc.Net = kicadNet(a)
		f.Arcs = append(f.Arcs, arc)
	}

	edges := kicadEdgeCuts(root)
	f.Outline, f.OutlineSegments = stitch(edges)
	return f.finish()
}

func parseKiCadFootprint(f *File, fp *kicadsexp.List) {
	part := Part{
		Name:    footprintText(fp, "Reference", "reference"),
		MfgCode: footprintText(fp, "Value", "value"),
		Side:    kicadLayerSide(getString(fp, "layer", 1)),
		Mount:   MountSMD,
	}
	at, _ := fp.Find("at")
	origin := [2]float64{listFloat(at, 1), listFloat(at, 2)}
	rotation := listFloat(at, 3)

	if attr, ok := fp.Find("attr"); ok {
		if v, _ := attr.AtomAt(1); v == "through_hole" {
			part.Mount = MountThroughHole
		}
	}

	partID := len(f.Parts) + 1
	before := len(f.Pins)
	var lo, hi Point
	for i, pad := range fp.FindAll("pad") {
		pin := newPin()
		pin.Part = partID
		pin.Number, _ = pad.AtomAt(1)
		padType, _ := pad.AtomAt(2)
		shape, _ := pad.AtomAt(3)
		if padType == "thru_hole" {
			part.Mount = MountThroughHole
		}
		pin.Shape = kicadShape(shape)

		padAt, _ := pad.Find("at")
		x, y := rotate(listFloat(padAt, 1), listFloat(padAt, 2), -rotation)
		pin.Pos = Point{X: toRaw(origin[0] + x), Y: toRaw(origin[1] + y)}
		pin.Angle = listFloat(padAt, 3)

		if size, ok := pad.Find("size"); ok {
			w, h := listFloat(size, 1), listFloat(size, 2)
			pin.Size = Point{X: toRaw(w), Y: toRaw(h)}
			pin.Radius = kicadRaw(math.Min(w, h) / 2)
		}
		pin.Side = padSide(pad, part.Side)
		pin.NetID, pin.Net = kicadNet(pad)
		pin.Name = getString(pad, "pinfunction", 1)
		f.Pins = append(f.Pins, pin)

		if i == 0 {
			lo, hi = pin.Pos, pin.Pos
		}
		lo = Point{X: min(lo.X, pin.Pos.X), Y: min(lo.Y, pin.Pos.Y)}
		hi = Point{X: max(hi.X, pin.Pos.X), Y: max(hi.Y, pin.Pos.Y)}
	}
	if len(f.Pins) == before {
		lo = Point{X: toRaw(origin[0]), Y: toRaw(origin[1])}
		hi = lo
	}
	part.P1, part.P2 = lo, hi
	part.EndOfPins = len(f.Pins)
	f.Parts = append(f.Parts, part)
}

// footprintText finds a reference or value string in either the KiCad 8
// property form or the older fp_text form.
func footprintText(fp *kicadsexp.List, property, textKind string) string {
	for _, p := range fp.FindAll("property") {
		if k, _ := p.AtomAt(1); k == property {
			v, _ := p.AtomAt(2)
			return v
		}
	}
	for _, t := range fp.FindAll("fp_text") {
		if k, _ := t.AtomAt(1); k == textKind {
			v, _ := t.AtomAt(2)
			return v
		}
	}
	return ""
}

// kicadEdgeCuts collects board edge graphics as segments.
func kicadEdgeCuts(root *kicadsexp.List) []Segment {
	var segs []Segment
	onEdge := func(l *kicadsexp.List) bool {
		return getString(l, "layer", 1) == "Edge.Cuts"
	}
	for _, l := range root.FindAll("gr_line") {
		if onEdge(l) {
			segs = append(segs, Segment{A: kicadPoint(l, "start"), B: kicadPoint(l, "end")})
		}
	}
	for _, r := range root.FindAll("gr_rect") {
		if !onEdge(r) {
			continue
		}
		a, c := kicadPoint(r, "start"), kicadPoint(r, "end")
		b, d := Point{X: c.X, Y: a.Y}, Point{X: a.X, Y: c.Y}
		segs = append(segs, Segment{a, b}, Segment{b, c}, Segment{c, d}, Segment{d, a})
	}
	for _, a := range root.FindAll("gr_arc") {
		if !onEdge(a) {
			continue
		}
		var arc Arc
		var ok bool
		if _, hasMid := a.Find("mid"); hasMid {
			arc, ok = threePointArc(kicadVec(a, "start"), kicadVec(a, "mid"), kicadVec(a, "end"))
		} else {
			arc, ok = centerAngleArc(kicadVec(a, "start"), kicadVec(a, "end"), getFloat(a, "angle", 1))
		}
		if ok {
			segs = append(segs, ArcToSegments(arc.StartAngle, arc.EndAngle, arc.Radius, arc.Center)...)
		}
	}
	for _, c := range root.FindAll("gr_circle") {
		if !onEdge(c) {
			continue
		}
		center, rim := kicadVec(c, "center"), kicadVec(c, "end")
		r := math.Hypot(rim[0]-center[0], rim[1]-center[1])
		segs = append(segs, ArcToSegments(0, 2*math.Pi, r, Point{X: int(center[0]), Y: int(center[1])})...)
	}
	return segs
}

// threePointArc builds an arc through start, mid and end, in raw units.
func threePointArc(s, m, e [2]float64) (Arc, bool) {
	ax, ay := s[0], s[1]
	bx, by := m[0], m[1]
	cx, cy := e[0], e[1]
	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-9 {
		return Arc{}, false
	}
	a2, b2, c2 := ax*ax+ay*ay, bx*bx+by*by, cx*cx+cy*cy
	ux := (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d
	uy := (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d

	a0 := math.Atan2(ay-uy, ax-ux)
	a1 := normalizeFrom(math.Atan2(by-uy, bx-ux), a0)
	a2n := normalizeFrom(math.Atan2(cy-uy, cx-ux), a0)
	start, end := a0, a2n
	if a1 > a2n {
		// clockwise through mid: walk it counter-clockwise from the end
		start = math.Atan2(cy-uy, cx-ux)
		end = normalizeFrom(a0, start)
	}
	return Arc{
		Center:     Point{X: int(ux), Y: int(uy)},
		Radius:     math.Hypot(ax-ux, ay-uy),
		StartAngle: start,
		EndAngle:   end,
		Width:      1,
	}, true
}

// centerAngleArc handles the KiCad 5 form: centre, start point and sweep
// in degrees.
func centerAngleArc(center, start [2]float64, sweep float64) (Arc, bool) {
	r := math.Hypot(start[0]-center[0], start[1]-center[1])
	if r == 0 || sweep == 0 {
		return Arc{}, false
	}
	a0 := math.Atan2(start[1]-center[1], start[0]-center[0])
	a1 := a0 + radians(sweep)
	if a1 < a0 {
		a0, a1 = a1, a0
	}
	return Arc{
		Center:     Point{X: int(center[0]), Y: int(center[1])},
		Radius:     r,
		StartAngle: a0,
		EndAngle:   a1,
		Width:      1,
	}, true
}

// normalizeFrom shifts angle a into [from, from+2π).
func normalizeFrom(a, from float64) float64 {
	for a < from {
		a += 2 * math.Pi
	}
	for a >= from+2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func kicadLayerSide(layer string) Side {
	switch layer {
	case "F.Cu", "F.SilkS", "F.Fab", "F.CrtYd":
		return SideTop
	case "B.Cu", "B.SilkS", "B.Fab", "B.CrtYd":
		return SideBottom
	}
	if strings.HasPrefix(layer, "In") && strings.HasSuffix(layer, ".Cu") {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(layer, "In"), ".Cu"))
		if err == nil {
			return innerLayer(n + 1)
		}
	}
	return SideBoth
}

// padSide is the single copper layer a pad sits on, or SideBoth for pads
// reaching through the board.
func padSide(pad *kicadsexp.List, fallback Side) Side {
	layers, ok := pad.Find("layers")
	if !ok {
		return fallback
	}
	var copper []string
	for i := 1; i < layers.Len(); i++ {
		v, _ := layers.AtomAt(i)
		if strings.HasSuffix(v, ".Cu") {
			copper = append(copper, v)
		}
	}
	switch {
	case len(copper) == 0:
		return fallback
	case len(copper) == 1 && !strings.HasPrefix(copper[0], "*"):
		return kicadLayerSide(copper[0])
	}
	return SideBoth
}

func kicadShape(shape string) PadShape {
	switch shape {
	case "rect", "roundrect", "trapezoid", "custom":
		return ShapeRect
	}
	return ShapeCircle
}

// netRef reads "(net 3 "GND")" or the id-less "(net "GND")".
func netRef(n *kicadsexp.List) (int, string) {
	a, ok := n.Get(1).(*kicadsexp.Atom)
	if !ok {
		return 0, ""
	}
	if a.Quoted {
		return 0, a.Value
	}
	id, _ := strconv.Atoi(a.Value)
	name, _ := n.AtomAt(2)
	return id, name
}

func kicadNet(l *kicadsexp.List) (int, string) {
	n, ok := l.Find("net")
	if !ok {
		return 0, ""
	}
	return netRef(n)
}

func kicadVec(l *kicadsexp.List, key string) [2]float64 {
	node, _ := l.Find(key)
	return [2]float64{kicadRaw(listFloat(node, 1)), kicadRaw(listFloat(node, 2))}
}

func kicadPoint(l *kicadsexp.List, key string) Point {
	node, _ := l.Find(key)
	return Point{X: toRaw(listFloat(node, 1)), Y: toRaw(listFloat(node, 2))}
}

func toRaw(mm float64) int {
	return int(math.Round(mm * kicadRawPerMM))
}

func kicadRaw(mm float64) float64 {
	return mm * kicadRawPerMM
}

// rotate turns (x, y) by deg degrees about the origin.
func rotate(x, y, deg float64) (float64, float64) {
	if deg == 0 {
		return x, y
	}
	sin, cos := math.Sincos(radians(deg))
	return x*cos - y*sin, x*sin + y*cos
}

// getFloat returns item index of the child list named key, or 0.
func getFloat(l *kicadsexp.List, key string, index int) float64 {
	node, _ := l.Find(key)
	return listFloat(node, index)
}

// getString returns item index of the child list named key, or "".
func getString(l *kicadsexp.List, key string, index int) string {
	node, ok := l.Find(key)
	if !ok {
		return ""
	}
	v, _ := node.AtomAt(index)
	return v
}

func listFloat(l *kicadsexp.List, index int) float64 {
	if l == nil {
		return 0
	}
	v, _ := l.AtomAt(index)
	f, _ := parseFloat(v)
	return f
}
