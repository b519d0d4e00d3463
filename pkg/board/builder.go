package board

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/OpenTraceLab/boardgraph/pkg/brd"
	"github.com/OpenTraceLab/boardgraph/pkg/geom"
)

// DummyPrefix marks a part name as a group of test pads.
const DummyPrefix = brd.DummyPrefix

// builder carries the lookup tables used while the graph is assembled.
type builder struct {
	b        *Board
	f        *brd.File
	scale    float64
	byID     map[int]NetID
	byName   map[string]NetID
	sentinel NetID
}

// Build cross-references the records of f into a board graph. It never
// fails: bad references fall back to the unconnected net or are dropped
// and counted in the board's Diagnostics.
func Build(f *brd.File, opts Options) *Board {
	opts = opts.withDefaults()
	bl := &builder{
		b:      &Board{format: f.Format, opts: opts},
		f:      f,
		scale:  f.Scale,
		byID:   make(map[int]NetID),
		byName: make(map[string]NetID),
	}
	if bl.scale <= 0 {
		bl.scale = 1
	}

	bl.sentinel = bl.addNet(brd.UnconnectedNet, SideBoth)
	bl.registerNails()
	bl.registerNetTable()
	bl.addComponents()
	bl.addPins()
	bl.addNailPins()
	bl.addPrimitives()
	bl.classify()
	bl.sortAndRemap()
	bl.collectSides()
	bl.addOutline()

	b := bl.b
	b.netByName = make(map[string]NetID, len(b.nets))
	for _, n := range b.nets {
		b.netByName[n.Name] = n.ID
	}
	b.componentByName = make(map[string]ComponentID, len(b.components))
	for _, c := range b.components {
		if _, ok := b.componentByName[c.Name]; !ok {
			b.componentByName[c.Name] = c.ID
		}
	}
	b.outlines = make([]Outline, len(b.components))
	b.outlineDone = make([]bool, len(b.components))
	return b
}

func (bl *builder) vec(p brd.Point) r2.Vec {
	return r2.Vec{X: float64(p.X) / bl.scale, Y: float64(p.Y) / bl.scale}
}

func (bl *builder) addNet(name string, side Side) NetID {
	id := NetID(len(bl.b.nets))
	bl.b.nets = append(bl.b.nets, Net{ID: id, Name: name, ShowName: name, Side: side})
	bl.byName[name] = id
	return id
}

func isUnconnected(name string) bool {
	return strings.HasPrefix(name, brd.UnconnectedNet)
}

// net resolves a record's net reference: positive id first, then name,
// then the sentinel for empty or unconnected names, else a new net.
func (bl *builder) net(id int, name string, side Side) NetID {
	if id > 0 {
		if n, ok := bl.byID[id]; ok {
			return n
		}
	}
	if n, ok := bl.byName[name]; ok {
		if id > 0 {
			bl.byID[id] = n
		}
		return n
	}
	if name == "" || isUnconnected(name) {
		if id > 0 {
			bl.byID[id] = bl.sentinel
		}
		return bl.sentinel
	}
	n := bl.addNet(name, side)
	if id > 0 {
		bl.byID[id] = n
	}
	bl.b.diag.CreatedNets++
	return n
}

func (bl *builder) registerNails() {
	for _, nail := range bl.f.Nails {
		if nail.Net == "" || isUnconnected(nail.Net) {
			continue
		}
		if _, ok := bl.byName[nail.Net]; ok {
			continue
		}
		side := SideBottom
		if nail.Side == SideTop {
			side = SideTop
		}
		n := bl.addNet(nail.Net, side)
		bl.b.nets[n].Number = nail.Probe
	}
}

func (bl *builder) registerNetTable() {
	for _, info := range bl.f.Nets {
		name := info.Name
		if name == "" {
			name = strconv.Itoa(info.ID)
		}
		var n NetID
		switch existing, ok := bl.byName[name]; {
		case isUnconnected(name):
			n = bl.sentinel
		case ok:
			n = existing
		default:
			n = bl.addNet(name, SideBoth)
		}
		if info.ID > 0 {
			bl.byID[info.ID] = n
		}
		if n == bl.sentinel {
			continue
		}
		net := &bl.b.nets[n]
		net.Number = info.ID
		net.HasNumber = true
		net.Info = info.Info
		net.Diode = info.Diode
		net.Voltage = info.Voltage
	}
}

func (bl *builder) addComponents() {
	for i, p := range bl.f.Parts {
		c := Component{
			ID:      ComponentID(i),
			Name:    p.Name,
			MfgCode: p.MfgCode,
			Mount:   p.Mount,
			Side:    p.Side,
			P1:      bl.vec(p.P1),
			P2:      bl.vec(p.P2),
		}
		if strings.HasPrefix(p.Name, DummyPrefix) {
			c.Kind = ComponentDummy
		}
		if len(p.Outline) == 4 {
			c.SpecialOutline = make([]r2.Vec, 4)
			for j, q := range p.Outline {
				c.SpecialOutline[j] = bl.vec(q)
			}
		}
		bl.b.components = append(bl.b.components, c)
	}
}

func (bl *builder) pinDiameter(radius float64) float64 {
	if d := radius / bl.scale; d > 0 {
		return d
	}
	return bl.b.opts.PinDiameter
}

func (bl *builder) addPins() {
	b := bl.b
	lastPart, seq := -1, 0
	for _, rp := range bl.f.Pins {
		ci := rp.Part - 1
		if ci < 0 || ci >= len(b.components) {
			b.diag.DroppedPins++
			continue
		}
		if ci != lastPart {
			lastPart, seq = ci, 0
		}
		seq++

		comp := &b.components[ci]
		number := rp.Number
		if number == "" {
			number = strconv.Itoa(seq)
		}
		name := rp.Name
		if name == "" {
			name = number
		}
		side := rp.Side
		pin := Pin{
			ID:        PinID(len(b.pins)),
			Number:    number,
			Name:      name,
			Position:  bl.vec(rp.Pos),
			Diameter:  bl.pinDiameter(rp.Radius),
			Size:      bl.vec(rp.Size),
			Shape:     rp.Shape,
			Angle:     rp.Angle,
			Side:      side,
			Net:       bl.net(rp.NetID, rp.Net, side),
			Component: ComponentID(ci),
			Probe:     rp.Probe,
			Diode:     rp.Diode,
			Voltage:   rp.Voltage,
		}
		switch {
		case comp.IsDummy():
			pin.Kind = PinTestPad
		case pin.Net == bl.sentinel:
			pin.Kind = PinNotConnected
		}
		if pin.Net == bl.sentinel {
			b.diag.SentinelPins++
		}
		bl.link(pin)
		comp.Pins = append(comp.Pins, pin.ID)
	}

	for i := range b.components {
		c := &b.components[i]
		if c.IsDummy() {
			c.Name = strings.TrimPrefix(c.Name, DummyPrefix)
		}
	}
}

func (bl *builder) link(pin Pin) {
	bl.b.pins = append(bl.b.pins, pin)
	n := &bl.b.nets[pin.Net]
	n.Pins = append(n.Pins, pin.ID)
}

func (bl *builder) addNailPins() {
	b := bl.b
	for _, nail := range bl.f.Nails {
		number := strconv.Itoa(nail.Probe)
		pin := Pin{
			ID:        PinID(len(b.pins)),
			Kind:      PinNail,
			Number:    number,
			Name:      number,
			Position:  bl.vec(nail.Pos),
			Diameter:  b.opts.PinDiameter,
			Shape:     brd.ShapeCircle,
			Side:      nail.Side,
			Net:       bl.net(nail.NetID, nail.Net, nail.Side),
			Component: NoComponent,
			Probe:     nail.Probe,
		}
		bl.link(pin)
	}
}

func (bl *builder) addPrimitives() {
	b := bl.b
	for _, t := range bl.f.Tracks {
		b.tracks = append(b.tracks, Track{
			A:     bl.vec(t.A),
			B:     bl.vec(t.B),
			Width: t.Width / bl.scale,
			Side:  t.Side,
			Net:   bl.net(t.NetID, t.Net, t.Side),
		})
	}
	for _, v := range bl.f.Vias {
		b.vias = append(b.vias, Via{
			Pos:        bl.vec(v.Pos),
			Size:       v.Size / bl.scale,
			Side:       v.Side,
			TargetSide: v.TargetSide,
			Net:        bl.net(v.NetID, v.Net, v.Side),
		})
	}
	for _, a := range bl.f.Arcs {
		b.arcs = append(b.arcs, Arc{
			Center:     bl.vec(a.Center),
			Radius:     a.Radius / bl.scale,
			StartAngle: a.StartAngle,
			EndAngle:   a.EndAngle,
			Width:      a.Width / bl.scale,
			Side:       a.Side,
			Net:        bl.net(a.NetID, a.Net, a.Side),
		})
	}
}

// IsGroundName reports whether a net name denotes ground.
func IsGroundName(name string) bool {
	return name == "GND" || name == "GROUND"
}

func (bl *builder) classify() {
	b := bl.b
	for i := range b.nets {
		b.nets[i].Ground = IsGroundName(b.nets[i].Name)
	}
	for i := range b.components {
		c := &b.components[i]
		if c.IsDummy() || len(c.Pins) != 1 {
			continue
		}
		if b.nets[b.pins[c.Pins[0]].Net].Ground {
			c.Kind = ComponentFiducial
		}
	}
}

// sortAndRemap orders components and nets by name and rewrites every ID
// that points at them. Pins keep their order.
func (bl *builder) sortAndRemap() {
	b := bl.b

	sort.SliceStable(b.components, func(i, j int) bool {
		return b.components[i].Name < b.components[j].Name
	})
	compMap := make([]ComponentID, len(b.components))
	for i := range b.components {
		compMap[b.components[i].ID] = ComponentID(i)
		b.components[i].ID = ComponentID(i)
	}

	sort.SliceStable(b.nets, func(i, j int) bool {
		return b.nets[i].Name < b.nets[j].Name
	})
	netMap := make([]NetID, len(b.nets))
	for i := range b.nets {
		netMap[b.nets[i].ID] = NetID(i)
		b.nets[i].ID = NetID(i)
	}

	for i := range b.pins {
		p := &b.pins[i]
		p.Net = netMap[p.Net]
		if p.Component != NoComponent {
			p.Component = compMap[p.Component]
		}
	}
	for i := range b.tracks {
		b.tracks[i].Net = netMap[b.tracks[i].Net]
	}
	for i := range b.vias {
		b.vias[i].Net = netMap[b.vias[i].Net]
	}
	for i := range b.arcs {
		b.arcs[i].Net = netMap[b.arcs[i].Net]
	}
	bl.sentinel = netMap[bl.sentinel]
	b.unconnected = bl.sentinel
}

func (bl *builder) collectSides() {
	b := bl.b
	seen := make(map[Side]bool)
	add := func(s Side) {
		if !seen[s] {
			seen[s] = true
			b.sides = append(b.sides, s)
		}
	}
	for _, t := range b.tracks {
		add(t.Side)
	}
	for _, v := range b.vias {
		add(v.Side)
		add(v.TargetSide)
	}
	for _, a := range b.arcs {
		add(a.Side)
	}
	sort.Slice(b.sides, func(i, j int) bool { return b.sides[i] < b.sides[j] })
}

// addOutline copies the board outline, or synthesises a closed rectangle
// around every pin and nail when the file has too little outline data.
func (bl *builder) addOutline() {
	b, f := bl.b, bl.f
	for _, p := range f.Outline {
		b.outline = append(b.outline, bl.vec(p))
	}
	for _, s := range f.OutlineSegments {
		b.segments = append(b.segments, geom.Segment{A: bl.vec(s.A), B: bl.vec(s.B)})
	}
	if len(f.Outline) >= 3 || len(f.OutlineSegments) >= 3 {
		return
	}

	var raw []r2.Vec
	for _, p := range f.Pins {
		raw = append(raw, r2.Vec{X: float64(p.Pos.X), Y: float64(p.Pos.Y)})
	}
	for _, n := range f.Nails {
		raw = append(raw, r2.Vec{X: float64(n.Pos.X), Y: float64(n.Pos.Y)})
	}
	if len(raw) == 0 {
		return
	}
	box := geom.Inflate(geom.Bounds(raw), b.opts.FallbackMargin)
	c := geom.Corners(box)
	b.outline = b.outline[:0]
	for _, p := range append(c[:], c[0]) {
		b.outline = append(b.outline, r2.Scale(1/bl.scale, p))
	}
	b.diag.FallbackOutline = true
}
