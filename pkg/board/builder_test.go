package board

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/OpenTraceLab/boardgraph/pkg/brd"
)

func rawPin(part int, x, y int, net string) brd.Pin {
	return brd.Pin{Pos: brd.Point{X: x, Y: y}, Part: part, Net: net, Radius: brd.DefaultPinRadius, Shape: brd.ShapeCircle}
}

func rawFile(parts ...string) *brd.File {
	f := &brd.File{Format: brd.FormatBVR3, Scale: 1, Valid: true}
	for _, name := range parts {
		f.Parts = append(f.Parts, brd.Part{Name: name, Side: brd.SideTop})
	}
	return f
}

func TestBuildTwoPinsAndProbe(t *testing.T) {
	f := rawFile("R1")
	f.Pins = []brd.Pin{rawPin(1, 0, 0, "N1"), rawPin(1, 100, 0, "N1")}
	f.Nails = []brd.Nail{{Probe: 1, Pos: brd.Point{X: 50, Y: 0}, Side: brd.SideTop, Net: "N1"}}

	b := Build(f, DefaultOptions())

	var named []Net
	for _, n := range b.Nets() {
		if n.Name == "N1" {
			named = append(named, n)
		}
	}
	if len(named) != 1 {
		t.Fatalf("nets named N1 = %d, want 1", len(named))
	}
	n1 := named[0]
	if n1.Ground {
		t.Error("N1 classified as ground")
	}
	if len(n1.Pins) != 3 {
		t.Errorf("N1 has %d pins, want 3", len(n1.Pins))
	}

	r1, ok := b.ComponentByName("R1")
	if !ok {
		t.Fatal("component R1 missing")
	}
	if len(r1.Pins) != 2 {
		t.Fatalf("R1 has %d pins, want 2", len(r1.Pins))
	}
	for _, id := range r1.Pins {
		p := b.Pin(id)
		if p.Component != r1.ID || p.Net != n1.ID {
			t.Errorf("pin %d links component %d net %d, want %d %d", id, p.Component, p.Net, r1.ID, n1.ID)
		}
	}

	var nails int
	for _, p := range b.Pins() {
		if p.Kind == PinNail {
			nails++
			if p.Component != NoComponent {
				t.Errorf("nail owned by component %d", p.Component)
			}
		}
	}
	if nails != 1 {
		t.Errorf("nails = %d, want 1", nails)
	}

	want := []r2.Vec{{X: -200, Y: -200}, {X: 300, Y: -200}, {X: 300, Y: 200}, {X: -200, Y: 200}, {X: -200, Y: -200}}
	if diff := cmp.Diff(want, b.OutlinePoints()); diff != "" {
		t.Errorf("fallback outline mismatch (-want +got):\n%s", diff)
	}
	if !b.Diagnostics().FallbackOutline {
		t.Error("fallback outline not reported")
	}
}

func TestNetResolution(t *testing.T) {
	f := rawFile("U1")
	f.Nets = []brd.NetInfo{{ID: 3, Name: "VCC"}, {ID: 4}}
	f.Pins = []brd.Pin{
		{Part: 1, NetID: 3},
		{Part: 1, Net: "VCC"},
		{Part: 1, NetID: 9, Net: "SIG"},
		{Part: 1, NetID: 4},
	}
	f.Tracks = []brd.Track{{NetID: 9}, {Net: "SIG"}}
	f.Vias = []brd.Via{{Net: "VCC"}}
	f.Arcs = []brd.Arc{{NetID: 3, Net: "OTHER"}}

	b := Build(f, DefaultOptions())

	name := func(id NetID) string { return b.Net(id).Name }
	pins := b.Pins()
	tests := []struct {
		what string
		got  NetID
		want string
	}{
		{"pin by id", pins[0].Net, "VCC"},
		{"pin by name", pins[1].Net, "VCC"},
		{"new net", pins[2].Net, "SIG"},
		{"unnamed table net", pins[3].Net, "4"},
		{"track by id", b.Tracks()[0].Net, "SIG"},
		{"track by name", b.Tracks()[1].Net, "SIG"},
		{"via by name", b.Vias()[0].Net, "VCC"},
		{"id beats name", b.Arcs()[0].Net, "VCC"},
	}
	for _, tt := range tests {
		t.Run(tt.what, func(t *testing.T) {
			if got := name(tt.got); got != tt.want {
				t.Errorf("resolved to %q, want %q", got, tt.want)
			}
		})
	}

	if pins[0].Net != pins[1].Net {
		t.Error("same net by id and name resolved to different nets")
	}
	vcc, _ := b.NetByName("VCC")
	if !vcc.HasNumber || vcc.Number != 3 {
		t.Errorf("VCC number = %d (%v), want 3", vcc.Number, vcc.HasNumber)
	}
	if got := b.Diagnostics().CreatedNets; got != 1 {
		t.Errorf("CreatedNets = %d, want 1", got)
	}
}

func TestUnconnectedSentinel(t *testing.T) {
	f := rawFile("R1", "R2")
	f.Nets = []brd.NetInfo{{ID: 7, Name: "UNCONNECTED_7"}}
	f.Pins = []brd.Pin{
		rawPin(1, 0, 0, ""),
		rawPin(1, 10, 0, brd.UnconnectedNet),
		rawPin(2, 20, 0, "UNCONNECTED12"),
		{Part: 2, NetID: 7},
	}
	f.Tracks = []brd.Track{{Net: "UNCONNECTED_A"}}
	f.Nails = []brd.Nail{{Probe: 4, Net: "UNCONNECTED"}}

	b := Build(f, DefaultOptions())

	var count int
	for _, n := range b.Nets() {
		if strings.HasPrefix(n.Name, brd.UnconnectedNet) {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("nets with unconnected prefix = %d, want 1", count)
	}
	for _, p := range b.Pins() {
		if p.Net != b.Unconnected() {
			t.Errorf("pin %s resolved to %q", p.Name, b.Net(p.Net).Name)
		}
		if p.Component != NoComponent && p.Kind != PinNotConnected {
			t.Errorf("pin %s kind = %v, want nc", p.Name, p.Kind)
		}
	}
	if b.Tracks()[0].Net != b.Unconnected() {
		t.Error("track did not resolve to the unconnected net")
	}
	if got := b.Diagnostics().SentinelPins; got != 4 {
		t.Errorf("SentinelPins = %d, want 4", got)
	}
}

func TestGroundAndFiducial(t *testing.T) {
	f := rawFile("FID1", "TP1", "...TP", "C1")
	f.Pins = []brd.Pin{
		rawPin(1, 0, 0, "GND"),
		rawPin(2, 10, 0, "GNDX"),
		rawPin(3, 20, 0, "GROUND"),
		rawPin(4, 30, 0, "GND"),
		rawPin(4, 40, 0, "AGND"),
	}
	b := Build(f, DefaultOptions())

	for name, want := range map[string]bool{"GND": true, "GROUND": true, "GNDX": false, "AGND": false} {
		n, ok := b.NetByName(name)
		if !ok {
			t.Fatalf("net %s missing", name)
		}
		if n.Ground != want {
			t.Errorf("%s ground = %v, want %v", name, n.Ground, want)
		}
	}

	for name, want := range map[string]ComponentKind{
		"FID1": ComponentFiducial,
		"TP1":  ComponentNormal,
		"TP":   ComponentDummy,
		"C1":   ComponentNormal,
	} {
		c, ok := b.ComponentByName(name)
		if !ok {
			t.Fatalf("component %s missing", name)
		}
		if c.Kind != want {
			t.Errorf("%s kind = %v, want %v", name, c.Kind, want)
		}
	}

	tp, _ := b.ComponentByName("TP")
	if k := b.Pin(tp.Pins[0]).Kind; k != PinTestPad {
		t.Errorf("dummy pin kind = %v, want testpad", k)
	}
}

func TestBuildDeterministic(t *testing.T) {
	f := rawFile("U2", "C1", "R9", "C1")
	f.Pins = []brd.Pin{
		rawPin(1, 0, 0, "B"),
		rawPin(2, 5, 5, "A"),
		rawPin(3, 9, 9, "C"),
		rawPin(4, 1, 1, "A"),
	}

	first := Build(f, DefaultOptions())
	second := Build(f, DefaultOptions())

	if diff := cmp.Diff(first.Components(), second.Components()); diff != "" {
		t.Errorf("components differ between builds:\n%s", diff)
	}
	if diff := cmp.Diff(first.Nets(), second.Nets()); diff != "" {
		t.Errorf("nets differ between builds:\n%s", diff)
	}
	if diff := cmp.Diff(first.Pins(), second.Pins()); diff != "" {
		t.Errorf("pins differ between builds:\n%s", diff)
	}

	var names []string
	for _, c := range first.Components() {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"C1", "C1", "R9", "U2"}, names); diff != "" {
		t.Errorf("component order (-want +got):\n%s", diff)
	}
	// stable sort keeps the first C1 first
	if p := first.Pin(first.Components()[0].Pins[0]); p.Position != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("first C1 owns pin at %v", p.Position)
	}

	for _, c := range first.Components() {
		for _, id := range c.Pins {
			if got := first.Pin(id).Component; got != c.ID {
				t.Errorf("pin %d of %s points at component %d, want %d", id, c.Name, got, c.ID)
			}
		}
	}
	for _, n := range first.Nets() {
		for _, id := range n.Pins {
			if got := first.Pin(id).Net; got != n.ID {
				t.Errorf("pin %d of net %s points at net %d, want %d", id, n.Name, got, n.ID)
			}
		}
	}
}

func TestPinNumbering(t *testing.T) {
	f := rawFile("J1", "J2")
	named := rawPin(2, 0, 0, "A")
	named.Number = "A3"
	named.Name = "CLK"
	f.Pins = []brd.Pin{
		rawPin(1, 0, 0, "A"),
		rawPin(1, 0, 0, "A"),
		rawPin(1, 0, 0, "A"),
		rawPin(2, 0, 0, "A"),
		named,
		rawPin(1, 0, 0, "A"),
		rawPin(0, 0, 0, "A"),
		rawPin(3, 0, 0, "A"),
	}
	b := Build(f, DefaultOptions())

	var got [][2]string
	for _, p := range b.Pins() {
		got = append(got, [2]string{p.Number, p.Name})
	}
	want := [][2]string{{"1", "1"}, {"2", "2"}, {"3", "3"}, {"1", "1"}, {"A3", "CLK"}, {"1", "1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pin numbers (-want +got):\n%s", diff)
	}
	if got := b.Diagnostics().DroppedPins; got != 2 {
		t.Errorf("DroppedPins = %d, want 2", got)
	}
}

func TestSidesAndScale(t *testing.T) {
	f := rawFile("R1")
	f.Scale = 10
	p := rawPin(1, 100, 50, "N")
	p.Radius = 0
	f.Pins = []brd.Pin{p}
	f.Tracks = []brd.Track{{Side: brd.SideTop, Width: 20}, {Side: brd.SideTop}}
	f.Vias = []brd.Via{{Side: brd.SideTop, TargetSide: brd.SideBottom}}
	f.Arcs = []brd.Arc{{Side: brd.LayerSide(3)}}
	f.Outline = []brd.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}

	b := Build(f, DefaultOptions())

	if diff := cmp.Diff([]Side{SideTop, brd.LayerSide(3), SideBottom}, b.Sides()); diff != "" {
		t.Errorf("sides (-want +got):\n%s", diff)
	}
	pin := b.Pins()[0]
	if pin.Position != (r2.Vec{X: 10, Y: 5}) {
		t.Errorf("scaled position = %v", pin.Position)
	}
	if pin.Diameter != brd.DefaultPinRadius {
		t.Errorf("default diameter = %v", pin.Diameter)
	}
	if w := b.Tracks()[0].Width; w != 2 {
		t.Errorf("scaled width = %v, want 2", w)
	}
	if b.Diagnostics().FallbackOutline {
		t.Error("fallback outline used with three outline points")
	}
	if got := b.OutlinePoints()[2]; got != (r2.Vec{X: 10, Y: 10}) {
		t.Errorf("scaled outline point = %v", got)
	}
}

func TestSpecialOutline(t *testing.T) {
	f := rawFile("U1")
	f.Parts[0].Outline = []brd.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	f.Pins = []brd.Pin{rawPin(1, 5, 5, "N")}
	b := Build(f, DefaultOptions())

	o := b.ComputeComponentOutline(0)
	if o.Shape != OutlineSpecial {
		t.Fatalf("shape = %v, want special", o.Shape)
	}
	want := [4]r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if o.Corners != want {
		t.Errorf("corners = %v, want %v", o.Corners, want)
	}
}

func TestSidesBeyondTenLayers(t *testing.T) {
	f := rawFile("R1")
	f.Tracks = []brd.Track{{Side: brd.LayerSide(12)}, {Side: brd.LayerSide(20)}, {Side: brd.LayerSide(12)}}
	f.Vias = []brd.Via{{Side: brd.SideTop, TargetSide: brd.LayerSide(10)}}

	b := Build(f, DefaultOptions())

	want := []Side{SideTop, brd.LayerSide(10), brd.LayerSide(12), brd.LayerSide(20)}
	if diff := cmp.Diff(want, b.Sides()); diff != "" {
		t.Errorf("sides (-want +got):\n%s", diff)
	}
}

func TestBuildXJSONTestPads(t *testing.T) {
	f := brd.ParseXJSON([]byte(`{"root": {"pad": [
		{"name": "TP1", "position": {"x": 0.2, "y": 0.3}, "layer": 34, "netId": 1}
	]}, "nets": {"1": {"name": "GND"}}}`))
	if !f.Valid {
		t.Fatalf("ParseXJSON() invalid: %s", f.Err)
	}
	b := Build(f, DefaultOptions())

	c, ok := b.ComponentByName("TP1")
	if !ok {
		t.Fatalf("test pad part missing, have %v", b.Components())
	}
	if c.Kind != ComponentDummy {
		t.Errorf("TP1 kind = %v, want dummy", c.Kind)
	}
	if k := b.Pin(c.Pins[0]).Kind; k != PinTestPad {
		t.Errorf("TP1 pin kind = %v, want testpad", k)
	}
}
