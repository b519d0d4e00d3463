package brd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const brdSample = `str_length:
10 20 30
var_data:
4 2 3 1
Format:
0 0
1000 0
1000 800
0 800
Parts:
C1 5 2
U1 10 3
Pins:
100 100 1 1 VCC
200 100 2 1 GND
500 500 -1 2 GND
Nails:
7 300 300 1 GND
`

func TestParseBRD(t *testing.T) {
	f := ParseBRD([]byte(brdSample))
	if !f.Valid {
		t.Fatalf("Valid = false: %s", f.Err)
	}
	if diff := cmp.Diff([]Point{{0, 0}, {1000, 0}, {1000, 800}, {0, 800}}, f.Outline); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
	wantParts := []Part{
		{Name: "C1", Side: SideTop, Mount: MountSMD, EndOfPins: 2},
		{Name: "U1", Side: SideBottom, Mount: MountSMD, EndOfPins: 3},
	}
	if diff := cmp.Diff(wantParts, f.Parts); diff != "" {
		t.Errorf("parts mismatch (-want +got):\n%s", diff)
	}
	if len(f.Pins) != 3 {
		t.Fatalf("got %d pins, want 3", len(f.Pins))
	}
	if p := f.Pins[2]; p.Part != 2 || p.Probe != -1 || p.Net != "GND" || p.Side != SideBottom {
		t.Errorf("pin 3 = %+v", p)
	}
	if p := f.Pins[0]; p.Side != SideTop || p.Pos != (Point{100, 100}) {
		t.Errorf("pin 1 = %+v", p)
	}
	wantNails := []Nail{{Probe: 7, Pos: Point{300, 300}, Side: SideTop, Net: "GND"}}
	if diff := cmp.Diff(wantNails, f.Nails); diff != "" {
		t.Errorf("nails mismatch (-want +got):\n%s", diff)
	}
}

// encodeBRD is the inverse of decodeBRD for bytes that do not encode to
// line breaks.
func encodeBRD(plain []byte) []byte {
	out := make([]byte, len(plain))
	for i, c := range plain {
		if c == '\r' || c == '\n' {
			out[i] = c
			continue
		}
		n := ^c
		out[i] = n>>2 | n<<6
	}
	return out
}

func TestParseBRDEncoded(t *testing.T) {
	enc := encodeBRD([]byte(brdSample))
	if !IsBRD(enc) {
		t.Fatal("IsBRD() = false for encoded buffer")
	}
	if diff := cmp.Diff([]byte(brdSample), decodeBRD(enc)); diff != "" {
		t.Fatalf("decodeBRD() mismatch (-want +got):\n%s", diff)
	}
	f := ParseBRD(enc)
	if !f.Valid || len(f.Parts) != 2 || len(f.Pins) != 3 {
		t.Errorf("encoded parse: valid=%v parts=%d pins=%d", f.Valid, len(f.Parts), len(f.Pins))
	}
}

func TestBRDPartType(t *testing.T) {
	tests := []struct {
		v         int
		wantMount MountType
		wantSide  Side
	}{
		{0, MountThroughHole, SideBoth},
		{1, MountThroughHole, SideTop},
		{2, MountThroughHole, SideBottom},
		{3, MountThroughHole, SideBoth},
		{5, MountSMD, SideTop},
		{10, MountSMD, SideBottom},
	}
	for _, tt := range tests {
		mount, side := brdPartType(tt.v)
		if mount != tt.wantMount || side != tt.wantSide {
			t.Errorf("brdPartType(%d) = %v, %v; want %v, %v", tt.v, mount, side, tt.wantMount, tt.wantSide)
		}
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		line   string
		want   *sectionHeader
		wantOK bool
	}{
		{line: "Parts:", want: &sectionHeader{Name: "Parts"}, wantOK: true},
		{line: "var_data: 4 2 3 1", want: &sectionHeader{Name: "var_data", Values: []int{4, 2, 3, 1}}, wantOK: true},
		{line: "C1 5 2", wantOK: false},
		{line: "100 100 1 1 VCC", wantOK: false},
		{line: "X: 1.5", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseHeader(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseHeader(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseHeader() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
