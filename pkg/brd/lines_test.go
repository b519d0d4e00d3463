package brd

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "lf", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "cr", input: "a\rb", want: []string{"a", "b"}},
		{name: "blank and indented", input: "\n\n  a  \n\t\nb", want: []string{"a", "b"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines([]byte(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("splitLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize([]byte("Ω ok")); got != "Ω ok" {
		t.Errorf("valid UTF-8 changed: %q", got)
	}

	raw := []byte{'R', 0xe9, 's', 0xff}
	got := sanitize(raw)
	if !utf8.ValidString(got) {
		t.Fatalf("sanitize() = %q is not valid UTF-8", got)
	}
	if got != "Résÿ" {
		t.Errorf("sanitize() = %q, want %q", got, "Résÿ")
	}
	if again := sanitize(raw); again != got {
		t.Errorf("sanitize() not deterministic: %q vs %q", got, again)
	}
}

func TestFields(t *testing.T) {
	a := newFields("12.9 abc -4 7")
	if got := a.int(); got != 12 {
		t.Errorf("int() = %d, want 12", got)
	}
	if got := a.float(); got != 0 {
		t.Errorf("float() on garbage = %v, want 0", got)
	}
	if got := a.point(); got != (Point{-4, 7}) {
		t.Errorf("point() = %v, want {-4 7}", got)
	}
	if a.more() {
		t.Error("more() = true after last token")
	}
	if got := a.str(); got != "" {
		t.Errorf("str() past end = %q", got)
	}

	pts := newFields("1 2 3 4 x 5 6").points()
	if diff := cmp.Diff([]Point{{1, 2}, {3, 4}}, pts); diff != "" {
		t.Errorf("points() mismatch (-want +got):\n%s", diff)
	}
}

func TestArcToSegments(t *testing.T) {
	segs := ArcToSegments(0, 1.57079632679, 100, Point{0, 0})
	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	if segs[0].A != (Point{100, 0}) {
		t.Errorf("first point = %v, want {100 0}", segs[0].A)
	}
	last := segs[len(segs)-1].B
	if last.X != 0 || last.Y != 99 && last.Y != 100 {
		t.Errorf("last point = %v, want about {0 100}", last)
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].A != segs[i-1].B {
			t.Fatalf("segment %d does not continue the previous one", i)
		}
	}
}

func TestArcToSegmentsSweepLimit(t *testing.T) {
	full := ArcToSegments(0, MaxArcSweep, 100, Point{0, 0})
	tests := []struct {
		name       string
		start, end float64
		want       int
	}{
		{"full turn", 0, MaxArcSweep, len(full)},
		{"many turns", 0, 1e8 * math.Pi / 180, len(full)},
		{"huge start", 1e17, 1e17 + 1e9, len(full)},
		{"reversed", 1, 0, 1},
		{"empty", 2, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := ArcToSegments(tt.start, tt.end, 100, Point{0, 0})
			if len(segs) != tt.want {
				t.Errorf("len = %d, want %d", len(segs), tt.want)
			}
		})
	}
	if n := len(full); n != 63 {
		t.Errorf("full circle has %d segments, want 63", n)
	}
}

func TestLoadHugeOutlineArc(t *testing.T) {
	f := Load([]byte("BVRAW_FORMAT_3\nPART_NAME R1\nPART_END\nOUTLINE_ARC 0 0 100 0 100000000\n"), "big.bvr")
	if len(f.OutlineSegments) > 63 {
		t.Errorf("OUTLINE_ARC produced %d segments, want at most 63", len(f.OutlineSegments))
	}
}
