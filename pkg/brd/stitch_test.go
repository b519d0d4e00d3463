package brd

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStitchOutline(t *testing.T) {
	tests := []struct {
		name string
		segs []Segment
		want []Point
	}{
		{
			name: "empty",
			segs: nil,
			want: nil,
		},
		{
			name: "single segment",
			segs: []Segment{{Point{0, 0}, Point{10, 0}}},
			want: []Point{{0, 0}, {10, 0}},
		},
		{
			name: "square in order",
			segs: []Segment{
				{Point{0, 0}, Point{10, 0}},
				{Point{10, 0}, Point{10, 10}},
				{Point{10, 10}, Point{0, 10}},
				{Point{0, 10}, Point{0, 0}},
			},
			want: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		},
		{
			name: "reversed segments",
			segs: []Segment{
				{Point{0, 0}, Point{10, 0}},
				{Point{0, 10}, Point{10, 10}},
				{Point{10, 10}, Point{10, 0}},
				{Point{0, 0}, Point{0, 10}},
			},
			want: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		},
		{
			name: "gap bridged by nearest endpoint",
			segs: []Segment{
				{Point{0, 0}, Point{10, 0}},
				{Point{11, 1}, Point{10, 10}},
				{Point{10, 10}, Point{0, 10}},
				{Point{0, 10}, Point{0, 0}},
			},
			want: []Point{{0, 0}, {10, 0}, {11, 1}, {10, 10}, {0, 10}, {0, 0}},
		},
		{
			name: "nearest tie keeps input order",
			segs: []Segment{
				{Point{0, 0}, Point{10, 0}},
				{Point{12, 0}, Point{12, 5}},
				{Point{10, 2}, Point{10, 50}},
			},
			want: []Point{{0, 0}, {10, 0}, {12, 0}, {12, 5}, {10, 2}, {10, 50}},
		},
		{
			name: "start closer than remaining segment closes path",
			segs: []Segment{
				{Point{0, 0}, Point{10, 0}},
				{Point{10, 0}, Point{1, 1}},
				{Point{50, 50}, Point{60, 60}},
			},
			want: []Point{{0, 0}, {10, 0}, {1, 1}, {0, 0}},
		},
		{
			name: "open chain",
			segs: []Segment{
				{Point{0, 0}, Point{10, 0}},
				{Point{10, 0}, Point{20, 0}},
			},
			want: []Point{{0, 0}, {10, 0}, {20, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StitchOutline(tt.segs)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("StitchOutline() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStitchOutlineShuffled(t *testing.T) {
	poly := []Point{{0, 0}, {40, 0}, {60, 20}, {60, 70}, {30, 90}, {0, 70}, {-10, 30}}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		segs := make([]Segment, len(poly))
		for i := range poly {
			a, b := poly[i], poly[(i+1)%len(poly)]
			if rng.Intn(2) == 0 {
				a, b = b, a
			}
			segs[i] = Segment{a, b}
		}
		rng.Shuffle(len(segs), func(i, j int) { segs[i], segs[j] = segs[j], segs[i] })

		path := StitchOutline(segs)
		if len(path) != len(poly)+1 {
			t.Fatalf("round %d: path has %d points, want %d", round, len(path), len(poly)+1)
		}
		if path[0] != path[len(path)-1] {
			t.Fatalf("round %d: path not closed: %v", round, path)
		}

		seen := map[Point]int{}
		for _, p := range path[:len(path)-1] {
			seen[p]++
		}
		for _, p := range poly {
			if seen[p] != 1 {
				t.Fatalf("round %d: vertex %v visited %d times", round, p, seen[p])
			}
		}

		edges := map[Segment]bool{}
		for _, s := range segs {
			edges[s] = true
			edges[Segment{s.B, s.A}] = true
		}
		for i := 0; i+1 < len(path); i++ {
			if !edges[Segment{path[i], path[i+1]}] {
				t.Fatalf("round %d: %v-%v is not an input segment", round, path[i], path[i+1])
			}
		}
	}
}

func TestStitchLeftovers(t *testing.T) {
	segs := []Segment{
		{Point{0, 0}, Point{10, 0}},
		{Point{10, 0}, Point{0, 0}},
		{Point{100, 100}, Point{110, 100}},
	}
	path, rest := stitch(segs)
	if diff := cmp.Diff([]Point{{0, 0}, {10, 0}, {0, 0}}, path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Segment{{Point{100, 100}, Point{110, 100}}}, rest); diff != "" {
		t.Errorf("leftover mismatch (-want +got):\n%s", diff)
	}
}
