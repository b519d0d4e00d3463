package brd

// StitchOutline orders an unordered bag of segments into one boundary path.
//
// The path is seeded with the first segment. Each step first looks, in
// input order, for a segment with an endpoint equal to the trailing point.
// Failing that, the segment with the nearest endpoint (Manhattan distance,
// first minimum wins) is spliced in, unless the path start is at least as
// close, in which case the start is appended and the path is closed.
// Unclosable input comes back as an open path.
func StitchOutline(segs []Segment) []Point {
	path, _ := stitch(segs)
	return path
}

// stitch returns the path and the segments it did not consume.
func stitch(segs []Segment) ([]Point, []Segment) {
	if len(segs) == 0 {
		return nil, nil
	}
	rest := append([]Segment(nil), segs[1:]...)
	start, end := segs[0].A, segs[0].B
	path := []Point{start, end}

	for end != start && len(rest) > 0 {
		if i, next, ok := exactMatch(rest, end); ok {
			path = append(path, next)
			end = next
			rest = append(rest[:i], rest[i+1:]...)
			continue
		}

		best := 0
		bestDist := segmentDistance(rest[0], end)
		for i := 1; i < len(rest); i++ {
			if d := segmentDistance(rest[i], end); d < bestDist {
				best, bestDist = i, d
			}
		}

		seg := rest[best]
		da, db := manhattan(end, seg.A), manhattan(end, seg.B)
		if ds := manhattan(end, start); ds <= da && ds <= db {
			path = append(path, start)
			break
		}
		near, far := seg.A, seg.B
		if db < da {
			near, far = seg.B, seg.A
		}
		path = append(path, near, far)
		end = far
		rest = append(rest[:best], rest[best+1:]...)
	}
	return path, rest
}

func exactMatch(segs []Segment, p Point) (int, Point, bool) {
	for i, s := range segs {
		if s.A == p {
			return i, s.B, true
		}
		if s.B == p {
			return i, s.A, true
		}
	}
	return 0, Point{}, false
}

func segmentDistance(s Segment, p Point) int {
	return min(manhattan(p, s.A), manhattan(p, s.B))
}

func manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
