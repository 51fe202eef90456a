package geom

import (
	"github.com/paulmach/orb"
)

// ringVertexLimit separates digitization artifacts from intentional rings:
// closed polylines with more vertices are always kept.
const ringVertexLimit = 5

// Segmenter cuts polylines at existing vertices so that no produced segment
// accumulates more than MaxLength, and classifies short closed rings that
// should be dropped entirely.
type Segmenter struct {
	Measure   Measure
	MinLength float64
	MaxLength float64
}

// isClosed reports whether the first and last coordinate coincide.
func isClosed(line orb.LineString) bool {
	return len(line) > 1 && line[0] == line[len(line)-1]
}

// isRing reports whether line is a closed polyline with enough vertices to
// count as an intentional ring.
func isRing(line orb.LineString) bool {
	return isClosed(line) && len(line) > ringVertexLimit
}

// SkipRing reports whether line should be dropped. Rings are always kept.
// Everything else is dropped when its total length stays below MinLength;
// such lines are typically digitization artifacts like tiny traffic-circle
// stubs.
func (s Segmenter) SkipRing(line orb.LineString) bool {
	if isRing(line) {
		return false
	}
	return s.Measure.Length(line) < s.MinLength
}

// Split walks the vertices of line in order, accumulating edge lengths, and
// cuts whenever the accumulated length exceeds MaxLength. Cuts happen only
// at existing vertices; no new vertex is interpolated. The threshold is a
// soft trigger: a segment may overshoot MaxLength by the length of its final
// edge. Adjacent segments share their boundary vertex, so concatenating the
// results reproduces the input vertex sequence. Rings are returned unsplit.
func (s Segmenter) Split(line orb.LineString) []orb.LineString {
	if len(line) < 2 {
		return nil
	}
	if isRing(line) {
		return []orb.LineString{line}
	}
	var parts []orb.LineString
	var buf orb.LineString
	length := 0.0
	for i, pt := range line {
		if i > 0 {
			length += s.Measure.Distance(line[i-1], pt)
		}
		buf = append(buf, pt)
		if length > s.MaxLength {
			parts = append(parts, buf)
			buf = orb.LineString{pt}
			length = 0.0
		}
	}
	// a trailing buffer with a single vertex cannot form a line
	if len(buf) > 1 {
		parts = append(parts, buf)
	}
	return parts
}
