package geom

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planarSegmenter(min, max float64) Segmenter {
	return Segmenter{Measure: Measure{Geographic: false}, MinLength: min, MaxLength: max}
}

// closed, 7 vertices, total length well below any min
func smallRing() orb.LineString {
	return orb.LineString{{0, 0}, {1, 0}, {2, 1}, {2, 2}, {1, 3}, {0, 1}, {0, 0}}
}

func TestSkipRing(t *testing.T) {
	s := planarSegmenter(200, 2000)

	// short open line
	assert.True(t, s.SkipRing(orb.LineString{{0, 0}, {100, 0}}))
	// open line above the minimum
	assert.False(t, s.SkipRing(orb.LineString{{0, 0}, {250, 0}}))
	// short closed line with 5 vertices
	assert.True(t, s.SkipRing(orb.LineString{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}))
	// closed with more than 5 vertices: kept regardless of length
	assert.False(t, s.SkipRing(smallRing()))
	// exactly the minimum is kept (strictly less than)
	assert.False(t, s.SkipRing(orb.LineString{{0, 0}, {200, 0}}))
}

func TestSplitBelowMaximum(t *testing.T) {
	s := planarSegmenter(0, 2000)
	line := orb.LineString{{0, 0}, {500, 0}, {1000, 0}, {1900, 0}}

	parts := s.Split(line)
	require.Len(t, parts, 1)
	assert.Equal(t, line, parts[0])
}

func TestSplitScenario(t *testing.T) {
	// cumulative distances 0, 1000, 2100, 2500: the third vertex pushes the
	// accumulated length over 2000, the cut shares that vertex
	s := planarSegmenter(0, 2000)
	line := orb.LineString{{0, 0}, {1000, 0}, {2100, 0}, {2500, 0}}

	parts := s.Split(line)
	require.Len(t, parts, 2)
	assert.Equal(t, orb.LineString{{0, 0}, {1000, 0}, {2100, 0}}, parts[0])
	assert.Equal(t, orb.LineString{{2100, 0}, {2500, 0}}, parts[1])
}

func TestSplitDropsTrailingVertex(t *testing.T) {
	// the cut happens on the last vertex, the leftover single-vertex buffer
	// cannot form a line
	s := planarSegmenter(0, 2000)
	line := orb.LineString{{0, 0}, {1500, 0}, {2500, 0}}

	parts := s.Split(line)
	require.Len(t, parts, 1)
	assert.Equal(t, line, parts[0])
}

func TestSplitRingKeptWhole(t *testing.T) {
	// a real ring is never split, however long it is
	s := planarSegmenter(0, 10)
	ring := orb.LineString{{0, 0}, {100, 0}, {200, 100}, {200, 200}, {100, 300}, {0, 100}, {0, 0}}

	parts := s.Split(ring)
	require.Len(t, parts, 1)
	assert.Equal(t, ring, parts[0])
}

func TestSplitReconstructsInput(t *testing.T) {
	s := planarSegmenter(0, 350)
	line := orb.LineString{
		{0, 0}, {100, 0}, {150, 120}, {400, 120}, {400, 500},
		{700, 500}, {700, 900}, {1200, 900}, {1201, 901},
	}

	parts := s.Split(line)
	require.True(t, len(parts) > 1)

	// adjacent parts share their boundary vertex
	for i := 1; i < len(parts); i++ {
		assert.Equal(t, parts[i-1][len(parts[i-1])-1], parts[i][0])
	}

	// concatenation with shared vertices counted once reproduces the input
	joined := orb.LineString{}
	for i, part := range parts {
		if i == 0 {
			joined = append(joined, part...)
		} else {
			joined = append(joined, part[1:]...)
		}
	}
	assert.Equal(t, line, joined)
}

func TestSplitIdempotent(t *testing.T) {
	s := planarSegmenter(0, 350)
	line := orb.LineString{
		{0, 0}, {100, 0}, {150, 120}, {400, 120}, {400, 500},
		{700, 500}, {700, 900}, {1200, 900},
	}

	for _, part := range s.Split(line) {
		again := s.Split(part)
		require.Len(t, again, 1)
		assert.Equal(t, part, again[0])
	}
}

func TestSplitDegenerate(t *testing.T) {
	s := planarSegmenter(0, 100)

	assert.Nil(t, s.Split(orb.LineString{}))
	assert.Nil(t, s.Split(orb.LineString{{1, 1}}))
}
