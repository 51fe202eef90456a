// Package geom implements the distance model and the vertex-walk splitting
// of polylines. It is pure computation on orb geometries, no I/O.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMeters is the sphere radius used for geographic distances.
const EarthRadiusMeters = 6372797.560856

const deg2rad = math.Pi / 180.0

// Measure computes the distance between two coordinates. The mode is fixed
// when the Measure is created: geographic treats x/y as degrees of
// longitude/latitude, planar as Cartesian units.
type Measure struct {
	Geographic bool
}

// Distance returns the distance between a and b. In geographic mode the
// longitude and latitude deltas are scaled to meters independently and
// combined as a local flat-earth approximation. This is intentionally not
// haversine; segments are short enough that the error does not matter and
// existing datasets depend on the exact values.
func (m Measure) Distance(a, b orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	if m.Geographic {
		dx *= EarthRadiusMeters * deg2rad
		dy *= EarthRadiusMeters * deg2rad
	}
	return math.Sqrt(dx*dx + dy*dy)
}

// Length returns the sum of the edge distances of line.
func (m Measure) Length(line orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += m.Distance(line[i-1], line[i])
	}
	return total
}
