package source

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

// PBF turns the ways of an OSM PBF extract into line features. Node
// coordinates are resolved in memory during a single scan; PBF files list
// nodes before ways. Only ways carrying at least one of the requested tag
// keys become features; the schema is osm_id plus one string field per key.
type PBF struct {
	schema   feature.Schema
	features []*feature.Feature
	pos      int
}

func OpenPBF(path string, tagFields []string) (*PBF, error) {
	if len(tagFields) == 0 {
		return nil, errors.New("the OSM reader needs at least one tag key (--tags)")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	schema := feature.Schema{Fields: []feature.Field{{Name: "osm_id", Type: feature.Integer}}}
	for _, key := range tagFields {
		schema.Fields = append(schema.Fields, feature.Field{Name: key, Type: feature.String})
	}

	scanner := osmpbf.New(context.Background(), f, runtime.GOMAXPROCS(0))
	defer scanner.Close()

	coords := map[osm.NodeID]orb.Point{}
	var features []*feature.Feature
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			coords[o.ID] = orb.Point{o.Lon, o.Lat}
		case *osm.Way:
			if f := wayFeature(o, tagFields, coords); f != nil {
				features = append(features, f)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	return &PBF{schema: schema, features: features}, nil
}

func wayFeature(way *osm.Way, tagFields []string, coords map[osm.NodeID]orb.Point) *feature.Feature {
	tags := way.Tags.Map()
	keep := false
	for _, key := range tagFields {
		if tags[key] != "" {
			keep = true
			break
		}
	}
	if !keep {
		return nil
	}

	line := make(orb.LineString, 0, len(way.Nodes))
	for _, nd := range way.Nodes {
		if pt, ok := coords[nd.ID]; ok {
			line = append(line, pt)
		}
	}
	if len(line) < 2 {
		return nil
	}

	values := make([]interface{}, 0, len(tagFields)+1)
	values = append(values, int64(way.ID))
	for _, key := range tagFields {
		if v := tags[key]; v != "" {
			values = append(values, v)
		} else {
			values = append(values, nil)
		}
	}
	return &feature.Feature{Geometry: line, Values: values}
}

func (p *PBF) Schema() feature.Schema { return p.schema }

// Geographic is always true: OSM coordinates are WGS84.
func (p *PBF) Geographic() bool { return true }

func (p *PBF) Next() (*feature.Feature, error) {
	if p.pos >= len(p.features) {
		return nil, io.EOF
	}
	f := p.features[p.pos]
	p.pos++
	return f, nil
}

func (p *PBF) Close() error {
	p.features = nil
	return nil
}
