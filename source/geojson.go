package source

import (
	"io"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

// GeoJSON reads a FeatureCollection. The attribute schema is derived from
// the feature properties: keys in first-seen order, types from the first
// non-null value.
type GeoJSON struct {
	schema   feature.Schema
	features []*geojson.Feature
	pos      int
}

// OpenGeoJSON parses the whole file up front; GeoJSON has no streamable
// layer metadata.
func OpenGeoJSON(path string) (*GeoJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	for _, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.LineString, orb.MultiLineString, nil:
		default:
			return nil, errors.Errorf(
				"cannot work with geometry type %s, only LineString and MultiLineString",
				f.Geometry.GeoJSONType())
		}
	}

	return &GeoJSON{
		schema:   propertySchema(fc.Features),
		features: fc.Features,
	}, nil
}

func propertySchema(features []*geojson.Feature) feature.Schema {
	schema := feature.Schema{}
	seen := map[string]bool{}
	for _, f := range features {
		for _, key := range propertyKeys(f) {
			if seen[key] {
				continue
			}
			seen[key] = true
			schema.Fields = append(schema.Fields, feature.Field{
				Name: key,
				Type: propertyType(features, key),
			})
		}
	}
	return schema
}

// propertyKeys returns the property names of f in a stable order. JSON
// objects carry no order after unmarshalling, so keys are sorted per
// feature; the overall schema order is still first-seen across features.
func propertyKeys(f *geojson.Feature) []string {
	keys := make([]string, 0, len(f.Properties))
	for key := range f.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func propertyType(features []*geojson.Feature, key string) feature.FieldType {
	for _, f := range features {
		switch f.Properties[key].(type) {
		case string:
			return feature.String
		case float64:
			return feature.Real
		case bool:
			return feature.Bool
		case nil:
			continue
		default:
			return feature.String
		}
	}
	return feature.String
}

func (g *GeoJSON) Schema() feature.Schema { return g.schema }

// Geographic is always true: GeoJSON coordinates are WGS84 by definition.
func (g *GeoJSON) Geographic() bool { return true }

func (g *GeoJSON) Next() (*feature.Feature, error) {
	if g.pos >= len(g.features) {
		return nil, io.EOF
	}
	f := g.features[g.pos]
	g.pos++

	values := make([]interface{}, len(g.schema.Fields))
	for i, field := range g.schema.Fields {
		if v, ok := f.Properties[field.Name]; ok {
			values[i] = v
		}
	}
	return &feature.Feature{Geometry: f.Geometry, Values: values}, nil
}

func (g *GeoJSON) Close() error {
	g.features = nil
	return nil
}
