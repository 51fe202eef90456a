package sink

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

func init() {
	Register("GeoJSON", NewGeoJSON)
}

// GeoJSON streams a FeatureCollection to a file. Commit flushes the buffer
// and syncs, so a committed batch survives a crash of the remaining run
// (the trailing bracket is the only thing missing then).
type GeoJSON struct {
	file   *os.File
	w      *bufio.Writer
	schema *feature.Schema
	n      int
}

func NewGeoJSON(conf Config) (Sink, error) {
	f, err := os.Create(conf.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", conf.Path)
	}
	return &GeoJSON{file: f, w: bufio.NewWriter(f)}, nil
}

func (g *GeoJSON) CreateLayer(schema feature.Schema) error {
	g.schema = &schema
	_, err := g.w.WriteString(`{"type":"FeatureCollection","features":[`)
	return errors.Wrap(err, "writing header")
}

func (g *GeoJSON) Begin() error { return nil }

func (g *GeoJSON) Write(f *feature.Feature) error {
	if g.schema == nil {
		return errors.New("layer not created")
	}
	out := geojson.NewFeature(f.Geometry)
	for i, field := range g.schema.Fields {
		if f.Values[i] != nil {
			out.Properties[field.Name] = f.Values[i]
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "encoding feature")
	}
	if g.n > 0 {
		if err := g.w.WriteByte(','); err != nil {
			return err
		}
	}
	if _, err := g.w.Write(data); err != nil {
		return err
	}
	g.n++
	return nil
}

func (g *GeoJSON) Commit() error {
	if err := g.w.Flush(); err != nil {
		return err
	}
	return g.file.Sync()
}

func (g *GeoJSON) Close() error {
	if g.schema != nil {
		if _, err := g.w.WriteString("]}\n"); err != nil {
			return err
		}
	}
	if err := g.w.Flush(); err != nil {
		return err
	}
	if err := g.file.Sync(); err != nil {
		return err
	}
	return g.file.Close()
}
