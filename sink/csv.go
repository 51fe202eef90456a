package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	wkt "github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

func init() {
	Register("CSV", NewCSV)
}

// CSV writes one row per segment: the attribute columns followed by a geom
// column with the WKT linestring. The delimiter is ';' so WKT coordinate
// commas survive naive downstream parsing.
type CSV struct {
	file   *os.File
	w      *csv.Writer
	schema *feature.Schema
}

func NewCSV(conf Config) (Sink, error) {
	f, err := os.Create(conf.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", conf.Path)
	}
	w := csv.NewWriter(f)
	w.Comma = ';'
	return &CSV{file: f, w: w}, nil
}

func (c *CSV) CreateLayer(schema feature.Schema) error {
	c.schema = &schema
	header := make([]string, 0, len(schema.Fields)+1)
	for _, f := range schema.Fields {
		header = append(header, f.Name)
	}
	header = append(header, "geom")
	return errors.Wrap(c.w.Write(header), "writing header")
}

func (c *CSV) Begin() error { return nil }

func (c *CSV) Write(f *feature.Feature) error {
	if c.schema == nil {
		return errors.New("layer not created")
	}
	row := make([]string, 0, len(f.Values)+1)
	for _, v := range f.Values {
		if v == nil {
			row = append(row, "")
		} else {
			row = append(row, fmt.Sprintf("%v", v))
		}
	}
	row = append(row, wkt.MarshalString(f.Geometry))
	return errors.Wrap(c.w.Write(row), "writing row")
}

func (c *CSV) Commit() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	return c.file.Sync()
}

func (c *CSV) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	if err := c.file.Sync(); err != nil {
		return err
	}
	return c.file.Close()
}
