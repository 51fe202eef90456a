package source

import (
	"io"
	"os"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

// Shapefile reads an ESRI Shapefile with its DBF attribute table. A
// sibling .prj file decides geographic mode.
type Shapefile struct {
	r          *shp.Reader
	schema     feature.Schema
	fields     []shp.Field
	geographic bool
}

func OpenShapefile(path string) (*Shapefile, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	switch r.GeometryType {
	case shp.POLYLINE, shp.POLYLINEZ, shp.POLYLINEM:
	default:
		r.Close()
		return nil, errors.Errorf(
			"cannot work with shape type %d, only polylines", r.GeometryType)
	}

	fields := r.Fields()
	schema := feature.Schema{Fields: make([]feature.Field, len(fields))}
	for i, f := range fields {
		schema.Fields[i] = feature.Field{
			Name:  f.String(),
			Type:  dbfFieldType(f),
			Width: int(f.Size),
		}
	}

	return &Shapefile{
		r:          r,
		schema:     schema,
		fields:     fields,
		geographic: prjIsGeographic(path),
	}, nil
}

func dbfFieldType(f shp.Field) feature.FieldType {
	switch f.Fieldtype {
	case 'N':
		if f.Precision == 0 {
			return feature.Integer
		}
		return feature.Real
	case 'F':
		return feature.Real
	case 'L':
		return feature.Bool
	default:
		// 'C', 'D' and anything exotic stay strings
		return feature.String
	}
}

// prjIsGeographic sniffs the sibling .prj file. A projection starting with
// GEOGCS uses degrees; no .prj means planar.
func prjIsGeographic(path string) bool {
	prj := strings.TrimSuffix(path, ".shp") + ".prj"
	data, err := os.ReadFile(prj)
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(string(data))), "GEOGCS")
}

func (s *Shapefile) Schema() feature.Schema { return s.schema }

func (s *Shapefile) Geographic() bool { return s.geographic }

func (s *Shapefile) Next() (*feature.Feature, error) {
	if !s.r.Next() {
		if err := s.r.Err(); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "reading shape")
		}
		return nil, io.EOF
	}
	row, shape := s.r.Shape()

	values := make([]interface{}, len(s.fields))
	for i, field := range s.fields {
		values[i] = parseAttribute(s.r.ReadAttribute(row, i), s.schema.Fields[i].Type, field)
	}

	geometry, err := polylineGeometry(shape)
	if err != nil {
		return nil, err
	}
	return &feature.Feature{Geometry: geometry, Values: values}, nil
}

func parseAttribute(raw string, t feature.FieldType, f shp.Field) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	switch t {
	case feature.Integer:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	case feature.Real:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case feature.Bool:
		switch raw {
		case "T", "t", "Y", "y":
			return true
		case "F", "f", "N", "n":
			return false
		}
		return nil
	}
	return raw
}

// polylineGeometry unwraps a shape record: one part becomes a LineString,
// several parts a MultiLineString.
func polylineGeometry(shape shp.Shape) (orb.Geometry, error) {
	var partsIdx []int32
	var points []shp.Point
	switch pl := shape.(type) {
	case *shp.PolyLine:
		partsIdx, points = pl.Parts, pl.Points
	case *shp.PolyLineZ:
		partsIdx, points = pl.Parts, pl.Points
	case *shp.PolyLineM:
		partsIdx, points = pl.Parts, pl.Points
	default:
		return nil, errors.Errorf("unexpected shape record type %T", shape)
	}

	parts := make(orb.MultiLineString, 0, len(partsIdx))
	for p := range partsIdx {
		start := partsIdx[p]
		end := int32(len(points))
		if p+1 < len(partsIdx) {
			end = partsIdx[p+1]
		}
		line := make(orb.LineString, 0, end-start)
		for _, pt := range points[start:end] {
			line = append(line, orb.Point{pt.X, pt.Y})
		}
		parts = append(parts, line)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return parts, nil
}

func (s *Shapefile) Close() error {
	s.r.Close()
	return nil
}
