package sink

import (
	"os"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
	"github.com/geofabrik/LinestringsSplitter/logging"
)

var shpLog = logging.New("Shapefile")

func init() {
	Register("ESRI Shapefile", NewShapefile)
	Register("Shapefile", NewShapefile)
	Register("SHP", NewShapefile)
}

// wgs84Wkt is written as the .prj when the run is geographic.
const wgs84Wkt = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Shapefile writes segments through go-shp. The format has no transaction
// support; Begin and Commit are accepted and ignored.
type Shapefile struct {
	w      *shp.Writer
	path   string
	conf   Config
	schema *feature.Schema
}

func NewShapefile(conf Config) (Sink, error) {
	path := conf.Path
	if !strings.HasSuffix(strings.ToLower(path), ".shp") {
		path += ".shp"
	}
	w, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}
	return &Shapefile{w: w, path: path, conf: conf}, nil
}

func (s *Shapefile) CreateLayer(schema feature.Schema) error {
	fields := make([]shp.Field, len(schema.Fields))
	for i, f := range schema.Fields {
		name := f.Name
		if len(name) > 10 {
			// DBF limit
			name = name[:10]
			shpLog.Warn().Str("field", f.Name).Str("as", name).Msg("truncating field name")
		}
		fields[i] = dbfField(name, f)
	}
	s.w.SetFields(fields)
	s.schema = &schema
	return nil
}

func dbfField(name string, f feature.Field) shp.Field {
	switch f.Type {
	case feature.Integer:
		return shp.NumberField(name, 18)
	case feature.Real:
		return shp.FloatField(name, 24, 10)
	case feature.Bool:
		return shp.StringField(name, 1)
	default:
		width := f.Width
		if width <= 0 || width > 254 {
			width = 80
		}
		return shp.StringField(name, uint8(width))
	}
}

func (s *Shapefile) Begin() error { return nil }

func (s *Shapefile) Write(f *feature.Feature) error {
	if s.schema == nil {
		return errors.New("layer not created")
	}
	line, ok := f.Geometry.(orb.LineString)
	if !ok {
		return errors.Errorf("shapefile writer expects linestrings, got %T", f.Geometry)
	}
	points := make([]shp.Point, len(line))
	for i, pt := range line {
		points[i] = shp.Point{X: pt[0], Y: pt[1]}
	}
	row := int(s.w.Write(shp.NewPolyLine([][]shp.Point{points})))
	for i, field := range s.schema.Fields {
		if err := s.w.WriteAttribute(row, i, attributeValue(field, f.Values[i])); err != nil {
			return errors.Wrapf(err, "writing field %s", field.Name)
		}
	}
	return nil
}

func attributeValue(field feature.Field, v interface{}) interface{} {
	if v == nil {
		switch field.Type {
		case feature.Integer:
			return 0
		case feature.Real:
			return 0.0
		default:
			return ""
		}
	}
	if field.Type == feature.Bool {
		if b, ok := v.(bool); ok {
			if b {
				return "T"
			}
			return "F"
		}
	}
	return v
}

func (s *Shapefile) Commit() error { return nil }

func (s *Shapefile) Close() error {
	s.w.Close()
	if s.conf.Geographic {
		prj := strings.TrimSuffix(s.path, ".shp") + ".prj"
		if err := os.WriteFile(prj, []byte(wgs84Wkt+"\n"), 0o644); err != nil {
			return errors.Wrap(err, "writing .prj")
		}
	}
	return nil
}
