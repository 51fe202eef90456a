package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const lineCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "main street", "lanes": 2},
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 0], [2, 1]]}
    },
    {
      "type": "Feature",
      "properties": {"name": "rails", "bridge": true},
      "geometry": {"type": "MultiLineString", "coordinates": [[[0, 0], [0, 1]], [[5, 5], [6, 6]]]}
    }
  ]
}`

func TestOpenGeoJSON(t *testing.T) {
	path := writeTemp(t, "lines.geojson", lineCollection)

	src, err := OpenGeoJSON(path)
	require.NoError(t, err)
	defer src.Close()

	assert.True(t, src.Geographic())

	schema := src.Schema()
	require.Len(t, schema.Fields, 3)
	// first feature's keys (sorted) come first, new keys append
	assert.Equal(t, "lanes", schema.Fields[0].Name)
	assert.Equal(t, feature.Real, schema.Fields[0].Type)
	assert.Equal(t, "name", schema.Fields[1].Name)
	assert.Equal(t, feature.String, schema.Fields[1].Type)
	assert.Equal(t, "bridge", schema.Fields[2].Name)
	assert.Equal(t, feature.Bool, schema.Fields[2].Type)

	first, err := src.Next()
	require.NoError(t, err)
	line, ok := first.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, line, 3)
	assert.Equal(t, 2.0, first.Values[0])
	assert.Equal(t, "main street", first.Values[1])
	assert.Nil(t, first.Values[2])

	second, err := src.Next()
	require.NoError(t, err)
	_, ok = second.Geometry.(orb.MultiLineString)
	require.True(t, ok)
	assert.Equal(t, true, second.Values[2])

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenGeoJSONRejectsOtherGeometries(t *testing.T) {
	path := writeTemp(t, "polygons.geojson", `{
	  "type": "FeatureCollection",
	  "features": [
	    {
	      "type": "Feature",
	      "properties": {},
	      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
	    }
	  ]
	}`)

	_, err := OpenGeoJSON(path)
	assert.Error(t, err)
}

func TestOpenUnknownSuffix(t *testing.T) {
	_, err := Open("lines.gpkg", Options{})
	assert.Error(t, err)
}

func TestLayerName(t *testing.T) {
	assert.Equal(t, "roads", LayerName("/data/roads.shp"))
	assert.Equal(t, "extract", LayerName("extract.osm.pbf"))
	assert.Equal(t, "lines", LayerName("lines"))
}
