// Package source reads line features from vector datasets. Readers exist
// for GeoJSON, ESRI Shapefiles and OSM PBF extracts; the reader is selected
// by file suffix.
package source

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

// A Source hands out the features of a single layer, one at a time, in
// dataset order. Next returns io.EOF after the last feature.
type Source interface {
	// Schema describes the attribute fields of the layer.
	Schema() feature.Schema
	// Geographic reports whether the layer's coordinate reference system is
	// geographic (degrees of longitude/latitude).
	Geographic() bool
	Next() (*feature.Feature, error)
	Close() error
}

// Options configure the readers that need them.
type Options struct {
	// TagFields are the tag keys the OSM reader turns into attribute
	// fields.
	TagFields []string
}

// Open selects a reader by the file suffix of path.
func Open(path string, opts Options) (Source, error) {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".geojson") || strings.HasSuffix(name, ".json"):
		return OpenGeoJSON(path)
	case strings.HasSuffix(name, ".shp"):
		return OpenShapefile(path)
	case strings.HasSuffix(name, ".osm.pbf") || strings.HasSuffix(name, ".pbf"):
		return OpenPBF(path, opts.TagFields)
	}
	return nil, errors.Errorf("no reader available for %s", path)
}

// LayerName derives the output layer name from the input path: the base
// name without its suffix.
func LayerName(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		if ext == "" || ext == base {
			return base
		}
		base = strings.TrimSuffix(base, ext)
	}
}
