// Package sink writes segments to an output dataset. Drivers register
// themselves by format name; the PostGIS driver lives in its own package
// because it pulls in the SQL stack.
package sink

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/geofabrik/LinestringsSplitter/feature"
)

// Config carries everything a driver needs to create its dataset.
type Config struct {
	// Path is the output location: a file path, or a connection string for
	// database drivers.
	Path string
	// LayerName is the name of the created layer or table.
	LayerName string
	// Geographic reports whether coordinates are degrees of
	// longitude/latitude.
	Geographic bool
	// DatasetOptions and LayerOptions are KEY=VALUE pairs from --dsco and
	// --lco, order preserved. Drivers ignore keys they do not know.
	DatasetOptions []string
	LayerOptions   []string
}

// A Sink receives the output segments. CreateLayer declares the attribute
// schema and must be called exactly once before the first Write. Begin and
// Commit bracket write batches; drivers without transaction support accept
// and ignore them. Close flushes everything to durable storage.
type Sink interface {
	CreateLayer(schema feature.Schema) error
	Begin() error
	Write(f *feature.Feature) error
	Commit() error
	Close() error
}

var drivers = map[string]func(Config) (Sink, error){}

// Register makes a driver available under name. Names are case
// insensitive.
func Register(name string, newFunc func(Config) (Sink, error)) {
	drivers[strings.ToLower(name)] = newFunc
}

// Open creates the output dataset with the named driver.
func Open(format string, conf Config) (Sink, error) {
	newFunc, ok := drivers[strings.ToLower(format)]
	if !ok {
		return nil, errors.Errorf("failed to load driver for %s", format)
	}
	return newFunc(conf)
}

// Option looks up a KEY=VALUE creation option. Keys are case insensitive.
func Option(opts []string, key string) (string, bool) {
	for _, opt := range opts {
		kv := strings.SplitN(opt, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return kv[1], true
		}
	}
	return "", false
}
