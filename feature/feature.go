// Package feature holds the in-memory model for vector features: a geometry
// plus an ordered list of attribute values matching a layer schema.
package feature

import (
	"github.com/paulmach/orb"
)

// FieldType enumerates the attribute types the readers and writers agree on.
type FieldType string

const (
	String  FieldType = "string"
	Integer FieldType = "integer"
	Real    FieldType = "real"
	Bool    FieldType = "bool"
)

// Field describes one attribute column.
type Field struct {
	Name string
	Type FieldType
	// Width is a hint for formats with fixed-size columns (DBF). Zero means
	// driver default.
	Width int
}

// Schema is the ordered set of attribute fields of a layer. It is declared
// on the output before any feature is written and never changes afterwards.
type Schema struct {
	Fields []Field
}

// FieldIndex returns the position of the named field, or -1.
func (s Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Feature is a single vector feature. Values are ordered like the schema
// fields of the layer the feature was read from; a nil value means NULL.
type Feature struct {
	Geometry orb.Geometry
	Values   []interface{}
}

// Segment builds a new output feature from a part of this feature's
// geometry. The attribute values are copied, the original feature is not
// retained.
func (f *Feature) Segment(line orb.LineString) *Feature {
	values := make([]interface{}, len(f.Values))
	copy(values, f.Values)
	return &Feature{Geometry: line, Values: values}
}
