// Package schema describes queryable fields for autocomplete and advisory
// validation. Nothing here is a security boundary: enforcement lives in
// engine/security, which deliberately never consults the schema.
package schema

// Field describes one queryable field
type Field struct {
	Type          string // string, number, boolean
	AllowedValues []string
	Description   string
}

// Fields maps field name to its advisory description
type Fields map[string]Field

// Names returns the field names in map order
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	return names
}
