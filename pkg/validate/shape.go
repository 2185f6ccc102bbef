package validate

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Shape is the declared structure of one operation's request payload
type Shape struct {
	Name   string
	Schema *openapi3.Schema
}

// Field describes one property of a Shape
type Field struct {
	Name     string
	Schema   *openapi3.Schema
	Required bool
}

// String is a string field
func String(name string) Field {
	return Field{Name: name, Schema: openapi3.NewStringSchema(), Required: true}
}

// NonEmptyString is a string field with at least one character
func NonEmptyString(name string, maxLength int64) Field {
	s := openapi3.NewStringSchema().WithMinLength(1)
	if maxLength > 0 {
		s = s.WithMaxLength(maxLength)
	}
	return Field{Name: name, Schema: s, Required: true}
}

// Integer is a 64-bit integer field
func Integer(name string) Field {
	return Field{Name: name, Schema: openapi3.NewInt64Schema(), Required: true}
}

// Optional marks f as not required
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// NewShape builds an object shape from fields
func NewShape(name string, fields ...Field) Shape {
	schema := openapi3.NewObjectSchema()
	for _, f := range fields {
		schema = schema.WithProperty(f.Name, f.Schema)
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return Shape{Name: name, Schema: schema}
}
