// Package serializer renders Go structs into ordered field maps for
// JSON responses, applying request-driven field selection at the
// response root.
//
// A Serializer is built once per model type via reflection over `json`
// struct tags. Nested struct fields and slices of structs get child
// serializers wired with a root reference; their position in
// the composition tree is classified at assembly time, so filtering
// decisions never re-derive tree shape during rendering.
package serializer

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/relique/dynamicfields"
	"github.com/relique/dynamicfields/internal/observability"
)

// Serializer maps values of a single struct type to output field maps.
// Safe for concurrent use once built.
type Serializer struct {
	typ      reflect.Type
	fields   *dynamicfields.FieldSet
	children map[string]*Serializer
	many     bool
	root     *Serializer
	pos      dynamicfields.Position
	filter   *dynamicfields.Filter
	logger   observability.Logger
}

// Option configures a Serializer.
type Option func(*Serializer)

// Many marks the serializer as rendering a collection. Items of a
// collection at the response root are still filterable.
func Many() Option {
	return func(s *Serializer) {
		s.many = true
	}
}

// WithFilter sets the field filter. Without one, rendering emits all
// fields.
func WithFilter(f *dynamicfields.Filter) Option {
	return func(s *Serializer) {
		s.filter = f
	}
}

// WithLogger sets the logger used during rendering.
func WithLogger(logger observability.Logger) Option {
	return func(s *Serializer) {
		s.logger = logger
	}
}

// New builds a root Serializer for the given model, which must be a
// struct or a pointer to one.
func New(model any, opts ...Option) (*Serializer, error) {
	typ := reflect.TypeOf(model)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("serializer: model must be a struct, got %T", model)
	}

	s := &Serializer{
		typ:    typ,
		logger: observability.NopLogger(),
	}
	s.root = s
	s.pos = dynamicfields.PositionRoot

	for _, opt := range opts {
		opt(s)
	}

	visiting := map[reflect.Type]bool{}
	if err := s.build(visiting); err != nil {
		return nil, err
	}

	return s, nil
}

// Position returns the serializer's classified position in the
// composition tree.
func (s *Serializer) Position() dynamicfields.Position {
	return s.pos
}

// Fields returns the full, unfiltered field set.
func (s *Serializer) Fields() *dynamicfields.FieldSet {
	return s.fields
}

// build derives the field set and child serializers from struct tags.
// visiting guards against recursive types: a field whose type is
// already on the build path is emitted as a raw value instead of a
// child serializer.
func (s *Serializer) build(visiting map[reflect.Type]bool) error {
	visiting[s.typ] = true
	defer delete(visiting, s.typ)

	s.fields = dynamicfields.NewFieldSet()
	s.children = make(map[string]*Serializer)

	for i := 0; i < s.typ.NumField(); i++ {
		sf := s.typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseJSONTag(sf)
		if skip {
			continue
		}

		s.fields.Add(dynamicfields.Field{
			Name:      name,
			Index:     sf.Index,
			OmitEmpty: omitEmpty,
		})

		childType, childMany := nestedStructType(sf.Type)
		if childType == nil || visiting[childType] {
			continue
		}

		child := &Serializer{
			typ:    childType,
			many:   childMany,
			root:   s.root,
			filter: s.filter,
			logger: s.logger,
		}
		child.pos = classify(child)
		if err := child.build(visiting); err != nil {
			return err
		}
		s.children[name] = child
	}

	return nil
}

// classify determines a serializer's Position from its place in the
// tree. Computed once at assembly; rendering only reads it. A Many
// root serializer is its own item serializer and renders items at
// PositionListRootChild itself, so every child serializer is a nested
// relation.
func classify(s *Serializer) dynamicfields.Position {
	if s.root == s {
		return dynamicfields.PositionRoot
	}
	return dynamicfields.PositionNested
}

// parseJSONTag extracts the emitted name and omitempty flag from a
// struct field's json tag. Untagged fields use the snake_case form of
// the Go field name.
func parseJSONTag(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = dynamicfields.ToSnakeCase(sf.Name)
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// nestedStructType reports the struct type a field renders through a
// child serializer, and whether the field is a collection. Types with
// custom JSON or text marshaling (time.Time among them) are leaves.
func nestedStructType(t reflect.Type) (reflect.Type, bool) {
	many := false
	for {
		switch t.Kind() {
		case reflect.Ptr:
			t = t.Elem()
		case reflect.Slice, reflect.Array:
			if many {
				// Nested collections render as raw values.
				return nil, false
			}
			many = true
			t = t.Elem()
		default:
			if t.Kind() != reflect.Struct {
				return nil, false
			}
			if hasCustomMarshaler(t) {
				return nil, false
			}
			return t, many
		}
	}
}

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func hasCustomMarshaler(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) ||
		reflect.PtrTo(t).Implements(jsonMarshalerType) ||
		t.Implements(textMarshalerType) ||
		reflect.PtrTo(t).Implements(textMarshalerType)
}
