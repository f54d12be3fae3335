package serializer

import (
	"context"
	"fmt"
	"reflect"

	"go.opentelemetry.io/otel/attribute"

	"github.com/relique/dynamicfields"
	"github.com/relique/dynamicfields/internal/observability"
)

// Render produces an output field map for obj, or a slice of maps for a
// Many serializer. The query parameter source drives field selection at
// the response root; a nil src renders all fields (with a diagnostic,
// unless suppressed by the filter options).
func (s *Serializer) Render(obj any, src dynamicfields.QueryParamSource) (any, []dynamicfields.Diagnostic, error) {
	return s.RenderContext(context.Background(), obj, src)
}

// RenderContext is Render with a context for tracing.
func (s *Serializer) RenderContext(
	ctx context.Context,
	obj any,
	src dynamicfields.QueryParamSource,
) (any, []dynamicfields.Diagnostic, error) {
	_, span := observability.StartSpan(ctx, "serializer.Render",
		attribute.String("serializer.model", s.typ.String()),
		attribute.Bool("serializer.many", s.many),
	)
	defer span.End()

	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil, nil
		}
		v = v.Elem()
	}

	if s.many {
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return nil, nil, fmt.Errorf("serializer: expected a collection of %s, got %T", s.typ, obj)
		}
		// One field computation covers every item: the shared item
		// serializer is instantiated once per response.
		fields, diags := s.computeFields(dynamicfields.PositionListRootChild, src)
		out := make([]map[string]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := s.renderStruct(v.Index(i), fields)
			if err != nil {
				return nil, diags, err
			}
			out = append(out, item)
		}
		return out, diags, nil
	}

	if v.Kind() != reflect.Struct || v.Type() != s.typ {
		return nil, nil, fmt.Errorf("serializer: expected %s, got %T", s.typ, obj)
	}

	fields, diags := s.computeFields(s.pos, src)
	if fields.Len() < s.fields.Len() {
		s.logger.Debug("rendering reduced field set",
			observability.String("model", s.typ.String()),
			observability.Int("fields_in", s.fields.Len()),
			observability.Int("fields_out", fields.Len()))
	}
	out, err := s.renderStruct(v, fields)
	return out, diags, err
}

// computeFields runs the field filter for the given position, falling
// back to the full set when no filter is configured.
func (s *Serializer) computeFields(
	pos dynamicfields.Position,
	src dynamicfields.QueryParamSource,
) (*dynamicfields.FieldSet, []dynamicfields.Diagnostic) {
	if s.filter == nil {
		return s.fields, nil
	}
	return s.filter.Compute(s.fields, pos, src)
}

// renderStruct emits the given fields of a struct value. Nested
// serializers always emit their full field set.
func (s *Serializer) renderStruct(
	v reflect.Value,
	fields *dynamicfields.FieldSet,
) (map[string]any, error) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	out := make(map[string]any, fields.Len())

	for _, name := range fields.Names() {
		def, _ := fields.Get(name)
		fv := v.FieldByIndex(def.Index)

		if def.OmitEmpty && fv.IsZero() {
			continue
		}

		child, hasChild := s.children[name]
		if !hasChild {
			out[name] = fieldValue(fv)
			continue
		}

		rendered, err := child.renderNested(fv)
		if err != nil {
			return nil, err
		}
		out[name] = rendered
	}

	return out, nil
}

// renderNested renders a child serializer's value with its full field
// set. Filtering is a root-only concern; a relation is never truncated
// by a parameter meant for the top-level resource.
func (s *Serializer) renderNested(v reflect.Value) (any, error) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	if s.many {
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return nil, fmt.Errorf("serializer: expected a collection of %s, got %s", s.typ, v.Type())
		}
		out := make([]map[string]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := s.renderStruct(v.Index(i), s.fields)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}

	return s.renderStruct(v, s.fields)
}

// fieldValue extracts a leaf field's value, mapping nil pointers to
// nil.
func fieldValue(v reflect.Value) any {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
