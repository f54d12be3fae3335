// Package dynamicfields implements request-driven selection of response
// fields for HTTP APIs.
//
// A client controls which fields a resource emits through two query
// parameters: `fields` (comma-separated inclusion list) and `omit`
// (comma-separated exclusion list). Parameter values may be camelCase or
// snake_case; they are normalized to snake_case before matching.
//
// Filtering is a root-only concern. It applies to the top-level response
// object and to the immediate items of a top-level collection; nested
// sub-objects always emit their full field set so that a parameter meant
// for the top-level resource never silently truncates a relation.
//
// # Usage
//
//	filter := dynamicfields.New(dynamicfields.Options{}, logger)
//
//	filtered, diags := filter.Compute(fields, dynamicfields.PositionRoot,
//	    dynamicfields.RequestSource(r))
//
// The filter never fails a request: missing or malformed parameters
// degrade to "no filtering" for the affected parameter, and problems
// locating the parameter bag are reported as Diagnostics rather than
// errors.
package dynamicfields
