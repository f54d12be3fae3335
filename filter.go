package dynamicfields

import (
	"strings"
	"time"

	"github.com/relique/dynamicfields/internal/observability"
)

// Default query parameter names.
const (
	DefaultFieldsParam = "fields"
	DefaultOmitParam   = "omit"
)

// Options configures a Filter.
type Options struct {
	// FieldsParam is the inclusion parameter name. Defaults to "fields".
	FieldsParam string

	// OmitParam is the exclusion parameter name. Defaults to "omit".
	OmitParam string

	// SuppressContextWarning silences the diagnostic emitted when
	// Compute is called without a request context. Useful for schema
	// introspection and direct instantiation in tests, where no request
	// is in flight.
	SuppressContextWarning bool
}

// Filter computes the subset of fields a serializer should emit based
// on request query parameters. A Filter is stateless across calls and
// safe for concurrent use.
type Filter struct {
	fieldsParam string
	omitParam   string
	suppressCtx bool
	logger      observability.Logger
	metrics     *FilterMetrics
}

// New creates a Filter with the given options. A nil logger falls back
// to a no-op logger.
func New(opts Options, logger observability.Logger) *Filter {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if opts.FieldsParam == "" {
		opts.FieldsParam = DefaultFieldsParam
	}
	if opts.OmitParam == "" {
		opts.OmitParam = DefaultOmitParam
	}
	return &Filter{
		fieldsParam: opts.FieldsParam,
		omitParam:   opts.OmitParam,
		suppressCtx: opts.SuppressContextWarning,
		logger:      logger,
		metrics:     GetFilterMetrics(),
	}
}

// Compute returns the fields to actually emit, as a subset of full.
//
// Filtering applies only at PositionRoot and PositionListRootChild;
// nested serializers always emit their full field set. A nil src means
// no request is in flight and the full set is returned unchanged.
//
// The returned slice carries non-fatal diagnostics; Compute never
// fails.
func (f *Filter) Compute(full *FieldSet, pos Position, src QueryParamSource) (*FieldSet, []Diagnostic) {
	start := time.Now()
	defer func() {
		f.metrics.ObserveDuration(pos.String(), time.Since(start))
	}()

	if src == nil {
		f.metrics.RecordCompute(pos.String(), "no_context")
		if f.suppressCtx {
			return full, nil
		}
		diag := Diagnostic{
			Code:    DiagNoRequestContext,
			Message: "no request context available, returning fields unfiltered",
		}
		f.logger.Warn("field filter has no access to the request",
			observability.String("diagnostic", string(diag.Code)))
		f.metrics.RecordDiagnostic(string(diag.Code))
		return full, []Diagnostic{diag}
	}

	if !pos.Filterable() {
		f.metrics.RecordCompute(pos.String(), "nested_passthrough")
		return full, nil
	}

	if v, ok := src.(SourceValidator); ok && !v.Valid() {
		diag := Diagnostic{
			Code:    DiagNoParamSource,
			Message: "request context does not expose query parameters, returning fields unfiltered",
		}
		f.logger.Warn("field filter cannot reach query parameters",
			observability.String("diagnostic", string(diag.Code)))
		f.metrics.RecordCompute(pos.String(), "no_params")
		f.metrics.RecordDiagnostic(string(diag.Code))
		return full, []Diagnostic{diag}
	}

	rawFields, hasFields := src.Get(f.fieldsParam)
	rawOmit, hasOmit := src.Get(f.omitParam)

	if !hasFields && !hasOmit {
		f.metrics.RecordCompute(pos.String(), "unfiltered")
		return full, nil
	}

	// An absent fields parameter means no inclusion filtering; a
	// present-but-empty one allows nothing once empty entries are
	// dropped.
	var allowed map[string]bool
	if hasFields {
		allowed = splitParamList(rawFields)
	}
	omitted := map[string]bool{}
	if hasOmit {
		omitted = splitParamList(rawOmit)
	}

	keep := make(map[string]bool, full.Len())
	for _, name := range full.Names() {
		if allowed != nil && !allowed[name] {
			continue
		}
		if omitted[name] {
			continue
		}
		keep[name] = true
	}
	result := full.Restrict(keep)

	f.metrics.RecordCompute(pos.String(), "filtered")
	f.logger.Debug("field filter applied",
		observability.String("position", pos.String()),
		observability.Int("fields_in", full.Len()),
		observability.Int("fields_out", result.Len()))

	return result, nil
}

// Active reports whether src carries either filtering parameter.
// Middleware uses this as a fast path to skip response buffering when
// no filtering was requested.
func (f *Filter) Active(src QueryParamSource) bool {
	if src == nil {
		return false
	}
	if _, ok := src.Get(f.fieldsParam); ok {
		return true
	}
	_, ok := src.Get(f.omitParam)
	return ok
}

// splitParamList splits a comma-separated parameter value into a set of
// snake_case names, discarding empty entries.
func splitParamList(raw string) map[string]bool {
	parts := strings.Split(raw, ",")
	set := make(map[string]bool, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		set[ToSnakeCase(p)] = true
	}
	return set
}
