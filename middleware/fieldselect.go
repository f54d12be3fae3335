package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/relique/dynamicfields"
	"github.com/relique/dynamicfields/internal/observability"
)

// DefaultMaxBodySize is the largest response body that will be buffered
// for field selection. Bodies exceeding the limit are streamed through
// unfiltered.
const DefaultMaxBodySize = 10 << 20 // 10MB

// Config holds configuration for the field selection middleware.
type Config struct {
	// Filter computes the kept fields. A nil Filter gets default
	// options.
	Filter *dynamicfields.Filter

	// Logger for diagnostics. A nil logger discards output.
	Logger observability.Logger

	// MaxBodySize overrides DefaultMaxBodySize when positive.
	MaxBodySize int64
}

func (cfg *Config) withDefaults() Config {
	out := *cfg
	if out.Logger == nil {
		out.Logger = observability.NopLogger()
	}
	if out.Filter == nil {
		out.Filter = dynamicfields.New(dynamicfields.Options{}, out.Logger)
	}
	if out.MaxBodySize <= 0 {
		out.MaxBodySize = DefaultMaxBodySize
	}
	return out
}

// FieldSelection creates an HTTP middleware that filters JSON response
// bodies according to the request's fields/omit query parameters.
// Requests carrying neither parameter bypass buffering entirely.
//
// When either parameter is present the response is fully buffered
// before being written: Flush calls from the handler are swallowed, so
// streaming responses (SSE, chunked progress output) do not stream on
// such requests, even when the body turns out not to be JSON. Mount
// the middleware only on routes that return complete JSON documents.
func FieldSelection(cfg Config) func(http.Handler) http.Handler {
	conf := cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			src := dynamicfields.RequestSource(r)
			if !conf.Filter.Active(src) {
				next.ServeHTTP(w, r)
				return
			}

			recorder := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
				header:         make(http.Header),
				maxBodySize:    conf.MaxBodySize,
			}

			next.ServeHTTP(recorder, r)

			// A body over the buffer limit was already forwarded
			// directly to the client.
			if recorder.bufferExceeded {
				conf.Logger.Debug("response body exceeded max body size, skipping field selection",
					observability.String("path", r.URL.Path),
				)
				return
			}

			applyFieldSelection(w, r, recorder, src, conf)
		})
	}
}

// applyFieldSelection filters the captured response body and writes the
// result to the original ResponseWriter. Every failure path writes the
// original body unchanged.
func applyFieldSelection(
	w http.ResponseWriter,
	r *http.Request,
	recorder *responseRecorder,
	src dynamicfields.QueryParamSource,
	conf Config,
) {
	_, span := observability.StartSpan(r.Context(), "middleware.FieldSelection",
		attribute.String("http.path", r.URL.Path),
	)
	defer span.End()

	bodyBytes := recorder.body.Bytes()

	var data any
	if err := json.Unmarshal(bodyBytes, &data); err != nil {
		// Not JSON — write original response as-is.
		writeRecordedResponse(w, recorder, bodyBytes)
		return
	}

	filtered := FilterDocument(data, conf.Filter, src)

	newBody, err := json.Marshal(filtered)
	if err != nil {
		conf.Logger.Warn("field selection failed to re-encode response, returning original",
			observability.String("path", r.URL.Path),
			observability.Error(err),
		)
		writeRecordedResponse(w, recorder, bodyBytes)
		return
	}

	for k, vals := range recorder.header {
		if k == "Content-Length" {
			continue
		}
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(newBody)))
	w.WriteHeader(recorder.statusCode)
	_, _ = w.Write(newBody)
}

// FilterDocument applies field selection to a decoded JSON document.
// A top-level object is filtered at the root position; each immediate
// object item of a top-level array is filtered as a list root child.
// Anything else passes through unchanged.
func FilterDocument(data any, filter *dynamicfields.Filter, src dynamicfields.QueryParamSource) any {
	switch doc := data.(type) {
	case map[string]any:
		return filterObject(doc, dynamicfields.PositionRoot, filter, src)
	case []any:
		out := make([]any, len(doc))
		for i, item := range doc {
			if obj, ok := item.(map[string]any); ok {
				out[i] = filterObject(obj, dynamicfields.PositionListRootChild, filter, src)
			} else {
				out[i] = item
			}
		}
		return out
	default:
		return data
	}
}

// filterObject keeps only the computed subset of an object's keys.
func filterObject(
	obj map[string]any,
	pos dynamicfields.Position,
	filter *dynamicfields.Filter,
	src dynamicfields.QueryParamSource,
) map[string]any {
	fields := dynamicfields.NewFieldSet()
	for name := range obj {
		fields.Add(dynamicfields.Field{Name: name})
	}

	kept, _ := filter.Compute(fields, pos, src)

	out := make(map[string]any, kept.Len())
	for _, name := range kept.Names() {
		out[name] = obj[name]
	}
	return out
}

// writeRecordedResponse writes the captured response back to the client
// unchanged.
func writeRecordedResponse(w http.ResponseWriter, recorder *responseRecorder, body []byte) {
	for k, vals := range recorder.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(recorder.statusCode)
	_, _ = w.Write(body)
}

// responseRecorder captures the response for field selection.
type responseRecorder struct {
	http.ResponseWriter
	statusCode     int
	body           *bytes.Buffer
	header         http.Header
	maxBodySize    int64
	headerWritten  bool
	bufferExceeded bool
}

// Header returns the captured header map.
func (r *responseRecorder) Header() http.Header {
	return r.header
}

// WriteHeader captures the status code.
func (r *responseRecorder) WriteHeader(code int) {
	if !r.headerWritten {
		r.statusCode = code
		r.headerWritten = true
	}
}

// Write captures the body bytes. Once the accumulated body exceeds
// maxBodySize, buffering stops: buffered data and all subsequent writes
// are forwarded directly to the underlying ResponseWriter, bypassing
// field selection.
func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.headerWritten {
		r.statusCode = http.StatusOK
		r.headerWritten = true
	}

	if r.bufferExceeded {
		return r.ResponseWriter.Write(b)
	}

	if int64(r.body.Len())+int64(len(b)) > r.maxBodySize {
		r.bufferExceeded = true

		for k, vals := range r.header {
			for _, v := range vals {
				r.ResponseWriter.Header().Add(k, v)
			}
		}
		r.ResponseWriter.WriteHeader(r.statusCode)

		if r.body.Len() > 0 {
			_, _ = r.ResponseWriter.Write(r.body.Bytes())
			r.body.Reset()
		}

		return r.ResponseWriter.Write(b)
	}

	return r.body.Write(b)
}

// Flush implements http.Flusher. It is a no-op: the body must be
// complete before field selection runs, so nothing is forwarded until
// the handler returns.
func (r *responseRecorder) Flush() {
}

// Hijack implements http.Hijacker for WebSocket support.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}
