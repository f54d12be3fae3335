package middleware

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/relique/dynamicfields"
	"github.com/relique/dynamicfields/internal/observability"
)

// GinSource adapts a gin request to a QueryParamSource.
func GinSource(c *gin.Context) dynamicfields.QueryParamSource {
	if c == nil {
		return nil
	}
	return dynamicfields.RequestSource(c.Request)
}

// GinFieldSelection returns a gin middleware with the same behavior as
// FieldSelection.
func GinFieldSelection(cfg Config) gin.HandlerFunc {
	conf := cfg.withDefaults()

	return func(c *gin.Context) {
		src := GinSource(c)
		if !conf.Filter.Active(src) {
			c.Next()
			return
		}

		writer := &ginBodyWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			maxBodySize:    conf.MaxBodySize,
		}
		c.Writer = writer

		c.Next()

		c.Writer = writer.ResponseWriter

		if writer.bufferExceeded {
			conf.Logger.Debug("response body exceeded max body size, skipping field selection",
				observability.String("path", c.Request.URL.Path),
			)
			return
		}

		writeGinFiltered(c, writer.body.Bytes(), src, conf)
	}
}

// writeGinFiltered filters the captured body and writes it to the
// underlying gin writer. Failure paths write the original body.
func writeGinFiltered(c *gin.Context, bodyBytes []byte, src dynamicfields.QueryParamSource, conf Config) {
	_, span := observability.StartSpan(c.Request.Context(), "middleware.GinFieldSelection",
		attribute.String("http.path", c.Request.URL.Path),
	)
	defer span.End()

	var data any
	if err := json.Unmarshal(bodyBytes, &data); err != nil {
		_, _ = c.Writer.Write(bodyBytes)
		return
	}

	filtered := FilterDocument(data, conf.Filter, src)

	newBody, err := json.Marshal(filtered)
	if err != nil {
		conf.Logger.Warn("field selection failed to re-encode response, returning original",
			observability.String("path", c.Request.URL.Path),
			observability.Error(err),
		)
		_, _ = c.Writer.Write(bodyBytes)
		return
	}

	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.Header().Set("Content-Length", strconv.Itoa(len(newBody)))
	_, _ = c.Writer.Write(newBody)
}

// ginBodyWriter buffers the response body written through a gin
// context. The status recorded by gin is flushed by the first write to
// the underlying writer.
type ginBodyWriter struct {
	gin.ResponseWriter
	body           *bytes.Buffer
	maxBodySize    int64
	bufferExceeded bool
}

// Write captures body bytes, falling back to direct writes once the
// buffer limit is exceeded.
func (w *ginBodyWriter) Write(b []byte) (int, error) {
	if w.bufferExceeded {
		return w.ResponseWriter.Write(b)
	}

	if int64(w.body.Len())+int64(len(b)) > w.maxBodySize {
		w.bufferExceeded = true

		if w.body.Len() > 0 {
			_, _ = w.ResponseWriter.Write(w.body.Bytes())
			w.body.Reset()
		}

		return w.ResponseWriter.Write(b)
	}

	return w.body.Write(b)
}

// WriteString captures string writes through Write.
func (w *ginBodyWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
