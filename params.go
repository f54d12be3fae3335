package dynamicfields

import (
	"net/http"
	"net/url"
)

// QueryParamSource is the narrow capability a request object must
// provide: look up a query parameter by name. The boolean reports
// presence, so an empty value ("?fields") is distinguishable from an
// absent parameter.
//
// Adapters for concrete request shapes implement this interface at the
// framework boundary instead of the filter probing request attributes
// at the call site.
type QueryParamSource interface {
	Get(name string) (value string, present bool)
}

// SourceValidator is an optional interface a QueryParamSource may
// implement to report that no parameter bag is reachable at all (for
// example a request with neither a URL query nor a parsed form). The
// filter treats an invalid source as "no parameters supplied" and
// reports a diagnostic.
type SourceValidator interface {
	Valid() bool
}

// ValuesSource adapts url.Values to QueryParamSource. Only the first
// value of a repeated parameter is considered.
type ValuesSource url.Values

// Get implements QueryParamSource.
func (v ValuesSource) Get(name string) (string, bool) {
	vals, ok := v[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Valid implements SourceValidator.
func (v ValuesSource) Valid() bool {
	return v != nil
}

// requestSource reads query parameters from an *http.Request, checking
// the URL query first and falling back to the parsed form. The fallback
// covers request objects built without a URL (some test harnesses
// populate Form directly).
type requestSource struct {
	r *http.Request
}

// RequestSource adapts an *http.Request to QueryParamSource. A nil
// request yields a nil source, which the filter treats as "no request
// context".
func RequestSource(r *http.Request) QueryParamSource {
	if r == nil {
		return nil
	}
	return requestSource{r: r}
}

// Get implements QueryParamSource.
func (s requestSource) Get(name string) (string, bool) {
	if s.r.URL != nil {
		if v, ok := ValuesSource(s.r.URL.Query()).Get(name); ok {
			return v, true
		}
	}
	if s.r.Form != nil {
		return ValuesSource(s.r.Form).Get(name)
	}
	return "", false
}

// Valid implements SourceValidator.
func (s requestSource) Valid() bool {
	return s.r.URL != nil || s.r.Form != nil
}
