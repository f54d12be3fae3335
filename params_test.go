package dynamicfields

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuesSource_Get(t *testing.T) {
	tests := []struct {
		name        string
		values      url.Values
		param       string
		wantValue   string
		wantPresent bool
	}{
		{
			name:        "present parameter",
			values:      url.Values{"fields": {"id,name"}},
			param:       "fields",
			wantValue:   "id,name",
			wantPresent: true,
		},
		{
			name:        "present but empty",
			values:      url.Values{"fields": {""}},
			param:       "fields",
			wantValue:   "",
			wantPresent: true,
		},
		{
			name:        "absent parameter",
			values:      url.Values{"fields": {"id"}},
			param:       "omit",
			wantPresent: false,
		},
		{
			name:        "repeated parameter uses first value",
			values:      url.Values{"fields": {"id", "name"}},
			param:       "fields",
			wantValue:   "id",
			wantPresent: true,
		},
		{
			name:        "empty value list",
			values:      url.Values{"fields": {}},
			param:       "fields",
			wantPresent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, present := ValuesSource(tt.values).Get(tt.param)
			assert.Equal(t, tt.wantPresent, present)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestValuesSource_Valid(t *testing.T) {
	assert.True(t, ValuesSource(url.Values{}).Valid())
	assert.False(t, ValuesSource(nil).Valid())
}

func TestRequestSource_NilRequest(t *testing.T) {
	assert.Nil(t, RequestSource(nil))
}

func TestRequestSource_URLQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users?fields=id,name&omit=", nil)
	src := RequestSource(r)
	require.NotNil(t, src)

	value, present := src.Get("fields")
	assert.True(t, present)
	assert.Equal(t, "id,name", value)

	// Bare "omit=" is present with an empty value.
	value, present = src.Get("omit")
	assert.True(t, present)
	assert.Equal(t, "", value)

	_, present = src.Get("page")
	assert.False(t, present)
}

func TestRequestSource_BareParameter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users?fields", nil)

	value, present := RequestSource(r).Get("fields")
	assert.True(t, present)
	assert.Equal(t, "", value)
}

func TestRequestSource_FormFallback(t *testing.T) {
	// Some test harnesses build requests without a URL query and
	// populate Form directly.
	r := &http.Request{
		Form: url.Values{"fields": {"id"}},
	}

	src := RequestSource(r)
	value, present := src.Get("fields")
	assert.True(t, present)
	assert.Equal(t, "id", value)
}

func TestRequestSource_Valid(t *testing.T) {
	withURL := httptest.NewRequest(http.MethodGet, "/users", nil)
	src := RequestSource(withURL)
	v, ok := src.(SourceValidator)
	require.True(t, ok)
	assert.True(t, v.Valid())

	bare := &http.Request{}
	src = RequestSource(bare)
	v, ok = src.(SourceValidator)
	require.True(t, ok)
	assert.False(t, v.Valid())
}
