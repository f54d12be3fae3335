package dynamicfields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSet_AddAndLookup(t *testing.T) {
	fs := NewFieldSet()
	fs.Add(Field{Name: "id"})
	fs.Add(Field{Name: "user_name"})
	fs.Add(Field{Name: "email", OmitEmpty: true})

	assert.Equal(t, 3, fs.Len())
	assert.Equal(t, []string{"id", "user_name", "email"}, fs.Names())
	assert.True(t, fs.Has("email"))
	assert.False(t, fs.Has("password"))

	f, ok := fs.Get("email")
	require.True(t, ok)
	assert.True(t, f.OmitEmpty)

	_, ok = fs.Get("missing")
	assert.False(t, ok)
}

func TestFieldSet_AddReplacesKeepingOrder(t *testing.T) {
	fs := NewFieldSet()
	fs.Add(Field{Name: "id"})
	fs.Add(Field{Name: "name"})
	fs.Add(Field{Name: "id", OmitEmpty: true})

	assert.Equal(t, []string{"id", "name"}, fs.Names())

	f, ok := fs.Get("id")
	require.True(t, ok)
	assert.True(t, f.OmitEmpty)
}

func TestFieldSet_Restrict(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		keep     map[string]bool
		expected []string
	}{
		{
			name:     "keep subset preserves order",
			fields:   []string{"id", "name", "email", "created_at"},
			keep:     map[string]bool{"email": true, "id": true},
			expected: []string{"id", "email"},
		},
		{
			name:     "keep nothing",
			fields:   []string{"id", "name"},
			keep:     map[string]bool{},
			expected: []string{},
		},
		{
			name:     "unknown names ignored",
			fields:   []string{"id"},
			keep:     map[string]bool{"id": true, "ghost": true},
			expected: []string{"id"},
		},
		{
			name:     "empty set",
			fields:   nil,
			keep:     map[string]bool{"id": true},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFieldSet()
			for _, name := range tt.fields {
				fs.Add(Field{Name: name})
			}

			out := fs.Restrict(tt.keep)
			assert.Equal(t, tt.expected, out.Names())
		})
	}
}

func TestFieldSet_NamesReturnsCopy(t *testing.T) {
	fs := NewFieldSet()
	fs.Add(Field{Name: "id"})
	fs.Add(Field{Name: "name"})

	names := fs.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"id", "name"}, fs.Names())
}
