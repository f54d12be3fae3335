package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "seconds",
			input:    `"30s"`,
			expected: 30 * time.Second,
		},
		{
			name:     "compound",
			input:    `"1h30m"`,
			expected: 90 * time.Minute,
		},
		{
			name:     "milliseconds",
			input:    `"300ms"`,
			expected: 300 * time.Millisecond,
		},
		{
			name:     "empty string is zero",
			input:    `""`,
			expected: 0,
		},
		{
			name:    "invalid",
			input:   `"soon"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := yaml.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration())
		})
	}
}

func TestDuration_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, "5s\n", string(out))
}
