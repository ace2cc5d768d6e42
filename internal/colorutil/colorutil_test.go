package colorutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#3b82f6", true},
		{"#FFFFFF", true},
		{"#fff", false},
		{"3b82f6", false},
		{"#3b82fg", false},
		{"#3b82f6ff", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidHex(tt.in))
		})
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"#ffffff", "0 0% 100%"},
		{"#000000", "0 0% 0%"},
		{"#ff0000", "0 100% 50%"},
		{"#002736", "197 100% 11%"},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := HSL(tt.hex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := HSL("navy")
	assert.Error(t, err)
}
