package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2022-01-01", false},
		{"2023-12-31", false},
		{"2024-02-29", false}, // leap day
		{"2022-13-99", true},  // invalid month and day
		{"2022-02-30", true},  // day out of range for month
		{"2023-02-29", true},  // not a leap year
		{"2022-1-1", true},    // missing zero padding
		{"20220101", true},    // wrong field count
		{"2022/01/01", true},  // wrong separator
		{"not-a-date", true},
		{"", true},
	}
	for _, tt := range tests {
		got, err := ParseEventDate(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input: %q", tt.in)
			continue
		}
		require.NoError(t, err, "input: %q", tt.in)
		assert.Equal(t, tt.in, FormatEventDate(got))
	}
}
