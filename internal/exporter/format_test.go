package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{
			name:  "utc instant",
			input: time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC),
			want:  "2024-01-01T00:15:00Z",
		},
		{
			name:  "offset instant normalized to utc",
			input: time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("EET", 2*3600)),
			want:  "2024-01-01T00:00:00Z",
		},
		{
			name:  "sub-second precision truncated by format",
			input: time.Date(2024, 6, 15, 12, 30, 45, 987654321, time.UTC),
			want:  "2024-06-15T12:30:45Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimestamp(tt.input))
		})
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{name: "already short", input: 1.5, want: 1.5},
		{name: "rounds down", input: 103.42135935, want: 103.4214},
		{name: "rounds half up", input: 0.00005, want: 0.0001},
		{name: "negative", input: -2.71828, want: -2.7183},
		{name: "zero", input: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, round4(tt.input), 1e-12)
		})
	}
}
