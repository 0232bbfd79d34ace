package exporter

import (
	"math"
	"time"
)

// TimestampFormat is the fixed wire format for every timestamp in the
// output document. The charting frontend parses exactly this shape.
const TimestampFormat = "2006-01-02T15:04:05Z07:00"

// formatTimestamp renders an instant in the output wire format, always
// in UTC.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// round4 rounds a value to 4 decimal places. Applied only at
// serialization so aggregation keeps full precision.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
