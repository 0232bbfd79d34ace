package dataprocessing

import (
	"sort"
	"time"

	"presviz/pkg/contracts/domain"
)

// Aggregate finalizes the concatenated rows of one station: sort by
// timestamp ascending, then collapse rows at identical instants into a
// single row holding their mean. The result has strictly increasing,
// unique timestamps. Input order does not matter.
func Aggregate(points []domain.Point) []domain.Point {
	if len(points) == 0 {
		return nil
	}

	sorted := make([]domain.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := make([]domain.Point, 0, len(sorted))
	i := 0
	for i < len(sorted) {
		j := i + 1
		sum := sorted[i].Value
		for j < len(sorted) && sorted[j].Time.Equal(sorted[i].Time) {
			sum += sorted[j].Value
			j++
		}
		out = append(out, domain.Point{
			Time:  sorted[i].Time,
			Value: sum / float64(j-i),
		})
		i = j
	}
	return out
}

// Resample replaces a deduplicated, sorted series with fixed-width bucket
// means. Buckets are aligned to the Unix epoch and keyed by their start
// instant; buckets with no data produce no output point. Values keep full
// float64 precision; rounding happens at serialization.
func Resample(points []domain.Point, interval time.Duration) []domain.Point {
	if len(points) == 0 || interval <= 0 {
		return points
	}

	var (
		out      []domain.Point
		current  time.Time
		sum      float64
		count    int
		haveOpen bool
	)

	flush := func() {
		if haveOpen {
			out = append(out, domain.Point{
				Time:  current,
				Value: sum / float64(count),
			})
		}
	}

	for _, p := range points {
		start := bucketStart(p.Time, interval)
		if !haveOpen || !start.Equal(current) {
			flush()
			current = start
			sum = 0
			count = 0
			haveOpen = true
		}
		sum += p.Value
		count++
	}
	flush()

	return out
}

// bucketStart truncates t down to the nearest epoch-aligned multiple of
// the interval, in UTC.
func bucketStart(t time.Time, interval time.Duration) time.Time {
	ns := t.UnixNano()
	width := interval.Nanoseconds()
	rem := ns % width
	if rem < 0 {
		rem += width
	}
	return time.Unix(0, ns-rem).UTC()
}
