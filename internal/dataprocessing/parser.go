package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"presviz/pkg/contracts/domain"
)

// commentPrefix marks lines that are ignored entirely.
const commentPrefix = "#"

// Column label synonyms, in priority order. First match wins.
var (
	timeKeys  = []string{"time", "timestamp", "date", "datetime"}
	valueKeys = []string{"pressure", "prs", "kpa", "psi", "value", "val"}
)

// naValues are the sentinel strings treated as missing values.
var naValues = map[string]bool{
	"":    true,
	"na":  true,
	"nan": true,
}

// delimiterCandidates tried during sniffing, in priority order.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// ParseOptions carries the run-level settings the parser needs.
type ParseOptions struct {
	// Location interprets timestamps that carry no explicit offset.
	// Nil means UTC.
	Location *time.Location
	// Units is the assumed input unit, "psi" or "kPa".
	Units string
}

// conversionFactor returns the multiplier from the input unit to kPa.
func (o ParseOptions) conversionFactor() float64 {
	if strings.EqualFold(o.Units, domain.UnitPSI) {
		return domain.PSIToKPa
	}
	return 1.0
}

func (o ParseOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// ParseFile reads one sensor log file and returns its normalized points:
// timestamps in UTC, values in kPa, rows with an unparseable timestamp or
// value dropped. An empty or fully-unparseable file yields zero points and
// no error; failures to open or read the file are returned to the caller,
// which skips the file.
func ParseFile(path string, opts ParseOptions) ([]domain.Point, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return parseWorkbook(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return parseDelimited(f, opts)
}

// parseDelimited handles the delimited-text path: sniff the delimiter,
// split rows, then run the shared column-inference and row parsing.
func parseDelimited(r io.Reader, opts ParseOptions) ([]domain.Point, error) {
	lines, err := readDataLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	delim, ok := sniffDelimiter(lines)

	var rows [][]string
	if ok {
		reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		reader.LazyQuotes = true
		rows, err = reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read delimited rows: %w", err)
		}
	} else {
		// No recognizable delimiter: fall back to runs of whitespace
		for _, line := range lines {
			rows = append(rows, strings.Fields(line))
		}
	}

	return ParseRows(rows, opts), nil
}

// readDataLines returns the non-blank, non-comment lines of the input.
func readDataLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

// sniffDelimiter picks the candidate delimiter that appears on every
// sampled line. When none does, the caller falls back to whitespace
// splitting.
func sniffDelimiter(lines []string) (rune, bool) {
	sample := lines
	if len(sample) > 10 {
		sample = sample[:10]
	}

	for _, candidate := range delimiterCandidates {
		onEvery := true
		for _, line := range sample {
			if !strings.ContainsRune(line, candidate) {
				onEvery = false
				break
			}
		}
		if onEvery {
			return candidate, true
		}
	}
	return 0, false
}

// columnLayout is the result of column inference for one file.
type columnLayout struct {
	timeIdx   int
	valueIdx  int
	hasHeader bool
}

// inferColumns decides which column holds time and which holds the value.
// A recognized label in the first row selects that column and marks the
// row as a header; otherwise the layout falls back to fixed positions:
// time in column 0, value in column 1 (or 0 when only one column exists).
func inferColumns(first []string) columnLayout {
	labels := make([]string, len(first))
	for i, cell := range first {
		labels[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	timeIdx, timeMatched := matchColumn(labels, timeKeys)
	valueIdx, valueMatched := matchColumn(labels, valueKeys)

	layout := columnLayout{
		timeIdx:   0,
		valueIdx:  0,
		hasHeader: timeMatched || valueMatched,
	}
	if len(first) > 1 {
		layout.valueIdx = 1
	}
	if timeMatched {
		layout.timeIdx = timeIdx
	}
	if valueMatched {
		layout.valueIdx = valueIdx
	}
	if layout.valueIdx == layout.timeIdx && len(first) > 1 {
		layout.valueIdx = 1
	}
	return layout
}

// matchColumn finds the first key (in priority order) present among the
// lowercased labels.
func matchColumn(labels []string, keys []string) (int, bool) {
	for _, key := range keys {
		for i, label := range labels {
			if label == key {
				return i, true
			}
		}
	}
	return 0, false
}

// ParseRows runs column inference on pre-split rows and parses every data
// row, dropping the ones whose timestamp or value cannot be parsed. The
// xlsx path feeds sheet rows through here so both input formats share one
// set of semantics.
func ParseRows(rows [][]string, opts ParseOptions) []domain.Point {
	if len(rows) == 0 {
		return nil
	}

	layout := inferColumns(rows[0])
	factor := opts.conversionFactor()
	loc := opts.location()

	start := 0
	if layout.hasHeader {
		start = 1
	}

	var points []domain.Point
	for _, row := range rows[start:] {
		if layout.timeIdx >= len(row) || layout.valueIdx >= len(row) {
			continue
		}

		ts, err := parseTimestamp(row[layout.timeIdx], loc)
		if err != nil {
			continue
		}

		value, ok := parseValue(row[layout.valueIdx])
		if !ok {
			continue
		}

		points = append(points, domain.Point{
			Time:  ts,
			Value: value * factor,
		})
	}
	return points
}

// timestampLayouts tried in order. Zoned layouts keep their offset; naive
// layouts are interpreted in the configured input zone.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
	}
)

// allDigits reports whether s is a non-empty run of ASCII digits.
func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseTimestamp parses one time field and normalizes it to UTC.
// All-digit fields of epoch magnitude are treated as Unix seconds, a
// common raw-logger format.
func parseTimestamp(field string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(field)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if allDigits(s) && len(s) >= 9 && len(s) <= 11 {
		sec, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return time.Unix(sec, 0).UTC(), nil
		}
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseValue parses one value field. Missing-value sentinels and
// non-finite results drop the row.
func parseValue(field string) (float64, bool) {
	s := strings.TrimSpace(field)
	if naValues[strings.ToLower(s)] {
		return 0, false
	}

	// Tolerate thousands separators in exported logs
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
