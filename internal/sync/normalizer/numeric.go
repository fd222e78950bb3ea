package normalizer

import (
	"strconv"
	"strings"
	"time"
)

// magnitude suffixes some feeds append to large values ("2.8T" marketcap,
// "21.5B" revenue).
var magnitudeSuffixes = map[byte]float64{
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
	'T': 1e12,
}

// missing values feeds represent as text rather than omitting the field.
var missingValues = map[string]bool{
	"":     true,
	"-":    true,
	"--":   true,
	"n/a":  true,
	"na":   true,
	"nan":  true,
	"none": true,
	"null": true,
}

// parseOptionalFloat coerces a feed value to a float, stripping currency
// symbols, thousand separators, percent signs and magnitude suffixes. A
// missing value yields (nil, true); a present but unparseable value yields
// (nil, false). Missing is never coerced to zero.
func parseOptionalFloat(raw string) (*float64, bool) {
	s := strings.TrimSpace(raw)
	if missingValues[strings.ToLower(s)] {
		return nil, true
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")

	multiplier := 1.0
	if len(s) > 0 {
		if m, ok := magnitudeSuffixes[s[len(s)-1]]; ok {
			multiplier = m
			s = s[:len(s)-1]
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, false
	}
	v *= multiplier
	return &v, true
}

// dateLayouts are tried in order when parsing feed dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
}

// parseDate parses a feed date into UTC. Returns false when the value is
// absent or not resolvable as a date.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if missingValues[strings.ToLower(s)] {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// optionalString returns nil for missing feed values and a pointer to the
// trimmed text otherwise. Economic calendar values stay free-form.
func optionalString(raw string) *string {
	s := strings.TrimSpace(raw)
	if missingValues[strings.ToLower(s)] {
		return nil
	}
	return &s
}
