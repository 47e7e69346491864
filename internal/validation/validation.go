// Package validation holds the pure input checks run before any mutation.
package validation

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinPasswordLength is the shortest accepted password after trimming, in characters.
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest password bcrypt can hash.
	MaxPasswordBytes = 72
)

var addressPattern = regexp.MustCompile(`^[a-z0-9](\.?[a-z0-9]){1,}@gmail\.com$`)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsAllowedAddress reports whether s is a Gmail-style address.
func IsAllowedAddress(s string) bool {
	return addressPattern.MatchString(NormalizeUsername(s))
}

// IsStrongPassword reports whether the trimmed password has enough characters.
func IsStrongPassword(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= MinPasswordLength
}

// FitsPasswordLimit reports whether the trimmed password fits in MaxPasswordBytes.
func FitsPasswordLimit(s string) bool {
	return len(strings.TrimSpace(s)) <= MaxPasswordBytes
}

// IsNonNegative reports whether f is zero or positive.
func IsNonNegative(f float64) bool {
	return f >= 0
}

// ToNumber coerces a decoded JSON value to a float64.
// Numbers and numeric strings convert; anything else becomes 0.
// provided is false when v is nil (the field was absent or null).
func ToNumber(v interface{}) (n float64, provided bool) {
	if v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		n = t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, true
		}
		n = f
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, true
		}
		n = f
	default:
		return 0, true
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, true
	}
	return n, true
}

// ParseID extracts a record id from a decoded JSON value or a query string.
func ParseID(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		id, err := t.Int64()
		return id, err == nil
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// ParseDate parses an ISO-8601 timestamp or a plain calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Missing returns the names of the required fields whose value is blank.
// Arguments are name/value pairs.
func Missing(pairs ...string) []string {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	return missing
}
