package indexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errFieldMissing = errors.New("field missing")

// record is one list entry kept as raw fields so alternate field names and number encodings can be tolerated
type record map[string]json.RawMessage

// str returns the first present field among keys as a string. Numbers are accepted as their literal text.
func (r record) str(keys ...string) string {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || isNull(raw) {
			continue
		}
		if s, err := rawString(raw); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// integer returns the first present field among keys as an integer. Accepted encodings are JSON numbers,
// decimal or 0x-prefixed strings, and RFC3339 timestamps (converted to unix seconds).
func (r record) integer(keys ...string) (int64, error) {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || isNull(raw) {
			continue
		}
		s, err := rawString(raw)
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", key, err)
		}
		n, err := parseInteger(s)
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", key, err)
		}
		return n, nil
	}
	return 0, errFieldMissing
}

// optionalInteger is integer with missing fields mapped to zero
func (r record) optionalInteger(keys ...string) (int64, error) {
	n, err := r.integer(keys...)
	if errors.Is(err, errFieldMissing) {
		return 0, nil
	}
	return n, err
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// rawString decodes a JSON string or number into its text form
func rawString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("unsupported value %s", string(raw))
}

func parseInteger(s string) (int64, error) {
	if s == "" {
		return 0, errFieldMissing
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Some indexers report floats for timestamps
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}
	return 0, fmt.Errorf("invalid integer %q", s)
}

// cursorString decodes an optional cursor field that may be a string, a number or null
func cursorString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	s, err := rawString(raw)
	if err != nil {
		return ""
	}
	return s
}
