// Package wire provides tolerant JSON field types shared by transfer
// objects. Backends of different vintages serialize the same field as a
// native array, a comma-joined string, or omit it entirely; these types
// normalize all shapes on decode.
package wire

import (
	"encoding/json"
	"strings"
	"time"
)

// StringList decodes either a JSON array of strings or a single
// comma-joined string into an ordered list of trimmed, non-empty
// strings. Absent or null fields decode to an empty list.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	*s = StringList{}
	if string(data) == "null" {
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = clean(arr)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = clean(strings.Split(joined, ","))
	return nil
}

// MarshalJSON always emits a native array, never the legacy joined form.
func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func clean(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Time decodes ISO-8601 timestamps and date-only strings. Absent or
// null fields decode to the zero time; the transport layer never
// fabricates "now".
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: raw, LayoutElem: time.RFC3339, ValueElem: raw}
}

// MarshalJSON emits RFC 3339, or null for the zero time.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// DateOnly emits just the date portion, used by date-only wire fields.
func (t Time) DateOnly() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
