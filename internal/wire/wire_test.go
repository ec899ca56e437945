package wire

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStringList_Array(t *testing.T) {
	var s StringList
	if err := json.Unmarshal([]byte(`["go", " test ", ""]`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 2 || s[0] != "go" || s[1] != "test" {
		t.Errorf("list = %v, want [go test]", s)
	}
}

func TestStringList_CommaJoined(t *testing.T) {
	var s StringList
	if err := json.Unmarshal([]byte(`"work, urgent ,,ideas"`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 3 || s[0] != "work" || s[1] != "urgent" || s[2] != "ideas" {
		t.Errorf("list = %v, want [work urgent ideas]", s)
	}
}

func TestStringList_Null(t *testing.T) {
	s := StringList{"stale"}
	if err := json.Unmarshal([]byte(`null`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("list = %v, want empty", s)
	}
}

func TestStringList_MarshalAlwaysArray(t *testing.T) {
	data, err := json.Marshal(StringList(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("nil marshals to %s, want []", data)
	}
	data, _ = json.Marshal(StringList{"a", "b"})
	if string(data) != `["a","b"]` {
		t.Errorf("marshal = %s", data)
	}
}

func TestTime_Layouts(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", `"2024-03-01T10:30:00Z"`, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"nanos", `"2024-03-01T10:30:00.123456Z"`, time.Date(2024, 3, 1, 10, 30, 0, 123456000, time.UTC)},
		{"no zone", `"2024-03-01T10:30:00"`, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"date only", `"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Time
			if err := json.Unmarshal([]byte(tc.raw), &ts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ts.Equal(tc.want) {
				t.Errorf("time = %v, want %v", ts.Time, tc.want)
			}
		})
	}
}

func TestTime_NullAndEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`} {
		ts := Time{Time: time.Now()}
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Fatalf("%s: unexpected error: %v", raw, err)
		}
		if !ts.IsZero() {
			t.Errorf("%s decoded to %v, want zero time", raw, ts.Time)
		}
	}
}

func TestTime_Garbage(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"not a date"`), &ts); err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestTime_MarshalZeroIsNull(t *testing.T) {
	data, err := json.Marshal(Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("zero time marshals to %s, want null", data)
	}
}

func TestTime_DateOnly(t *testing.T) {
	ts := Time{Time: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)}
	if got := ts.DateOnly(); got != "2024-03-01" {
		t.Errorf("DateOnly() = %q", got)
	}
	if got := (Time{}).DateOnly(); got != "" {
		t.Errorf("zero DateOnly() = %q, want empty", got)
	}
}
