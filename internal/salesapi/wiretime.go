package salesapi

import (
	"bytes"
	"fmt"
	"time"
)

// Timestamp tolerates the timestamp shapes the backend emits: RFC 3339 with
// or without sub-seconds, minute-precision local values with an explicit
// offset, bare dates, and null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	s := string(bytes.Trim(data, `"`))
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// PtrTime returns the time, or nil when the field was absent or null.
func (t Timestamp) PtrTime() *time.Time {
	if t.IsZero() {
		return nil
	}
	tt := t.Time
	return &tt
}
