// Package localtime handles the project's fixed-offset time encoding.
// Visit schedules are exchanged with the sales backend as local wall-clock
// values pinned to UTC+05:30. A naive local value is never transmitted:
// the offset is appended before any call, and values received back are
// rendered in the same zone without re-deriving an offset.
package localtime

import (
	"fmt"
	"strings"
	"time"
)

// LayoutLocal is the minute-precision wall-clock layout used by the UI.
const LayoutLocal = "2006-01-02T15:04"

// Offset is the fixed transmission offset.
const Offset = "+05:30"

// Zone is the fixed zone all schedules are interpreted in.
var Zone = time.FixedZone("UTC+05:30", 5*3600+30*60)

// EncodeSchedule validates a local "YYYY-MM-DDTHH:mm" value and returns the
// wire form with the fixed offset suffixed. The empty string is rejected.
func EncodeSchedule(local string) (string, error) {
	trimmed := strings.TrimSpace(local)
	if trimmed == "" {
		return "", fmt.Errorf("scheduled time is empty")
	}
	if _, err := time.ParseInLocation(LayoutLocal, trimmed, Zone); err != nil {
		return "", fmt.Errorf("invalid scheduled time %q: expected YYYY-MM-DDTHH:mm", trimmed)
	}
	return trimmed + Offset, nil
}

// ParseWire parses a wire value carrying an explicit offset, e.g.
// "2026-02-01T14:30+05:30" or a full RFC 3339 timestamp.
func ParseWire(wire string) (time.Time, error) {
	trimmed := strings.TrimSpace(wire)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	for _, layout := range []string{LayoutLocal + "Z07:00", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", trimmed)
}

// FormatLocal renders a timestamp as local wall-clock time in the fixed zone.
func FormatLocal(t time.Time) string {
	return t.In(Zone).Format(LayoutLocal)
}
