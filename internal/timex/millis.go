// Package timex provides JSON-friendly time wrappers: an epoch-millisecond
// timestamp that tolerates mixed wire formats, and a duration that can be
// written as "30s" in config files.
package timex

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Millis is a timestamp in milliseconds since the Unix epoch.
//
// Remote rows have historically stored timestamps either as numeric
// epoch-ms or as ISO-8601 strings in the same column. Millis accepts both
// on read and always writes a number, so a round-trip normalizes the
// column to one format and keeps sort order intact.
type Millis int64

// Now returns the current time as Millis.
func Now() Millis {
	return Millis(time.Now().UnixMilli())
}

// FromTime converts a time.Time to Millis.
func FromTime(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time converts back to time.Time in UTC.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

// MarshalJSON always emits a JSON number (epoch-ms).
func (m Millis) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// UnmarshalJSON accepts a JSON number (epoch-ms), a numeric string, or an
// ISO-8601 / RFC3339 timestamp string.
func (m *Millis) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*m = 0
		return nil
	}

	if s[0] != '"' {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Allow fractional epoch values some backends emit.
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return fmt.Errorf("timex: cannot parse %q as epoch-ms: %w", s, err)
			}
			*m = Millis(int64(f))
			return nil
		}
		*m = Millis(n)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		*m = Millis(n)
		return nil
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, str); err == nil {
			*m = FromTime(t)
			return nil
		}
	}
	return fmt.Errorf("timex: cannot parse %q as timestamp", str)
}
