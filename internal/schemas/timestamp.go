package schemas

import (
	"errors"
	"time"
)

// timestampLayouts are tried in order. The last two match what an HTML datetime-local input submits.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var errTimestamp = errors.New("unparseable timestamp")

// ParseTimestamp parses an expiry timestamp. Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errTimestamp
}
