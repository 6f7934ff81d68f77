package fields

import (
	"log/slog"
	"time"
)

// dateFormats is the ordered list of accepted date layouts: day-first with
// the three common separators, then year-first. The first successful parse
// wins.
var dateFormats = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"2006-01-02",
}

// ParseDate normalizes a heterogeneous date string into a calendar date.
// Returns false when no layout matches; an unrecognized string is logged
// for diagnostics but is not an error.
func ParseDate(raw string, logger *slog.Logger) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("fields.date.unrecognized_format", "raw", raw)
	return time.Time{}, false
}
