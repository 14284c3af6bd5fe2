package daily

import "time"

// DateLayout is the calendar-day key format.
const DateLayout = "2006-01-02"

// DateKey returns the YYYY-MM-DD key for t in loc. A nil loc means UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
