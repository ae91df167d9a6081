package model

import (
	"fmt"
	"time"
)

// Date is a plain calendar date: year, month, day. It carries no
// time-of-day and no timezone; all feed output treats dates as
// midnight UTC.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as ISO YYYY-MM-DD. Zero-padded, so
// lexicographic comparison of the strings matches date order.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON emits the date as a quoted ISO YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a quoted ISO YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(data))
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

// Event is a fully resolved event record as persisted to the JSON
// artifact and consumed by the ICS feed builder.
type Event struct {
	Name string `json:"name"`
	URL  string `json:"url"`

	// Start is the first calendar day of the event. End is exclusive:
	// the first day *after* the event ends, so every event is a
	// half-open interval of at least one day.
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`

	Mode     string `json:"mode"`
	Location string `json:"location"`

	// OriginalDate preserves the raw human-written date phrase the
	// dates were resolved from.
	OriginalDate string `json:"original_date"`
}
