// Package feed turns resolved event records into the two published
// artifacts: a pretty-printed JSON array and an RFC-5545 calendar.
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jonamarkin/ose-calendar/internal/model"
)

const productID = "-//jonamarkin//ose-calendar//EN"

// Options controls calendar feed generation.
type Options struct {
	// CalendarName is the feed display name (X-WR-CALNAME).
	CalendarName string

	// UIDDomain is the fixed domain suffix of every VEVENT UID.
	UIDDomain string

	// RunTime is the wall-clock time of this run, used for DTSTAMP at
	// date-only precision (midnight UTC).
	RunTime time.Time
}

// SortEvents orders events ascending by start date, input order on
// ties. ISO dates are zero-padded, so the string comparison matches
// date order.
func SortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.String() < events[j].Start.String()
	})
}

// BuildJSON renders the event records as a pretty-printed JSON array.
// Events must already be sorted.
func BuildJSON(events []model.Event) ([]byte, error) {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// BuildICS renders the event records as an RFC-5545 calendar with one
// all-day VEVENT per event. Events must already be sorted; the
// exclusive end date is carried into DTEND unchanged.
func BuildICS(events []model.Event, opts Options) string {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)
	if opts.CalendarName != "" {
		cal.SetXWRCalName(opts.CalendarName)
	}

	stamp := model.DateOf(opts.RunTime.UTC()).Time()

	for _, ev := range events {
		e := cal.AddEvent(UID(ev, opts.UIDDomain))
		e.SetDtStampTime(stamp)
		e.SetAllDayStartAt(ev.Start.Time())
		e.SetAllDayEndAt(ev.End.Time())
		e.SetSummary(ev.Name)
		e.SetDescription(description(ev))
		if ev.URL != "" {
			e.SetURL(ev.URL)
		}
		if ev.Location != "" {
			e.SetLocation(ev.Location)
		}
	}

	return cal.Serialize()
}

// UID derives a feed-unique, deterministic identifier for an event:
// a hash of name and start date plus the fixed domain suffix.
// Repeated runs over unchanged input therefore produce byte-identical
// entries, which lets calendar clients de-duplicate across refreshes.
func UID(ev model.Event, domain string) string {
	sum := sha256.Sum256([]byte(ev.Name + "|" + ev.Start.String()))
	return hex.EncodeToString(sum[:8]) + "@" + domain
}

// description joins mode, location and URL on separate lines. The
// serializer escapes the newlines into the RFC-5545 TEXT \n form;
// passing pre-escaped text here would get double-escaped.
func description(ev model.Event) string {
	return "Mode: " + ev.Mode + "\n" + "Location: " + ev.Location + "\n" + "URL: " + ev.URL
}

// WriteArtifacts persists both artifacts into dir atomically
// (temp file + rename), creating dir if needed.
func WriteArtifacts(dir, jsonName string, jsonData []byte, icsName string, icsData []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(dir, jsonName), jsonData); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, icsName), icsData)
}

// writeFileAtomic writes data to path via a temp file in the same
// directory followed by a rename, so readers never observe a partial
// artifact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".osecal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
