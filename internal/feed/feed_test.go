package feed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonamarkin/ose-calendar/internal/model"
)

func testEvents() []model.Event {
	return []model.Event{
		{
			Name:         "Cloud Meetup",
			URL:          "https://cloudmeetup.example.org",
			Start:        model.Date{Year: 2025, Month: time.June, Day: 10},
			End:          model.Date{Year: 2025, Month: time.June, Day: 11},
			Mode:         "Virtual",
			Location:     "Online",
			OriginalDate: "10th June",
		},
		{
			Name:         "FOSS Summit",
			URL:          "https://fosssummit.example.org",
			Start:        model.Date{Year: 2025, Month: time.January, Day: 18},
			End:          model.Date{Year: 2025, Month: time.January, Day: 20},
			Mode:         "In-person",
			Location:     "Accra, Ghana",
			OriginalDate: "18th - 19th January, 2025",
		},
	}
}

func TestSortEvents(t *testing.T) {
	events := testEvents()
	SortEvents(events)

	require.Len(t, events, 2)
	assert.Equal(t, "FOSS Summit", events[0].Name)
	assert.Equal(t, "Cloud Meetup", events[1].Name)
}

func TestSortEventsStableOnTies(t *testing.T) {
	day := model.Date{Year: 2025, Month: time.March, Day: 4}
	events := []model.Event{
		{Name: "First", Start: day, End: day.AddDays(1)},
		{Name: "Second", Start: day, End: day.AddDays(1)},
	}
	SortEvents(events)

	assert.Equal(t, "First", events[0].Name)
	assert.Equal(t, "Second", events[1].Name)
}

func TestBuildJSON(t *testing.T) {
	events := testEvents()
	SortEvents(events)

	data, err := BuildJSON(events)
	require.NoError(t, err)

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, map[string]string{
		"name":          "FOSS Summit",
		"url":           "https://fosssummit.example.org",
		"start_date":    "2025-01-18",
		"end_date":      "2025-01-20",
		"mode":          "In-person",
		"location":      "Accra, Ghana",
		"original_date": "18th - 19th January, 2025",
	}, decoded[0])
}

func TestBuildICS(t *testing.T) {
	events := testEvents()
	SortEvents(events)

	out := BuildICS(events, Options{
		CalendarName: "Open Source Events",
		UIDDomain:    "ose-calendar",
		RunTime:      time.Date(2025, 6, 1, 13, 45, 12, 0, time.UTC),
	})

	// The output must parse back as a valid calendar.
	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)

	first := cal.Events()[0]
	uid := first.GetProperty(ics.ComponentPropertyUniqueId)
	require.NotNil(t, uid)
	assert.True(t, strings.HasSuffix(uid.Value, "@ose-calendar"))

	summary := first.GetProperty(ics.ComponentPropertySummary)
	require.NotNil(t, summary)
	assert.Equal(t, "FOSS Summit", summary.Value)

	// All-day dates: start as-is, exclusive end carried through.
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250118")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250120")

	// DTSTAMP is the run date at midnight UTC, not the full run time.
	assert.Contains(t, out, "DTSTAMP:20250601T000000Z")

	// Description carries mode, location and URL joined with literal
	// \n escapes in the serialized feed, not double-escaped \\n.
	assert.Contains(t, out, `Mode: In-person\nLocation: Accra`)
	assert.NotContains(t, out, `\\n`)
}

func TestUIDDeterministic(t *testing.T) {
	ev := testEvents()[0]

	a := UID(ev, "ose-calendar")
	b := UID(ev, "ose-calendar")
	assert.Equal(t, a, b)

	// Different start date yields a different identifier.
	moved := ev
	moved.Start = moved.Start.AddDays(1)
	assert.NotEqual(t, a, UID(moved, "ose-calendar"))
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	err := WriteArtifacts(dir, "events.json", []byte("[]\n"), "calendar.ics", []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n"))
	require.NoError(t, err)

	jsonData, err := os.ReadFile(filepath.Join(dir, "events.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(jsonData))

	icsData, err := os.ReadFile(filepath.Join(dir, "calendar.ics"))
	require.NoError(t, err)
	assert.Contains(t, string(icsData), "BEGIN:VCALENDAR")

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
