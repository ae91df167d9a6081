package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateAddDaysRollsMonths(t *testing.T) {
	d := Date{Year: 2025, Month: time.January, Day: 31}
	assert.Equal(t, "2025-02-01", d.AddDays(1).String())

	d = Date{Year: 2025, Month: time.December, Day: 31}
	assert.Equal(t, "2026-01-01", d.AddDays(1).String())
}

func TestDateStringZeroPadded(t *testing.T) {
	d := Date{Year: 2025, Month: time.March, Day: 4}
	assert.Equal(t, "2025-03-04", d.String())
}

func TestEventJSONFieldNames(t *testing.T) {
	ev := Event{
		Name:         "FOSS Summit",
		URL:          "https://fosssummit.example.org",
		Start:        Date{Year: 2025, Month: time.January, Day: 18},
		End:          Date{Year: 2025, Month: time.January, Day: 20},
		Mode:         "In-person",
		Location:     "Accra, Ghana",
		OriginalDate: "18th - 19th January, 2025",
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "2025-01-18", fields["start_date"])
	assert.Equal(t, "2025-01-20", fields["end_date"])
	assert.Equal(t, "18th - 19th January, 2025", fields["original_date"])
}
