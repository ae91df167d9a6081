// Package dateparse resolves free-form human-written date phrases
// ("4th March", "18 - 19 January", "28 December - 2 January, 2025")
// into concrete calendar date ranges.
//
// The resolver is a pure function of the phrase and an explicit
// context year; it never consults the wall clock. Callers decide the
// context year once at the outermost entry point so results stay
// deterministic and testable.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonamarkin/ose-calendar/internal/model"
)

// Range is a resolved event interval in calendar-exclusive form:
// End is the first day *after* the event's last calendar day, so
// End is always strictly later than Start.
type Range struct {
	Start model.Date
	End   model.Date
}

// monthTable maps lowercase English month names to month numbers.
// Scans iterate months in canonical calendar order (January through
// December) and the first name contained in the phrase wins; this is
// the documented tie-break for pathological phrases that mention two
// different months outside a range.
var monthTable = []struct {
	name  string
	month time.Month
}{
	{"january", time.January},
	{"february", time.February},
	{"march", time.March},
	{"april", time.April},
	{"may", time.May},
	{"june", time.June},
	{"july", time.July},
	{"august", time.August},
	{"september", time.September},
	{"october", time.October},
	{"november", time.November},
	{"december", time.December},
}

var (
	// Trailing ordinal after a digit sequence: "1st", "22nd", "3rd", "18th".
	ordinalRe = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)

	// Standalone 4-digit year token. Bounded so "2025" inside a longer
	// digit run is not matched.
	yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

	// First run of digits in a part is taken as the day number.
	digitsRe = regexp.MustCompile(`\d+`)
)

// rangeSeparators in match-priority order: " - " is checked before " to ".
var rangeSeparators = []string{" - ", " to "}

const unscheduledMarker = "not announced yet"

// Unscheduled reports whether the phrase is the explicit
// "not announced yet" signal rather than a parseable date. Callers
// use this to log unscheduled events less loudly than parse failures.
func Unscheduled(phrase string) bool {
	return strings.Contains(strings.ToLower(phrase), unscheduledMarker)
}

// Resolve interprets a raw date phrase against the given context year
// and returns the event's date range in calendar-exclusive form.
//
// The second return value is false when the phrase cannot be resolved:
// explicitly unscheduled phrases, missing month or day, malformed
// range splits, or day numbers outside the month's length. Resolution
// failure is a skip signal for the caller, not an error.
func Resolve(phrase string, contextYear int) (Range, bool) {
	if Unscheduled(phrase) {
		return Range{}, false
	}

	p := ordinalRe.ReplaceAllString(phrase, "$1")

	// An explicit year in the phrase overrides the context year. The
	// ", <year>" substring is stripped so the year token is not later
	// misread as a day number.
	if tok := yearRe.FindString(p); tok != "" {
		if y, err := strconv.Atoi(tok); err == nil {
			contextYear = y
		}
		p = strings.ReplaceAll(p, ", "+tok, "")
	}

	for _, sep := range rangeSeparators {
		if strings.Contains(p, sep) {
			return resolveRange(p, sep, contextYear)
		}
	}
	return resolveSingle(p, contextYear)
}

// resolveRange handles phrases with an explicit start and end part,
// e.g. "18 - 19 January" or "28 December to 2 January".
func resolveRange(p, sep string, year int) (Range, bool) {
	parts := strings.Split(p, sep)
	if len(parts) != 2 {
		return Range{}, false
	}

	startMonth, ok := findMonth(parts[0])
	if !ok {
		// Phrases like "18 - 19 January" carry the month only in the
		// end part; fall back to the first month found anywhere.
		startMonth, ok = findMonth(p)
		if !ok {
			return Range{}, false
		}
	}

	endMonth, ok := findMonth(parts[1])
	if !ok {
		// Single-month range: reuse the start month.
		endMonth = startMonth
	}

	startDay, ok := findDay(parts[0])
	if !ok {
		return Range{}, false
	}
	endDay, ok := findDay(parts[1])
	if !ok {
		return Range{}, false
	}

	if !validDay(year, startMonth, startDay) {
		return Range{}, false
	}

	start := model.Date{Year: year, Month: startMonth, Day: startDay}
	end := model.Date{Year: year, Month: endMonth, Day: endDay}

	// Ranges like "28 December - 2 January" wrap into the next year.
	// The rollover only fires when the end month number is strictly
	// smaller than the start month number.
	if end.Before(start) && endMonth < startMonth {
		end.Year++
	}

	// The end day is validated only after the rollover decision, so a
	// range ending on a leap day is judged against the year it
	// actually lands in ("28 December - 29 February" from 2023 ends
	// in leap-year 2024).
	if !validDay(end.Year, endMonth, endDay) {
		return Range{}, false
	}

	if end.Before(start) {
		return Range{}, false
	}

	return Range{Start: start, End: end.AddDays(1)}, true
}

// resolveSingle handles phrases naming a single day, e.g. "4 March".
// The result is still a half-open interval: End is the following day.
func resolveSingle(p string, year int) (Range, bool) {
	month, ok := findMonth(p)
	if !ok {
		return Range{}, false
	}
	day, ok := findDay(p)
	if !ok {
		return Range{}, false
	}
	if !validDay(year, month, day) {
		return Range{}, false
	}

	start := model.Date{Year: year, Month: month, Day: day}
	return Range{Start: start, End: start.AddDays(1)}, true
}

func findMonth(s string) (time.Month, bool) {
	lower := strings.ToLower(s)
	for _, m := range monthTable {
		if strings.Contains(lower, m.name) {
			return m.month, true
		}
	}
	return 0, false
}

func findDay(s string) (int, bool) {
	tok := digitsRe.FindString(s)
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// validDay rejects day numbers outside the month's actual length
// instead of letting date construction roll them into the next month
// ("31 April" is unresolvable, not May 1).
func validDay(year int, month time.Month, day int) bool {
	return day >= 1 && day <= daysIn(year, month)
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
