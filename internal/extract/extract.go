// Package extract scans the source markdown listing for event
// entries. The listing is human-maintained, so extraction is a fixed
// two-line shape match: entries that do not fit the shape exactly are
// skipped without error.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	appLog "github.com/jonamarkin/ose-calendar/internal/log"
)

// Entry is one raw event entry as written in the source listing,
// before any date resolution.
type Entry struct {
	Name       string
	URL        string
	DatePhrase string
	Mode       string
	Location   string
}

// entryRe matches the two-line entry shape:
//
//	- [Event Name](https://example.com)
//	  > Date: 4th March, 2025 || Mode: In-person || Location: Accra, Ghana.
//
// The trailing period terminates the location capture. Field captures
// are non-greedy so the " || " delimiters bound each field.
var entryRe = regexp.MustCompile(
	`(?m)^[-*]\s*\[([^\]]+)\]\(([^)]+)\)\s*\r?\n\s*>\s*Date:\s*(.+?)\s*\|\|\s*Mode:\s*(.+?)\s*\|\|\s*Location:\s*(.+?)\.`)

// headingYearRe finds a standalone 4-digit year token on a markdown
// heading line, e.g. "# Tech Events 2025".
var headingYearRe = regexp.MustCompile(`(?m)^#+[^\r\n]*?\b(20\d{2})\b`)

// Entries extracts all well-formed event entries from the document,
// in document order.
func Entries(doc string) []Entry {
	matches := entryRe.FindAllStringSubmatch(doc, -1)

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, Entry{
			Name:       strings.TrimSpace(m[1]),
			URL:        strings.TrimSpace(m[2]),
			DatePhrase: strings.TrimSpace(m[3]),
			Mode:       strings.TrimSpace(m[4]),
			Location:   strings.TrimSpace(m[5]),
		})
	}

	appLog.Debug("entry extraction completed", "entry_count", len(entries))
	return entries
}

// DetectYear returns a document-level year taken from the first
// heading that carries a standalone 4-digit year token, or 0 if no
// heading does. Callers use this as the context year for phrases
// that omit one.
func DetectYear(doc string) int {
	m := headingYearRe.FindStringSubmatch(doc)
	if m == nil {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return y
}
