// Package pipeline wires fetch, extraction, date resolution and feed
// generation into one batch run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/jonamarkin/ose-calendar/internal/config"
	"github.com/jonamarkin/ose-calendar/internal/dateparse"
	"github.com/jonamarkin/ose-calendar/internal/extract"
	"github.com/jonamarkin/ose-calendar/internal/feed"
	"github.com/jonamarkin/ose-calendar/internal/fetch"
	appLog "github.com/jonamarkin/ose-calendar/internal/log"
	"github.com/jonamarkin/ose-calendar/internal/model"
)

// Pipeline executes the full source-to-artifacts transform.
type Pipeline struct {
	cfg     *config.Config
	fetcher *fetch.Fetcher

	// now is the wall-clock source; replaceable in tests.
	now func() time.Time
}

// New constructs a Pipeline for the given configuration.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: fetch.NewFetcher(cfg.CacheDir),
		now:     time.Now,
	}
}

// Run performs one batch transform: fetch the source listing, extract
// entries, resolve each date phrase, and write the JSON and ICS
// artifacts.
//
// Failure policy:
//   - a fetch failure is fatal; nothing is written
//   - an unresolvable date phrase drops that event with a warning
//   - fewer resolved events than the configured minimum is a run
//     failure; nothing is written
func (p *Pipeline) Run(ctx context.Context) error {
	res, err := p.fetcher.Fetch(ctx, p.cfg.SourceURL)
	if err != nil {
		return fmt.Errorf("fetch source document: %w", err)
	}
	doc := string(res.Body)

	entries := extract.Entries(doc)
	year := p.contextYear(doc)
	appLog.Info("source document processed",
		"entry_count", len(entries),
		"context_year", year,
		"from_cache", res.FromCache,
	)

	events := Resolve(entries, year)

	if len(events) < p.cfg.MinEvents {
		return fmt.Errorf("resolved %d events, need at least %d; not writing output",
			len(events), p.cfg.MinEvents)
	}

	feed.SortEvents(events)

	jsonData, err := feed.BuildJSON(events)
	if err != nil {
		return fmt.Errorf("build JSON artifact: %w", err)
	}
	icsData := feed.BuildICS(events, feed.Options{
		CalendarName: p.cfg.CalendarName,
		UIDDomain:    p.cfg.UIDDomain,
		RunTime:      p.now(),
	})

	if err := feed.WriteArtifacts(p.cfg.OutputDir,
		p.cfg.JSONFile, jsonData,
		p.cfg.ICSFile, []byte(icsData)); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	appLog.Info("run completed",
		"event_count", len(events),
		"output_dir", p.cfg.OutputDir,
	)
	return nil
}

// Resolve turns raw entries into event records, dropping entries
// whose date phrase cannot be resolved. Unscheduled entries are
// expected and logged quietly; genuine parse failures warn with the
// phrase and event name for visibility.
func Resolve(entries []extract.Entry, contextYear int) []model.Event {
	events := make([]model.Event, 0, len(entries))

	for _, entry := range entries {
		rng, ok := dateparse.Resolve(entry.DatePhrase, contextYear)
		if !ok {
			if dateparse.Unscheduled(entry.DatePhrase) {
				appLog.Info("event not scheduled yet; skipping",
					"event", entry.Name, "phrase", entry.DatePhrase)
			} else {
				appLog.Warn("could not resolve date phrase; skipping event",
					"event", entry.Name, "phrase", entry.DatePhrase)
			}
			continue
		}

		events = append(events, model.Event{
			Name:         entry.Name,
			URL:          entry.URL,
			Start:        rng.Start,
			End:          rng.End,
			Mode:         entry.Mode,
			Location:     entry.Location,
			OriginalDate: entry.DatePhrase,
		})
	}

	return events
}

// contextYear picks the year assumed for phrases that omit one:
// explicit config override first, then a year detected from the
// document heading, then the current year. The wall clock is only
// consulted here, never inside the resolver.
func (p *Pipeline) contextYear(doc string) int {
	if p.cfg.ContextYear != 0 {
		return p.cfg.ContextYear
	}
	if y := extract.DetectYear(doc); y != 0 {
		return y
	}
	return p.now().Year()
}
