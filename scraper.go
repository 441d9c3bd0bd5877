package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// pageFetcher yields one page's content or the terminal no-results signal.
type pageFetcher interface {
	FetchPage(ctx context.Context, pageNumber int) (content string, terminal bool, err error)
}

// storyExtractor runs structured extraction over page content and returns
// the raw model output.
type storyExtractor interface {
	Extract(content string) (string, error)
}

// Scraper walks the paginated listing until the site reports no more
// results, accumulating validated, deduplicated story records. The seen-title
// set and accumulator belong to one Scraper instance, so independent runs
// never cross-contaminate; one Scraper drives at most one run at a time.
type Scraper struct {
	settings  *Settings
	fetcher   pageFetcher
	extractor storyExtractor
	seen      map[string]struct{}
	stories   []Story
}

// NewScraper creates a scraper with an empty accumulator and seen set.
func NewScraper(settings *Settings, fetcher pageFetcher, extractor storyExtractor) *Scraper {
	return &Scraper{
		settings:  settings,
		fetcher:   fetcher,
		extractor: extractor,
		seen:      make(map[string]struct{}),
	}
}

// Run crawls pages sequentially starting at the configured first page. It
// always returns a report: a fetch or extraction failure ends pagination and
// marks the report truncated, but whatever was accepted so far is kept.
func (s *Scraper) Run(ctx context.Context) *CrawlReport {
	report := &CrawlReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log.Info("starting crawl", "run_id", report.RunID, "base_url", s.settings.BaseURL)

	page := s.settings.FirstPage
	for {
		if err := ctx.Err(); err != nil {
			log.Warn("run deadline reached, stopping crawl", "page", page)
			report.Truncated = true
			report.FailureErr = err
			break
		}

		content, terminal, err := s.fetcher.FetchPage(ctx, page)
		if err != nil {
			// Fail-stop, not fail-retry: a bad page ends pagination
			// but never the process.
			log.Warn("page fetch failed, stopping crawl", "page", page, "err", err)
			report.Truncated = true
			report.FailureErr = err
			break
		}
		if terminal {
			log.Info("no more results", "page", page)
			break
		}
		report.PagesFetched++

		raw, err := s.extractor.Extract(content)
		if err != nil {
			log.Warn("extraction failed, stopping crawl", "page", page, "err", err)
			report.Truncated = true
			report.FailureErr = err
			break
		}

		candidates, err := decodeStories(raw)
		if err != nil {
			log.Warn("undecodable extractor output, skipping page", "page", page, "err", err)
		}
		if len(candidates) == 0 {
			log.Info("no stories found", "page", page)
			page++
			s.pause()
			continue
		}

		accepted := 0
		for _, story := range candidates {
			stripErrorFlag(story)

			if !isComplete(story, requiredStoryKeys) {
				report.Incomplete++
				continue
			}

			title := story.Title()
			if s.isDuplicate(title) {
				log.Info("duplicate story skipped", "title", title)
				report.Duplicates++
				continue
			}

			s.recordSeen(title)
			s.stories = append(s.stories, story)
			accepted++
		}

		if accepted == 0 {
			log.Info("no complete stories on page", "page", page)
		} else {
			log.Info("page processed", "page", page, "accepted", accepted)
		}

		page++
		s.pause()
	}

	report.Stories = s.stories
	report.FinishedAt = time.Now()
	log.Info("crawl finished",
		"run_id", report.RunID,
		"pages", report.PagesFetched,
		"stories", len(report.Stories),
		"duplicates", report.Duplicates,
		"incomplete", report.Incomplete,
		"truncated", report.Truncated,
	)
	return report
}

// isDuplicate is an exact, case-sensitive membership test. Titles differing
// only by case or whitespace count as distinct.
func (s *Scraper) isDuplicate(title string) bool {
	_, ok := s.seen[title]
	return ok
}

func (s *Scraper) recordSeen(title string) {
	s.seen[title] = struct{}{}
}

// pause applies the optional politeness delay between pages.
func (s *Scraper) pause() {
	if delay := s.settings.PageDelay(); delay > 0 {
		time.Sleep(delay)
	}
}
