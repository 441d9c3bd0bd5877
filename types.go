package main

import "time"

// Story is one extracted news record. It is a flat map rather than a struct
// because the extractor may attach incidental extra keys beyond the required
// ones, and downstream consumers must see those untouched.
type Story map[string]any

// Title returns the story title, the identity key used for deduplication.
func (s Story) Title() string {
	return s.stringField("story_title")
}

// URL returns the absolute link to the full story.
func (s Story) URL() string {
	return s.stringField("story_url")
}

func (s Story) stringField(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// CrawlReport is the outcome of one crawl run. Stories holds every accepted
// record in acceptance order; Truncated marks a run that ended on a fetch or
// extraction failure rather than the site's no-more-results signal.
type CrawlReport struct {
	RunID        string
	Stories      []Story
	PagesFetched int
	Duplicates   int
	Incomplete   int
	Truncated    bool
	FailureErr   error
	StartedAt    time.Time
	FinishedAt   time.Time
}
