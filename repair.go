package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// decodeStories turns raw extractor output into candidate story records.
//
// The extraction call is not contractually guaranteed to return nested JSON.
// Observed shapes:
//   - an array of record objects (the happy path)
//   - an object wrapping the records, e.g. {"stories": [...]}
//   - a one-element array whose element carries a "content" field holding
//     string-encoded JSON documents, one per record, often with embedded
//     newlines and indentation that break strict parsing
//
// Candidates that cannot be recovered are dropped; a malformed record never
// aborts its batch. The returned error covers only output whose top level
// does not decode at all.
func decodeStories(raw string) ([]Story, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	elements, err := topLevelElements(trimmed)
	if err != nil {
		return nil, err
	}

	// One-element wrapper carrying string-encoded records.
	if len(elements) == 1 {
		if wrapped, ok := contentStrings(elements[0]); ok {
			return repairAll(wrapped), nil
		}
	}

	var stories []Story
	for _, el := range elements {
		switch v := el.(type) {
		case map[string]any:
			stories = append(stories, Story(v))
		case string:
			if story, ok := repairStory(v); ok {
				stories = append(stories, story)
			}
		default:
			log.Warn("skipping non-record element in extractor output")
		}
	}
	return stories, nil
}

// topLevelElements decodes the outermost JSON value into a flat list of
// candidate elements, unwrapping a single {"stories": [...]} object.
func topLevelElements(raw string) ([]any, error) {
	var top any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, fmt.Errorf("decoding extractor output: %w", err)
	}

	switch v := top.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if inner, ok := v["stories"].([]any); ok {
			return inner, nil
		}
		return []any{v}, nil
	default:
		return nil, fmt.Errorf("unexpected extractor output type %T", top)
	}
}

// contentStrings reports whether an element is the wrapper object whose
// "content" field holds string-encoded records, and returns those strings.
func contentStrings(element any) ([]string, bool) {
	obj, ok := element.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := obj["content"].([]any)
	if !ok {
		return nil, false
	}

	encoded := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		encoded = append(encoded, s)
	}
	return encoded, true
}

func repairAll(encoded []string) []Story {
	stories := make([]Story, 0, len(encoded))
	for _, s := range encoded {
		if story, ok := repairStory(s); ok {
			stories = append(stories, story)
		}
	}
	log.Info("recovered stories from string-encoded content", "parsed", len(stories), "candidates", len(encoded))
	return stories
}

// repairStory applies the ordered parse cascade to one string-encoded
// record: strict parse, whitespace-normalized parse, then a lenient parse
// that tolerates stray control characters. First success wins; total
// failure drops the candidate.
func repairStory(encoded string) (Story, bool) {
	attempts := []string{
		encoded,
		collapseWhitespace(encoded),
		stripControlChars(encoded),
	}

	for _, attempt := range attempts {
		var story Story
		if err := json.Unmarshal([]byte(attempt), &story); err == nil {
			return story, true
		}
	}

	log.Warn("dropping unparseable story candidate", "len", len(encoded))
	return nil, false
}

// collapseWhitespace flattens embedded newline-plus-indentation sequences
// and bare newlines into single spaces.
func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\n    ", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// stripControlChars replaces raw control characters, which strict JSON
// parsing rejects inside string literals, with spaces.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return ' '
		}
		return r
	}, s)
}
