package main

import "testing"

func completeStory() Story {
	return Story{
		"story_title":         "Research Team Wins Grant",
		"story_category":      "Science & Technology",
		"story_summary":       "A research team received new funding. The grant supports two years of work.",
		"story_url":           "https://www.example.edu/news/grant",
		"story_LinkedIn_post": "Big news from campus!\n🔗 Read more: https://www.example.edu/news/grant",
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Story)
		want   bool
	}{
		{"all fields present", func(Story) {}, true},
		{"missing title", func(s Story) { delete(s, "story_title") }, false},
		{"empty title", func(s Story) { s["story_title"] = "" }, false},
		{"nil summary", func(s Story) { s["story_summary"] = nil }, false},
		{"missing url", func(s Story) { delete(s, "story_url") }, false},
		{"missing linkedin post", func(s Story) { delete(s, "story_LinkedIn_post") }, false},
		{"extra keys do not matter", func(s Story) { s["story_date"] = "2026-01-02" }, true},
		{"truthy error value does not block", func(s Story) { s["error"] = "model flagged this" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story := completeStory()
			tt.mutate(story)

			if got := isComplete(story, requiredStoryKeys); got != tt.want {
				t.Errorf("isComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"non-empty string", "x", true},
		{"empty string", "", false},
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero number", float64(0), false},
		{"nonzero number", float64(3), true},
		{"empty list", []any{}, false},
		{"non-empty list", []any{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truthy(tt.value); got != tt.want {
				t.Errorf("truthy(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestStripErrorFlag(t *testing.T) {
	t.Run("false flag removed", func(t *testing.T) {
		story := completeStory()
		story["error"] = false

		stripErrorFlag(story)

		if _, ok := story["error"]; ok {
			t.Error("error: false should be removed before validation")
		}
		if !isComplete(story, requiredStoryKeys) {
			t.Error("record with stripped error flag should remain complete")
		}
	})

	t.Run("truthy flag kept", func(t *testing.T) {
		story := completeStory()
		story["error"] = "something odd"

		stripErrorFlag(story)

		if _, ok := story["error"]; !ok {
			t.Error("non-false error value should be left as-is")
		}
	})

	t.Run("no flag is a no-op", func(t *testing.T) {
		story := completeStory()
		stripErrorFlag(story)

		if !isComplete(story, requiredStoryKeys) {
			t.Error("record without error key should be unaffected")
		}
	})
}
