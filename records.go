package main

// requiredStoryKeys is the fixed field set a record must carry, non-empty,
// to be accepted.
var requiredStoryKeys = []string{
	"story_title",
	"story_category",
	"story_summary",
	"story_url",
	"story_LinkedIn_post",
}

// stripErrorFlag removes the extractor's informational "error": false marker
// so it is never mistaken for record content. Any other error value is left
// alone; completeness is judged purely by the required-field list.
func stripErrorFlag(story Story) {
	if v, ok := story["error"]; ok {
		if b, ok := v.(bool); ok && !b {
			delete(story, "error")
		}
	}
}

// isComplete reports whether every required key is present with a truthy
// value. A missing key, empty string, nil, zero, or empty collection makes
// the record incomplete.
func isComplete(story Story, requiredKeys []string) bool {
	for _, key := range requiredKeys {
		v, ok := story[key]
		if !ok || !truthy(v) {
			return false
		}
	}
	return true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
