// Package extract locates machine-readable recommendation payloads inside
// freeform model output. The producer is unreliable: payloads may be wrapped
// in delimiters, code fences, prose, or be missing entirely. Extraction is
// best-effort and total; a missing or malformed payload is "not found",
// never an error, and no partially decoded value escapes this package.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/bookcrews/community-platform/internal/model"
)

// Delimiters for the hidden recommendation block. These never appear in the
// user-facing reply; the visible text is returned with the block removed.
const (
	StartMarker = "<!--REC_START-->"
	EndMarker   = "<!--REC_END-->"
)

// Recommendations pulls a recommendation array out of raw model output.
// It returns the decoded list, the visible reply with the payload removed,
// and whether a usable payload was found. Preference order: delimited block,
// then outermost bracket-matched array anywhere in the text.
func Recommendations(raw string) ([]model.BookRecommendation, string, bool) {
	if start := strings.Index(raw, StartMarker); start >= 0 {
		rest := raw[start+len(StartMarker):]
		if end := strings.Index(rest, EndMarker); end >= 0 {
			block := rest[:end]
			visible := strings.TrimSpace(raw[:start] + rest[end+len(EndMarker):])
			if recs, ok := decodeRecommendations(block); ok {
				return recs, visible, true
			}
			// Malformed block: still hide it from the caller.
			return nil, visible, false
		}
	}

	if span, ok := bracketSpan(raw, '[', ']'); ok {
		if recs, decoded := decodeRecommendations(raw[span[0] : span[1]+1]); decoded {
			visible := strings.TrimSpace(raw[:span[0]] + raw[span[1]+1:])
			return recs, visible, true
		}
	}

	return nil, strings.TrimSpace(raw), false
}

// Array decodes a bracket-matched recommendation array from raw text that is
// expected to be a bare structured reply (no prose contract). An empty or
// malformed array reports not found.
func Array(raw string) ([]model.BookRecommendation, bool) {
	cleaned := StripFences(raw)
	if recs, ok := decodeRecommendations(cleaned); ok {
		return recs, true
	}
	if span, ok := bracketSpan(cleaned, '[', ']'); ok {
		return decodeRecommendations(cleaned[span[0] : span[1]+1])
	}
	return nil, false
}

// Object decodes an outermost brace-matched JSON object from raw text into v.
func Object(raw string, v any) bool {
	cleaned := StripFences(raw)
	span, ok := bracketSpan(cleaned, '{', '}')
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(cleaned[span[0]:span[1]+1]), v) == nil
}

// StripFences removes a surrounding markdown code fence, language-tagged or
// not, leaving the inner text untouched.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		// Drop a language tag like "json" on the fence line.
		first := strings.TrimSpace(trimmed[:nl])
		if len(first) <= 10 && !strings.ContainsAny(first, "[{") {
			trimmed = trimmed[nl+1:]
		}
	}
	if end := strings.LastIndex(trimmed, "```"); end >= 0 {
		trimmed = trimmed[:end]
	}
	return strings.TrimSpace(trimmed)
}

func decodeRecommendations(block string) ([]model.BookRecommendation, bool) {
	cleaned := StripFences(block)
	var recs []model.BookRecommendation
	if err := json.Unmarshal([]byte(cleaned), &recs); err != nil {
		return nil, false
	}
	if len(recs) == 0 {
		return nil, false
	}
	for _, r := range recs {
		if strings.TrimSpace(r.Title) == "" {
			return nil, false
		}
	}
	return recs, true
}

// bracketSpan finds the first open bracket and its matching close, skipping
// brackets inside JSON string literals.
func bracketSpan(s string, open, close byte) ([2]int, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return [2]int{}, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return [2]int{start, i}, true
			}
		}
	}
	return [2]int{}, false
}
