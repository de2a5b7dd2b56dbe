// Package itinerary turns raw model replies into renderable itineraries,
// preferring structure over text. Parsing never fails: the worst case is the
// original reply returned verbatim.
package itinerary

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	dayHeadingRe    = regexp.MustCompile(`(?i)^[\s#*]*day\s*\d+`)
	headingTrimRe   = regexp.MustCompile(`^[#*\s]+`)
)

// Parse interprets reply text. Precedence: fenced/embedded JSON first, then
// "Day N" heading sections, then the raw text itself. Pure function.
func Parse(text string) Result {
	if s := ExtractStructured(text); s != nil {
		return Result{Structured: s}
	}
	if sections, found := SplitDays(text); found {
		return Result{Sections: sections}
	}
	return Result{Raw: text}
}

// ExtractStructured looks for a fenced ```json block (or, failing that,
// treats the whole text as the candidate), narrows to the outermost braces,
// and parses. One sanitization retry strips trailing commas. Any failure
// returns nil: malformed JSON is discarded entirely rather than partially
// salvaged.
func ExtractStructured(text string) *StructuredItinerary {
	candidate := text
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return nil
	}
	candidate = candidate[start : end+1]

	var s StructuredItinerary
	if err := json.Unmarshal([]byte(candidate), &s); err != nil {
		sanitized := trailingCommaRe.ReplaceAllString(candidate, "$1")
		s = StructuredItinerary{}
		if err := json.Unmarshal([]byte(sanitized), &s); err != nil {
			return nil
		}
	}

	// Loose shape check: an object with neither days nor an overview is not
	// an itinerary, even if it is valid JSON.
	if len(s.Days) == 0 && s.Overview == "" {
		return nil
	}
	return &s
}

// SplitDays splits text into sections on lines matching a "Day N" heading,
// case-insensitively and allowing leading '#', '*', or whitespace. Text
// before the first heading becomes an "Overview" section. The second return
// reports whether at least one heading matched; callers fall back to raw
// rendering when it is false.
func SplitDays(text string) ([]DaySection, bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var sections []DaySection
	title := "Overview"
	var buf []string
	found := false

	flush := func() {
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		if body != "" || (found && title != "Overview") {
			sections = append(sections, DaySection{Title: title, Body: body})
		}
		buf = buf[:0]
	}

	for _, ln := range lines {
		if dayHeadingRe.MatchString(ln) {
			flush()
			title = strings.TrimSpace(headingTrimRe.ReplaceAllString(ln, ""))
			found = true
		} else {
			buf = append(buf, ln)
		}
	}
	flush()

	if !found {
		return nil, false
	}
	return sections, true
}
