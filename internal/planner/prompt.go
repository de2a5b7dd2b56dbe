package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// ContactLine is the agency contact sentence that must appear verbatim in
// every system prompt variant. Property recommendations are always replaced
// with this redirect.
const ContactLine = "For stay bookings and accommodation options, contact JG Camps & Resorts at 8595167227 / 8076874150 or jgadven@gmail.com."

const systemPromptBase = `You are a professional travel planner for JG Camps & Resorts.
Rules:
- Do NOT mention or recommend any specific hotel, resort, stay property, or booking platform by name.
- Instead, say: "` + ContactLine + `"
- Produce a clean Markdown itinerary with "Day 1", "Day 2", etc. headings in order.
- Mention approximate travel times, 2-3 activity highlights, and cafe or local food ideas per day.
- Include short cost guidance across three tiers (Economy / Mid / Premium) without naming specific vendors.
- End with a one-line call-to-action encouraging the traveler to contact JG Camps & Resorts for bookings.`

// structuredAddendum asks for a machine-readable copy of the itinerary
// appended after the Markdown. The fence label must be "json" so the
// interpreter can find the block.
const structuredAddendum = "- After the Markdown, also emit a fenced ```json code block with exactly this shape:\n" +
	`  {"overview": string, "totalNights": number, "route": [string],
   "days": [{"day": number, "title": string, "driveTime": string, "nightsAt": string,
             "highlights": [string], "foodSuggestions": [string]}],
   "costGuidance": {"economy": string, "mid": string, "premium": string},
   "summary": string}`

// ParseDurationDays resolves a free-form duration label such as "10+" or
// "5 Days" to a positive day count. Unparseable labels fall back to
// DefaultDurationDays.
func ParseDurationDays(label string) int {
	s := strings.TrimSpace(label)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return DefaultDurationDays
	}
	return n
}

// Compose builds the Markdown-only prompt pair for the given request.
// It is a pure function: no I/O, same input gives the same pair.
func Compose(req TripRequest) (PromptPair, error) {
	if err := req.Validate(); err != nil {
		return PromptPair{}, err
	}
	return PromptPair{System: systemPromptBase, User: userPrompt(req)}, nil
}

// ComposeStructured builds the richer variant that additionally requests a
// fenced JSON block matching the itinerary schema.
func ComposeStructured(req TripRequest) (PromptPair, error) {
	if err := req.Validate(); err != nil {
		return PromptPair{}, err
	}
	return PromptPair{
		System: systemPromptBase + "\n" + structuredAddendum,
		User:   userPrompt(req),
	}, nil
}

func userPrompt(req TripRequest) string {
	tripType := req.TripType
	if tripType == "" {
		tripType = "multi-destination"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day %s itinerary.\n", req.DurationDays, tripType)
	fmt.Fprintf(&b, "Destinations: %s\n", strings.Join(req.Destinations, ", "))
	if req.StartingCity != "" {
		fmt.Fprintf(&b, "Starting city: %s\n", req.StartingCity)
	}
	budget := req.BudgetTier
	if budget == "" {
		budget = "flexible"
	}
	fmt.Fprintf(&b, "Budget: %s\n", budget)
	if req.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", req.Notes)
	}
	b.WriteString("Propose the best route order, allocate nights per stop, and keep the pacing travel-friendly.")
	return b.String()
}
