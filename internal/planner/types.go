package planner

import "errors"

// Budget tier labels. Pages label these slightly differently but the
// semantics are always three ordinal tiers.
const (
	BudgetEconomy = "Economy"
	BudgetMid     = "Mid"
	BudgetLuxury  = "Luxury"
)

// DefaultDurationDays is used when a duration label cannot be parsed.
const DefaultDurationDays = 4

// ErrNoDestinations is returned when a TripRequest has no destinations.
var ErrNoDestinations = errors.New("at least one destination is required")

// TripRequest holds the user's trip preferences from the planner form.
// It lives for a single generation request and is never persisted.
type TripRequest struct {
	DurationDays int      `json:"duration_days"`
	TripType     string   `json:"trip_type"`
	Destinations []string `json:"destinations"`
	BudgetTier   string   `json:"budget_tier"`
	StartingCity string   `json:"starting_city,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Validate checks the invariants the composer relies on: at least one
// destination and a positive day count (normalized to the default if not).
func (t *TripRequest) Validate() error {
	if len(t.Destinations) == 0 {
		return ErrNoDestinations
	}
	if t.DurationDays <= 0 {
		t.DurationDays = DefaultDurationDays
	}
	return nil
}

// PromptPair is the system/user prompt pair sent to the generative API.
// Built once per generation request, immutable after that.
type PromptPair struct {
	System string
	User   string
}
