package itinerary

// StructuredItinerary is the optional machine-readable itinerary the model
// may embed as a fenced JSON block. It is either parsed in full or discarded
// in full; there is no partially-populated state.
type StructuredItinerary struct {
	Overview     string        `json:"overview,omitempty"`
	TotalNights  int           `json:"totalNights,omitempty"`
	Route        []string      `json:"route,omitempty"`
	Days         []Day         `json:"days"`
	CostGuidance *CostGuidance `json:"costGuidance,omitempty"`
	Summary      string        `json:"summary,omitempty"`
}

// Day is one day of a structured itinerary.
type Day struct {
	Number          int      `json:"day"`
	Title           string   `json:"title"`
	DriveTime       string   `json:"driveTime,omitempty"`
	NightsAt        string   `json:"nightsAt,omitempty"`
	Highlights      []string `json:"highlights"`
	FoodSuggestions []string `json:"foodSuggestions,omitempty"`
}

// CostGuidance holds free-form cost hints per budget tier. The strings are
// displayed verbatim, never parsed numerically.
type CostGuidance struct {
	Economy string `json:"economy,omitempty"`
	Mid     string `json:"mid,omitempty"`
	Premium string `json:"premium,omitempty"`
}

// DaySection is the fallback representation derived by splitting reply text
// on "Day N" headings.
type DaySection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Result is the outcome of interpreting a model reply. Exactly one of the
// three fields is populated: Structured when a valid JSON block was found,
// Sections when "Day N" headings were found, otherwise Raw carries the
// original text unchanged.
type Result struct {
	Structured *StructuredItinerary `json:"itinerary,omitempty"`
	Sections   []DaySection         `json:"days,omitempty"`
	Raw        string               `json:"raw,omitempty"`
}
