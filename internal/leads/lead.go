// Package leads handles lead-capture payloads from the website's contact
// forms, the planner, and the chat widget. Capture is best-effort by design:
// nothing here may block or fail the user-facing flow.
package leads

import (
	"time"

	"github.com/google/uuid"
)

// Payload is the arbitrary JSON body a page submits. Known fields are lifted
// into Lead for storage; everything else rides along to the webhook as-is.
type Payload map[string]any

// Lead is the persisted form of a captured lead.
type Lead struct {
	ID        uuid.UUID      `json:"id"`
	Channel   string         `json:"channel"`
	Name      string         `json:"name,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Note      string         `json:"note,omitempty"`
	Page      string         `json:"page,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromPayload lifts the known fields out of a raw payload and assigns a
// fresh ID. Missing fields are left zero; payloads are never rejected.
func FromPayload(p Payload) Lead {
	l := Lead{
		ID:      uuid.New(),
		Channel: str(p, "channel"),
		Name:    str(p, "name"),
		Phone:   str(p, "phone"),
		Note:    str(p, "note"),
		Page:    str(p, "page"),
	}
	if m, ok := p["meta"].(map[string]any); ok {
		l.Meta = m
	}
	return l
}

func str(p Payload, key string) string {
	s, _ := p[key].(string)
	return s
}
