package api

import (
	"context"

	"github.com/jgcamps/trip-planner/internal/gemini"
	"github.com/jgcamps/trip-planner/internal/leads"
)

// Generator defines the completion call needed by the gateway handlers.
type Generator interface {
	Generate(ctx context.Context, messages []gemini.Message) (string, error)
}

// ReplyCache defines the reply-cache operations needed by the itinerary handler.
type ReplyCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, reply string) error
}

// LeadStore defines the storage operations needed by the lead handlers.
type LeadStore interface {
	InsertLead(ctx context.Context, l leads.Lead) error
	ListRecentLeads(ctx context.Context, limit int) ([]leads.Lead, error)
	CountLeadsByChannel(ctx context.Context) (map[string]int, error)
}

// LeadForwarder defines the webhook delivery needed by the lead handlers.
type LeadForwarder interface {
	Configured() bool
	Forward(ctx context.Context, p leads.Payload) (leads.ForwardResult, error)
}
