package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jgcamps/trip-planner/internal/cache"
	"github.com/jgcamps/trip-planner/internal/gemini"
	"github.com/jgcamps/trip-planner/internal/itinerary"
	"github.com/jgcamps/trip-planner/internal/leads"
	"github.com/jgcamps/trip-planner/internal/planner"
)

// User-facing fallback strings. Upstream failures never surface as gateway
// errors; the caller always gets one of these with HTTP 200.
const (
	emptyReplyFallback = "Sorry — I couldn't generate a reply."
	troubleFallback    = "Sorry — I'm having trouble right now. Please try again."
	timeoutFallback    = "Sorry — the request timed out. Please try again."
)

// contactInfo is attached to every itinerary response so the user can always
// reach a human, whatever the model did.
type contactInfo struct {
	Phones []string `json:"phones"`
	Email  string   `json:"email"`
}

var agencyContact = contactInfo{
	Phones: []string{"8595167227", "8076874150"},
	Email:  "jgadven@gmail.com",
}

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	generator Generator
	replies   ReplyCache
	store     LeadStore
	forwarder LeadForwarder
	log       *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(generator Generator, replies ReplyCache, store LeadStore, forwarder LeadForwarder, log *slog.Logger) *Handlers {
	return &Handlers{
		generator: generator,
		replies:   replies,
		store:     store,
		forwarder: forwarder,
		log:       log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---- completion gateway ----

type chatRequest struct {
	Messages []gemini.Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat handles POST /api/v1/chat. It proxies role-tagged messages to the
// generative API and always answers 200 with a reply string, substituting a
// fallback on any upstream failure. The only non-200 cases are a missing or
// empty messages list (caller bug, 400) and a missing API key (deployment
// bug, 500).
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages is required"})
		return
	}

	reply, _, err := h.generate(r.Context(), req.Messages)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "generation service not configured"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// generate calls the model and folds every failure except a missing
// credential into a user-readable fallback reply. The bool reports whether
// the reply is such a fallback. Single attempt; no retry.
func (h *Handlers) generate(ctx context.Context, messages []gemini.Message) (string, bool, error) {
	reply, err := h.generator.Generate(ctx, messages)
	if err == nil {
		return reply, false, nil
	}
	if errors.Is(err, gemini.ErrNotConfigured) {
		h.log.Error("generation service not configured")
		return "", false, err
	}

	h.log.Error("generation failed", "err", err)
	switch {
	case errors.Is(err, gemini.ErrTimeout):
		return timeoutFallback, true, nil
	case errors.Is(err, gemini.ErrEmptyReply):
		return emptyReplyFallback, true, nil
	default:
		return troubleFallback, true, nil
	}
}

// ---- itinerary pipeline ----

type itineraryRequest struct {
	Duration     string   `json:"duration"`
	TripType     string   `json:"trip_type"`
	Destinations []string `json:"destinations"`
	Budget       string   `json:"budget"`
	StartingCity string   `json:"starting_city"`
	Notes        string   `json:"notes"`
	Structured   bool     `json:"structured"`
}

type itineraryResponse struct {
	Reply     string                         `json:"reply"`
	Itinerary *itinerary.StructuredItinerary `json:"itinerary,omitempty"`
	Days      []itinerary.DaySection         `json:"days,omitempty"`
	Contact   contactInfo                    `json:"contact"`
}

// GenerateItinerary handles POST /api/v1/itinerary: the full pipeline from
// trip preferences to an interpreted itinerary. Identical submissions within
// the cache TTL reuse the previous reply instead of calling the model again.
func (h *Handlers) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	trip := planner.TripRequest{
		DurationDays: planner.ParseDurationDays(req.Duration),
		TripType:     req.TripType,
		Destinations: dedupe(req.Destinations),
		BudgetTier:   req.Budget,
		StartingCity: req.StartingCity,
		Notes:        req.Notes,
	}

	compose := planner.Compose
	if req.Structured {
		compose = planner.ComposeStructured
	}
	pair, err := compose(trip)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	key := cache.Key(pair.System, pair.User, gemini.DefaultModel)
	if cached := h.cachedReply(r.Context(), key); cached != "" {
		h.respondItinerary(w, cached)
		return
	}

	messages := []gemini.Message{
		{Role: "system", Content: pair.System},
		{Role: "user", Content: pair.User},
	}
	reply, degraded, err := h.generate(r.Context(), messages)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "generation service not configured"})
		return
	}

	// Fallback replies are never cached; the next attempt should hit the model.
	if !degraded && h.replies != nil {
		if err := h.replies.Set(r.Context(), key, reply); err != nil {
			h.log.Warn("reply cache set failed", "err", err)
		}
	}

	h.respondItinerary(w, reply)
}

func (h *Handlers) cachedReply(ctx context.Context, key string) string {
	if h.replies == nil {
		return ""
	}
	cached, err := h.replies.Get(ctx, key)
	if err != nil {
		h.log.Warn("reply cache get failed", "err", err)
		return ""
	}
	return cached
}

func (h *Handlers) respondItinerary(w http.ResponseWriter, reply string) {
	res := itinerary.Parse(reply)
	writeJSON(w, http.StatusOK, itineraryResponse{
		Reply:     reply,
		Itinerary: res.Structured,
		Days:      res.Sections,
		Contact:   agencyContact,
	})
}

// dedupe removes duplicate destinations case-insensitively, preserving the
// order the user added them in.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		k := strings.ToLower(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out
}

// ---- lead capture ----

// CreateLead handles POST /api/v1/leads. The payload is forwarded to the
// configured webhook and persisted in parallel. Persistence is best-effort
// and never affects the response; the webhook result decides the status,
// matching what the site's forms expect.
func (h *Handlers) CreateLead(w http.ResponseWriter, r *http.Request) {
	var payload leads.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid request body"})
		return
	}

	if !h.forwarder.Configured() {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "LEADS_WEBHOOK_URL missing"})
		return
	}

	var result leads.ForwardResult
	g, gCtx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		if h.store == nil {
			return nil
		}
		if err := h.store.InsertLead(gCtx, leads.FromPayload(payload)); err != nil {
			h.log.Warn("lead insert failed", "err", err)
		}
		return nil
	})

	g.Go(func() (err error) {
		result, err = h.forwarder.Forward(gCtx, payload)
		return err
	})

	if err := g.Wait(); err != nil {
		h.log.Error("lead forward failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "failed to forward lead"})
		return
	}

	if !result.OK {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"ok":       false,
			"status":   result.Status,
			"upstream": result.Upstream,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "upstream": result.Upstream})
}

// LeadsReady handles GET /api/v1/leads, a readiness probe the site pings
// before showing contact forms.
func (h *Handlers) LeadsReady(w http.ResponseWriter, r *http.Request) {
	msg := "API ready"
	if !h.forwarder.Configured() {
		msg = "Missing LEADS_WEBHOOK_URL"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"envPresent": h.forwarder.Configured(),
		"message":    msg,
	})
}

// ListRecentLeads handles GET /api/v1/leads/recent (admin only).
func (h *Handlers) ListRecentLeads(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "lead storage unavailable"})
		return
	}

	limit := 25
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	results, err := h.store.ListRecentLeads(r.Context(), limit)
	if err != nil {
		h.log.Error("listing leads failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if results == nil {
		results = []leads.Lead{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"leads": results})
}

// LeadStats handles GET /api/v1/leads/stats (admin only): lead counts per
// capture channel.
func (h *Handlers) LeadStats(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "lead storage unavailable"})
		return
	}

	counts, err := h.store.CountLeadsByChannel(r.Context())
	if err != nil {
		h.log.Error("lead stats failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"channels": counts})
}

// ---- health ----

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis connectivity.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, map[string]string{
			"status": func() string {
				if status == http.StatusOK {
					return "ok"
				}
				return "degraded"
			}(),
			"db":    dbStatus,
			"redis": redisStatus,
		})
	}
}
