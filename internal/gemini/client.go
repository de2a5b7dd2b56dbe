// Package gemini is the only code that talks to the external generative-text
// API. The API key never leaves this process; browsers go through the gateway
// handler in internal/api.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is the fixed model identifier used for all requests.
const DefaultModel = "gemini-1.5-flash"

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	requestTimeout = 60 * time.Second
)

// assistantPreamble is sent as the leading user turn of every request, the
// provider having no native system role. It sets the assistant's voice for
// the chat widget; planner pages add their own stricter system message on top.
const assistantPreamble = `You are Travel Assistant for JG Camps & Resorts.
- Be concise, friendly, and helpful.
- If an itinerary is requested: give a day-wise plan, approx travel times, and 2-3 stay tiers with INR hints.
- For "best time": give months, pros/cons, weather, and crowd levels.
- For budgets: rough costs for stay/food/transport/activities in INR.
- Use bullet points and short paragraphs. Ask a 1-line clarifier if ambiguous.`

// Message is a role-tagged conversation turn as received from the website.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var (
	// ErrNotConfigured means the server-side API key is unset. The gateway
	// surfaces this as a configuration error, not a generation failure.
	ErrNotConfigured = errors.New("gemini: API key not configured")

	// ErrEmptyReply means the upstream response carried no candidate text.
	ErrEmptyReply = errors.New("gemini: empty reply from model")

	// ErrTimeout means the upstream call exceeded the request timeout.
	ErrTimeout = errors.New("gemini: request timed out")
)

// Client calls the generateContent endpoint with a fixed model identifier.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewClient constructs a Client against the production API.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   DefaultModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithURL constructs a Client pointing at a custom base URL (for tests).
func NewClientWithURL(baseURL, apiKey string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// ---- wire format ----

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// providerRole maps the website's role vocabulary onto the provider's.
// "assistant" becomes "model"; "system" and anything else become "user".
func providerRole(role string) string {
	if role == "assistant" {
		return "model"
	}
	return "user"
}

// Generate sends the conversation to the model and returns the first
// candidate's text, with all parts joined by newlines. Single attempt, no
// retry. Timeouts are reported as ErrTimeout so callers can show a distinct
// message.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if len(messages) == 0 {
		return "", errors.New("gemini: at least one message required")
	}

	contents := make([]content, 0, len(messages)+1)
	contents = append(contents, content{Role: "user", Parts: []part{{Text: assistantPreamble}}})
	for _, m := range messages {
		contents = append(contents, content{
			Role:  providerRole(m.Role),
			Parts: []part{{Text: m.Content}},
		})
	}

	body, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("marshaling generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("calling %s model: %w", c.model, ErrTimeout)
		}
		return "", fmt.Errorf("calling %s model: %w", c.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate returned status %d", resp.StatusCode)
	}

	var raw generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	if len(raw.Candidates) == 0 {
		return "", ErrEmptyReply
	}

	texts := make([]string, 0, len(raw.Candidates[0].Content.Parts))
	for _, p := range raw.Candidates[0].Content.Parts {
		texts = append(texts, p.Text)
	}
	reply := strings.Join(texts, "\n")
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}

	return reply, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
