package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	forwardTimeout  = 10 * time.Second
	forwardAttempts = 2
)

// ForwardResult is the webhook's answer, normalized. Upstream is nil when
// the webhook returned a non-JSON body (some webhook backends answer with
// plain text).
type ForwardResult struct {
	OK       bool
	Status   int
	Upstream json.RawMessage
}

// Forwarder posts lead payloads to the configured webhook. Delivery is
// at-most-once per attempt with one retry on a non-2xx status; there is no
// queue and no delivery guarantee.
type Forwarder struct {
	webhookURL string
	client     *http.Client
}

// NewForwarder constructs a Forwarder for the given webhook URL. An empty
// URL yields an unconfigured forwarder; callers must check Configured.
func NewForwarder(webhookURL string) *Forwarder {
	return &Forwarder{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: forwardTimeout},
	}
}

// Configured reports whether a webhook URL is set.
func (f *Forwarder) Configured() bool { return f.webhookURL != "" }

// Forward posts the payload to the webhook. Transport errors are returned to
// the caller; a non-2xx status after the final attempt comes back as
// OK=false with whatever upstream body could be parsed.
func (f *Forwarder) Forward(ctx context.Context, payload Payload) (ForwardResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ForwardResult{}, fmt.Errorf("marshaling lead payload: %w", err)
	}

	var last ForwardResult
	for attempt := 0; attempt < forwardAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(body))
		if err != nil {
			return ForwardResult{}, fmt.Errorf("creating webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.client.Do(req)
		if err != nil {
			return ForwardResult{}, fmt.Errorf("posting lead to webhook: %w", err)
		}

		raw, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return ForwardResult{}, fmt.Errorf("reading webhook response: %w", readErr)
		}

		last = ForwardResult{
			OK:       resp.StatusCode >= 200 && resp.StatusCode < 300,
			Status:   resp.StatusCode,
			Upstream: tolerantJSON(raw),
		}
		if last.OK {
			return last, nil
		}
	}

	return last, nil
}

// tolerantJSON keeps the body only when it is valid JSON.
func tolerantJSON(raw []byte) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 || !json.Valid(raw) {
		return nil
	}
	return json.RawMessage(raw)
}
