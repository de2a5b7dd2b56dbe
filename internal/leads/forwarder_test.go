package leads_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgcamps/trip-planner/internal/leads"
)

func TestForward_Success(t *testing.T) {
	var got leads.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"row":42}`))
	}))
	t.Cleanup(srv.Close)

	f := leads.NewForwarder(srv.URL)
	res, err := f.Forward(context.Background(), leads.Payload{"channel": "planner", "name": "Asha"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"row":42}`, string(res.Upstream))
	assert.Equal(t, "planner", got["channel"])
}

func TestForward_RetriesOnceOnNon2xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	f := leads.NewForwarder(srv.URL)
	res, err := f.Forward(context.Background(), leads.Payload{"channel": "contact-modal"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, int32(2), calls.Load())
}

func TestForward_GivesUpAfterSecondFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"sheet full"}`))
	}))
	t.Cleanup(srv.Close)

	f := leads.NewForwarder(srv.URL)
	res, err := f.Forward(context.Background(), leads.Payload{"channel": "whatsapp"})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.JSONEq(t, `{"error":"sheet full"}`, string(res.Upstream))
	assert.Equal(t, int32(2), calls.Load())
}

func TestForward_ToleratesTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Saved."))
	}))
	t.Cleanup(srv.Close)

	f := leads.NewForwarder(srv.URL)
	res, err := f.Forward(context.Background(), leads.Payload{"channel": "planner"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Nil(t, res.Upstream, "non-JSON body is dropped, not an error")
}

func TestForward_TransportError(t *testing.T) {
	f := leads.NewForwarder("http://127.0.0.1:1") // nothing listens here
	_, err := f.Forward(context.Background(), leads.Payload{"channel": "planner"})
	require.Error(t, err)
}

func TestForwarder_Configured(t *testing.T) {
	assert.False(t, leads.NewForwarder("").Configured())
	assert.True(t, leads.NewForwarder("https://example.com/exec").Configured())
}

func TestFromPayload(t *testing.T) {
	l := leads.FromPayload(leads.Payload{
		"channel": "planner",
		"name":    "Asha",
		"phone":   "9876543210",
		"note":    "weekend trip",
		"page":    "/himalaya/plan",
		"meta":    map[string]any{"tz": "Asia/Kolkata"},
		"extra":   123,
	})

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "planner", l.Channel)
	assert.Equal(t, "Asha", l.Name)
	assert.Equal(t, "/himalaya/plan", l.Page)
	assert.Equal(t, "Asia/Kolkata", l.Meta["tz"])
}

func TestFromPayload_MissingFields(t *testing.T) {
	l := leads.FromPayload(leads.Payload{"channel": "chat"})
	assert.Equal(t, "chat", l.Channel)
	assert.Empty(t, l.Name)
	assert.Nil(t, l.Meta)
}
