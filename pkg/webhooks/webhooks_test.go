package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/ethgas/pkg/alerts"
	"github.com/chainsafe/ethgas/pkg/history"
)

func testFiring() alerts.Firing {
	return alerts.Firing{
		Rule:    alerts.Rule{Network: "ethereum", Threshold: 20},
		Sample:  history.Sample{Network: "ethereum", BaseFee: 15.5, BlockNumber: 42},
		Message: "ethereum base fee 15.50 gwei is at or below 20.00 gwei",
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://hooks.slack.com/services/T0/B0/x", "slack"},
		{"https://discord.com/api/webhooks/1/x", "discord"},
		{"https://discordapp.com/api/webhooks/1/x", "discord"},
		{"https://example.webhook.office.com/webhookb2/x", "teams"},
		{"https://example.com/hook", "generic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectPlatform(tt.url), tt.url)
	}
}

func TestSlackPayload(t *testing.T) {
	payload := SlackPayload(Event{
		Title:   "Gas alert: ethereum",
		Message: "fee dropped",
		Fields:  []Field{{Name: "Network", Value: "ethereum"}},
	})

	blocks, ok := payload["blocks"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, blocks, 3)
	assert.Equal(t, "header", blocks[0]["type"])
	assert.Equal(t, "section", blocks[1]["type"])
	assert.Equal(t, "section", blocks[2]["type"])
}

func TestDiscordPayload(t *testing.T) {
	payload := DiscordPayload(Event{Title: "t", Message: "m", Color: 0x2ecc71,
		Fields: []Field{{Name: "a", Value: "b"}}})

	embeds, ok := payload["embeds"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, embeds, 1)
	assert.Equal(t, "t", embeds[0]["title"])
	assert.Equal(t, 0x2ecc71, embeds[0]["color"])
	assert.NotEmpty(t, embeds[0]["timestamp"])
}

func TestTeamsPayload(t *testing.T) {
	payload := TeamsPayload(Event{Title: "t", Message: "m",
		Fields: []Field{{Name: "a", Value: "b"}}})

	assert.Equal(t, "MessageCard", payload["@type"])
	assert.Equal(t, "t", payload["summary"])
}

func TestSenderNotify(t *testing.T) {
	var mu sync.Mutex
	var bodies [][]byte
	var deliveryIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, body)
		deliveryIDs = append(deliveryIDs, r.Header.Get("X-Delivery-Id"))
		mu.Unlock()
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	}))
	defer server.Close()

	sender := NewSender([]string{server.URL, server.URL})
	require.NoError(t, sender.Notify(context.Background(), testFiring()))

	require.Len(t, bodies, 2)
	for _, id := range deliveryIDs {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}

	// Generic endpoint receives the raw event shape.
	var event Event
	require.NoError(t, json.Unmarshal(bodies[0], &event))
	assert.Equal(t, "Gas alert: ethereum", event.Title)
	assert.NotEmpty(t, event.Fields)
}

func TestSenderAggregatesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	sender := NewSender([]string{good.URL, bad.URL})
	err := sender.Notify(context.Background(), testFiring())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSenderNoURLs(t *testing.T) {
	sender := NewSender(nil)
	assert.NoError(t, sender.Notify(context.Background(), testFiring()))
}
