// Package webhooks delivers alert firings to Slack, Discord, Teams, or
// generic JSON webhook endpoints.
package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/internal/metrics"
	"github.com/chainsafe/ethgas/pkg/alerts"
)

const defaultTimeout = 10 * time.Second

// Field is one name/value pair attached to an Event.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Event is the platform-neutral alert message; the sender reshapes it
// per destination.
type Event struct {
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Fields  []Field `json:"fields,omitempty"`
	Color   int     `json:"color"`
}

// Sender posts events to a fixed set of webhook URLs. It implements
// the alerts Notifier.
type Sender struct {
	urls       []string
	httpClient *http.Client
	logger     *zap.Logger
}

type SenderOption func(*Sender)

func WithHTTPClient(client *http.Client) SenderOption {
	return func(s *Sender) { s.httpClient = client }
}

func WithLogger(logger *zap.Logger) SenderOption {
	return func(s *Sender) { s.logger = logger }
}

func NewSender(urls []string, opts ...SenderOption) *Sender {
	s := &Sender{
		urls:   urls,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return s
}

// Notify converts the firing into an event and fans it out to every
// configured URL concurrently. Per-URL failures are collected into a
// single error; any successful delivery still goes through.
func (s *Sender) Notify(ctx context.Context, firing alerts.Firing) error {
	event := eventFromFiring(firing)

	var wg sync.WaitGroup
	errs := make([]error, len(s.urls))
	for i, url := range s.urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			errs[i] = s.deliver(ctx, url, event)
		}(i, url)
	}
	wg.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			s.logger.Warn("webhook delivery failed",
				zap.String("url", s.urls[i]),
				zap.Error(err))
			failed = append(failed, err.Error())
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("webhook delivery: %s", strings.Join(failed, "; "))
	}
	return nil
}

func (s *Sender) deliver(ctx context.Context, url string, event Event) error {
	platform := detectPlatform(url)
	payload, err := json.Marshal(payloadFor(platform, event))
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.NewString())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues(platform, "error").Inc()
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.WebhookDeliveriesTotal.WithLabelValues(platform, "error").Inc()
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	metrics.WebhookDeliveriesTotal.WithLabelValues(platform, "ok").Inc()
	return nil
}

func detectPlatform(url string) string {
	switch {
	case strings.Contains(url, "slack.com"):
		return "slack"
	case strings.Contains(url, "discord.com"), strings.Contains(url, "discordapp.com"):
		return "discord"
	case strings.Contains(url, "webhook.office.com"):
		return "teams"
	default:
		return "generic"
	}
}

func payloadFor(platform string, event Event) any {
	switch platform {
	case "slack":
		return SlackPayload(event)
	case "discord":
		return DiscordPayload(event)
	case "teams":
		return TeamsPayload(event)
	default:
		return event
	}
}

func eventFromFiring(firing alerts.Firing) Event {
	return Event{
		Title:   fmt.Sprintf("Gas alert: %s", firing.Sample.Network),
		Message: firing.Message,
		Fields: []Field{
			{Name: "Network", Value: firing.Sample.Network},
			{Name: "Base Fee", Value: fmt.Sprintf("%.2f gwei", firing.Sample.BaseFee)},
			{Name: "Threshold", Value: fmt.Sprintf("%.2f gwei", firing.Rule.Threshold)},
			{Name: "Block", Value: fmt.Sprintf("%d", firing.Sample.BlockNumber)},
		},
		Color: 0x2ecc71,
	}
}
