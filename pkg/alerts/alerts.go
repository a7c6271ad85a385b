// Package alerts watches gas samples against user-defined thresholds.
package alerts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/internal/metrics"
	"github.com/chainsafe/ethgas/pkg/history"
)

// Rule fires when a network's base fee drops to or below the threshold.
type Rule struct {
	ID        uuid.UUID `json:"id"`
	Network   string    `json:"network"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"created_at"`
}

// Firing is a single triggered rule paired with the sample that
// triggered it.
type Firing struct {
	Rule    Rule
	Sample  history.Sample
	Message string
}

// Notifier delivers a firing somewhere external. Implementations must
// be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, firing Firing) error
}

// Watcher holds the rule set and the per-rule latch state. A rule
// fires once when the base fee crosses down through its threshold and
// re-arms only after the fee rises back above it.
type Watcher struct {
	mu       sync.Mutex
	rules    map[uuid.UUID]Rule
	latched  map[uuid.UUID]bool
	notifier Notifier
	logger   *zap.Logger
}

type WatcherOption func(*Watcher)

func WithNotifier(n Notifier) WatcherOption {
	return func(w *Watcher) { w.notifier = n }
}

func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

func NewWatcher(opts ...WatcherOption) *Watcher {
	w := &Watcher{
		rules:   make(map[uuid.UUID]Rule),
		latched: make(map[uuid.UUID]bool),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add stores the rule and returns it with its assigned ID and
// creation time filled in.
func (w *Watcher) Add(rule Rule) Rule {
	rule.ID = uuid.New()
	rule.CreatedAt = time.Now().UTC()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.rules[rule.ID] = rule
	return rule
}

func (w *Watcher) Remove(id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.rules[id]; !ok {
		return fmt.Errorf("alert rule %s not found", id)
	}
	delete(w.rules, id)
	delete(w.latched, id)
	return nil
}

// List returns the rules ordered by creation time.
func (w *Watcher) List() []Rule {
	w.mu.Lock()
	defer w.mu.Unlock()

	rules := make([]Rule, 0, len(w.rules))
	for _, rule := range w.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
	return rules
}

// Observe evaluates the sample against all rules for its network and
// returns the rules that fired. Notifier errors are logged and do not
// propagate.
func (w *Watcher) Observe(ctx context.Context, sample history.Sample) []Firing {
	firings := w.evaluate(sample)

	for _, firing := range firings {
		metrics.AlertsFiredTotal.WithLabelValues(sample.Network).Inc()
		if w.notifier == nil {
			continue
		}
		if err := w.notifier.Notify(ctx, firing); err != nil {
			w.logger.Warn("alert notification failed",
				zap.String("network", sample.Network),
				zap.String("rule_id", firing.Rule.ID.String()),
				zap.Error(err))
		}
	}
	return firings
}

func (w *Watcher) evaluate(sample history.Sample) []Firing {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firings []Firing
	for id, rule := range w.rules {
		if rule.Network != sample.Network {
			continue
		}
		below := sample.BaseFee <= rule.Threshold
		switch {
		case below && !w.latched[id]:
			w.latched[id] = true
			firings = append(firings, Firing{
				Rule:   rule,
				Sample: sample,
				Message: fmt.Sprintf("%s base fee %.2f gwei is at or below %.2f gwei",
					sample.Network, sample.BaseFee, rule.Threshold),
			})
		case !below && w.latched[id]:
			w.latched[id] = false
		}
	}
	return firings
}
