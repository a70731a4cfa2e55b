package lifecycle

import (
	"context"
	"log/slog"

	"github.com/atlas-stays/atlas-stays/internal/authz"
)

// Forgetter removes derived-value cache entries by key. Invalidation is
// forget-only: the next reader recomputes and repopulates lazily.
type Forgetter interface {
	Forget(ctx context.Context, keys ...string) error
}

// Rule declares which cache keys a family's mutations invalidate. A rule
// fires unconditionally on created and deleted (the aggregate's cardinality
// changed) and on updated only when the event's changed fields intersect
// WatchedFields.
type Rule struct {
	Family        authz.Family
	WatchedFields []string
	Keys          []string
}

func (r Rule) matches(ev Event) bool {
	if r.Family != ev.Family {
		return false
	}
	if ev.Op == OpCreated || ev.Op == OpDeleted {
		return true
	}
	for _, field := range r.WatchedFields {
		if _, ok := ev.Changed[field]; ok {
			return true
		}
	}
	return false
}

// Notifier fans a lifecycle event out to every matching invalidation rule.
// The rule table is fixed at construction and safe for concurrent use.
type Notifier struct {
	cache  Forgetter
	logger *slog.Logger
	rules  []Rule
}

// NewNotifier constructs a Notifier over a fixed rule table.
func NewNotifier(cache Forgetter, logger *slog.Logger, rules []Rule) *Notifier {
	return &Notifier{cache: cache, logger: logger, rules: rules}
}

// Notify runs every rule matching the event. The underlying entity write
// has already committed, so rule failures are logged and swallowed; cache
// staleness must never change the caller-visible outcome of the write.
func (n *Notifier) Notify(ctx context.Context, ev Event) {
	if n == nil {
		return
	}
	for _, rule := range n.rules {
		if !rule.matches(ev) {
			continue
		}
		if err := n.cache.Forget(ctx, rule.Keys...); err != nil {
			n.logger.Error("cache invalidation failed",
				slog.String("family", string(ev.Family)),
				slog.String("op", string(ev.Op)),
				slog.Any("keys", rule.Keys),
				slog.Any("error", err),
			)
		}
	}
}
