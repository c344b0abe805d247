package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/pkg/config"
)

// Engine merges two independent order-arrival signals — a fixed-interval poll
// and a push subscription — into one deduplicated feed. All feed state is owned
// by the instance and injected at construction; there are no package globals.
//
// Both producers funnel into the single Run goroutine, so interleaving between
// them is resolved in one place: materialize, keyed by order id.
type Engine struct {
	source  Source
	alerter Alerter
	clock   clock.Clock
	logger  *slog.Logger
	cfg     config.NotifyConfig

	mu           sync.Mutex
	baseline     int64
	baselineSet  bool
	seen         map[uuid.UUID]struct{}
	feed         []Notification // newest first, capped at cfg.FeedLimit
	unread       int
	soundEnabled bool
}

func NewEngine(source Source, alerter Alerter, clk clock.Clock, cfg config.NotifyConfig, logger *slog.Logger) *Engine {
	if cfg.FeedLimit <= 0 {
		cfg.FeedLimit = 20
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 10
	}
	return &Engine{
		source:       source,
		alerter:      alerter,
		clock:        clk,
		logger:       logger,
		cfg:          cfg,
		seen:         make(map[uuid.UUID]struct{}),
		soundEnabled: true,
	}
}

// Run drives the poll ticker and consumes push events until ctx is cancelled.
// Cancelling ctx tears down both producers together; a stale instance must not
// keep feeding the feed after a new one subscribes.
//
// events may deliver duplicates of orders the poll already observed (and vice
// versa); that is the normal case, not an error. A closed events channel
// degrades the engine to poll-only operation.
func (e *Engine) Run(ctx context.Context, events <-chan OrderHead) {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	// Establish the baseline immediately so a restart does not flood the feed
	// with phantom alerts for every existing order.
	e.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.poll(ctx)
		case head, ok := <-events:
			if !ok {
				events = nil // nil channel blocks forever: poll-only from here
				continue
			}
			e.observe(head)
		}
	}
}

// poll re-reads the total order count and materializes the delta since the
// previous successful poll. A failed poll is swallowed and retried on the next
// tick; it never touches the baseline, so a transient outage cannot be
// mistaken for "no new orders" nor flood the feed on recovery.
func (e *Engine) poll(ctx context.Context) {
	count, err := e.source.CountOrders(ctx)
	if err != nil {
		e.logger.Warn("order poll failed, keeping baseline", "error", err)
		return
	}

	e.mu.Lock()
	if !e.baselineSet {
		e.baseline = count
		e.baselineSet = true
		e.mu.Unlock()
		return
	}
	delta := count - e.baseline
	e.mu.Unlock()

	if delta <= 0 {
		if delta < 0 {
			// Orders were purged; track the lower count so the next insert
			// still produces an alert.
			e.mu.Lock()
			e.baseline = count
			e.mu.Unlock()
		}
		return
	}

	limit := delta
	if limit > int64(e.cfg.RecentWindow) {
		limit = int64(e.cfg.RecentWindow)
	}
	heads, err := e.source.RecentOrders(ctx, int32(limit))
	if err != nil {
		// Baseline untouched: the same delta is retried on the next tick.
		e.logger.Warn("failed to read recent orders, keeping baseline", "error", err)
		return
	}

	e.mu.Lock()
	e.baseline = count
	e.mu.Unlock()

	// RecentOrders is newest first; surface the oldest of the new batch first.
	for i := len(heads) - 1; i >= 0; i-- {
		e.observe(heads[i])
	}
}

// observe materializes a notification for an order unless one already exists
// for that order id. This is the single dedup-and-merge step both producers
// flow through.
func (e *Engine) observe(head OrderHead) {
	e.mu.Lock()
	if _, dup := e.seen[head.ID]; dup {
		e.mu.Unlock()
		return
	}
	e.seen[head.ID] = struct{}{}

	now := e.clock.Now()
	n := Notification{
		ID:          fmt.Sprintf("%s-%d", head.ID, now.UnixMilli()),
		Type:        TypeNewOrder,
		OrderID:     head.ID,
		OrderNumber: head.OrderNumber,
		Message:     formatNewOrderMessage(head),
		CreatedAt:   now,
	}

	e.feed = append([]Notification{n}, e.feed...)
	if len(e.feed) > e.cfg.FeedLimit {
		// Oldest entries are dropped silently, not archived.
		e.feed = e.feed[:e.cfg.FeedLimit]
	}
	e.unread++
	sound := e.soundEnabled
	e.mu.Unlock()

	e.alerter.Alert(n, sound)
}

// Feed returns the current feed, newest first.
func (e *Engine) Feed() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Notification, len(e.feed))
	copy(out, e.feed)
	return out
}

func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unread
}

// MarkRead flips one notification and reports whether it was found.
func (e *Engine) MarkRead(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.feed {
		if e.feed[i].ID != id {
			continue
		}
		if !e.feed[i].IsRead {
			e.feed[i].IsRead = true
			if e.unread > 0 {
				e.unread--
			}
		}
		return true
	}
	return false
}

func (e *Engine) MarkAllRead() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.feed {
		e.feed[i].IsRead = true
	}
	e.unread = 0
}

// ClearAll empties the feed. The seen-set is kept: an order never produces a
// second new_order notification within the process lifetime.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feed = nil
	e.unread = 0
}

func (e *Engine) SetSoundEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.soundEnabled = enabled
}

func (e *Engine) SoundEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.soundEnabled
}
