package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/onlyvolunteer/backend/models"
)

// Rate-limit categories. Chat and tool calls draw from separate budgets.
const (
	CategoryChat = "chat"
	CategoryTool = "tool"
)

// Per-category fixed-window budgets.
const (
	chatPerMinute = 10
	chatPerHour   = 60
	toolPerMinute = 20
	toolPerHour   = 100

	retryAfterSeconds = 60

	minuteMillis = 60_000
	hourMillis   = 3_600_000
)

// CounterStore persists per-user fixed-window counters.
type CounterStore interface {
	GetRateCounter(ctx context.Context, key string) (*models.RateCounter, error)
	PutRateCounter(ctx context.Context, key string, counter *models.RateCounter) error
}

// LimitResult reports whether a request is admitted.
type LimitResult struct {
	Allowed           bool
	RetryAfterSeconds int
}

// Limiter enforces per-user, per-category fixed-window rate limits backed
// by the document store. Best effort: the read-then-write pair is not
// transactional, and store failures admit the request rather than block it.
type Limiter struct {
	store  CounterStore
	bypass bool
	now    func() time.Time
}

// NewLimiter creates a limiter. bypass disables all checks (local dev).
func NewLimiter(store CounterStore, bypass bool) *Limiter {
	return &Limiter{store: store, bypass: bypass, now: time.Now}
}

// Check admits or rejects one request in the given category for a user.
// Counters reset to 1 whenever a window boundary has passed; the write
// happens only after the request is admitted.
func (l *Limiter) Check(ctx context.Context, category, userID string) LimitResult {
	if l.bypass {
		return LimitResult{Allowed: true}
	}

	perMinute, perHour := chatPerMinute, chatPerHour
	if category == CategoryTool {
		perMinute, perHour = toolPerMinute, toolPerHour
	}

	key := category + "_" + userID
	nowMillis := l.now().UnixMilli()
	minuteWindow := nowMillis / minuteMillis * minuteMillis
	hourWindow := nowMillis / hourMillis * hourMillis

	counter, err := l.store.GetRateCounter(ctx, key)
	if err != nil {
		log.Printf("[RateLimit] Counter read failed for %s, allowing: %v", key, err)
		return LimitResult{Allowed: true}
	}

	minuteCount := 1
	if counter.MinuteWindow == minuteWindow {
		minuteCount = counter.MinuteCount + 1
	}
	hourCount := 1
	if counter.HourWindow == hourWindow {
		hourCount = counter.HourCount + 1
	}

	if minuteCount > perMinute || hourCount > perHour {
		return LimitResult{Allowed: false, RetryAfterSeconds: retryAfterSeconds}
	}

	err = l.store.PutRateCounter(ctx, key, &models.RateCounter{
		MinuteWindow: minuteWindow,
		MinuteCount:  minuteCount,
		HourWindow:   hourWindow,
		HourCount:    hourCount,
	})
	if err != nil {
		log.Printf("[RateLimit] Counter write failed for %s: %v", key, err)
	}
	return LimitResult{Allowed: true}
}
