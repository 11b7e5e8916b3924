package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlyvolunteer/backend/models"
)

type fakeCounterStore struct {
	counters map[string]*models.RateCounter
	getErr   error
	putErr   error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counters: make(map[string]*models.RateCounter)}
}

func (f *fakeCounterStore) GetRateCounter(_ context.Context, key string) (*models.RateCounter, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if c, ok := f.counters[key]; ok {
		copied := *c
		return &copied, nil
	}
	return &models.RateCounter{}, nil
}

func (f *fakeCounterStore) PutRateCounter(_ context.Context, key string, counter *models.RateCounter) error {
	if f.putErr != nil {
		return f.putErr
	}
	copied := *counter
	f.counters[key] = &copied
	return nil
}

func limiterAt(store CounterStore, at time.Time) *Limiter {
	l := NewLimiter(store, false)
	l.now = func() time.Time { return at }
	return l
}

func TestLimiterMinuteWindow(t *testing.T) {
	store := newFakeCounterStore()
	l := limiterAt(store, time.UnixMilli(1_700_000_000_000))

	for i := 1; i <= 10; i++ {
		result := l.Check(context.Background(), CategoryChat, "u1")
		assert.True(t, result.Allowed, "call %d should be allowed", i)
	}

	result := l.Check(context.Background(), CategoryChat, "u1")
	require.False(t, result.Allowed)
	assert.Equal(t, 60, result.RetryAfterSeconds)
}

func TestLimiterWindowReset(t *testing.T) {
	store := newFakeCounterStore()
	start := time.UnixMilli(1_700_000_000_000)
	l := limiterAt(store, start)

	for i := 0; i < 10; i++ {
		l.Check(context.Background(), CategoryChat, "u1")
	}
	require.False(t, l.Check(context.Background(), CategoryChat, "u1").Allowed)

	l.now = func() time.Time { return start.Add(time.Minute) }
	result := l.Check(context.Background(), CategoryChat, "u1")
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, store.counters["chat_u1"].MinuteCount)
}

func TestLimiterToolBudgetSeparate(t *testing.T) {
	store := newFakeCounterStore()
	l := limiterAt(store, time.UnixMilli(1_700_000_000_000))

	for i := 0; i < 10; i++ {
		require.True(t, l.Check(context.Background(), CategoryChat, "u1").Allowed)
	}
	require.False(t, l.Check(context.Background(), CategoryChat, "u1").Allowed)

	// tool budget is untouched by chat usage and is twice as large
	for i := 1; i <= 20; i++ {
		assert.True(t, l.Check(context.Background(), CategoryTool, "u1").Allowed, "tool call %d", i)
	}
	assert.False(t, l.Check(context.Background(), CategoryTool, "u1").Allowed)
}

func TestLimiterFailsOpen(t *testing.T) {
	store := newFakeCounterStore()
	store.getErr = errors.New("store unreachable")
	l := limiterAt(store, time.UnixMilli(1_700_000_000_000))

	assert.True(t, l.Check(context.Background(), CategoryChat, "u1").Allowed)
}

func TestLimiterBypass(t *testing.T) {
	l := NewLimiter(nil, true)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Check(context.Background(), CategoryChat, "u1").Allowed)
	}
}

func TestLimiterUsersIndependent(t *testing.T) {
	store := newFakeCounterStore()
	l := limiterAt(store, time.UnixMilli(1_700_000_000_000))

	for i := 0; i < 10; i++ {
		l.Check(context.Background(), CategoryChat, "u1")
	}
	require.False(t, l.Check(context.Background(), CategoryChat, "u1").Allowed)
	assert.True(t, l.Check(context.Background(), CategoryChat, "u2").Allowed)
}
