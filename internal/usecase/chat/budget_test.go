package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// --- Mocks ---

type mockBudgetStore struct {
	mu     sync.Mutex
	values map[string]int64
	getErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{values: map[string]int64{}}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.values[key], nil
}

// --- Tests ---

func TestBudgetTracker_RejectWhenExceeded(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 0, BudgetActionReject, zap.NewNop())
	bt.Record(100)

	if err := bt.Check(context.Background()); !errors.Is(err, domain.ErrChatQuotaExceeded) {
		t.Fatalf("expected ErrChatQuotaExceeded, got %v", err)
	}
}

func TestBudgetTracker_WarnWhenExceeded(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 0, BudgetActionWarn, zap.NewNop())
	bt.Record(200)

	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected nil error for warn action, got %v", err)
	}
}

func TestBudgetTracker_MonthlyReject(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 500, BudgetActionReject, zap.NewNop())
	bt.Record(500)

	if err := bt.Check(context.Background()); !errors.Is(err, domain.ErrChatQuotaExceeded) {
		t.Fatalf("expected ErrChatQuotaExceeded for monthly limit, got %v", err)
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	bt := NewBudgetTracker("test", 1000, 10000, BudgetActionWarn, zap.NewNop())
	bt.Record(300)

	if got := bt.RemainingDaily(); got != 700 {
		t.Errorf("expected daily remaining 700, got %d", got)
	}
	if got := bt.RemainingMonthly(); got != 9700 {
		t.Errorf("expected monthly remaining 9700, got %d", got)
	}

	bt.Record(5000)
	if got := bt.RemainingDaily(); got != 0 {
		t.Errorf("expected remaining clamped to 0, got %d", got)
	}
}

func TestBudgetTracker_RemainingUnlimited(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 0, BudgetActionWarn, zap.NewNop())
	if bt.RemainingDaily() != -1 || bt.RemainingMonthly() != -1 {
		t.Error("expected -1 for unlimited budgets")
	}
}

func TestBudgetTracker_DayRollover(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 1000, BudgetActionReject, zap.NewNop())
	now := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	bt.now = func() time.Time { return now }
	bt.lastDayReset = truncateToDay(now)
	bt.lastMonthReset = truncateToMonth(now)

	bt.Record(100)
	if err := bt.Check(context.Background()); err == nil {
		t.Fatal("expected rejection before rollover")
	}

	now = now.Add(2 * time.Hour)
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected budget reset after rollover, got %v", err)
	}
	if got := bt.RemainingMonthly(); got != 1000 {
		t.Errorf("month also rolled over, expected 1000, got %d", got)
	}
}

func TestBudgetTracker_PersistsAndLoads(t *testing.T) {
	store := newMockBudgetStore()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	bt := NewBudgetTracker("gemini", 1000, 0, BudgetActionWarn, zap.NewNop())
	bt.now = func() time.Time { return now }
	bt.WithStore(context.Background(), store)
	bt.Record(40)

	if got := store.values["docqa:budget:gemini:daily:2025-06-15"]; got != 40 {
		t.Errorf("daily key = %d", got)
	}
	if got := store.values["docqa:budget:gemini:monthly:2025-06"]; got != 40 {
		t.Errorf("monthly key = %d", got)
	}

	restored := NewBudgetTracker("gemini", 1000, 0, BudgetActionWarn, zap.NewNop())
	restored.now = func() time.Time { return now }
	restored.WithStore(context.Background(), store)
	if got := restored.RemainingDaily(); got != 960 {
		t.Errorf("expected restored remaining 960, got %d", got)
	}
}

func TestBudgetTracker_Concurrent(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 0, BudgetActionWarn, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bt.Record(2)
			_ = bt.Check(context.Background())
		}()
	}
	wg.Wait()

	bt.mu.Lock()
	defer bt.mu.Unlock()
	if bt.dailyUsed != 100 {
		t.Errorf("expected 100 tokens, got %d", bt.dailyUsed)
	}
}
