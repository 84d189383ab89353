package points

import (
	"context"
	"sync"
	"time"

	"github.com/mkorolis/imagepoints/internal/logging"
)

// Balance is the account snapshot returned by the points service.
type Balance struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	CurrentPoints int64  `json:"current_points"`
	LastUpdated   string `json:"last_updated"`
	TodayUsage    int64  `json:"today_usage"`
	MonthUsage    int64  `json:"month_usage"`
}

// Fetcher retrieves the authoritative balance from the remote service.
type Fetcher interface {
	QueryBalance(ctx context.Context, headers map[string]string) (*Balance, error)
}

// Ledger holds the cached balance. The cache is an optimistic hint: local
// debits may drift from the server-side ledger and the next successful
// Refresh reconciles them (fetch wins). The Ledger is the only component
// allowed to mutate the balance.
type Ledger struct {
	fetcher Fetcher
	log     logging.Logger

	mu      sync.Mutex
	balance *Balance

	now func() time.Time
}

func NewLedger(fetcher Fetcher, log logging.Logger) *Ledger {
	return &Ledger{
		fetcher: fetcher,
		log:     log.With("component", "points"),
		now:     time.Now,
	}
}

// Refresh replaces the cached balance with a fresh remote fetch. On failure
// the previous cached balance is left untouched and the error returned;
// the caller decides whether to retry (there is no automatic retry).
func (l *Ledger) Refresh(ctx context.Context, headers map[string]string) (*Balance, error) {
	fetched, err := l.fetcher.QueryBalance(ctx, headers)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.balance = fetched
	copied := *fetched
	l.mu.Unlock()

	l.log.Info(ctx, "balance refreshed",
		"user", copied.Username, "current_points", copied.CurrentPoints)
	return &copied, nil
}

// Balance returns a copy of the cached balance, if one is loaded.
func (l *Ledger) Balance() (Balance, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance == nil {
		return Balance{}, false
	}
	return *l.balance, true
}

// DebitLocally applies the optimistic decrement after a confirmed spend:
// currentPoints floors at zero and todayUsage grows by the debit. Must only
// be called once the corresponding generation record has been durably
// created. A no-op when no balance is cached.
func (l *Ledger) DebitLocally(points int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance == nil {
		return
	}

	l.balance.CurrentPoints -= points
	if l.balance.CurrentPoints < 0 {
		l.balance.CurrentPoints = 0
	}
	l.balance.TodayUsage += points
	l.balance.LastUpdated = l.now().Format(time.RFC3339)
}

// Invalidate drops the cached balance, e.g. when the credential is cleared.
func (l *Ledger) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = nil
}
