// Package notify dispatches account events to interested collaborators.
// Dispatch is fire-and-forget on a worker pool; the core never blocks on it
// and a lost event never fails the originating operation.
package notify

import (
	"log/slog"
	"time"

	"github.com/M1hasMAD/account-service/internal/metrics"
	"github.com/M1hasMAD/account-service/internal/worker"
	"github.com/google/uuid"
)

// Event kinds emitted by the services.
const (
	AccountOpened   = "account.opened"
	AccountFrozen   = "account.frozen"
	AccountBlocked  = "account.blocked"
	AccountClosed   = "account.closed"
	BalanceCreated  = "balance.created"
	BalanceUpdated  = "balance.updated"
	BalanceDeposit  = "balance.deposit"
	BalanceWithdraw = "balance.withdraw"
	BalanceTransfer = "balance.transfer"
)

type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	AccountID int64     `json:"account_id"`
	At        time.Time `json:"at"`
}

type Notifier struct {
	pool *worker.Pool
	log  *slog.Logger
}

func New(pool *worker.Pool, log *slog.Logger) *Notifier {
	return &Notifier{pool: pool, log: log}
}

// Publish queues an event for async dispatch. A nil Notifier is a no-op so
// services can run without one in tests.
func (n *Notifier) Publish(kind string, accountID int64) {
	if n == nil {
		return
	}
	ev := Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		AccountID: accountID,
		At:        time.Now().UTC(),
	}
	n.pool.Submit(func() {
		n.log.Info("account event",
			"event_id", ev.ID,
			"kind", ev.Kind,
			"account_id", ev.AccountID,
		)
		metrics.EventsPublished.WithLabelValues(ev.Kind).Inc()
	})
}
