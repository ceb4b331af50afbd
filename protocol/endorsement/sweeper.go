/*
Package endorsement runs the endorser's side of the write flows: a
periodic sweep over the endorser's transaction list that co-signs
acceptable pending endorsement requests. Authors block on the
transaction-ack wait; this sweeper is what makes those waits finish.
*/
package endorsement

import (
	"context"
	"time"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Agent is the endorser-wallet client surface the sweeper needs.
type Agent interface {
	GetTransactions(ctx context.Context) ([]acapy.Transaction, error)
	GetTransaction(ctx context.Context,
		txID string) (*acapy.Transaction, error)
	EndorseTransaction(ctx context.Context, txID string) error
}

// DefaultInterval is how often the sweep runs.
const DefaultInterval = 5 * time.Second

// Sweeper periodically endorses acceptable pending requests.
type Sweeper struct {
	endorser Agent
	interval time.Duration
	cron     *gocron.Scheduler
}

// NewSweeper builds a Sweeper over the endorser's client. A
// non-positive interval falls back to DefaultInterval.
func NewSweeper(endorser Agent, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		endorser: endorser,
		interval: interval,
		cron:     gocron.NewScheduler(time.Now().Location()),
	}
}

// Start schedules the sweep and returns; sweeps run on the scheduler's
// goroutine until Stop.
func (s *Sweeper) Start(ctx context.Context) (err error) {
	defer err2.Handle(&err, "start endorsement sweeper")

	try.To1(s.cron.Every(s.interval).Do(func() {
		s.Sweep(ctx)
	}))
	s.cron.StartAsync()
	glog.V(1).Infoln("endorsement sweeper started, interval:", s.interval)
	return nil
}

// Stop halts the schedule. A sweep already in flight finishes.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	glog.V(1).Infoln("endorsement sweeper stopped")
}

// Sweep runs one pass: list the endorser's transactions, re-read each
// candidate fresh, and endorse the acceptable ones. Errors are logged
// and the pass continues; the next period retries whatever is left.
func (s *Sweeper) Sweep(ctx context.Context) (endorsed int) {
	txs, err := s.endorser.GetTransactions(ctx)
	if err != nil {
		glog.Warningln("sweep: listing transactions:", err)
		return 0
	}
	for i := range txs {
		if txs[i].State != acapy.TransactionStateRequestReceived {
			continue
		}
		// re-read: the list snapshot may be stale by the time we act
		tx, err := s.endorser.GetTransaction(ctx, txs[i].TransactionID)
		if err != nil {
			glog.Warningln("sweep: fetching transaction:", err)
			continue
		}
		if tx.State != acapy.TransactionStateRequestReceived {
			continue
		}
		if !shouldEndorse(tx) {
			continue
		}
		if err := s.endorser.EndorseTransaction(ctx,
			tx.TransactionID); err != nil {
			glog.Warningln("sweep: endorsing:", err)
			continue
		}
		glog.V(1).Infoln("endorsed transaction:", tx.TransactionID)
		endorsed++
	}
	return endorsed
}
