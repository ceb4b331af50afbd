package endorse

import (
	"context"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
	"github.com/golang/glog"
)

// TransactionReader fetches endorsement transactions by id.
type TransactionReader interface {
	GetTransaction(
		ctx context.Context, txID string) (*acapy.Transaction, error)
}

// TransactionClient additionally lists and co-signs transactions; the
// endorser's side of the flows needs it.
type TransactionClient interface {
	TransactionReader
	GetTransactions(ctx context.Context) ([]acapy.Transaction, error)
	EndorseTransaction(ctx context.Context, txID string) error
}

// WaitForTxAck polls a ledger transaction until the endorser has
// co-signed it and the ledger write is acknowledged. Only the state
// field is inspected. An unacknowledged transaction after the bound
// almost always means the endorser is offline or misconfigured, so the
// exhausted bound surfaces as a Timeout-kinded error for the caller to
// report rather than silently retrying forever.
func WaitForTxAck(
	ctx context.Context,
	agent TransactionReader,
	txID string,
	p poll.Policy,
) error {
	glog.V(1).Infoln("waiting for transaction ack:", txID)
	_, err := poll.UntilField(ctx, p,
		func(ctx context.Context) (*acapy.Transaction, error) {
			return agent.GetTransaction(ctx, txID)
		},
		func(tx *acapy.Transaction) string { return tx.State },
		acapy.TransactionStateAcked)
	if err != nil {
		return apierr.Wrap(apierr.Timeout, err,
			"timeout waiting for endorser to accept the endorsement request")
	}
	glog.V(1).Infoln("transaction acked:", txID)
	return nil
}

// AwaitRequestAndEndorse polls the endorser's transaction list for a
// request pending endorsement and co-signs the first one found. It
// returns the endorsed transaction.
func AwaitRequestAndEndorse(
	ctx context.Context,
	endorser TransactionClient,
	p poll.Policy,
) (
	*acapy.Transaction,
	error,
) {
	txs, err := poll.Until(ctx, p,
		func(ctx context.Context) ([]acapy.Transaction, error) {
			return endorser.GetTransactions(ctx)
		},
		func(txs []acapy.Transaction) bool {
			return firstRequestReceived(txs) != nil
		})
	if err != nil {
		return nil, apierr.Wrap(apierr.Timeout, err,
			"timeout waiting for endorsement request")
	}
	tx := firstRequestReceived(txs)
	glog.V(1).Infoln("endorsing transaction:", tx.TransactionID)
	if err := endorser.EndorseTransaction(ctx, tx.TransactionID); err != nil {
		return nil, err
	}
	return tx, nil
}

func firstRequestReceived(txs []acapy.Transaction) *acapy.Transaction {
	for i := range txs {
		if txs[i].State == acapy.TransactionStateRequestReceived {
			return &txs[i]
		}
	}
	return nil
}
