package endorse

import (
	"context"
	"testing"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
	"github.com/stretchr/testify/require"
)

type fakeTxClient struct {
	states   []string
	reads    int
	lists    [][]acapy.Transaction
	listCall int
	endorsed []string
}

func (f *fakeTxClient) GetTransaction(
	_ context.Context, txID string,
) (*acapy.Transaction, error) {
	i := f.reads
	f.reads++
	if i >= len(f.states) {
		i = len(f.states) - 1
	}
	return &acapy.Transaction{TransactionID: txID, State: f.states[i]}, nil
}

func (f *fakeTxClient) GetTransactions(
	_ context.Context,
) ([]acapy.Transaction, error) {
	i := f.listCall
	f.listCall++
	if i >= len(f.lists) {
		i = len(f.lists) - 1
	}
	return f.lists[i], nil
}

func (f *fakeTxClient) EndorseTransaction(
	_ context.Context, txID string,
) error {
	f.endorsed = append(f.endorsed, txID)
	return nil
}

func TestWaitForTxAck(t *testing.T) {
	agent := &fakeTxClient{states: []string{
		"request_sent", "request_sent", acapy.TransactionStateAcked,
	}}
	err := WaitForTxAck(context.Background(), agent, "tx-1",
		poll.Policy{MaxAttempts: 5})
	require.NoError(t, err)
	require.Equal(t, 3, agent.reads)
}

func TestWaitForTxAckTimesOut(t *testing.T) {
	agent := &fakeTxClient{states: []string{"request_sent"}}
	err := WaitForTxAck(context.Background(), agent, "tx-1",
		poll.Policy{MaxAttempts: 3})
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.Timeout))
	require.Contains(t, err.Error(),
		"timeout waiting for endorser to accept the endorsement request")
	require.Equal(t, 3, agent.reads)
}

func TestAwaitRequestAndEndorse(t *testing.T) {
	agent := &fakeTxClient{lists: [][]acapy.Transaction{
		{},
		{{TransactionID: "tx-other", State: "transaction_endorsed"}},
		{
			{TransactionID: "tx-other", State: "transaction_endorsed"},
			{TransactionID: "tx-1", State: acapy.TransactionStateRequestReceived},
		},
	}}
	tx, err := AwaitRequestAndEndorse(context.Background(), agent,
		poll.Policy{MaxAttempts: 5})
	require.NoError(t, err)
	require.Equal(t, "tx-1", tx.TransactionID)
	require.Equal(t, []string{"tx-1"}, agent.endorsed)
}

func TestAwaitRequestAndEndorseTimesOut(t *testing.T) {
	agent := &fakeTxClient{lists: [][]acapy.Transaction{{}}}
	_, err := AwaitRequestAndEndorse(context.Background(), agent,
		poll.Policy{MaxAttempts: 2})
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.Timeout))
	require.Empty(t, agent.endorsed)
}
