package onboarding

import (
	"context"
	"testing"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/stretchr/testify/require"
)

func TestAcceptTAANotRequired(t *testing.T) {
	agent := &fakeAgent{taa: &acapy.TAAInfo{TAARequired: false}}
	require.NoError(t, acceptTAAIfRequired(context.Background(), agent))
	require.False(t, agent.acceptedTAA)
}

func TestAcceptTAARequired(t *testing.T) {
	agent := &fakeAgent{taa: &acapy.TAAInfo{
		TAARequired: true,
		TAARecord:   &acapy.TAARecord{Digest: "d1", Version: "1.0"},
	}}
	require.NoError(t, acceptTAAIfRequired(context.Background(), agent))
	require.True(t, agent.acceptedTAA)
}

func TestAcceptTAASkipsPriorAcceptance(t *testing.T) {
	agent := &fakeAgent{taa: &acapy.TAAInfo{
		TAARequired: true,
		TAARecord:   &acapy.TAARecord{Digest: "d1"},
		TAAAccepted: &acapy.TAAAcceptance{
			Mechanism: "on_file",
			Time:      1700000000,
		},
	}}
	require.NoError(t, acceptTAAIfRequired(context.Background(), agent))
	require.False(t, agent.acceptedTAA)
}

func TestAcceptTAAFailsWithoutRecord(t *testing.T) {
	agent := &fakeAgent{taa: &acapy.TAAInfo{TAARequired: true}}
	err := acceptTAAIfRequired(context.Background(), agent)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no taa record")
}

func TestGetTAAMechanismFallback(t *testing.T) {
	agent := &fakeAgent{taa: &acapy.TAAInfo{
		TAARequired: true,
		TAARecord:   &acapy.TAARecord{Digest: "d1"},
	}}
	_, mechanism, err := getTAA(context.Background(), agent)
	require.NoError(t, err)
	require.Equal(t, "service_agreement", mechanism)

	agent.taa.TAAAccepted = &acapy.TAAAcceptance{Mechanism: "on_file"}
	_, mechanism, err = getTAA(context.Background(), agent)
	require.NoError(t, err)
	require.Equal(t, "on_file", mechanism)
}
