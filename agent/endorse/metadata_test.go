package endorse

import (
	"context"
	"errors"
	"testing"

	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
	"github.com/stretchr/testify/require"
)

type fakeMetadataReader struct {
	calls int
	// each call pops the next entry; an error entry simulates the
	// agent's transient duplicate-record failure
	responses []metadataResponse
}

type metadataResponse struct {
	md  map[string]any
	err error
}

func (f *fakeMetadataReader) GetConnectionMetadata(
	_ context.Context, _ string,
) (map[string]any, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	r := f.responses[i]
	return r.md, r.err
}

func endorserRoleMD() map[string]any {
	return map[string]any{
		"transaction_jobs": map[string]any{
			"transaction_my_job": "TRANSACTION_ENDORSER",
		},
	}
}

func authorInfoMD(endorserDID string) map[string]any {
	return map[string]any{
		"transaction_jobs": map[string]any{
			"transaction_my_job":    "TRANSACTION_AUTHOR",
			"transaction_their_job": "TRANSACTION_ENDORSER",
		},
		"endorser_info": map[string]any{
			"endorser_did": endorserDID,
		},
	}
}

func TestParseRoleMetadata(t *testing.T) {
	md := ParseRoleMetadata(authorInfoMD("EndorserDID1"))
	require.Equal(t, JobAuthor, md.MyJob)
	require.Equal(t, JobEndorser, md.TheirJob)
	require.Equal(t, "EndorserDID1", md.EndorserDID)

	empty := ParseRoleMetadata(map[string]any{})
	require.Empty(t, empty.MyJob)
	require.Empty(t, empty.TheirJob)
	require.Empty(t, empty.EndorserDID)

	// wrong shapes must not panic
	odd := ParseRoleMetadata(map[string]any{
		"transaction_jobs": "not-a-map",
		"endorser_info":    42,
	})
	require.Empty(t, odd.MyJob)
}

func TestAssertMetadataRetriesReadErrors(t *testing.T) {
	agent := &fakeMetadataReader{responses: []metadataResponse{
		{err: errors.New("duplicate record for connection metadata")},
		{md: map[string]any{}},
		{md: endorserRoleMD()},
	}}

	err := AssertEndorserRoleSet(context.Background(), agent, "conn-1",
		poll.Policy{MaxAttempts: 5})
	require.NoError(t, err)
	require.Equal(t, 3, agent.calls)
}

func TestAssertMetadataExhaustionIsAssertionKinded(t *testing.T) {
	agent := &fakeMetadataReader{responses: []metadataResponse{
		{md: map[string]any{}},
	}}

	err := AssertAuthorRoleSet(context.Background(), agent, "conn-1",
		poll.Policy{MaxAttempts: 3})
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.Assertion))
	require.Equal(t, 3, agent.calls)
}

func TestAssertEndorserInfoChecksTheDID(t *testing.T) {
	agent := &fakeMetadataReader{responses: []metadataResponse{
		{md: authorInfoMD("SomeOtherDID")},
		{md: authorInfoMD("EndorserDID1")},
	}}

	err := AssertEndorserInfoSet(context.Background(), agent, "conn-1",
		"EndorserDID1", poll.Policy{MaxAttempts: 5})
	require.NoError(t, err)
	require.Equal(t, 2, agent.calls)
}
