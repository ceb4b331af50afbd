package onboarding

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/endorse"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
	"github.com/stretchr/testify/require"
)

// fakeAgent fakes one wallet's agent client. The zero value behaves as
// an empty wallet; fields opt in to provisioned state. Calls that write
// are recorded so the tests can check what ran and what was skipped.
type fakeAgent struct {
	publicDID string
	verkey    string
	taa       *acapy.TAAInfo

	calls []string

	// handshake-side state
	roleSet       bool
	theirRoleSet  bool
	endorserDID   string
	registeredNym string
	acceptedTAA   bool
	publicDIDSet  string
	endorsed      []string
	invitationReq acapy.InvitationRequest
}

func (f *fakeAgent) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAgent) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeAgent) CreateInvitation(
	_ context.Context, req acapy.InvitationRequest,
) (*acapy.InvitationRecord, error) {
	f.record("CreateInvitation")
	f.invitationReq = req
	service, _ := json.Marshal(acapy.Service{
		ID:            "#inline",
		Type:          "did-communication",
		RecipientKeys: []string{"C3LziyNczdGEqT9cAyqbKVpGRWTvRCUxvWE3J7FbLGB1"},
	})
	return &acapy.InvitationRecord{
		InviMsgID:     "invi-msg-1",
		InvitationURL: "http://agent.example.com?oob=eyJp",
		Invitation: &acapy.Invitation{
			Label:    req.Alias,
			Services: []json.RawMessage{service},
		},
	}, nil
}

func (f *fakeAgent) ReceiveInvitation(
	_ context.Context, _ *acapy.Invitation, alias string,
) (*acapy.Connection, error) {
	f.record("ReceiveInvitation")
	return &acapy.Connection{ConnectionID: "author-conn-1", Alias: alias}, nil
}

func (f *fakeAgent) GetConnections(
	_ context.Context, _ acapy.ConnectionFilter,
) ([]acapy.Connection, error) {
	f.record("GetConnections")
	return []acapy.Connection{{
		ConnectionID: "endorser-conn-1",
		State:        acapy.ConnectionStateCompleted,
	}}, nil
}

func (f *fakeAgent) GetConnectionMetadata(
	_ context.Context, _ string,
) (map[string]any, error) {
	md := map[string]any{}
	jobs := map[string]any{}
	if f.roleSet {
		jobs["transaction_my_job"] = endorse.JobEndorser
		if f.theirRoleSet {
			jobs["transaction_my_job"] = endorse.JobAuthor
			jobs["transaction_their_job"] = endorse.JobEndorser
		}
	}
	md["transaction_jobs"] = jobs
	if f.endorserDID != "" {
		md["endorser_info"] = map[string]any{"endorser_did": f.endorserDID}
	}
	return md, nil
}

func (f *fakeAgent) SetConnectionRole(
	_ context.Context, _, role string,
) error {
	f.record("SetConnectionRole")
	f.roleSet = true
	if role == endorse.JobAuthor {
		f.theirRoleSet = true
	}
	return nil
}

func (f *fakeAgent) SetEndorserInfo(
	_ context.Context, _, endorserDID string,
) error {
	f.record("SetEndorserInfo")
	f.endorserDID = endorserDID
	return nil
}

func (f *fakeAgent) CreateDID(_ context.Context) (*acapy.DID, error) {
	f.record("CreateDID")
	return &acapy.DID{DID: "ISSUER1", Verkey: "IssuerVerkey1"}, nil
}

func (f *fakeAgent) GetPublicDID(_ context.Context) (*acapy.DID, error) {
	f.record("GetPublicDID")
	if f.publicDID == "" {
		return nil, apierr.New(apierr.NotFound, "no public did")
	}
	return &acapy.DID{DID: f.publicDID, Verkey: f.verkey}, nil
}

func (f *fakeAgent) SetPublicDID(
	_ context.Context, did string, createTransactionForEndorser bool,
) (*acapy.SetPublicDIDResponse, error) {
	f.record("SetPublicDID")
	f.publicDIDSet = did
	if !createTransactionForEndorser {
		return nil, apierr.New(apierr.Upstream,
			"public did write must go thru endorsement")
	}
	return &acapy.SetPublicDIDResponse{
		Result: &acapy.DID{DID: did},
		Txn:    &acapy.Transaction{TransactionID: "tx-did-1"},
	}, nil
}

func (f *fakeAgent) RegisterNym(
	_ context.Context, did, verkey, alias, endorserConnID string,
) error {
	f.record("RegisterNym")
	f.registeredNym = did
	return nil
}

func (f *fakeAgent) GetTAA(_ context.Context) (*acapy.TAAInfo, error) {
	f.record("GetTAA")
	if f.taa == nil {
		return &acapy.TAAInfo{TAARequired: false}, nil
	}
	return f.taa, nil
}

func (f *fakeAgent) AcceptTAA(
	_ context.Context, _ *acapy.TAARecord, mechanism string,
) error {
	f.record("AcceptTAA")
	f.acceptedTAA = true
	return nil
}

func (f *fakeAgent) GetTransaction(
	_ context.Context, txID string,
) (*acapy.Transaction, error) {
	return &acapy.Transaction{
		TransactionID: txID,
		State:         acapy.TransactionStateAcked,
	}, nil
}

func (f *fakeAgent) GetTransactions(
	_ context.Context,
) ([]acapy.Transaction, error) {
	f.record("GetTransactions")
	return []acapy.Transaction{{
		TransactionID: "tx-did-1",
		State:         acapy.TransactionStateRequestReceived,
	}}, nil
}

func (f *fakeAgent) EndorseTransaction(
	_ context.Context, txID string,
) error {
	f.record("EndorseTransaction")
	f.endorsed = append(f.endorsed, txID)
	return nil
}

func fastTuning() Tuning {
	return Tuning{
		Handshake: endorse.Tuning{
			ConnectionWait: poll.Policy{MaxAttempts: 5},
			MetadataAssert: poll.Policy{MaxAttempts: 5},
			SetAssertUnit:  poll.Policy{MaxAttempts: 3},
		},
		EndorsementWait: poll.Policy{MaxAttempts: 5},
	}
}

func TestOnboardIssuerWithExistingDIDSkipsProvisioning(t *testing.T) {
	endorser := &fakeAgent{publicDID: "END1"}
	issuer := &fakeAgent{publicDID: "ISSUER1"}
	o := New(endorser, fastTuning())

	result, err := o.Onboard(context.Background(), RoleIssuer, issuer,
		"Acme Issuing", "wallet-1")
	require.NoError(t, err)
	require.Equal(t, "did:sov:ISSUER1", result.DID)
	require.NotEmpty(t, result.DidcommInvitation)

	// no expensive step ran for the already provisioned tenant
	require.False(t, issuer.called("CreateDID"))
	require.False(t, issuer.called("ReceiveInvitation"))
	require.False(t, endorser.called("RegisterNym"))
	// the invitation still advertises the public DID and multi-use
	require.True(t, issuer.invitationReq.UsePublicDID)
	require.True(t, issuer.invitationReq.MultiUse)
}

func TestOnboardIssuerProvisionsNewDID(t *testing.T) {
	endorser := &fakeAgent{publicDID: "END1"}
	issuer := &fakeAgent{}
	o := New(endorser, fastTuning())

	result, err := o.Onboard(context.Background(), RoleIssuer, issuer,
		"Acme Issuing", "wallet-1")
	require.NoError(t, err)
	require.Equal(t, "did:sov:ISSUER1", result.DID)
	require.NotEmpty(t, result.DidcommInvitation)

	// the full provisioning path ran
	require.True(t, issuer.called("ReceiveInvitation"))
	require.True(t, issuer.called("CreateDID"))
	require.Equal(t, "ISSUER1", endorser.registeredNym)
	require.Equal(t, "ISSUER1", issuer.publicDIDSet)
	require.Equal(t, []string{"tx-did-1"}, endorser.endorsed)
	// issuer stored the endorser's DID during the handshake
	require.Equal(t, "END1", issuer.endorserDID)
}

func TestOnboardIssuerFailsWithoutEndorserDID(t *testing.T) {
	endorser := &fakeAgent{}
	issuer := &fakeAgent{}
	o := New(endorser, fastTuning())

	_, err := o.Onboard(context.Background(), RoleIssuer, issuer,
		"Acme Issuing", "wallet-1")
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.Configuration))
	require.Contains(t, err.Error(), "unable to get endorser public did")
	require.False(t, issuer.called("CreateDID"))
}

func TestOnboardVerifierWithPublicDID(t *testing.T) {
	endorser := &fakeAgent{publicDID: "END1"}
	verifier := &fakeAgent{publicDID: "VER1"}
	o := New(endorser, fastTuning())

	result, err := o.Onboard(context.Background(), RoleVerifier, verifier,
		"Acme Verifying", "wallet-2")
	require.NoError(t, err)
	require.Equal(t, "did:sov:VER1", result.DID)
	require.Empty(t, result.DidcommInvitation)
	require.False(t, verifier.called("CreateInvitation"))
}

func TestOnboardVerifierAdvertisesRecipientKey(t *testing.T) {
	endorser := &fakeAgent{publicDID: "END1"}
	verifier := &fakeAgent{}
	o := New(endorser, fastTuning())

	result, err := o.Onboard(context.Background(), RoleVerifier, verifier,
		"Acme Verifying", "wallet-2")
	require.NoError(t, err)
	require.Equal(t,
		"C3LziyNczdGEqT9cAyqbKVpGRWTvRCUxvWE3J7FbLGB1", result.DID)
	require.NotEmpty(t, result.DidcommInvitation)
	require.False(t, verifier.invitationReq.UsePublicDID)
	require.True(t, verifier.invitationReq.MultiUse)
}

type keylessAgent struct {
	fakeAgent
}

func (f *keylessAgent) CreateInvitation(
	_ context.Context, req acapy.InvitationRequest,
) (*acapy.InvitationRecord, error) {
	service, _ := json.Marshal(acapy.Service{ID: "#inline"})
	return &acapy.InvitationRecord{
		InvitationURL: "http://agent.example.com?oob=eyJp",
		Invitation: &acapy.Invitation{
			Services: []json.RawMessage{service},
		},
	}, nil
}

func TestOnboardVerifierRejectsKeylessInvitation(t *testing.T) {
	endorser := &fakeAgent{publicDID: "END1"}
	o := New(endorser, fastTuning())

	_, err := o.Onboard(context.Background(), RoleVerifier,
		&keylessAgent{}, "Acme Verifying", "wallet-2")
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.Configuration))
	require.Contains(t, err.Error(), "no recipient keys")
}

func TestOnboardRejectsUnknownRole(t *testing.T) {
	o := New(&fakeAgent{}, fastTuning())
	_, err := o.Onboard(context.Background(), Role("admin"),
		&fakeAgent{}, "x", "w")
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.Configuration))
}
