/*
Package onboarding drives tenant onboarding: making sure an issuer or
verifier tenant ends up with a resolvable identity and, for issuers, a
working endorsement setup with the endorser. The orchestrator holds no
state of its own; everything authoritative lives in the agent and the
ledger, and idempotency comes from the public-DID fast path, not from
making the expensive steps individually idempotent.
*/
package onboarding

import (
	"context"
	"time"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/endorse"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
)

// Role selects the onboarding path.
type Role string

const (
	RoleIssuer   Role = "issuer"
	RoleVerifier Role = "verifier"
)

// Agent is the per-wallet client surface onboarding needs. One value
// speaks for one tenant wallet; the orchestrator additionally holds one
// for the endorser wallet.
type Agent interface {
	CreateInvitation(ctx context.Context,
		req acapy.InvitationRequest) (*acapy.InvitationRecord, error)
	ReceiveInvitation(ctx context.Context,
		inv *acapy.Invitation, alias string) (*acapy.Connection, error)
	GetConnections(ctx context.Context,
		filter acapy.ConnectionFilter) ([]acapy.Connection, error)
	GetConnectionMetadata(ctx context.Context,
		connID string) (map[string]any, error)
	SetConnectionRole(ctx context.Context, connID, role string) error
	SetEndorserInfo(ctx context.Context, connID, endorserDID string) error

	CreateDID(ctx context.Context) (*acapy.DID, error)
	GetPublicDID(ctx context.Context) (*acapy.DID, error)
	SetPublicDID(ctx context.Context, did string,
		createTransactionForEndorser bool) (*acapy.SetPublicDIDResponse, error)
	RegisterNym(ctx context.Context,
		did, verkey, alias, endorserConnID string) error
	GetTAA(ctx context.Context) (*acapy.TAAInfo, error)
	AcceptTAA(ctx context.Context,
		record *acapy.TAARecord, mechanism string) error

	GetTransaction(ctx context.Context,
		txID string) (*acapy.Transaction, error)
	GetTransactions(ctx context.Context) ([]acapy.Transaction, error)
	EndorseTransaction(ctx context.Context, txID string) error
}

// Tuning bounds the waits of one onboarding call.
type Tuning struct {
	Handshake endorse.Tuning

	// EndorsementWait polls the endorser's transaction list for the
	// public-DID write's endorsement request.
	EndorsementWait poll.Policy
}

// DefaultTuning returns the production defaults.
func DefaultTuning() Tuning {
	return Tuning{
		Handshake: endorse.DefaultTuning(),
		EndorsementWait: poll.Policy{
			MaxAttempts: 10,
			Delay:       2 * time.Second,
		},
	}
}

// OnboardResult is the durable output of onboarding, handed to the
// trust-registry collaborator for persistence.
type OnboardResult struct {
	DID               string
	DidcommInvitation string
}

// Orchestrator onboards tenants against one endorser.
type Orchestrator struct {
	endorser Agent
	tuning   Tuning
}

// New builds an Orchestrator around the endorser's agent client.
func New(endorser Agent, t Tuning) *Orchestrator {
	return &Orchestrator{endorser: endorser, tuning: t}
}

// Onboard provisions the tenant for the role. label names the tenant on
// invitations and ledger aliases; walletID only tags the logs.
func (o *Orchestrator) Onboard(
	ctx context.Context,
	role Role,
	tenant Agent,
	label, walletID string,
) (
	OnboardResult,
	error,
) {
	switch role {
	case RoleIssuer:
		return o.onboardIssuer(ctx, tenant, label, walletID)
	case RoleVerifier:
		return o.onboardVerifier(ctx, tenant, label, walletID)
	default:
		return OnboardResult{}, apierr.Newf(apierr.Configuration,
			"unknown onboarding role %q", role)
	}
}
