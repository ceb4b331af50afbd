/*
Package endorse implements the waits and the handshake around ledger
transaction endorsement: the transaction-ack waiter, the
connection-metadata asserter, and the author/endorser role-negotiation
handshake built on both. The agent applies every write here
asynchronously, so each side-effecting step is followed by a bounded,
delayed re-read of the state it was supposed to produce.
*/
package endorse

import (
	"context"
	"time"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// EndorserAlias is the alias under which authors store their endorser
// connection. The credential-definition flow later finds the connection
// by this alias.
const EndorserAlias = "endorser"

// Tuning bounds the waits of one handshake. Defaults match long-running
// production behavior; they are constructor-injected so deployments can
// tighten or relax them without env-var spelunking.
type Tuning struct {
	// ConnectionWait polls the endorser's connection list for the
	// completed state.
	ConnectionWait poll.Policy

	// MetadataAssert polls connection metadata after each role write.
	MetadataAssert poll.Policy

	// SetAssertUnit retries a set-role/set-info call together with its
	// assertion as one unit. The set call itself can be transiently
	// rejected, so assertion failure re-runs the write too.
	SetAssertUnit poll.Policy
}

// DefaultTuning returns the production defaults.
func DefaultTuning() Tuning {
	return Tuning{
		ConnectionWait: poll.Policy{
			MaxAttempts: 30,
			Delay:       time.Second,
		},
		MetadataAssert: poll.Policy{
			MaxAttempts: 10,
			Delay:       100 * time.Millisecond,
		},
		SetAssertUnit: poll.Policy{
			MaxAttempts:   5,
			Delay:         time.Second,
			BackoffFactor: 2,
		},
	}
}

// EndorserAgent is the endorser-side client surface the handshake uses.
type EndorserAgent interface {
	MetadataReader
	CreateInvitation(ctx context.Context,
		req acapy.InvitationRequest) (*acapy.InvitationRecord, error)
	GetConnections(ctx context.Context,
		filter acapy.ConnectionFilter) ([]acapy.Connection, error)
	SetConnectionRole(ctx context.Context, connID, role string) error
}

// AuthorAgent is the author-side client surface.
type AuthorAgent interface {
	MetadataReader
	ReceiveInvitation(ctx context.Context,
		inv *acapy.Invitation, alias string) (*acapy.Connection, error)
	SetConnectionRole(ctx context.Context, connID, role string) error
	SetEndorserInfo(ctx context.Context, connID, endorserDID string) error
}

type handshakeState int

const (
	stateInvitationCreated handshakeState = iota
	stateConnectionPending
	stateConnectionCompleted
	stateRolesAssigned
	stateInfoConfigured
)

func (s handshakeState) String() string {
	return [...]string{
		"invitation-created", "connection-pending", "connection-completed",
		"roles-assigned", "info-configured",
	}[s]
}

// Handshake drives one author-endorser connection to a fully configured
// endorsement setup. The steps are strictly ordered; any step's
// exhausted bound aborts the handshake with an error naming the step.
type Handshake struct {
	Endorser EndorserAgent
	Author   AuthorAgent
	Tuning   Tuning
}

// Result carries the connection ids of both sides of a completed
// handshake.
type Result struct {
	EndorserConnID string
	AuthorConnID   string
}

// Run executes the handshake: invitation, connection completion wait,
// endorser role, author role, endorser info. The label names the author
// on the endorser's invitation; endorserDID is written into the
// author-side endorser info.
func (h *Handshake) Run(
	ctx context.Context,
	endorserDID, label string,
) (
	result Result,
	err error,
) {
	defer err2.Handle(&err, "endorser handshake")

	inv := try.To1(h.createInvitation(ctx, label))
	glog.V(1).Infoln("handshake:", stateInvitationCreated)

	authorConn := try.To1(h.Author.ReceiveInvitation(ctx,
		inv.Invitation, EndorserAlias))
	result.AuthorConnID = authorConn.ConnectionID
	glog.V(1).Infoln("handshake:", stateConnectionPending)

	result.EndorserConnID = try.To1(
		h.waitConnectionCompleted(ctx, inv.InviMsgID))
	glog.V(1).Infoln("handshake:", stateConnectionCompleted)

	try.To(h.setEndorserRole(ctx, result.EndorserConnID))
	try.To(h.setAuthorRole(ctx, result.AuthorConnID))
	glog.V(1).Infoln("handshake:", stateRolesAssigned)

	try.To(h.setEndorserInfo(ctx, result.AuthorConnID, endorserDID))
	glog.V(1).Infoln("handshake:", stateInfoConfigured)

	return result, nil
}

func (h *Handshake) createInvitation(
	ctx context.Context,
	label string,
) (
	inv *acapy.InvitationRecord,
	err error,
) {
	defer err2.Handle(&err, "create endorser invitation")

	inv = try.To1(h.Endorser.CreateInvitation(ctx, acapy.InvitationRequest{
		Alias:              label,
		HandshakeProtocols: []string{acapy.DIDExchangeV1},
		UsePublicDID:       true,
		AutoAccept:         true,
	}))
	if inv.Invitation == nil {
		return nil, apierr.New(apierr.Configuration,
			"endorser returned an invitation record without an invitation")
	}
	return inv, nil
}

// waitConnectionCompleted polls the endorser's connection list filtered
// by the invitation message id until a record reports the completed
// state. Completion is only observable on the list endpoint, which is
// why this is a separate mechanism from the metadata assertion.
func (h *Handshake) waitConnectionCompleted(
	ctx context.Context,
	inviMsgID string,
) (
	connID string,
	err error,
) {
	conns, err := poll.Until(ctx, h.Tuning.ConnectionWait,
		func(ctx context.Context) ([]acapy.Connection, error) {
			return h.Endorser.GetConnections(ctx, acapy.ConnectionFilter{
				InvitationMsgID: inviMsgID,
			})
		},
		func(conns []acapy.Connection) bool {
			return completedConnection(conns) != nil
		})
	if err != nil {
		return "", apierr.Wrap(apierr.Timeout, err,
			"timeout waiting for connection with endorser to complete")
	}
	return completedConnection(conns).ConnectionID, nil
}

func completedConnection(conns []acapy.Connection) *acapy.Connection {
	for i := range conns {
		if conns[i].State == acapy.ConnectionStateCompleted {
			return &conns[i]
		}
	}
	return nil
}

func (h *Handshake) setEndorserRole(
	ctx context.Context,
	endorserConnID string,
) error {
	err := poll.UntilNil(ctx, h.Tuning.SetAssertUnit,
		func(ctx context.Context) error {
			if err := h.Endorser.SetConnectionRole(ctx,
				endorserConnID, JobEndorser); err != nil {
				return err
			}
			return AssertEndorserRoleSet(ctx, h.Endorser,
				endorserConnID, h.Tuning.MetadataAssert)
		})
	if err != nil {
		return apierr.Wrap(apierr.Assertion, err,
			"failed to set the endorser role in the endorser-author connection "+
				endorserConnID)
	}
	return nil
}

func (h *Handshake) setAuthorRole(
	ctx context.Context,
	authorConnID string,
) error {
	err := poll.UntilNil(ctx, h.Tuning.SetAssertUnit,
		func(ctx context.Context) error {
			if err := h.Author.SetConnectionRole(ctx,
				authorConnID, JobAuthor); err != nil {
				return err
			}
			return AssertAuthorRoleSet(ctx, h.Author,
				authorConnID, h.Tuning.MetadataAssert)
		})
	if err != nil {
		return apierr.Wrap(apierr.Assertion, err,
			"failed to set the author role in the author-endorser connection "+
				authorConnID)
	}
	return nil
}

func (h *Handshake) setEndorserInfo(
	ctx context.Context,
	authorConnID, endorserDID string,
) error {
	err := poll.UntilNil(ctx, h.Tuning.SetAssertUnit,
		func(ctx context.Context) error {
			if err := h.Author.SetEndorserInfo(ctx,
				authorConnID, endorserDID); err != nil {
				return err
			}
			return AssertEndorserInfoSet(ctx, h.Author,
				authorConnID, endorserDID, h.Tuning.MetadataAssert)
		})
	if err != nil {
		return apierr.Wrap(apierr.Assertion, err,
			"failed to set the endorser info in the author-endorser connection "+
				authorConnID)
	}
	return nil
}
