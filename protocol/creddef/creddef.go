/*
Package creddef publishes credential definitions through the endorser
and waits for their observable side effects: the ledger acknowledgement
of the endorsed transaction, and for revocable definitions the
provisioning of the revocation registries. The agent always provisions
a successor registry next to the active one, so readiness means two
registries reporting the active state, not one.
*/
package creddef

import (
	"context"
	"strings"
	"time"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/endorse"
	"github.com/anchora-network/anchora-orchestrator/agent/poll"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// DefaultRegistrySize caps the credentials one revocation registry can
// track.
const DefaultRegistrySize = 32767

// activeRegistryCount is how many registries must report active before
// a revocable definition is ready: the one in use plus the staged
// successor. Checking for "at least one" races the still-initializing
// successor.
const activeRegistryCount = 2

// Agent is the client surface the publisher needs.
type Agent interface {
	GetPublicDID(ctx context.Context) (*acapy.DID, error)
	GetConnections(ctx context.Context,
		filter acapy.ConnectionFilter) ([]acapy.Connection, error)
	PublishCredentialDefinition(ctx context.Context,
		req acapy.CredDefRequest) (*acapy.CredDefResponse, error)
	GetTransaction(ctx context.Context,
		txID string) (*acapy.Transaction, error)
	GetCreatedRegistries(ctx context.Context,
		credDefID, state string) ([]string, error)
	GetSchema(ctx context.Context, schemaID string) (*acapy.Schema, error)
}

// Tuning bounds the publication waits.
type Tuning struct {
	// TxAck polls the endorsement transaction for the acked state.
	TxAck poll.Policy

	// RegistryWait polls for the two active registries. Its bound is
	// the overall provisioning deadline divided into fixed periods.
	RegistryWait poll.Policy
}

// DefaultTuning returns the production defaults: a 20 s ack bound and a
// 60 s registry deadline probed every 2 s.
func DefaultTuning() Tuning {
	return Tuning{
		TxAck: poll.Policy{
			MaxAttempts: 10,
			Delay:       2 * time.Second,
		},
		RegistryWait: poll.Policy{
			MaxAttempts: 30,
			Delay:       2 * time.Second,
		},
	}
}

// CreateRequest describes the definition to publish.
type CreateRequest struct {
	SchemaID          string
	Tag               string
	SupportRevocation bool

	// RegistrySize falls back to DefaultRegistrySize when zero.
	RegistrySize int
}

// Publisher drives credential-definition publication for one issuer
// wallet.
type Publisher struct {
	agent  Agent
	tuning Tuning
}

// NewPublisher builds a Publisher.
func NewPublisher(agent Agent, t Tuning) *Publisher {
	return &Publisher{agent: agent, tuning: t}
}

// Create publishes the definition and blocks until it is usable,
// returning its id. For revocable definitions an active endorser
// connection is asserted before anything is written.
func (p *Publisher) Create(
	ctx context.Context,
	req CreateRequest,
) (
	credDefID string,
	err error,
) {
	defer err2.Handle(&err, "create credential definition")

	try.To1(p.assertPublicDID(ctx))

	if req.SupportRevocation {
		try.To(p.checkEndorserConnection(ctx))
	}

	size := req.RegistrySize
	if size == 0 {
		size = DefaultRegistrySize
	}
	result := try.To1(p.publish(ctx, acapy.CredDefRequest{
		SchemaID:               req.SchemaID,
		Tag:                    req.Tag,
		SupportRevocation:      req.SupportRevocation,
		RevocationRegistrySize: size,
	}))
	credDefID = result.Sent.CredentialDefinitionID

	if result.Txn != nil && result.Txn.TransactionID != "" {
		glog.V(1).Infoln("definition pending endorsement:",
			result.Txn.TransactionID)
		try.To(endorse.WaitForTxAck(ctx, p.agent,
			result.Txn.TransactionID, p.tuning.TxAck))
	}

	if req.SupportRevocation {
		try.To(p.waitForActiveRegistries(ctx, credDefID))
	}

	glog.V(1).Infoln("credential definition ready:", credDefID)
	return credDefID, nil
}

func (p *Publisher) assertPublicDID(
	ctx context.Context,
) (
	did *acapy.DID,
	err error,
) {
	did, derr := p.agent.GetPublicDID(ctx)
	if derr != nil {
		if apierr.Is(derr, apierr.NotFound) {
			return nil, apierr.Wrap(apierr.Configuration, derr,
				"wallet making this request has no public did; only "+
					"issuers with a public did can publish definitions")
		}
		return nil, derr
	}
	return did, nil
}

// checkEndorserConnection fails fast when the issuer has no active
// endorser connection: a revocable definition needs endorsed registry
// writes, and without the connection the publish would fail much later
// with a far less actionable error.
func (p *Publisher) checkEndorserConnection(ctx context.Context) (err error) {
	defer err2.Handle(&err)

	conns := try.To1(p.agent.GetConnections(ctx, acapy.ConnectionFilter{
		Alias: endorse.EndorserAlias,
	}))
	if len(conns) == 0 {
		return apierr.New(apierr.Configuration,
			"an active endorser connection is required to support "+
				"revocation; establish a connection with an endorser "+
				"and try again")
	}
	return nil
}

func (p *Publisher) publish(
	ctx context.Context,
	req acapy.CredDefRequest,
) (
	*acapy.CredDefResponse,
	error,
) {
	result, err := p.agent.PublishCredentialDefinition(ctx, req)
	if err != nil {
		if e := apierr.AsError(err); e != nil &&
			strings.Contains(e.Detail, "already exists") {
			return nil, apierr.New(apierr.Conflict, e.Detail)
		}
		return nil, apierr.Wrap(apierr.Upstream, err,
			"error while creating credential definition")
	}
	return result, nil
}

// waitForActiveRegistries blocks until exactly two registries for the
// definition report active.
func (p *Publisher) waitForActiveRegistries(
	ctx context.Context,
	credDefID string,
) error {
	glog.V(1).Infoln("waiting for revocation registries:", credDefID)
	_, err := poll.Until(ctx, p.tuning.RegistryWait,
		func(ctx context.Context) ([]string, error) {
			return p.agent.GetCreatedRegistries(ctx,
				credDefID, acapy.RegistryStateActive)
		},
		func(regIDs []string) bool {
			return len(regIDs) == activeRegistryCount
		})
	if err != nil {
		return apierr.Wrap(apierr.Timeout, err,
			"timeout waiting for revocation registry creation")
	}
	return nil
}

// SchemaID resolves the schema id of a credential definition. Newer
// definition ids embed the schema id; older ones carry the ledger
// sequence number, which takes one agent call to resolve.
func (p *Publisher) SchemaID(
	ctx context.Context,
	credDefID string,
) (
	schemaID string,
	err error,
) {
	defer err2.Handle(&err, "schema id from cred def id")

	tokens := strings.Split(credDefID, ":")
	if len(tokens) == 8 {
		// schema id spans the middle tokens of an 8-token definition id
		return strings.Join(tokens[3:7], ":"), nil
	}
	if len(tokens) < 4 {
		return "", apierr.Newf(apierr.NotFound,
			"malformed credential definition id %s", credDefID)
	}
	seqNo := tokens[3]
	schema := try.To1(p.agent.GetSchema(ctx, seqNo))
	return schema.ID, nil
}
