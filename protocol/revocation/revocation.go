/*
Package revocation manages issued-credential revocation: staging
revocations, validating and publishing or clearing the pending sets,
and the registry-level ledger writes. Validation always re-reads the
registry state fresh from the agent immediately before the dependent
write; the agent's own publish and clear calls fail with low-level
storage errors otherwise, which this package converts into actionable
ones before the call is even attempted.
*/
package revocation

import (
	"context"
	"strings"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Agent is the client surface the revocation flows need.
type Agent interface {
	GetRegistry(ctx context.Context,
		regID string) (*acapy.RegistryRecord, error)
	ActiveRegistry(ctx context.Context,
		credDefID string) (*acapy.RegistryRecord, error)
	CreateRegistry(ctx context.Context,
		credDefID string, maxCredNum int) (*acapy.RegistryRecord, error)
	PublishRegistryDefinition(ctx context.Context, regID, connID string,
		createTransactionForEndorser bool) (*acapy.Transaction, error)
	PublishRegistryEntry(ctx context.Context, regID, connID string,
		createTransactionForEndorser bool) (*acapy.RegistryRecord, error)
	RevokeCredential(ctx context.Context, req acapy.RevokeRequest) error
	PublishRevocations(ctx context.Context,
		rrid2crid map[string][]string) error
	ClearPendingRevocations(ctx context.Context,
		purge map[string][]string) (map[string][]string, error)
	GetCredExRecordV1(ctx context.Context,
		credExID string) (*acapy.CredExRecordV1, error)
	GetCredExRecordV2(ctx context.Context,
		credExID string) (*acapy.CredExRecordV2, error)
}

// Service exposes the revocation operations for one issuer wallet.
type Service struct {
	agent Agent
}

// New builds a Service.
func New(agent Agent) *Service {
	return &Service{agent: agent}
}

// RevokeRequest names the credential to revoke.
type RevokeRequest struct {
	CredentialExchangeID string

	// AutoPublish writes the revocation to the ledger immediately
	// instead of staging it as pending.
	AutoPublish bool
}

// Revoke revokes one issued credential.
func (s *Service) Revoke(ctx context.Context, req RevokeRequest) (err error) {
	defer err2.Handle(&err, "revoke credential")

	glog.V(1).Infoln("revoking credential, exchange:",
		req.CredentialExchangeID)
	try.To(s.agent.RevokeCredential(ctx, acapy.RevokeRequest{
		CredExID: req.CredentialExchangeID,
		Publish:  req.AutoPublish,
	}))
	return nil
}

// PublishPending publishes the staged revocations named in the
// registry-to-credential map, after validating every pair against the
// agent's fresh pending state.
func (s *Service) PublishPending(
	ctx context.Context,
	rrid2crid map[string][]string,
) (
	err error,
) {
	defer err2.Handle(&err, "publish pending revocations")

	try.To(s.validatePending(ctx, rrid2crid))
	try.To(s.agent.PublishRevocations(ctx, rrid2crid))
	glog.V(1).Infoln("published pending revocations for",
		len(rrid2crid), "registries")
	return nil
}

// ClearPending drops the staged revocations named in the map, after the
// same validation, and returns what remains pending per registry.
func (s *Service) ClearPending(
	ctx context.Context,
	purge map[string][]string,
) (
	remaining map[string][]string,
	err error,
) {
	defer err2.Handle(&err, "clear pending revocations")

	try.To(s.validatePending(ctx, purge))
	remaining = try.To1(s.agent.ClearPendingRevocations(ctx, purge))
	glog.V(1).Infoln("cleared pending revocations for",
		len(purge), "registries")
	return remaining, nil
}

// GetPendingRevocations lists the credential revocation ids staged in
// one registry.
func (s *Service) GetPendingRevocations(
	ctx context.Context,
	regID string,
) (
	pending []string,
	err error,
) {
	defer err2.Handle(&err, "get pending revocations")

	reg := try.To1(s.agent.GetRegistry(ctx, regID))
	return reg.PendingPub, nil
}

// validatePending checks every requested (registry, credential
// revocation id) pair against that registry's fresh pending set. The
// read is issued immediately before the dependent write to keep the
// eventual-consistency window as small as it can be.
func (s *Service) validatePending(
	ctx context.Context,
	rrid2crid map[string][]string,
) error {
	for regID, credRevIDs := range rrid2crid {
		reg, err := s.agent.GetRegistry(ctx, regID)
		if err != nil {
			if apierr.Is(err, apierr.NotFound) {
				return apierr.Newf(apierr.NotFound,
					"the rev_reg_id %s does not exist", regID)
			}
			return err
		}
		if len(reg.PendingPub) == 0 {
			return apierr.Newf(apierr.NotFound,
				"no pending publications found for rev_reg_id %s", regID)
		}
		for _, crid := range credRevIDs {
			if !contains(reg.PendingPub, crid) {
				return apierr.Newf(apierr.NotFound,
					"cred_rev_id %s is not pending publication in "+
						"rev_reg_id %s", crid, regID)
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CredDefIDFromExchangeID resolves the credential definition behind a
// credential exchange, best effort. The newer record shape is tried
// first; failing that, the id is reconstructed from the older shape's
// revocation registry id. ok=false is a valid outcome, not an error:
// this lookup only enriches metadata.
func (s *Service) CredDefIDFromExchangeID(
	ctx context.Context,
	credExID string,
) (
	credDefID string,
	ok bool,
) {
	rec, err := s.agent.GetCredExRecordV1(ctx, credExID)
	if err == nil && rec.CredentialDefinitionID != "" {
		return rec.CredentialDefinitionID, true
	}
	glog.V(3).Infoln("no v1 exchange record for", credExID,
		"- trying v2:", err)

	rec2, err := s.agent.GetCredExRecordV2(ctx, credExID)
	if err != nil || rec2.Indy.RevRegID == "" {
		glog.V(3).Infoln("no v2 exchange record for", credExID, ":", err)
		return "", false
	}
	return credDefIDFromRevRegID(rec2.Indy.RevRegID)
}

// credDefIDFromRevRegID rearranges the colon-delimited segments of a
// revocation registry id back into the credential definition id it was
// derived from.
func credDefIDFromRevRegID(revRegID string) (string, bool) {
	parts := strings.Split(revRegID, ":")
	if len(parts) < 6 {
		return "", false
	}
	// CL is the only signature type issued here
	return strings.Join([]string{
		parts[2], "3", "CL", parts[len(parts)-4], parts[len(parts)-1],
	}, ":"), true
}

// CreateRegistry provisions a fresh registry for a credential
// definition.
func (s *Service) CreateRegistry(
	ctx context.Context,
	credDefID string,
	maxCredNum int,
) (
	reg *acapy.RegistryRecord,
	err error,
) {
	defer err2.Handle(&err, "create revocation registry")

	reg = try.To1(s.agent.CreateRegistry(ctx, credDefID, maxCredNum))
	glog.V(1).Infoln("created revocation registry:", reg.RevocRegID)
	return reg, nil
}

// ActiveRegistry returns the registry currently accepting revocations
// for the definition.
func (s *Service) ActiveRegistry(
	ctx context.Context,
	credDefID string,
) (
	*acapy.RegistryRecord,
	error,
) {
	return s.agent.ActiveRegistry(ctx, credDefID)
}

// PublishRegistryDefinition writes a created registry's definition to
// the ledger, returning the pending transaction when the write went
// through endorsement.
func (s *Service) PublishRegistryDefinition(
	ctx context.Context,
	regID, endorserConnID string,
) (
	tx *acapy.Transaction,
	err error,
) {
	defer err2.Handle(&err, "publish registry definition")

	tx = try.To1(s.agent.PublishRegistryDefinition(ctx, regID,
		endorserConnID, endorserConnID != ""))
	return tx, nil
}

// PublishRegistryEntry writes the registry's accumulator entry.
func (s *Service) PublishRegistryEntry(
	ctx context.Context,
	regID, endorserConnID string,
) (
	reg *acapy.RegistryRecord,
	err error,
) {
	defer err2.Handle(&err, "publish registry entry")

	reg = try.To1(s.agent.PublishRegistryEntry(ctx, regID,
		endorserConnID, endorserConnID != ""))
	return reg, nil
}
