package onboarding

import (
	"context"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/endorse"
	"github.com/anchora-network/anchora-orchestrator/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// onboardIssuer makes sure the issuer has a public DID and an
// endorsement setup, then returns the DID together with a multi-use
// invitation. A tenant that already has a public DID skips the
// handshake and ledger registration entirely: those are the expensive,
// failure-prone steps, and re-running them for a provisioned tenant
// would only be a source of spurious errors.
func (o *Orchestrator) onboardIssuer(
	ctx context.Context,
	issuer Agent,
	label, walletID string,
) (
	result OnboardResult,
	err error,
) {
	defer err2.Handle(&err, "onboard issuer")

	glog.V(1).Infoln("onboarding issuer, wallet:", walletID)

	did, derr := issuer.GetPublicDID(ctx)
	if derr != nil {
		if !apierr.Is(derr, apierr.NotFound) {
			return result, derr
		}
		glog.V(1).Infoln("no public did for issuer, wallet:", walletID)
		did = try.To1(o.registerPublicDID(ctx, issuer, label))
	}

	inv := try.To1(issuer.CreateInvitation(ctx, acapy.InvitationRequest{
		Alias:              label,
		HandshakeProtocols: []string{acapy.DIDExchangeV1},
		UsePublicDID:       true,
		MultiUse:           true,
		AutoAccept:         true,
	}))

	glog.V(1).Infoln("issuer onboarded, wallet:", walletID)
	return OnboardResult{
		DID:               utils.QualifiedDIDSov(did.DID),
		DidcommInvitation: inv.InvitationURL,
	}, nil
}

// registerPublicDID runs the full provisioning path for an issuer
// without a public DID: endorser handshake, DID creation, ledger NYM
// write via the endorser, TAA acceptance and public-DID assignment
// through endorsement.
func (o *Orchestrator) registerPublicDID(
	ctx context.Context,
	issuer Agent,
	label string,
) (
	did *acapy.DID,
	err error,
) {
	defer err2.Handle(&err, "register issuer did")

	endorserDID, derr := o.endorser.GetPublicDID(ctx)
	if derr != nil {
		// an endorser without a public DID is a deployment error, not
		// something a retry can fix
		return nil, apierr.Wrap(apierr.Configuration, derr,
			"unable to get endorser public did")
	}

	h := &endorse.Handshake{
		Endorser: o.endorser,
		Author:   issuer,
		Tuning:   o.tuning.Handshake,
	}
	try.To1(h.Run(ctx, endorserDID.DID, label))

	glog.V(1).Infoln("creating did for issuer:", label)
	did = try.To1(issuer.CreateDID(ctx))

	try.To(o.endorser.RegisterNym(ctx, did.DID, did.Verkey, label, ""))

	try.To(acceptTAAIfRequired(ctx, issuer))

	// the public-DID write still needs endorsement, otherwise the did
	// ends up on the ledger without its services
	try.To1(issuer.SetPublicDID(ctx, did.DID, true))

	try.To1(endorse.AwaitRequestAndEndorse(ctx, o.endorser,
		o.tuning.EndorsementWait))

	glog.V(1).Infoln("issuer did registered and endorsed:", did.DID)
	return did, nil
}
