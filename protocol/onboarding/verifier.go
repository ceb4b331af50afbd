package onboarding

import (
	"context"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/anchora-network/anchora-orchestrator/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// onboardVerifier onboards a tenant that only verifies. A verifier with
// a public DID is returned as-is; otherwise a multi-use invitation is
// created advertising a locally generated key, which spares every
// verifier the cost of a public DID.
func (o *Orchestrator) onboardVerifier(
	ctx context.Context,
	verifier Agent,
	label, walletID string,
) (
	result OnboardResult,
	err error,
) {
	defer err2.Handle(&err, "onboard verifier")

	glog.V(1).Infoln("onboarding verifier, wallet:", walletID)

	did, derr := verifier.GetPublicDID(ctx)
	if derr == nil {
		return OnboardResult{DID: utils.QualifiedDIDSov(did.DID)}, nil
	}
	if !apierr.Is(derr, apierr.NotFound) {
		return result, derr
	}

	glog.V(1).Infoln("no public did for verifier, creating invitation:",
		label)
	inv := try.To1(verifier.CreateInvitation(ctx, acapy.InvitationRequest{
		Alias:              label,
		HandshakeProtocols: []string{acapy.DIDExchangeV1},
		UsePublicDID:       false,
		MultiUse:           true,
		AutoAccept:         true,
	}))

	key, kerr := firstRecipientKey(inv)
	if kerr != nil {
		// a malformed invitation is an agent configuration problem,
		// retrying would produce the same answer
		return result, kerr
	}
	return OnboardResult{
		DID:               key,
		DidcommInvitation: inv.InvitationURL,
	}, nil
}

// firstRecipientKey digs the advertised key out of the invitation.
// Without a public DID the invitation always carries a key as the first
// recipient key of the first service block.
func firstRecipientKey(inv *acapy.InvitationRecord) (string, error) {
	if inv == nil || inv.Invitation == nil ||
		len(inv.Invitation.Services) == 0 {
		return "", apierr.New(apierr.Configuration,
			"tried to create invitation on behalf of verifier, "+
				"but it has no service to advertise a key in")
	}
	services := inv.Invitation.ParsedServices()
	if len(services[0].RecipientKeys) == 0 {
		return "", apierr.New(apierr.Configuration,
			"no recipient keys present in the invitation service")
	}
	key := services[0].RecipientKeys[0]
	if utils.IsVerkey(key) {
		glog.V(3).Infoln("verifier advertises raw verkey:", key)
	}
	return key, nil
}
