package onboarding

import (
	"context"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// the ledger-side default when no prior acceptance names a mechanism
const defaultTAAMechanism = "service_agreement"

// taaClient is the slice of Agent the TAA helpers need.
type taaClient interface {
	GetTAA(ctx context.Context) (*acapy.TAAInfo, error)
	AcceptTAA(ctx context.Context,
		record *acapy.TAARecord, mechanism string) error
}

// getTAA reads the agreement and picks the acceptance mechanism: the
// one already on record, or the ledger default.
func getTAA(
	ctx context.Context,
	agent taaClient,
) (
	info *acapy.TAAInfo,
	mechanism string,
	err error,
) {
	defer err2.Handle(&err)

	info = try.To1(agent.GetTAA(ctx))
	if info.TAARequired && info.TAARecord == nil {
		return nil, "", apierr.New(apierr.Upstream,
			"ledger requires a taa but reported no taa record")
	}
	mechanism = defaultTAAMechanism
	if info.TAAAccepted != nil && info.TAAAccepted.Mechanism != "" {
		mechanism = info.TAAAccepted.Mechanism
	}
	return info, mechanism, nil
}

// acceptTAAIfRequired accepts the ledger's usage policy on behalf of
// the wallet when the ledger reports one as required and the wallet has
// not accepted it yet.
func acceptTAAIfRequired(ctx context.Context, agent taaClient) (err error) {
	defer err2.Handle(&err, "accept taa")

	info, mechanism := try.To2(getTAA(ctx, agent))
	if !info.TAARequired {
		glog.V(3).Infoln("no taa required")
		return nil
	}
	if info.TAAAccepted != nil && info.TAAAccepted.Time > 0 {
		glog.V(3).Infoln("taa already accepted at", info.TAAAccepted.Time)
		return nil
	}
	try.To(agent.AcceptTAA(ctx, info.TAARecord, mechanism))
	glog.V(1).Infoln("taa accepted with mechanism:", mechanism)
	return nil
}
