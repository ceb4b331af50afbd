// Package onboard implements the tenant onboarding command.
package onboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/cmds"
	"github.com/anchora-network/anchora-orchestrator/protocol/onboarding"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type Cmd struct {
	cmds.Cmd
	Role     string
	Label    string
	WalletID string
}

type Result struct {
	onboarding.OnboardResult
}

func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r.OnboardResult)
}

func (c Cmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	switch onboarding.Role(c.Role) {
	case onboarding.RoleIssuer, onboarding.RoleVerifier:
	default:
		return errors.New("role must be issuer or verifier")
	}
	if c.Label == "" {
		return errors.New("label cannot be empty")
	}
	if c.TenantToken == "" {
		return errors.New("tenant token cannot be empty")
	}
	if c.EndorserToken == "" {
		return errors.New("endorser token cannot be empty")
	}
	return nil
}

func (c Cmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "onboarding")

	cmds.Fprintln(progress, "Onboarding starting...")

	tenant := acapy.New(c.AdminURL,
		acapy.WithAPIKey(c.APIKey), acapy.WithToken(c.TenantToken))
	endorser := acapy.New(c.AdminURL,
		acapy.WithAPIKey(c.APIKey), acapy.WithToken(c.EndorserToken))

	orchestrator := onboarding.New(endorser, onboarding.DefaultTuning())

	done := cmds.Progress(progress)
	res, execErr := orchestrator.Onboard(context.Background(),
		onboarding.Role(c.Role), tenant, c.Label, c.WalletID)
	done <- struct{}{}
	try.To(execErr)

	cmds.Fprintln(progress, "\nDID:", res.DID)
	if res.DidcommInvitation != "" {
		cmds.Fprintln(progress, "Invitation:", res.DidcommInvitation)
	}
	return Result{OnboardResult: res}, nil
}
