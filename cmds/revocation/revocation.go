// Package revocation implements the revocation lifecycle commands.
package revocation

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/cmds"
	"github.com/anchora-network/anchora-orchestrator/protocol/revocation"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type emptyResult struct{}

func (emptyResult) JSON() ([]byte, error) {
	return []byte("{}"), nil
}

func issuerService(c cmds.Cmd) *revocation.Service {
	issuer := acapy.New(c.AdminURL,
		acapy.WithAPIKey(c.APIKey), acapy.WithToken(c.TenantToken))
	return revocation.New(issuer)
}

func validateIssuer(c cmds.Cmd) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.TenantToken == "" {
		return errors.New("tenant token cannot be empty")
	}
	return nil
}

// RevokeCmd revokes one issued credential.
type RevokeCmd struct {
	cmds.Cmd
	CredExID    string
	AutoPublish bool
}

func (c RevokeCmd) Validate() error {
	if err := validateIssuer(c.Cmd); err != nil {
		return err
	}
	if c.CredExID == "" {
		return errors.New("credential exchange id cannot be empty")
	}
	return nil
}

func (c RevokeCmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "revoke")

	svc := issuerService(c.Cmd)
	try.To(svc.Revoke(context.Background(), revocation.RevokeRequest{
		CredentialExchangeID: c.CredExID,
		AutoPublish:          c.AutoPublish,
	}))
	if c.AutoPublish {
		cmds.Fprintln(progress, "Credential revoked and published.")
	} else {
		cmds.Fprintln(progress, "Credential revocation staged.")
	}
	return emptyResult{}, nil
}

// PublishCmd publishes the staged revocations named in the map.
type PublishCmd struct {
	cmds.Cmd
	Registry map[string][]string
}

func (c PublishCmd) Validate() error {
	if err := validateIssuer(c.Cmd); err != nil {
		return err
	}
	if len(c.Registry) == 0 {
		return errors.New("registry map cannot be empty")
	}
	return nil
}

func (c PublishCmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "publish revocations")

	svc := issuerService(c.Cmd)
	try.To(svc.PublishPending(context.Background(), c.Registry))
	cmds.Fprintln(progress, "Pending revocations published.")
	return emptyResult{}, nil
}

// ClearCmd drops the staged revocations named in the map.
type ClearCmd struct {
	cmds.Cmd
	Registry map[string][]string
}

type ClearResult struct {
	Remaining map[string][]string `json:"remaining"`
}

func (r ClearResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c ClearCmd) Validate() error {
	if err := validateIssuer(c.Cmd); err != nil {
		return err
	}
	if len(c.Registry) == 0 {
		return errors.New("registry map cannot be empty")
	}
	return nil
}

func (c ClearCmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "clear revocations")

	svc := issuerService(c.Cmd)
	remaining := try.To1(
		svc.ClearPending(context.Background(), c.Registry))
	cmds.Fprintln(progress, "Pending revocations cleared.")
	return ClearResult{Remaining: remaining}, nil
}

// PendingCmd lists the staged revocations of one registry.
type PendingCmd struct {
	cmds.Cmd
	RegID string
}

type PendingResult struct {
	Pending []string `json:"pending"`
}

func (r PendingResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c PendingCmd) Validate() error {
	if err := validateIssuer(c.Cmd); err != nil {
		return err
	}
	if c.RegID == "" {
		return errors.New("revocation registry id cannot be empty")
	}
	return nil
}

func (c PendingCmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "pending revocations")

	svc := issuerService(c.Cmd)
	pending := try.To1(
		svc.GetPendingRevocations(context.Background(), c.RegID))
	for _, crid := range pending {
		cmds.Fprintln(progress, crid)
	}
	return PendingResult{Pending: pending}, nil
}
