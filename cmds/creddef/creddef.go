// Package creddef implements the credential definition commands.
package creddef

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/cmds"
	"github.com/anchora-network/anchora-orchestrator/protocol/creddef"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// CreateCmd publishes a credential definition from the issuer wallet.
type CreateCmd struct {
	cmds.Cmd
	SchemaID          string
	Tag               string
	SupportRevocation bool
	RegistrySize      int
}

type CreateResult struct {
	CredDefID string `json:"credential_definition_id"`
}

func (r CreateResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c CreateCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.TenantToken == "" {
		return errors.New("tenant token cannot be empty")
	}
	if c.SchemaID == "" {
		return errors.New("schema id cannot be empty")
	}
	if c.Tag == "" {
		return errors.New("tag cannot be empty")
	}
	if c.RegistrySize < 0 {
		return errors.New("registry size cannot be negative")
	}
	return nil
}

func (c CreateCmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "create creddef")

	cmds.Fprintln(progress, "Publishing credential definition...")

	issuer := acapy.New(c.AdminURL,
		acapy.WithAPIKey(c.APIKey), acapy.WithToken(c.TenantToken))
	publisher := creddef.NewPublisher(issuer, creddef.DefaultTuning())

	done := cmds.Progress(progress)
	id, execErr := publisher.Create(context.Background(),
		creddef.CreateRequest{
			SchemaID:          c.SchemaID,
			Tag:               c.Tag,
			SupportRevocation: c.SupportRevocation,
			RegistrySize:      c.RegistrySize,
		})
	done <- struct{}{}
	try.To(execErr)

	cmds.Fprintln(progress, "\nCredential definition id:", id)
	return CreateResult{CredDefID: id}, nil
}

// SchemaCmd resolves the schema id behind a credential definition.
type SchemaCmd struct {
	cmds.Cmd
	CredDefID string
}

type SchemaResult struct {
	SchemaID string `json:"schema_id"`
}

func (r SchemaResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c SchemaCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.TenantToken == "" {
		return errors.New("tenant token cannot be empty")
	}
	if c.CredDefID == "" {
		return errors.New("credential definition id cannot be empty")
	}
	return nil
}

func (c SchemaCmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "creddef schema")

	issuer := acapy.New(c.AdminURL,
		acapy.WithAPIKey(c.APIKey), acapy.WithToken(c.TenantToken))
	publisher := creddef.NewPublisher(issuer, creddef.DefaultTuning())

	id := try.To1(publisher.SchemaID(context.Background(), c.CredDefID))
	cmds.Fprintln(progress, "Schema id:", id)
	return SchemaResult{SchemaID: id}, nil
}
