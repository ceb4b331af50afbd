// Package endorser implements the endorser sweep command.
package endorser

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anchora-network/anchora-orchestrator/agent/acapy"
	"github.com/anchora-network/anchora-orchestrator/cmds"
	"github.com/anchora-network/anchora-orchestrator/protocol/endorsement"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// SweepCmd endorses the pending transaction requests of the endorser
// wallet. With Once it runs one sweep and exits; otherwise it keeps
// sweeping on the interval until interrupted.
type SweepCmd struct {
	cmds.Cmd
	Interval time.Duration
	Once     bool
}

type SweepResult struct {
	Endorsed int `json:"endorsed"`
}

func (r SweepResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c SweepCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.EndorserToken == "" {
		return errors.New("endorser token cannot be empty")
	}
	if c.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	return nil
}

func (c SweepCmd) Exec(progress io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "endorser sweep")

	endorser := acapy.New(c.AdminURL,
		acapy.WithAPIKey(c.APIKey), acapy.WithToken(c.EndorserToken))
	sweeper := endorsement.NewSweeper(endorser, c.Interval)

	if c.Once {
		n := sweeper.Sweep(context.Background())
		cmds.Fprintln(progress, "Endorsed", n, "transactions.")
		return SweepResult{Endorsed: n}, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	try.To(sweeper.Start(ctx))
	cmds.Fprintln(progress, "Sweeping every", c.Interval, "...")
	<-ctx.Done()
	sweeper.Stop()
	cmds.Fprintln(progress, "Sweeper stopped.")
	return SweepResult{}, nil
}
