package cmds

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ErrInvalid is returned from Validate when the command arguments cannot
// work.
var ErrInvalid = errors.New("invalid command, check arguments")

// Cmd is the base of every orchestrator command. It locates the agent
// admin API and carries the caller tokens.
type Cmd struct {
	AdminURL      string `cmd_usage:"admin API url is required"`
	APIKey        string
	TenantToken   string
	EndorserToken string
}

// Validate checks the base arguments shared by all commands.
func (c Cmd) Validate() error {
	if c.AdminURL == "" {
		return errors.New("admin API url cannot be empty")
	}
	if _, err := url.Parse(c.AdminURL); err != nil {
		return fmt.Errorf("admin API url is not valid: %w", err)
	}
	return nil
}

// Result is what a command execution produces.
type Result interface {
	JSON() ([]byte, error)
}

// Command is the interface all of the orchestrator commands implement.
type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws an
// error.
func Fprintln(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws an
// error.
func Fprintf(w io.Writer, format string, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}

// Fprint is fmt.Fprint but it allows writer to be nil. Note! it throws an
// error.
func Fprint(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprint(w, a...))
	}
}

// Progress writes a dot to w every 300 ms until the returned channel is
// closed.
func Progress(w io.Writer) chan<- struct{} {
	done := make(chan struct{})
	go func() {
		defer err2.Catch()
		for {
			select {
			case <-done:
				return
			case <-time.After(300 * time.Millisecond):
				Fprint(w, ".")
			}
		}
	}()
	return done
}
