package source

import (
	"fmt"
)

// Git subcommands reported in ErrCommand.
const (
	CmdClone    = "clone"
	CmdPull     = "pull"
	CmdFetch    = "fetch"
	CmdInit     = "init"
	CmdRevParse = "rev-parse"
)

// ErrCommand is returned when a git operation fails.  Cmd names the
// subcommand so callers can pick a message for the user.
type ErrCommand struct {
	Cmd  string
	Path string
	Err  error
}

// NewErrCommand wraps err as a failure of cmd on path.
func NewErrCommand(cmd, path string, err error) ErrCommand {
	return ErrCommand{cmd, path, err}
}

func (e ErrCommand) Error() string {
	return fmt.Sprintf("git %s %s: %v", e.Cmd, e.Path, e.Err)
}

func (e ErrCommand) Unwrap() error {
	return e.Err
}
