package update

import (
	"errors"

	"github.com/the-maldridge/gur/pkg/source"
)

const unknownError = "unknown"

// errorMap holds the user facing message per failed git subcommand.
var errorMap = map[string]string{
	source.CmdClone: "failed to clone the master repository",
	source.CmdFetch: "failed to fetch a package of the master repository",
	source.CmdPull:  "failed to pull the master repository",
	unknownError:    "unknown error while syncing",
}

// classify returns the git subcommand that caused err, or "unknown"
// for anything that didn't come out of git or isn't in the table.
func classify(err error) string {
	var cmdErr source.ErrCommand
	if !errors.As(err, &cmdErr) {
		return unknownError
	}
	if _, ok := errorMap[cmdErr.Cmd]; !ok {
		return unknownError
	}
	return cmdErr.Cmd
}

// Describe renders the message reported to listeners for a failed
// mirror.
func Describe(err error, repoID string) string {
	return errorMap[classify(err)] + " " + repoID
}
