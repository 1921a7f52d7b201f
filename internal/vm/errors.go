package vm

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by remote actions invoked before Connect
// succeeds (or after Disconnect).
var ErrNotConnected = errors.New("not connected")

// CommandError reports a remote command that exited non-zero.
type CommandError struct {
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed (exit %d): %s", e.ExitCode, e.Stderr)
}
