// Package vm drives a UTM virtual machine over a single SSH session:
// screenshots via scrot, mouse and keyboard input via xdotool on the
// guest's X display.
package vm

import (
	"fmt"
	"time"
)

// displayCandidates is the probe order for the guest's X display. The
// first one answering a geometry query wins.
var displayCandidates = []string{":0", ":1"}

// defaultDisplay is used when no candidate answers the probe.
const defaultDisplay = ":0"

const (
	defaultTimeout = 10 * time.Second
	probeTimeout   = 2 * time.Second
)

// Controller drives one UTM virtual machine over one SSH session. It is
// meant to be driven serially by a single caller and is not safe for
// concurrent use.
type Controller struct {
	Name    string
	Host    string
	User    string
	KeyFile string

	conn conn
}

// New creates a controller for the named VM. No I/O happens until Connect.
func New(name, host, user, keyFile string) *Controller {
	return &Controller{
		Name:    name,
		Host:    host,
		User:    user,
		KeyFile: keyFile,
	}
}

// Connect dials the guest's sshd with key-based authentication. Host keys
// are verified against ~/.ssh/known_hosts; keys from hosts contacted for
// the first time are trusted and persisted (tighten by pre-populating
// known_hosts if that policy is too permissive for your setup).
func (c *Controller) Connect() error {
	conn, err := dialSSH(c.Host, c.User, c.KeyFile)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

// Disconnect closes the SSH session. Calling it without a live session is
// a no-op.
func (c *Controller) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.close()
	c.conn = nil
	return err
}

// Connected reports whether a session is currently open.
func (c *Controller) Connected() bool {
	return c.conn != nil
}

// run executes a shell command on the guest and returns its stdout.
func (c *Controller) run(cmd string, timeout time.Duration) (string, error) {
	if c.conn == nil {
		return "", ErrNotConnected
	}
	return c.conn.run(cmd, timeout)
}

// display probes for the guest's active X display, re-deriving it on every
// call rather than caching. When no candidate answers it falls back to
// defaultDisplay without erroring, so callers may end up targeting a
// display that does not exist.
func (c *Controller) display() string {
	for _, disp := range displayCandidates {
		probe := fmt.Sprintf("DISPLAY=%s xdotool getdisplaygeometry", disp)
		if _, err := c.run(probe, probeTimeout); err == nil {
			return disp
		}
	}
	return defaultDisplay
}
