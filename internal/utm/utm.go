// Package utm shells out to the local utmctl binary for VM lifecycle
// operations. No SSH session is involved; every call is one short-lived
// bounded-timeout process.
package utm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// execCommandContext is an injection point for unit tests.
var execCommandContext = exec.CommandContext

const (
	// queryTimeout bounds ip-address and status lookups.
	queryTimeout = 10 * time.Second
	// startTimeout is longer since UTM may need to spin up the whole VM
	// process before the command returns.
	startTimeout = 30 * time.Second
)

// runCtl invokes utmctl with the given arguments and returns captured
// stdout and stderr.
func runCtl(timeout time.Duration, args ...string) (stdout, stderr string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := execCommandContext(ctx, "utmctl", args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	err = cmd.Run()
	return out.String(), errBuf.String(), err
}

// IP returns the guest IP address utmctl reports for the named VM,
// trimmed of surrounding whitespace.
func IP(name string) (string, error) {
	stdout, stderr, err := runCtl(queryTimeout, "ip-address", name)
	if err != nil {
		return "", fmt.Errorf("get IP of VM %s: %s: %w", name, strings.TrimSpace(stderr), err)
	}
	return strings.TrimSpace(stdout), nil
}

// Start asks UTM to start the named VM. It returns as soon as utmctl
// does; the guest may still be booting. Callers poll readiness (IsRunning,
// sshd reachability) themselves.
func Start(name string) error {
	_, stderr, err := runCtl(startTimeout, "start", name)
	if err != nil {
		return fmt.Errorf("start VM %s: %s: %w", name, strings.TrimSpace(stderr), err)
	}
	return nil
}

// IsRunning reports whether utmctl considers the named VM started. A
// failed or unparseable status query counts as not running, never as an
// error.
func IsRunning(name string) bool {
	stdout, _, err := runCtl(queryTimeout, "status", name)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(stdout), "started")
}
