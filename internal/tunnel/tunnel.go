// Package tunnel manages long-lived SSH port forwards into the guest
// (VNC, dev servers) via the system ssh binary with ControlMaster. These
// run as background processes independent of the controller's command
// session, so they survive utm-pilot exiting.
package tunnel

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Manager handles one forward from a local port to a port on the guest's
// loopback interface.
type Manager struct {
	User         string
	Host         string
	IdentityFile string
	LocalPort    string
	GuestPort    string
}

// New creates a new tunnel manager
func New(user, host, identityFile, localPort, guestPort string) *Manager {
	return &Manager{
		User:         user,
		Host:         host,
		IdentityFile: identityFile,
		LocalPort:    localPort,
		GuestPort:    guestPort,
	}
}

// ControlSocket returns the path to the SSH ControlMaster socket for the tunnel
func (m *Manager) ControlSocket() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = "/tmp"
	}

	key := fmt.Sprintf("%s@%s-%s", m.User, m.Host, m.LocalPort)
	key = strings.ReplaceAll(key, "@", "_")
	key = strings.ReplaceAll(key, ":", "_")
	key = strings.ReplaceAll(key, "/", "_")

	return filepath.Join(base, fmt.Sprintf("utm-pilot-tunnel-%s.ctl", key))
}

// IsRunning checks if the tunnel is currently running
func (m *Manager) IsRunning() bool {
	ctlSocket := m.ControlSocket()
	checkCmd := exec.Command("ssh", "-S", ctlSocket, "-O", "check", fmt.Sprintf("%s@%s", m.User, m.Host))
	checkCmd.Stderr = nil
	return checkCmd.Run() == nil
}

// Start starts the SSH tunnel
func (m *Manager) Start() error {
	if m.IsRunning() {
		return nil
	}

	if portInUse(m.LocalPort) {
		return fmt.Errorf("localhost:%s is already in use", m.LocalPort)
	}

	ctlSocket := m.ControlSocket()
	args := []string{
		"-M", "-S", ctlSocket,
		"-fN",
		"-L", fmt.Sprintf("%s:127.0.0.1:%s", m.LocalPort, m.GuestPort),
	}
	if m.IdentityFile != "" {
		args = append(args, "-i", m.IdentityFile)
	}
	args = append(args,
		fmt.Sprintf("%s@%s", m.User, m.Host),
		"-o", "ControlPersist=yes",
		"-o", "ExitOnForwardFailure=yes",
		"-o", "ServerAliveInterval=30",
		"-o", "ServerAliveCountMax=3",
	)

	if err := exec.Command("ssh", args...).Run(); err != nil {
		return fmt.Errorf("failed to start tunnel: %w", err)
	}

	return nil
}

// Stop stops the SSH tunnel
func (m *Manager) Stop() error {
	if !m.IsRunning() {
		return nil
	}

	ctlSocket := m.ControlSocket()
	exitCmd := exec.Command("ssh", "-S", ctlSocket, "-O", "exit", fmt.Sprintf("%s@%s", m.User, m.Host))
	exitCmd.Stdout = nil
	exitCmd.Stderr = nil
	exitCmd.Run() // Ignore errors

	return nil
}

// Status returns information about the tunnel status
func (m *Manager) Status() (running bool, listenPort string) {
	running = m.IsRunning()
	if running {
		listenPort = m.LocalPort
	}
	return
}

// portInUse checks if a local port is in use
func portInUse(port string) bool {
	// Try lsof first
	cmd := exec.Command("sh", "-c", fmt.Sprintf("command -v lsof > /dev/null && lsof -nP -iTCP:%s -sTCP:LISTEN", port))
	if err := cmd.Run(); err == nil {
		return true
	}

	// Fallback to ss
	cmd = exec.Command("sh", "-c", fmt.Sprintf("command -v ss > /dev/null && ss -ltn '( sport = :%s )' | tail -n +2 | grep -q .", port))
	return cmd.Run() == nil
}
