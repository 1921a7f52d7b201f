package vm

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// conn is the minimal transport behind a controller. It lets unit tests
// provide fakes without dialing a real VM.
type conn interface {
	// run executes a shell command on the guest and returns its stdout.
	run(cmd string, timeout time.Duration) (string, error)
	close() error
}

// dialSSH is an injection point for unit tests.
var dialSSH = dialSSHConn

// connectTimeout bounds the TCP dial and SSH handshake.
const connectTimeout = 10 * time.Second

type sshConn struct {
	client *ssh.Client
}

func dialSSHConn(host, user, keyFile string) (conn, error) {
	keyPath, err := expandHome(keyFile)
	if err != nil {
		return nil, err
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", keyPath, err)
	}

	hostKeys, err := acceptNewHostKeyCallback()
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeys,
		Timeout:         connectTimeout,
	}

	addr := host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		addr = net.JoinHostPort(host, "22")
	}

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh %s@%s: %w", user, addr, err)
	}
	return &sshConn{client: client}, nil
}

// acceptNewHostKeyCallback verifies host keys against ~/.ssh/known_hosts
// and appends keys from hosts contacted for the first time, mirroring
// OpenSSH's accept-new policy. A changed key for a known host still fails.
func acceptNewHostKeyCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	path := filepath.Join(home, ".ssh", "known_hosts")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create ~/.ssh: %w", err)
	}
	// knownhosts.New fails on a missing file, so make sure one exists.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open known_hosts: %w", err)
	}
	f.Close()

	check, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts: %w", err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := check(hostname, remote, key)
		if err == nil {
			return nil
		}
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			// First contact: trust the key and persist it.
			return appendKnownHost(path, hostname, key)
		}
		return err
	}, nil
}

func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open known_hosts for append: %w", err)
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	_, err = fmt.Fprintln(f, line)
	return err
}

// run executes cmd in a fresh session channel and waits for its exit
// status. A timeout abandons that one channel; the underlying connection
// stays usable and later calls open fresh channels.
func (c *sshConn) run(cmd string, timeout time.Duration) (string, error) {
	sess, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- sess.Run(cmd) }()

	select {
	case err := <-done:
		sess.Close()
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				return "", &CommandError{
					ExitCode: exitErr.ExitStatus(),
					Stderr:   strings.TrimSpace(stderr.String()),
				}
			}
			return "", fmt.Errorf("run remote command: %w", err)
		}
		return stdout.String(), nil
	case <-time.After(timeout):
		sess.Close()
		return "", fmt.Errorf("remote command timed out after %s", timeout)
	}
}

func (c *sshConn) close() error {
	return c.client.Close()
}

// expandHome resolves a leading ~ in a key path.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
