// Package config resolves utm-pilot settings from the environment, an
// optional env file, and command-line flags, in that precedence order
// (flags win).
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Recognized settings. Anything else in the environment or env file is
// carried along untouched so env files can define helper variables for
// ${VAR} expansion.
const (
	KeyHost     = "UTM_PILOT_HOST"
	KeyUser     = "UTM_PILOT_USER"
	KeyKeyFile  = "UTM_PILOT_KEY"
	KeyVM       = "UTM_PILOT_VM"
	KeyAddr     = "UTM_PILOT_ADDR"
	KeyInterval = "UTM_PILOT_INTERVAL"
)

// DefaultEnvFile is consulted when no --env-file flag is given.
const DefaultEnvFile = "config/utm-pilot.env"

// Config holds the resolved settings for utm-pilot commands.
type Config struct {
	Env map[string]string
}

// New creates an empty Config.
func New() *Config {
	return &Config{
		Env: make(map[string]string),
	}
}

// LoadEnvFile loads KEY=value pairs from a file. A missing file is not an
// error. Values already present keep precedence over file values.
func (c *Config) LoadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Simple variable expansion: ${VAR} -> value of VAR
		value = c.expandVars(value)

		if _, exists := c.Env[key]; !exists {
			c.Env[key] = value
		}
	}

	return scanner.Err()
}

// LoadFromEnvironment loads variables from the current process. Values
// already present keep precedence.
func (c *Config) LoadFromEnvironment() {
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		if _, exists := c.Env[parts[0]]; !exists {
			c.Env[parts[0]] = parts[1]
		}
	}
}

// SetFlag records a command-line flag value, overriding anything loaded
// from the environment or an env file. Empty values are ignored so unset
// flags never mask lower-precedence sources.
func (c *Config) SetFlag(key, value string) {
	if value != "" {
		c.Env[key] = value
	}
}

// Get returns the value for key, or "" if unset.
func (c *Config) Get(key string) string {
	return c.Env[key]
}

// Host returns the SSH host of the guest.
func (c *Config) Host() string { return c.Get(KeyHost) }

// User returns the SSH user on the guest.
func (c *Config) User() string { return c.Get(KeyUser) }

// KeyFile returns the private key path used for SSH authentication.
func (c *Config) KeyFile() string { return c.Get(KeyKeyFile) }

// VM returns the UTM VM name.
func (c *Config) VM() string { return c.Get(KeyVM) }

// expandVars performs simple variable expansion for ${VAR} syntax.
func (c *Config) expandVars(value string) string {
	result := value

	for {
		start := strings.Index(result, "${")
		if start == -1 {
			break
		}

		end := strings.Index(result[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := result[start+2 : end]

		varValue := ""
		if val, exists := c.Env[varName]; exists {
			varValue = val
		} else if val := os.Getenv(varName); val != "" {
			varValue = val
		}

		result = result[:start] + varValue + result[end+1:]
	}

	return result
}
