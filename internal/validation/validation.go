// Package validation checks CLI inputs before any SSH or utmctl call, so
// bad arguments fail fast with a remediation hint instead of a confusing
// remote error.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// hostnameRegex is a pre-compiled regex for RFC 1123 hostname validation
var hostnameRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// Error represents a validation error with an actionable remediation hint
type Error struct {
	Field       string
	Value       string
	Message     string
	Remediation string
}

func (e *Error) Error() string {
	if e.Remediation != "" {
		return fmt.Sprintf("%s: %s\nRemediation: %s", e.Field, e.Message, e.Remediation)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Required validates that a field is not empty
func Required(field, value string) error {
	if value == "" {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     "field is required but not set",
			Remediation: fmt.Sprintf("Set %s via flag, environment variable, or env file", field),
		}
	}
	return nil
}

// Host validates a hostname or IP address
func Host(field, value string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	if net.ParseIP(value) != nil {
		return nil
	}
	if len(value) <= 253 && hostnameRegex.MatchString(value) {
		return nil
	}
	return &Error{
		Field:       field,
		Value:       value,
		Message:     fmt.Sprintf("invalid host: %q", value),
		Remediation: "Provide a valid IP address (e.g., 192.168.64.5) or hostname (e.g., dev-vm.local)",
	}
}

// Port validates a port number (1-65535)
func Port(field, value string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("invalid port number: %q", value),
			Remediation: "Provide a valid port number between 1 and 65535",
		}
	}
	return nil
}

// ListenAddr validates a host:port listen address
func ListenAddr(field, value string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	host, port, err := net.SplitHostPort(value)
	if err != nil {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("invalid listen address: %q", value),
			Remediation: "Provide host:port (e.g., 127.0.0.1:8420) or :port to listen on all interfaces",
		}
	}
	if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("invalid port in listen address: %q", port),
			Remediation: "Provide a port number between 1 and 65535",
		}
	}
	if host != "" {
		return Host(field, host)
	}
	return nil
}

// OneOf validates that a value is one of the allowed values
func OneOf(field, value string, allowed []string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	for _, a := range allowed {
		if value == a {
			return nil
		}
	}

	return &Error{
		Field:       field,
		Value:       value,
		Message:     fmt.Sprintf("invalid value: %q", value),
		Remediation: fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// NonNegativeInt validates a non-negative integer string
func NonNegativeInt(field, value string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("invalid non-negative integer: %q", value),
			Remediation: "Provide a whole number >= 0",
		}
	}
	return nil
}

// Errors collects multiple validation errors
type Errors []error

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed:\n%s", strings.Join(messages, "\n"))
}

// HasErrors returns true if there are any errors
func (e Errors) HasErrors() bool {
	return len(e) > 0
}
