package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/mfittko/utm-pilot/internal/config"
	"github.com/mfittko/utm-pilot/internal/validation"
)

func TestVMNameFromArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		cfgVM   string
		want    string
		wantErr bool
	}{
		{
			name: "positional argument",
			args: []string{"dev-vm"},
			want: "dev-vm",
		},
		{
			name:  "positional argument wins over config",
			args:  []string{"dev-vm"},
			cfgVM: "other-vm",
			want:  "dev-vm",
		},
		{
			name:  "falls back to config",
			args:  []string{},
			cfgVM: "other-vm",
			want:  "other-vm",
		},
		{
			name:    "nothing set",
			args:    []string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = config.New()
			if tt.cfgVM != "" {
				cfg.SetFlag(config.KeyVM, tt.cfgVM)
			}

			got, err := vmNameFromArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("vmNameFromArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("vmNameFromArgs() = %q, want %q", got, tt.want)
			}
			if tt.wantErr {
				var vErr *validation.Error
				if !errors.As(err, &vErr) {
					t.Errorf("expected a validation error, got %T", err)
				}
			}
		})
	}
}

func TestConnectControllerValidation(t *testing.T) {
	cfg = config.New()
	cfg.SetFlag(config.KeyUser, "admin")
	// Host and key file deliberately unset.

	_, err := connectController()
	if err == nil {
		t.Fatal("connectController() expected validation error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, config.KeyHost) {
		t.Errorf("error %q does not mention missing host", msg)
	}
	if !strings.Contains(msg, config.KeyKeyFile) {
		t.Errorf("error %q does not mention missing key file", msg)
	}
	if strings.Contains(msg, config.KeyUser+": field is required") {
		t.Errorf("error %q flags the user field even though it is set", msg)
	}
}
