package utm

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

// stubCtl replaces utmctl with a shell snippet for the duration of a test.
func stubCtl(t *testing.T, script string) *[]string {
	t.Helper()

	old := execCommandContext
	t.Cleanup(func() { execCommandContext = old })

	calls := &[]string{}
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*calls = append(*calls, name+" "+strings.Join(args, " "))
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	return calls
}

func TestIP(t *testing.T) {
	calls := stubCtl(t, `printf '  192.168.64.5\n'`)

	ip, err := IP("dev-vm")
	if err != nil {
		t.Fatalf("IP() error = %v", err)
	}
	if ip != "192.168.64.5" {
		t.Errorf("IP() = %q, want %q", ip, "192.168.64.5")
	}
	if len(*calls) != 1 || (*calls)[0] != "utmctl ip-address dev-vm" {
		t.Errorf("unexpected utmctl invocation: %v", *calls)
	}
}

func TestIPFailureCarriesStderr(t *testing.T) {
	stubCtl(t, `echo 'no such VM' >&2; exit 1`)

	_, err := IP("missing-vm")
	if err == nil {
		t.Fatal("IP() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no such VM") {
		t.Errorf("error %q does not include stderr", err.Error())
	}
}

func TestStart(t *testing.T) {
	calls := stubCtl(t, `exit 0`)

	if err := Start("dev-vm"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(*calls) != 1 || (*calls)[0] != "utmctl start dev-vm" {
		t.Errorf("unexpected utmctl invocation: %v", *calls)
	}
}

func TestStartFailure(t *testing.T) {
	stubCtl(t, `echo 'VM is suspended' >&2; exit 2`)

	err := Start("dev-vm")
	if err == nil {
		t.Fatal("Start() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "VM is suspended") {
		t.Errorf("error %q does not include stderr", err.Error())
	}
}

func TestIsRunning(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   bool
	}{
		{
			name:   "status started",
			script: `echo 'Started'`,
			want:   true,
		},
		{
			name:   "status started lowercase match is case-insensitive",
			script: `echo 'STARTED'`,
			want:   true,
		},
		{
			name:   "status stopped",
			script: `echo 'Stopped'`,
			want:   false,
		},
		{
			name:   "non-zero exit is not running",
			script: `echo 'Started'; exit 1`,
			want:   false,
		},
		{
			name:   "empty output",
			script: `exit 0`,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubCtl(t, tt.script)
			if got := IsRunning("dev-vm"); got != tt.want {
				t.Errorf("IsRunning() = %v, want %v", got, tt.want)
			}
		})
	}
}
