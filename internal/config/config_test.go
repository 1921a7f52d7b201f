package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()
	if cfg == nil {
		t.Fatal("New() returned nil")
	}
	if cfg.Env == nil {
		t.Fatal("New() did not initialize Env map")
	}
	if len(cfg.Env) != 0 {
		t.Errorf("New() Env map should be empty, got %d entries", len(cfg.Env))
	}
}

func TestLoadEnvFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        map[string]string
	}{
		{
			name: "simple key-value pairs",
			fileContent: `UTM_PILOT_HOST=192.168.64.5
UTM_PILOT_USER=admin
UTM_PILOT_VM=dev-vm`,
			want: map[string]string{
				"UTM_PILOT_HOST": "192.168.64.5",
				"UTM_PILOT_USER": "admin",
				"UTM_PILOT_VM":   "dev-vm",
			},
		},
		{
			name: "with comments and empty lines",
			fileContent: `# connection settings
UTM_PILOT_HOST=192.168.64.5

# vm name
UTM_PILOT_VM=dev-vm
`,
			want: map[string]string{
				"UTM_PILOT_HOST": "192.168.64.5",
				"UTM_PILOT_VM":   "dev-vm",
			},
		},
		{
			name: "with whitespace",
			fileContent: `  UTM_PILOT_HOST  =  192.168.64.5
UTM_PILOT_USER=admin`,
			want: map[string]string{
				"UTM_PILOT_HOST": "192.168.64.5",
				"UTM_PILOT_USER": "admin",
			},
		},
		{
			name: "with variable expansion",
			fileContent: `KEY_DIR=/home/me/.ssh
UTM_PILOT_KEY=${KEY_DIR}/id_ed25519`,
			want: map[string]string{
				"KEY_DIR":       "/home/me/.ssh",
				"UTM_PILOT_KEY": "/home/me/.ssh/id_ed25519",
			},
		},
		{
			name: "malformed lines are skipped",
			fileContent: `UTM_PILOT_HOST=192.168.64.5
NOT A KEY VALUE PAIR
UTM_PILOT_USER=admin`,
			want: map[string]string{
				"UTM_PILOT_HOST": "192.168.64.5",
				"UTM_PILOT_USER": "admin",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "test.env")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create temp file: %v", err)
			}

			cfg := New()
			if err := cfg.LoadEnvFile(tmpFile); err != nil {
				t.Fatalf("LoadEnvFile() error = %v", err)
			}

			for key, want := range tt.want {
				if got := cfg.Get(key); got != want {
					t.Errorf("Get(%s) = %q, want %q", key, got, want)
				}
			}
			for key := range cfg.Env {
				if _, expected := tt.want[key]; !expected {
					t.Errorf("Unexpected key %s in Env", key)
				}
			}
		})
	}
}

func TestLoadEnvFile_NonExistent(t *testing.T) {
	cfg := New()
	if err := cfg.LoadEnvFile("/nonexistent/file.env"); err != nil {
		t.Errorf("LoadEnvFile() with non-existent file should return nil, got error: %v", err)
	}
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.env")
	content := "UTM_PILOT_HOST=from_file\nUTM_PILOT_USER=also_from_file"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	cfg := New()
	cfg.Env[KeyHost] = "pre_existing"

	if err := cfg.LoadEnvFile(tmpFile); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}

	if cfg.Host() != "pre_existing" {
		t.Errorf("LoadEnvFile overrode existing value, got %q", cfg.Host())
	}
	if cfg.User() != "also_from_file" {
		t.Errorf("LoadEnvFile did not add new value, got %q", cfg.User())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("UTM_PILOT_HOST", "192.168.64.9")
	t.Setenv("UTM_PILOT_VM", "env-vm")

	cfg := New()
	cfg.LoadFromEnvironment()

	if cfg.Host() != "192.168.64.9" {
		t.Errorf("Host() = %q, want %q", cfg.Host(), "192.168.64.9")
	}
	if cfg.VM() != "env-vm" {
		t.Errorf("VM() = %q, want %q", cfg.VM(), "env-vm")
	}
}

func TestSetFlagOverrides(t *testing.T) {
	t.Setenv("UTM_PILOT_USER", "from_env")

	cfg := New()
	cfg.LoadFromEnvironment()
	cfg.SetFlag(KeyUser, "from_flag")

	if cfg.User() != "from_flag" {
		t.Errorf("User() = %q, want flag value to win", cfg.User())
	}
}

func TestSetFlagIgnoresEmpty(t *testing.T) {
	cfg := New()
	cfg.Env[KeyUser] = "existing"
	cfg.SetFlag(KeyUser, "")

	if cfg.User() != "existing" {
		t.Errorf("SetFlag with empty value clobbered existing, got %q", cfg.User())
	}
}

func TestExpandVarsFallsBackToProcessEnv(t *testing.T) {
	t.Setenv("OUTSIDE_VAR", "/opt")

	tmpFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(tmpFile, []byte("UTM_PILOT_KEY=${OUTSIDE_VAR}/key"), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	cfg := New()
	if err := cfg.LoadEnvFile(tmpFile); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if cfg.KeyFile() != "/opt/key" {
		t.Errorf("KeyFile() = %q, want %q", cfg.KeyFile(), "/opt/key")
	}
}
