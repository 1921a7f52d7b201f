package main

import (
	"fmt"
	"os"

	"github.com/mfittko/utm-pilot/internal/config"
	"github.com/mfittko/utm-pilot/internal/output"
	"github.com/mfittko/utm-pilot/internal/validation"
	"github.com/mfittko/utm-pilot/internal/vm"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfg       *config.Config
	formatter *output.Formatter

	// Global flags
	envFile    string
	outputFlag string
	flagHost   string
	flagUser   string
	flagKey    string
	flagVM     string
)

var rootCmd = &cobra.Command{
	Use:   "utm-pilot",
	Short: "Remote-control UTM virtual machines over SSH",
	Long: `utm-pilot drives a UTM virtual machine from the host: screenshots,
mouse and keyboard input via xdotool on the guest's X display, and VM
lifecycle operations via the local utmctl binary.

Connection parameters come from flags, UTM_PILOT_* environment variables,
or an env file. Flags take precedence.

Examples:
  utm-pilot ip dev-vm
  utm-pilot start dev-vm
  utm-pilot --host 192.168.64.5 --user admin --key ~/.ssh/id_ed25519 screenshot -o shot.png
  utm-pilot click --button right
  utm-pilot type 'hello world'
  utm-pilot key ctrl+alt+F2`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.New()

		// Precedence, lowest to highest: environment, env file, flags.
		cfg.LoadFromEnvironment()

		if envFile == "" {
			if _, err := os.Stat(config.DefaultEnvFile); err == nil {
				envFile = config.DefaultEnvFile
			}
		}
		if envFile != "" {
			if err := cfg.LoadEnvFile(envFile); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
		}

		cfg.SetFlag(config.KeyHost, flagHost)
		cfg.SetFlag(config.KeyUser, flagUser)
		cfg.SetFlag(config.KeyKeyFile, flagKey)
		cfg.SetFlag(config.KeyVM, flagVM)

		format, err := output.ParseFormat(outputFlag)
		if err != nil {
			return err
		}
		formatter = output.New(format)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to environment file (default: config/utm-pilot.env if exists)")
	rootCmd.PersistentFlags().StringVar(&outputFlag, "output", "text", "Output format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "Guest SSH host (or UTM_PILOT_HOST)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Guest SSH user (or UTM_PILOT_USER)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "", "SSH private key path (or UTM_PILOT_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagVM, "vm", "", "UTM VM name (or UTM_PILOT_VM)")

	rootCmd.AddCommand(ipCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(screenshotCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(clickCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tunnelCmd)
}

// vmNameFromArgs resolves the VM name from a positional argument or the
// configured UTM_PILOT_VM.
func vmNameFromArgs(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.VM() != "" {
		return cfg.VM(), nil
	}
	return "", validation.Required(config.KeyVM, "")
}

// connectController validates connection settings, dials the guest, and
// returns a connected controller. The caller disconnects.
func connectController() (*vm.Controller, error) {
	var errs validation.Errors
	if err := validation.Required(config.KeyHost, cfg.Host()); err != nil {
		errs = append(errs, err)
	}
	if err := validation.Host(config.KeyHost, cfg.Host()); err != nil {
		errs = append(errs, err)
	}
	if err := validation.Required(config.KeyUser, cfg.User()); err != nil {
		errs = append(errs, err)
	}
	if err := validation.Required(config.KeyKeyFile, cfg.KeyFile()); err != nil {
		errs = append(errs, err)
	}
	if errs.HasErrors() {
		return nil, errs
	}

	c := vm.New(cfg.VM(), cfg.Host(), cfg.User(), cfg.KeyFile())
	if err := c.Connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
