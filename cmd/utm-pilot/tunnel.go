package main

import (
	"fmt"

	"github.com/mfittko/utm-pilot/internal/config"
	"github.com/mfittko/utm-pilot/internal/output"
	"github.com/mfittko/utm-pilot/internal/tunnel"
	"github.com/mfittko/utm-pilot/internal/validation"
	"github.com/spf13/cobra"
)

var (
	tunLocalPort string
	tunGuestPort string
)

var tunnelCmd = &cobra.Command{
	Use:   "tunnel [start|stop|status]",
	Short: "Manage an SSH port forward into the guest",
	Long: `Manage an SSH port forward into the guest using ControlMaster, for
long-lived connections like VNC that should outlive utm-pilot itself.

The forward targets the guest's loopback interface, so services bound to
127.0.0.1 inside the VM are reachable.

Examples:
  utm-pilot tunnel start
  utm-pilot tunnel start --local-port 5901 --guest-port 5900
  utm-pilot tunnel status
  utm-pilot tunnel stop`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"start", "stop", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "start"
		if len(args) > 0 {
			action = args[0]
		}
		if err := validation.OneOf("action", action, []string{"start", "stop", "status"}); err != nil {
			return err
		}

		var errs validation.Errors
		if err := validation.Required(config.KeyHost, cfg.Host()); err != nil {
			errs = append(errs, err)
		}
		if err := validation.Required(config.KeyUser, cfg.User()); err != nil {
			errs = append(errs, err)
		}
		if err := validation.Port("--local-port", tunLocalPort); err != nil {
			errs = append(errs, err)
		}
		if err := validation.Port("--guest-port", tunGuestPort); err != nil {
			errs = append(errs, err)
		}
		if errs.HasErrors() {
			return errs
		}

		mgr := tunnel.New(cfg.User(), cfg.Host(), cfg.KeyFile(), tunLocalPort, tunGuestPort)

		switch action {
		case "start":
			if err := mgr.Start(); err != nil {
				return err
			}
			return formatter.Print(&output.Result{
				Success: true,
				Message: fmt.Sprintf("tunnel up: localhost:%s -> guest:%s", tunLocalPort, tunGuestPort),
				Data:    map[string]interface{}{"local_port": tunLocalPort, "guest_port": tunGuestPort},
			})
		case "stop":
			if err := mgr.Stop(); err != nil {
				return err
			}
			return formatter.Print(&output.Result{Success: true, Message: "tunnel stopped"})
		default: // status
			running, port := mgr.Status()
			msg := "tunnel not running"
			if running {
				msg = "tunnel listening on localhost:" + port
			}
			return formatter.Print(&output.Result{
				Success: true,
				Message: msg,
				Data:    map[string]interface{}{"running": running, "local_port": port},
			})
		}
	},
}

func init() {
	tunnelCmd.Flags().StringVar(&tunLocalPort, "local-port", "5900", "Local port to listen on")
	tunnelCmd.Flags().StringVar(&tunGuestPort, "guest-port", "5900", "Guest loopback port to forward to")
}
