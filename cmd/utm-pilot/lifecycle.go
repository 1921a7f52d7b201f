package main

import (
	"github.com/mfittko/utm-pilot/internal/output"
	"github.com/mfittko/utm-pilot/internal/utm"
	"github.com/spf13/cobra"
)

var ipCmd = &cobra.Command{
	Use:   "ip [vm-name]",
	Short: "Print the guest IP address reported by UTM",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := vmNameFromArgs(args)
		if err != nil {
			return err
		}

		ip, err := utm.IP(name)
		if err != nil {
			return err
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: ip,
			Data:    map[string]interface{}{"vm": name, "ip": ip},
		})
	},
}

var startCmd = &cobra.Command{
	Use:   "start [vm-name]",
	Short: "Start a VM via utmctl",
	Long: `Start a VM via utmctl.

The command returns as soon as utmctl accepts the request; the guest may
still be booting. Poll 'utm-pilot status' (and sshd reachability) before
driving it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := vmNameFromArgs(args)
		if err != nil {
			return err
		}

		if err := utm.Start(name); err != nil {
			return err
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: "VM " + name + " start requested",
			Data:    map[string]interface{}{"vm": name},
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [vm-name]",
	Short: "Report whether a VM is running",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := vmNameFromArgs(args)
		if err != nil {
			return err
		}

		running := utm.IsRunning(name)
		msg := "stopped"
		if running {
			msg = "running"
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: msg,
			Data:    map[string]interface{}{"vm": name, "running": running},
		})
	},
}
