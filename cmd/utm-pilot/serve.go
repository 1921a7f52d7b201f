package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mfittko/utm-pilot/internal/config"
	"github.com/mfittko/utm-pilot/internal/stream"
	"github.com/mfittko/utm-pilot/internal/validation"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream guest screenshots to a browser",
	Long: `Stream guest screenshots to a browser.

Starts an HTTP server with a viewer page; each connected viewer receives a
fresh full-screen PNG over a websocket at the capture interval. This is a
screenshot loop, not a video stream; expect a few frames per second at
best.

Examples:
  utm-pilot serve
  utm-pilot serve --addr 127.0.0.1:8420 --interval 500ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Get(config.KeyAddr)
		}
		if addr == "" {
			addr = ":8420"
		}
		if err := validation.ListenAddr("--addr", addr); err != nil {
			return err
		}

		interval := serveInterval
		if interval == 0 {
			if s := cfg.Get(config.KeyInterval); s != "" {
				d, err := time.ParseDuration(s)
				if err != nil {
					return fmt.Errorf("invalid %s: %w", config.KeyInterval, err)
				}
				interval = d
			}
		}

		c, err := connectController()
		if err != nil {
			return err
		}
		defer c.Disconnect()

		srv := stream.New(c, interval)
		fmt.Printf("Serving VM screen on http://%s (Ctrl-C to stop)\n", addr)
		return http.ListenAndServe(addr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8420, or UTM_PILOT_ADDR)")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 0, "Capture interval (default 1s, or UTM_PILOT_INTERVAL)")
}
