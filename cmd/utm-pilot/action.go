package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mfittko/utm-pilot/internal/output"
	"github.com/mfittko/utm-pilot/internal/validation"
	"github.com/spf13/cobra"
)

var (
	screenshotOut string

	clickButton string
	clickCount  int
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the guest screen (cursor included) to a PNG file",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectController()
		if err != nil {
			return err
		}
		defer c.Disconnect()

		img, err := c.Screenshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(screenshotOut, img, 0644); err != nil {
			return fmt.Errorf("write %s: %w", screenshotOut, err)
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: fmt.Sprintf("wrote %d bytes to %s", len(img), screenshotOut),
			Data:    map[string]interface{}{"file": screenshotOut, "bytes": len(img)},
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <x> <y>",
	Short: "Move the guest pointer to absolute screen coordinates",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var errs validation.Errors
		for i, field := range []string{"x", "y"} {
			if err := validation.NonNegativeInt(field, args[i]); err != nil {
				errs = append(errs, err)
			}
		}
		if errs.HasErrors() {
			return errs
		}
		x, _ := strconv.Atoi(args[0])
		y, _ := strconv.Atoi(args[1])

		c, err := connectController()
		if err != nil {
			return err
		}
		defer c.Disconnect()

		if err := c.MoveMouse(x, y); err != nil {
			return err
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: fmt.Sprintf("pointer moved to %d,%d", x, y),
			Data:    map[string]interface{}{"x": x, "y": y},
		})
	},
}

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click a mouse button on the guest",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The controller maps unknown button names to "left"; the CLI
		// rejects them up front instead of relying on that fallback.
		if err := validation.OneOf("--button", clickButton, []string{"left", "right", "middle"}); err != nil {
			return err
		}
		if clickCount < 0 {
			return validation.NonNegativeInt("--clicks", strconv.Itoa(clickCount))
		}

		c, err := connectController()
		if err != nil {
			return err
		}
		defer c.Disconnect()

		if err := c.Click(clickButton, clickCount); err != nil {
			return err
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: fmt.Sprintf("%s click x%d", clickButton, clickCount),
			Data:    map[string]interface{}{"button": clickButton, "clicks": clickCount},
		})
	},
}

var typeCmd = &cobra.Command{
	Use:   "type <text>",
	Short: "Type literal text into the focused guest window",
	Long: `Type literal text into the focused guest window.

The text is sent as-is, shell-escaped; spaces and quotes are fine. Named
keys (Return, Tab, ...) and modifier combos go through 'utm-pilot key'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectController()
		if err != nil {
			return err
		}
		defer c.Disconnect()

		if err := c.TypeText(args[0]); err != nil {
			return err
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: fmt.Sprintf("typed %d characters", len(args[0])),
		})
	},
}

var keyCmd = &cobra.Command{
	Use:   "key <keysym>",
	Short: "Press a key or modifier combo on the guest",
	Long: `Press a key or modifier combo on the guest.

Uses xdotool key syntax, e.g. Return, Tab, ctrl+a, alt+F4. The key string
is not validated locally; a bad symbol name fails on the guest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectController()
		if err != nil {
			return err
		}
		defer c.Disconnect()

		if err := c.PressKey(args[0]); err != nil {
			return err
		}
		return formatter.Print(&output.Result{
			Success: true,
			Message: "pressed " + args[0],
		})
	},
}

func init() {
	screenshotCmd.Flags().StringVarP(&screenshotOut, "out", "o", "screenshot.png", "Output PNG file")
	clickCmd.Flags().StringVar(&clickButton, "button", "left", "Mouse button: left, right, or middle")
	clickCmd.Flags().IntVar(&clickCount, "clicks", 1, "Number of discrete clicks")
}
