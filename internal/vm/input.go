package vm

import "fmt"

// buttonCode maps a logical button name to xdotool's numeric button code.
// Unknown names fall back to the left button rather than erroring.
func buttonCode(button string) string {
	switch button {
	case "left":
		return "1"
	case "right":
		return "3"
	case "middle":
		return "2"
	default:
		return "1"
	}
}

// MoveMouse moves the guest pointer to absolute screen coordinates.
func (c *Controller) MoveMouse(x, y int) error {
	disp := c.display()
	_, err := c.run(fmt.Sprintf("DISPLAY=%s xdotool mousemove %d %d", disp, x, y), defaultTimeout)
	return err
}

// Click presses a mouse button on the guest, one discrete xdotool
// invocation per click. The first failing click aborts the rest.
func (c *Controller) Click(button string, clicks int) error {
	disp := c.display()
	code := buttonCode(button)
	for i := 0; i < clicks; i++ {
		if _, err := c.run(fmt.Sprintf("DISPLAY=%s xdotool click %s", disp, code), defaultTimeout); err != nil {
			return err
		}
	}
	return nil
}

// TypeText sends literal text as keystrokes to the focused guest window.
// The text is shell-escaped and transmitted as one argument; named key
// symbols (Return, Tab, ...) go through PressKey instead.
func (c *Controller) TypeText(text string) error {
	disp := c.display()
	_, err := c.run(fmt.Sprintf("DISPLAY=%s xdotool type --clearmodifiers %s", disp, shellEscape(text)), defaultTimeout)
	return err
}

// PressKey sends a single key or modifier combo, e.g. "Return", "ctrl+a",
// "alt+F4". The key string is escaped but not validated; a bad symbol name
// surfaces as a remote xdotool failure, not a local error.
func (c *Controller) PressKey(key string) error {
	disp := c.display()
	_, err := c.run(fmt.Sprintf("DISPLAY=%s xdotool key %s", disp, shellEscape(key)), defaultTimeout)
	return err
}
