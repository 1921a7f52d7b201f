package vm

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"
)

// now is an injection point for unit tests that pin the temp-file name.
var now = time.Now

// screenshotTimeout covers the whole capture script, not individual steps.
const screenshotTimeout = 15 * time.Second

// Screenshot captures the guest's full screen, cursor included, and
// returns the raw PNG bytes. The capture runs as one compound remote
// script: remove a stale temp file, flush pending xdotool events, settle
// briefly, capture with scrot, base64 the image back over the command
// channel, remove the temp file. The temp path is uniqued by a millisecond
// timestamp. Cleanup is best-effort: if a middle step fails, the trailing
// removal never runs and the temp file leaks on the guest.
func (c *Controller) Screenshot() ([]byte, error) {
	disp := c.display()
	shot := fmt.Sprintf("/tmp/shot_%d.png", now().UnixMilli())

	script := strings.Join([]string{
		fmt.Sprintf("rm -f %s", shot),
		fmt.Sprintf("DISPLAY=%s xdotool sync", disp),
		"sleep 0.1",
		fmt.Sprintf("DISPLAY=%s scrot -o %s", disp, shot),
		fmt.Sprintf("base64 %s", shot),
		fmt.Sprintf("rm -f %s", shot),
	}, "\n")

	encoded, err := c.run(script, screenshotTimeout)
	if err != nil {
		return nil, err
	}

	// The guest's base64 wraps lines at 76 columns; the stream decoder
	// tolerates the embedded newlines.
	dec := base64.NewDecoder(base64.StdEncoding, strings.NewReader(strings.TrimSpace(encoded)))
	img, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}
