// Package stream pushes periodic guest screenshots to browser viewers
// over a websocket. It is a thin viewer surface on top of a connected
// vm.Controller, not a video pipeline: every frame is a full PNG capture.
package stream

import (
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// Screenshotter captures one full-screen PNG from the guest.
type Screenshotter interface {
	Screenshot() ([]byte, error)
}

// DefaultInterval is used when the caller does not set one.
const DefaultInterval = time.Second

// Server streams screenshots to any number of websocket viewers. The
// underlying controller only supports serial use, so captures from
// concurrent viewers are serialized behind a mutex.
type Server struct {
	shooter  Screenshotter
	interval time.Duration

	mu sync.Mutex
}

// New creates a streaming server capturing at the given interval.
func New(shooter Screenshotter, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Server{shooter: shooter, interval: interval}
}

// Handler returns the HTTP handler: an index page at / and the frame
// stream at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// handleWS pushes one binary PNG frame per interval until the viewer goes
// away or a capture fails. A capture failure closes only this viewer's
// stream; the HTTP server keeps running.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close(websocket.StatusInternalError, "stream aborted")

	ctx := r.Context()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		frame, err := s.capture()
		if err != nil {
			c.Close(websocket.StatusInternalError, "screenshot failed")
			return
		}
		if err := c.Write(ctx, websocket.MessageBinary, frame); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) capture() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shooter.Screenshot()
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>utm-pilot screen</title>
<style>body{margin:0;background:#111}img{display:block;margin:0 auto;max-width:100%}</style>
</head>
<body>
<img id="screen" alt="VM screen">
<script>
const img = document.getElementById("screen");
const proto = location.protocol === "https:" ? "wss:" : "ws:";
const ws = new WebSocket(proto + "//" + location.host + "/ws");
ws.binaryType = "blob";
let url = null;
ws.onmessage = (ev) => {
  if (url) URL.revokeObjectURL(url);
  url = URL.createObjectURL(ev.data);
  img.src = url;
};
</script>
</body>
</html>
`
