package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/vigenere-search/internal/config"
	"github.com/vigenere-search/internal/key"
	"github.com/vigenere-search/internal/search"
)

var startTime = time.Now()

// ScanHealth summarises the scan behind the status server
type ScanHealth struct {
	Running       bool    `json:"running"`
	Range         string  `json:"range,omitempty"`
	CurrentKey    string  `json:"current_key,omitempty"`
	Checked       uint64  `json:"checked"`
	Candidates    uint64  `json:"candidates"`
	KeysPerSecond float64 `json:"keys_per_second"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string     `json:"status"`
	Version   string     `json:"version"`
	Uptime    string     `json:"uptime"`
	GoVersion string     `json:"go_version"`
	Persisted bool       `json:"persisted"`
	Scan      ScanHealth `json:"scan"`
}

func scanHealth(snap search.ProgressSnapshot) ScanHealth {
	h := ScanHealth{
		Running:       snap.Running,
		Checked:       snap.Checked,
		Candidates:    snap.Candidates,
		KeysPerSecond: snap.KeysPerSecond,
	}
	if snap.Running || snap.Checked > 0 {
		h.Range = snap.Range.String()
		h.CurrentKey = key.FromIdentity(snap.Current).String()
	}
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   config.Version,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		GoVersion: runtime.Version(),
		Persisted: s.candidates != nil,
		Scan:      scanHealth(s.progress.Snapshot()),
	})
}

// handleReady reports "scanning" while a scan runs and "idle" otherwise.
// Both are ready: the API serves stored results either way.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	state := "idle"
	if s.progress.Snapshot().Running {
		state = "scanning"
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ready", "scan": state})
}
