package search

import (
	"sync/atomic"
	"time"
)

// Progress holds scan counters shared with concurrent readers such as the
// status server. A nil *Progress is valid and records nothing.
type Progress struct {
	start      atomic.Uint64
	end        atomic.Uint64
	current    atomic.Uint64
	checked    atomic.Uint64
	candidates atomic.Uint64
	startedAt  atomic.Int64
	running    atomic.Bool
}

// ProgressSnapshot is a point-in-time copy of Progress
type ProgressSnapshot struct {
	Range         Range     `json:"range"`
	Current       uint64    `json:"current"`
	CurrentKey    string    `json:"current_key"`
	Checked       uint64    `json:"checked"`
	Candidates    uint64    `json:"candidates"`
	Running       bool      `json:"running"`
	StartedAt     time.Time `json:"started_at"`
	KeysPerSecond float64   `json:"keys_per_second"`
}

// NewProgress creates an empty progress tracker
func NewProgress() *Progress {
	return &Progress{}
}

func (p *Progress) begin(r Range) {
	if p == nil {
		return
	}
	p.start.Store(r.Start)
	p.end.Store(r.End)
	p.current.Store(r.Start)
	if p.startedAt.Load() == 0 {
		p.startedAt.Store(time.Now().UnixNano())
	}
	p.running.Store(true)
}

func (p *Progress) advance(current, checked uint64) {
	if p == nil {
		return
	}
	p.current.Store(current)
	p.checked.Add(checked)
}

func (p *Progress) found() {
	if p == nil {
		return
	}
	p.candidates.Add(1)
}

func (p *Progress) finish() {
	if p == nil {
		return
	}
	p.running.Store(false)
}

// Snapshot returns the current counters
func (p *Progress) Snapshot() ProgressSnapshot {
	if p == nil {
		return ProgressSnapshot{}
	}
	s := ProgressSnapshot{
		Range:      Range{Start: p.start.Load(), End: p.end.Load()},
		Current:    p.current.Load(),
		Checked:    p.checked.Load(),
		Candidates: p.candidates.Load(),
		Running:    p.running.Load(),
	}
	if ns := p.startedAt.Load(); ns != 0 {
		s.StartedAt = time.Unix(0, ns)
		if elapsed := time.Since(s.StartedAt).Seconds(); elapsed > 0 {
			s.KeysPerSecond = float64(s.Checked) / elapsed
		}
	}
	return s
}
