// Package search drives the decipher engine over ranges of key identities
// and reports the candidates accepted by a filter.
package search

import (
	"context"
	"time"

	"github.com/vigenere-search/internal/candidate"
	"github.com/vigenere-search/internal/decipher"
	"github.com/vigenere-search/internal/trace"
)

// DefaultCheckEvery is the default number of keys between context checks
const DefaultCheckEvery = 1 << 16

// Candidate is a key whose deciphered output was accepted by the filter
type Candidate struct {
	Identity uint64    `json:"identity"`
	Key      string    `json:"key"`
	Text     string    `json:"text"`
	FoundAt  time.Time `json:"found_at"`
}

// Result summarises a scan
type Result struct {
	Range      Range         `json:"range"`
	Last       uint64        `json:"last"`
	Checked    uint64        `json:"checked"`
	Candidates uint64        `json:"candidates"`
	Elapsed    time.Duration `json:"elapsed"`
}

// KeysPerSecond returns the scan rate
func (r Result) KeysPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Checked) / r.Elapsed.Seconds()
}

// NanosPerKey returns the average time spent per key
func (r Result) NanosPerKey() float64 {
	if r.Checked == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Checked)
}

// Option configures a Scanner
type Option func(*Scanner)

// WithFilter replaces the default base64 filter
func WithFilter(f candidate.Filter) Option {
	return func(s *Scanner) {
		s.filter = f
	}
}

// WithProgress publishes scan progress to p
func WithProgress(p *Progress) Option {
	return func(s *Scanner) {
		s.progress = p
	}
}

// WithCheckEvery sets how many keys are scanned between context checks and
// progress updates
func WithCheckEvery(n uint64) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.checkEvery = n
		}
	}
}

// Scanner owns one engine and one filter. It is not safe for concurrent use.
type Scanner struct {
	engine     *decipher.Engine
	filter     candidate.Filter
	progress   *Progress
	checkEvery uint64
}

// NewScanner creates a scanner over text
func NewScanner(text []byte, opts ...Option) *Scanner {
	s := &Scanner{
		engine:     decipher.New(text),
		checkEvery: DefaultCheckEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.filter == nil {
		s.filter = candidate.NewBase64Filter(len(text))
	}
	return s
}

// Engine returns the scanner's engine
func (s *Scanner) Engine() *decipher.Engine {
	return s.engine
}

// Scan inspects every key of r in increasing identity order, calling
// onCandidate for each accepted one. The context is checked every
// checkEvery keys; on cancellation the result covers the keys inspected so
// far and ctx.Err() is returned.
func (s *Scanner) Scan(ctx context.Context, r Range, onCandidate func(Candidate)) (Result, error) {
	res := Result{Range: r, Last: r.Start}
	if err := r.Validate(); err != nil {
		return res, err
	}
	logger := trace.Logger(ctx)
	logger.Debug().Uint64("start", r.Start).Uint64("end", r.End).Msg("Scan started")

	s.progress.begin(r)
	defer s.progress.finish()

	started := time.Now()
	e := s.engine
	e.SetKey(r.Start)
	e.DecipherFully()

	var sinceCheck uint64
	for {
		k := e.Key()
		if text, ok := s.filter.Inspect(e.Output()); ok {
			res.Candidates++
			s.progress.found()
			if onCandidate != nil {
				onCandidate(Candidate{
					Identity: k.Identity(),
					Key:      k.String(),
					Text:     text,
					FoundAt:  time.Now(),
				})
			}
		}
		res.Checked++
		res.Last = k.Identity()
		sinceCheck++

		if res.Last >= r.End {
			break
		}
		if sinceCheck == s.checkEvery {
			s.progress.advance(res.Last, sinceCheck)
			sinceCheck = 0
			if err := ctx.Err(); err != nil {
				res.Elapsed = time.Since(started)
				logger.Info().Uint64("last", res.Last).Msg("Scan cancelled")
				return res, err
			}
		}
		e.DecipherNextKey()
	}

	s.progress.advance(res.Last, sinceCheck)
	res.Elapsed = time.Since(started)
	logger.Debug().
		Uint64("checked", res.Checked).
		Uint64("candidates", res.Candidates).
		Dur("elapsed", res.Elapsed).
		Msg("Scan finished")
	return res, nil
}
