// Package candidate decides whether a deciphered buffer is worth reporting:
// it must decode as standard base64 into printable UTF-8 text.
package candidate

import (
	"bytes"
	"encoding/base64"
	"unicode/utf8"
)

// SliceBufferSize is the size of the fixed decode buffer. It is a multiple
// of both 3 and 4 so a full buffer corresponds to whole base64 quanta.
const SliceBufferSize = 2 * 192

// Filter inspects a deciphered buffer and returns the decoded text when it
// is a candidate. It is called once per key, synchronously.
type Filter interface {
	Inspect(buf []byte) (string, bool)
}

// FilterFunc is an adapter to use a function as Filter
type FilterFunc func(buf []byte) (string, bool)

// Inspect calls f(buf)
func (f FilterFunc) Inspect(buf []byte) (string, bool) {
	return f(buf)
}

// Strategy selects the decode buffer backing a Base64Filter
type Strategy int

const (
	// StrategyAuto picks StrategyFixed when the decoded size fits, StrategyHeap otherwise
	StrategyAuto Strategy = iota
	// StrategyFixed decodes into an inline array of SliceBufferSize bytes
	StrategyFixed
	// StrategyHeap decodes into a slice sized from the input length
	StrategyHeap
)

func (s Strategy) String() string {
	switch s {
	case StrategyFixed:
		return "fixed"
	case StrategyHeap:
		return "heap"
	default:
		return "auto"
	}
}

// Base64Filter accepts buffers that decode as padded standard base64 into
// valid UTF-8 free of control bytes in ['\x00','\n') and ['\x0B','\r').
type Base64Filter struct {
	strategy Strategy
	fixed    [SliceBufferSize]byte
	heap     []byte
}

// NewBase64Filter creates a filter for deciphered buffers of textLen bytes.
func NewBase64Filter(textLen int) *Base64Filter {
	return NewBase64FilterWith(StrategyAuto, textLen)
}

// NewBase64FilterWith creates a filter with an explicit decode strategy.
func NewBase64FilterWith(strategy Strategy, textLen int) *Base64Filter {
	bound := DecodedSize(textLen)
	if strategy == StrategyAuto {
		strategy = StrategyFixed
		if bound > SliceBufferSize {
			strategy = StrategyHeap
		}
	}
	f := &Base64Filter{strategy: strategy}
	if strategy == StrategyHeap {
		f.heap = make([]byte, bound)
	}
	return f
}

// Strategy returns the decode strategy in use
func (f *Base64Filter) Strategy() Strategy {
	return f.strategy
}

// Inspect decodes buf and returns the decoded text when it is printable
func (f *Base64Filter) Inspect(buf []byte) (string, bool) {
	// Line breaks are invalid base64 here, even though encoding/base64 skips them.
	if bytes.IndexByte(buf, '\n') >= 0 || bytes.IndexByte(buf, '\r') >= 0 {
		return "", false
	}

	var dst []byte
	if f.strategy == StrategyFixed {
		dst = f.fixed[:]
	} else {
		dst = f.heap
	}
	if bound := DecodedSize(len(buf)); bound > len(dst) {
		// Larger than the size the filter was built for.
		f.heap = make([]byte, bound)
		f.strategy = StrategyHeap
		dst = f.heap
	}

	n, err := base64.StdEncoding.Decode(dst, buf)
	if err != nil {
		return "", false
	}
	decoded := dst[:n]
	if !Printable(decoded) {
		return "", false
	}
	return string(decoded), true
}

// DecodedSize returns the upper bound of the decoded size of n base64 bytes
func DecodedSize(n int) int {
	return base64.StdEncoding.DecodedLen(n)
}

// IsUnwanted reports whether c is a control byte that rules out a candidate
func IsUnwanted(c byte) bool {
	return c < '\n' || ('\x0B' <= c && c < '\r')
}

// Printable reports whether b is valid UTF-8 with no unwanted bytes
func Printable(b []byte) bool {
	for _, c := range b {
		if IsUnwanted(c) {
			return false
		}
	}
	return utf8.Valid(b)
}
