package search

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"github.com/vigenere-search/internal/errors"
)

// Range is an inclusive range of key identities
type Range struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// Validate checks that the range is not empty
func (r Range) Validate() error {
	if r.Start > r.End {
		return errors.NewInvalidRange(fmt.Sprintf("start key %d is after end key %d", r.Start, r.End))
	}
	return nil
}

// Len returns the number of identities in the range. The full uint64
// space does not fit and reports 0.
func (r Range) Len() uint64 {
	return r.End - r.Start + 1
}

// Size formats the number of identities in the range, including the full
// uint64 space that Len cannot represent.
func (r Range) Size() string {
	if r.Start == 0 && r.End == math.MaxUint64 {
		return "2^64"
	}
	return strconv.FormatUint(r.Len(), 10)
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// RangeEnding returns the range of workers*perWorker keys that ends at end,
// clamped at identity 0.
func RangeEnding(end uint64, workers int, perWorker uint64) Range {
	if workers < 1 {
		workers = 1
	}
	hi, span := bits.Mul64(uint64(workers), perWorker)
	if hi != 0 || span > end {
		return Range{Start: 0, End: end}
	}
	return Range{Start: end - span, End: end}
}

// Partition splits [start, end] into at most workers contiguous, disjoint
// sub-ranges of near equal size. Leading sub-ranges take the remainder.
func Partition(start, end uint64, workers int) ([]Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	w := uint64(workers)
	var per, rem uint64
	if total := r.Len(); total == 0 {
		// The whole identity space: 2^64 keys.
		if w == 1 {
			return []Range{r}, nil
		}
		per, rem = bits.Div64(1, 0, w)
	} else {
		if w > total {
			w = total
		}
		per, rem = total/w, total%w
	}

	parts := make([]Range, 0, w)
	next := start
	for i := uint64(0); i < w; i++ {
		size := per
		if i < rem {
			size++
		}
		parts = append(parts, Range{Start: next, End: next + size - 1})
		next += size
	}
	return parts, nil
}
