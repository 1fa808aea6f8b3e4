package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/vigenere-search/internal/key"
	"github.com/vigenere-search/internal/search"
)

// LoadCiphertext returns the ciphertext from ciphertext_file when set,
// otherwise the inline ciphertext. Trailing line breaks of a file are dropped.
func (c *Config) LoadCiphertext() ([]byte, error) {
	if c.CiphertextFile == "" {
		return []byte(c.Ciphertext), nil
	}
	data, err := os.ReadFile(c.CiphertextFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read ciphertext file: %w", err)
	}
	return bytes.TrimRight(data, "\r\n"), nil
}

// KeyRange resolves the configured key range. Keys are identities or
// letter sequences; without a start key the range covers the
// workers*per_worker keys ending at the end key.
func (c *Config) KeyRange() (search.Range, error) {
	return ParseKeyRange(c.StartKey, c.EndKey, c.Workers, c.PerWorker)
}

// ParseKeyRange parses start and end keys into a range
func ParseKeyRange(start, end string, workers int, perWorker uint64) (search.Range, error) {
	endKey, err := key.Parse(end)
	if err != nil {
		return search.Range{}, fmt.Errorf("end key: %w", err)
	}

	var r search.Range
	if start == "" {
		r = search.RangeEnding(endKey.Identity(), workers, perWorker)
	} else {
		startKey, err := key.Parse(start)
		if err != nil {
			return search.Range{}, fmt.Errorf("start key: %w", err)
		}
		r = search.Range{Start: startKey.Identity(), End: endKey.Identity()}
	}

	if err := r.Validate(); err != nil {
		return search.Range{}, err
	}
	return r, nil
}
