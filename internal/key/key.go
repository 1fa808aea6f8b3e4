// Package key implements the key counter: a bijection between a
// non-negative identity and the key's letters, ordered first by length
// and then lexicographically ("A"=0, "Z"=25, "AA"=26, "AB"=27, ...).
package key

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"github.com/vigenere-search/internal/errors"
)

// AlphabetSize is the number of letters a key digit can take
const AlphabetSize = 26

// maxLen is the length of the key at identity math.MaxUint64
const maxLen = 14

// ErrInvalidKey matches (via errors.Is) every error returned for a malformed key
var ErrInvalidKey = errors.NewInvalidKey("invalid key")

// Key is a mutable key counter. The identity and the letters are two views
// of the same value and are only ever changed together.
type Key struct {
	id      uint64
	letters []byte
}

// First returns the key with identity 0 ("A")
func First() *Key {
	return &Key{id: 0, letters: []byte{'A'}}
}

// FromIdentity returns the canonical key for rank id
func FromIdentity(id uint64) *Key {
	k := &Key{letters: make([]byte, 0, maxLen)}
	k.SetIdentity(id)
	return k
}

// SetIdentity re-seeds the key in place to rank id, reusing its letter buffer.
func (k *Key) SetIdentity(id uint64) {
	var scratch [maxLen]byte
	i := len(scratch)
	k.id = id
	for {
		i--
		scratch[i] = 'A' + byte(id%AlphabetSize)
		if id < AlphabetSize {
			break
		}
		// No zero digit exists above the last position: "A" already holds rank 0.
		id = id/AlphabetSize - 1
	}
	k.letters = append(k.letters[:0], scratch[i:]...)
}

// FromLetters parses a key from its letters. Letters are case-insensitive
// and stored upper case; an empty sequence yields the first key.
func FromLetters(seq []byte) (*Key, error) {
	if len(seq) == 0 {
		return First(), nil
	}

	letters := make([]byte, len(seq))
	var id, pow uint64 = 0, 1
	overflow := false
	for i := len(seq) - 1; i >= 0; i-- {
		c := seq[i]
		if !IsLetter(c) {
			return nil, errors.NewInvalidKey(fmt.Sprintf("invalid character %q in key", c))
		}
		c = upper(c)
		letters[i] = c

		hi, digit := bits.Mul64(pow, uint64(c-'A'+1))
		var carry uint64
		id, carry = bits.Add64(id, digit, 0)
		if hi != 0 || carry != 0 {
			overflow = true
		}
		if i > 0 {
			hi, pow = bits.Mul64(pow, AlphabetSize)
			if hi != 0 {
				overflow = true
			}
		}
	}
	if overflow {
		return nil, errors.NewInvalidKey(fmt.Sprintf("key %q is outside the identity range", seq))
	}

	return &Key{id: id - 1, letters: letters}, nil
}

// Parse reads a key written as a decimal identity or as a letter sequence.
func Parse(s string) (*Key, error) {
	if s != "" && isDecimal(s) {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.NewInvalidKey(fmt.Sprintf("key identity %q out of range", s))
		}
		return FromIdentity(id), nil
	}
	return FromLetters([]byte(s))
}

// Advance moves the key to the next identity and returns how many trailing
// letters changed. When every letter was 'Z' the key grows by one letter
// and the whole new length is reported as changed.
//
// MaxUint64 is the last identity: advancing past it panics, since the
// identity cannot follow the letters any further.
func (k *Key) Advance() int {
	if k.id == math.MaxUint64 {
		panic("key: advance past the last identity " + k.String())
	}
	k.id++
	for i := len(k.letters) - 1; i >= 0; i-- {
		if k.letters[i] != 'Z' {
			k.letters[i]++
			return len(k.letters) - i
		}
		k.letters[i] = 'A'
	}
	// Every letter is now 'A', so growing by one 'A' is the carry.
	k.letters = append(k.letters, 'A')
	return len(k.letters)
}

// Identity returns the key's rank
func (k *Key) Identity() uint64 {
	return k.id
}

// Len returns the number of letters
func (k *Key) Len() int {
	return len(k.letters)
}

// At returns the letter at position i
func (k *Key) At(i int) byte {
	return k.letters[i]
}

// Letters returns the key letters. The slice is owned by the key and must
// not be modified; it is only valid until the next Advance or SetIdentity.
func (k *Key) Letters() []byte {
	return k.letters
}

// Clone returns an independent copy
func (k *Key) Clone() *Key {
	letters := make([]byte, len(k.letters), maxLen)
	copy(letters, k.letters)
	return &Key{id: k.id, letters: letters}
}

func (k *Key) String() string {
	return string(k.letters)
}

// IsLetter reports whether c is an ASCII letter
func IsLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
