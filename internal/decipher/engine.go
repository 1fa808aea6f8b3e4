// Package decipher holds the incremental Vigenère decipher engine.
//
// The engine keeps a letters-only projection of the ciphertext together
// with a map from each projected letter to its slot in the full-size
// output. Advancing the key by one only re-deciphers the letters that sit
// under the key positions that actually changed.
package decipher

import (
	"fmt"
	"unicode/utf8"

	"github.com/vigenere-search/internal/errors"
	"github.com/vigenere-search/internal/key"
)

// NotValidUTF8 is shown in place of output that is not valid UTF-8
const NotValidUTF8 = "<Not valid UTF-8>"

// ErrNonUTF8Output matches (via errors.Is) the error returned by OutputString
var ErrNonUTF8Output = errors.NewNonUTF8Output("deciphered output is not valid UTF-8")

// Engine deciphers a ciphertext under a sequence of keys.
// It is not safe for concurrent use.
type Engine struct {
	key       *key.Key
	text      []byte // borrowed, never written
	keyed     []byte
	out       []byte
	positions []int // keyed index -> out index
}

// New builds an engine over text with the active key set to "A".
// text must not be modified while the engine is in use.
func New(text []byte) *Engine {
	n := 0
	for _, c := range text {
		if key.IsLetter(c) {
			n++
		}
	}

	e := &Engine{
		key:       key.First(),
		text:      text,
		keyed:     make([]byte, 0, n),
		out:       make([]byte, len(text)),
		positions: make([]int, 0, n),
	}
	for i, c := range text {
		if key.IsLetter(c) {
			e.out[i] = 'A'
			e.keyed = append(e.keyed, c)
			e.positions = append(e.positions, i)
		} else {
			e.out[i] = c
		}
	}
	return e
}

// DecipherFully deciphers every letter under the active key. It must be
// called before the first DecipherNextKey and after every SetKey.
func (e *Engine) DecipherFully() {
	letters := e.key.Letters()
	n := len(letters)
	j := 0
	for i, c := range e.keyed {
		e.out[e.positions[i]] = decipherTable[c][letters[j]]
		j++
		if j == n {
			j = 0
		}
	}
}

// DecipherNextKey advances the active key by one and re-deciphers only the
// letters under the key positions that changed. For a key of length n
// with the last `changed` letters different, that is offsets
// [n-changed, n) of every n-letter block. It panics when the active key is
// the last identity (math.MaxUint64), like key.Advance.
func (e *Engine) DecipherNextKey() {
	changed := e.key.Advance()
	letters := e.key.Letters()
	stable := len(letters) - changed

	keyed, out, positions := e.keyed, e.out, e.positions
	idx := stable
	for idx < len(keyed) {
		end := stable + min(changed, len(keyed)-idx)
		for k := stable; k < end; k++ {
			out[positions[idx]] = decipherTable[keyed[idx]][letters[k]]
			idx++
		}
		idx += stable
	}
}

// SetKey re-seeds the active key to identity id. The output is stale until
// DecipherFully is called.
func (e *Engine) SetKey(id uint64) {
	e.key.SetIdentity(id)
}

// Key returns the active key. It is owned by the engine.
func (e *Engine) Key() *key.Key {
	return e.key
}

// Output returns the deciphered buffer. It is overwritten by the next
// DecipherFully or DecipherNextKey call.
func (e *Engine) Output() []byte {
	return e.out
}

// Keyed returns the letters-only projection of the ciphertext
func (e *Engine) Keyed() []byte {
	return e.keyed
}

// PositionMap returns, for each keyed letter, its index in Output
func (e *Engine) PositionMap() []int {
	return e.positions
}

// Text returns the borrowed ciphertext
func (e *Engine) Text() []byte {
	return e.text
}

// OutputString returns the deciphered buffer as text, or ErrNonUTF8Output
func (e *Engine) OutputString() (string, error) {
	if !utf8.Valid(e.out) {
		return "", ErrNonUTF8Output
	}
	return string(e.out), nil
}

// Clone returns a new engine over the same ciphertext with the same key
// identity. The clone must be fully deciphered before use.
func (e *Engine) Clone() *Engine {
	c := New(e.text)
	c.key.SetIdentity(e.key.Identity())
	return c
}

func (e *Engine) String() string {
	mapped := make([]byte, len(e.positions))
	for i, p := range e.positions {
		mapped[i] = e.out[p]
	}
	return fmt.Sprintf("Engine{key: %s (%d), keyed: %s, output: %s}",
		e.key, e.key.Identity(), asText(mapped), asText(e.out))
}

func asText(b []byte) string {
	if !utf8.Valid(b) {
		return NotValidUTF8
	}
	return string(b)
}
