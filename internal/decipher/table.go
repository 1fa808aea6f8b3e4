package decipher

import "github.com/vigenere-search/internal/key"

// decipherTable[c][k] is the plaintext letter for cipher byte c under key
// byte k. Rows for non-letters, and columns for non-letter keys, map c to
// itself.
var decipherTable [256][256]byte

func init() {
	for c := 0; c < 256; c++ {
		for k := 0; k < 256; k++ {
			decipherTable[c][k] = shift(byte(c), byte(k), -1)
		}
	}
}

// Decipher returns the plaintext letter for cipher letter c under key letter k:
// (c - k) mod 26, keeping the case of c and ignoring the case of k.
func Decipher(c, k byte) byte {
	return decipherTable[c][k]
}

// Encipher is the inverse of Decipher: (p + k) mod 26.
func Encipher(p, k byte) byte {
	return shift(p, k, 1)
}

// EncipherText encrypts text under the given key letters, cycling the key
// over letters only so the result is a valid input for an Engine.
func EncipherText(text, keyLetters []byte) []byte {
	out := make([]byte, len(text))
	copy(out, text)
	if len(keyLetters) == 0 {
		return out
	}
	j := 0
	for i, c := range text {
		if !key.IsLetter(c) {
			continue
		}
		out[i] = Encipher(c, keyLetters[j])
		j++
		if j == len(keyLetters) {
			j = 0
		}
	}
	return out
}

func shift(c, k byte, sign int) byte {
	if !key.IsLetter(c) || !key.IsLetter(k) {
		return c
	}
	base := byte('A')
	if c >= 'a' {
		base = 'a'
	}
	kb := byte('A')
	if k >= 'a' {
		kb = 'a'
	}
	r := (int(c-base) + sign*int(k-kb)) % key.AlphabetSize
	if r < 0 {
		r += key.AlphabetSize
	}
	return base + byte(r)
}
