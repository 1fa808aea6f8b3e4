package candidate

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/vigenere-search/internal/decipher"
)

func TestSliceBufferSizeIsMultipleOf3And4(t *testing.T) {
	if SliceBufferSize%3 != 0 || SliceBufferSize%4 != 0 {
		t.Errorf("SliceBufferSize = %d, want a multiple of 3 and 4", SliceBufferSize)
	}
}

func TestIsUnwanted(t *testing.T) {
	for c := 0; c < 256; c++ {
		want := c < '\n' || c == '\x0B' || c == '\x0C'
		if got := IsUnwanted(byte(c)); got != want {
			t.Errorf("IsUnwanted(%#x) = %v, want %v", c, got, want)
		}
	}
}

func TestInspect(t *testing.T) {
	enc := func(s string) []byte {
		return []byte(base64.StdEncoding.EncodeToString([]byte(s)))
	}

	testCases := []struct {
		name   string
		buf    []byte
		want   string
		wantOK bool
	}{
		{"plain text", enc("Hello, world"), "Hello, world", true},
		{"newline and carriage return", enc("line one\r\nline two"), "line one\r\nline two", true},
		{"unicode", enc("日本語テキスト"), "日本語テキスト", true},
		{"empty", []byte(""), "", true},
		{"nul byte", enc("a\x00b"), "", false},
		{"tab", enc("a\tb"), "", false},
		{"vertical tab", enc("a\x0Bb"), "", false},
		{"form feed", enc("a\x0Cb"), "", false},
		{"invalid utf-8", enc("\xff\xfe"), "", false},
		{"not base64", []byte("Zm9v!mFy"), "", false},
		{"missing padding", []byte("Yg"), "", false},
		{"embedded line break", []byte("Zm9v\nYmFy"), "", false},
	}

	for _, tc := range testCases {
		for _, strategy := range []Strategy{StrategyFixed, StrategyHeap} {
			t.Run(tc.name+"/"+strategy.String(), func(t *testing.T) {
				f := NewBase64FilterWith(strategy, len(tc.buf))
				got, ok := f.Inspect(tc.buf)
				if ok != tc.wantOK {
					t.Fatalf("Inspect(%q) ok = %v, want %v", tc.buf, ok, tc.wantOK)
				}
				if got != tc.want {
					t.Errorf("Inspect(%q) = %q, want %q", tc.buf, got, tc.want)
				}
			})
		}
	}
}

func TestAutoStrategy(t *testing.T) {
	inputLen := (SliceBufferSize / 3) * 4

	if s := NewBase64Filter(inputLen).Strategy(); s != StrategyFixed {
		t.Errorf("strategy for %d bytes = %s, want fixed", inputLen, s)
	}
	if s := NewBase64Filter(inputLen + 4).Strategy(); s != StrategyHeap {
		t.Errorf("strategy for %d bytes = %s, want heap", inputLen+4, s)
	}
	if s := NewBase64Filter(0).Strategy(); s != StrategyFixed {
		t.Errorf("strategy for empty input = %s, want fixed", s)
	}
}

// TestDecodedSizeBoundaries decodes inputs around the fixed buffer size
func TestDecodedSizeBoundaries(t *testing.T) {
	inputLen := (SliceBufferSize / 3) * 4
	testCases := []struct {
		name     string
		size     int
		suffix   string
		wantSize int
	}{
		{"below", inputLen - 4, "", SliceBufferSize - 3},
		{"exact", inputLen, "", SliceBufferSize},
		{"above", inputLen + 4, "", SliceBufferSize + 3},
		{"above one pad", inputLen + 4, "Yg==", SliceBufferSize + 1},
		{"exact two pad", inputLen, "Yg==", SliceBufferSize - 2},
		{"above single pad", inputLen + 4, "YWE=", SliceBufferSize + 2},
		{"exact single pad", inputLen, "YWE=", SliceBufferSize - 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// '6666' decodes to the valid UTF-8 sequence EB AE BA.
			buf := []byte(strings.Repeat("6", tc.size-len(tc.suffix)) + tc.suffix)
			f := NewBase64Filter(len(buf))
			got, ok := f.Inspect(buf)
			if !ok {
				t.Fatalf("Inspect rejected %d bytes", len(buf))
			}
			if len(got) != tc.wantSize {
				t.Errorf("decoded size = %d, want %d", len(got), tc.wantSize)
			}
		})
	}
}

// TestStrategiesAgree runs both strategies over the same key range
func TestStrategiesAgree(t *testing.T) {
	cases := []string{
		"",
		"A",
		"Hello, world",
		strings.Repeat("A", (SliceBufferSize/3)*4),
		strings.Repeat("A", (SliceBufferSize/3)*4*2),
	}

	for _, plain := range cases {
		text := []byte(base64.StdEncoding.EncodeToString([]byte(plain)))
		fixed := NewBase64FilterWith(StrategyFixed, len(text))
		heap := NewBase64FilterWith(StrategyHeap, len(text))

		e := decipher.New(text)
		e.DecipherFully()
		found := 0
		for i := 0; i < 3000; i++ {
			a, okA := fixed.Inspect(e.Output())
			b, okB := heap.Inspect(e.Output())
			if okA != okB || a != b {
				t.Fatalf("%q key %s: fixed (%q, %v) != heap (%q, %v)", plain, e.Key(), a, okA, b, okB)
			}
			if okA {
				found++
			}
			e.DecipherNextKey()
		}
		if found == 0 {
			t.Errorf("%q: no candidate found, key A must decode the plain text", plain)
		}
	}
}

func TestFilterFunc(t *testing.T) {
	var seen [][]byte
	f := FilterFunc(func(buf []byte) (string, bool) {
		seen = append(seen, bytes.Clone(buf))
		return string(buf), len(buf) > 1
	})

	if _, ok := f.Inspect([]byte("x")); ok {
		t.Error("Inspect(x) should be rejected")
	}
	if got, ok := f.Inspect([]byte("xy")); !ok || got != "xy" {
		t.Errorf("Inspect(xy) = %q, %v", got, ok)
	}
	if len(seen) != 2 {
		t.Errorf("calls = %d, want 2", len(seen))
	}
}

func BenchmarkInspect(b *testing.B) {
	text := []byte(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("benchmark text ", 8))))
	for _, strategy := range []Strategy{StrategyFixed, StrategyHeap} {
		b.Run(strategy.String(), func(b *testing.B) {
			f := NewBase64FilterWith(strategy, len(text))
			b.SetBytes(int64(len(text)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f.Inspect(text)
			}
		})
	}
}
