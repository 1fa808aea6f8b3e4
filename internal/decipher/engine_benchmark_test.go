package decipher

import (
	"strings"
	"testing"
)

// BenchmarkDecipherNextKey benchmarks the incremental step
func BenchmarkDecipherNextKey(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"128B", 128},
		{"1KB", 1024},
		{"64KB", 64 * 1024},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			text := []byte(strings.Repeat("G2pilVJccjJiQZ1p", size.size/16))
			e := New(text)
			e.SetKey(1 << 30)
			e.DecipherFully()

			b.SetBytes(int64(len(text)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				e.DecipherNextKey()
			}
		})
	}
}

// BenchmarkDecipherFully benchmarks a full pass for comparison
func BenchmarkDecipherFully(b *testing.B) {
	text := []byte(strings.Repeat("G2pilVJccjJiQZ1p", 64))
	e := New(text)
	e.SetKey(1 << 30)

	b.SetBytes(int64(len(text)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e.DecipherFully()
	}
}
