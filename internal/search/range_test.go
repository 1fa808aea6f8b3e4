package search

import (
	"math"
	"testing"
)

func TestPartition(t *testing.T) {
	testCases := []struct {
		name    string
		start   uint64
		end     uint64
		workers int
		want    []Range
	}{
		{"single worker", 5, 10, 1, []Range{{5, 10}}},
		{"even split", 0, 7, 4, []Range{{0, 1}, {2, 3}, {4, 5}, {6, 7}}},
		{"remainder to leading", 0, 9, 4, []Range{{0, 2}, {3, 5}, {6, 7}, {8, 9}}},
		{"more workers than keys", 3, 4, 8, []Range{{3, 3}, {4, 4}}},
		{"zero workers", 1, 2, 0, []Range{{1, 2}}},
		{"single key", 42, 42, 3, []Range{{42, 42}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Partition(tc.start, tc.end, tc.workers)
			if err != nil {
				t.Fatalf("Partition failed: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Partition() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("part %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestPartitionCoversRange(t *testing.T) {
	for workers := 1; workers <= 9; workers++ {
		parts, err := Partition(1000, 123456, workers)
		if err != nil {
			t.Fatalf("Partition failed: %v", err)
		}
		next := uint64(1000)
		for _, p := range parts {
			if p.Start != next {
				t.Fatalf("workers=%d: gap before %v", workers, p)
			}
			next = p.End + 1
		}
		if next != 123457 {
			t.Errorf("workers=%d: parts end at %d", workers, next-1)
		}
	}
}

func TestPartitionWholeSpace(t *testing.T) {
	parts, err := Partition(0, math.MaxUint64, 2)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(parts) != 2 || parts[0] != (Range{0, 1<<63 - 1}) || parts[1] != (Range{1 << 63, math.MaxUint64}) {
		t.Errorf("Partition() = %v", parts)
	}
}

func TestPartitionInvalid(t *testing.T) {
	if _, err := Partition(10, 1, 2); err == nil {
		t.Error("Partition with start > end should fail")
	}
}

func TestRangeEnding(t *testing.T) {
	testCases := []struct {
		name      string
		end       uint64
		workers   int
		perWorker uint64
		want      Range
	}{
		{"exact", 1000, 4, 100, Range{600, 1000}},
		{"clamped", 100, 4, 100, Range{0, 100}},
		{"overflow", 100, 4, math.MaxUint64, Range{0, 100}},
		{"no workers", 50, 0, 10, Range{40, 50}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RangeEnding(tc.end, tc.workers, tc.perWorker); got != tc.want {
				t.Errorf("RangeEnding() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRangeSize(t *testing.T) {
	testCases := []struct {
		r    Range
		want string
	}{
		{Range{5, 5}, "1"},
		{Range{26, 51}, "26"},
		{Range{1, math.MaxUint64}, "18446744073709551615"},
		{Range{0, math.MaxUint64}, "2^64"},
	}

	for _, tc := range testCases {
		t.Run(tc.r.String(), func(t *testing.T) {
			if got := tc.r.Size(); got != tc.want {
				t.Errorf("Size() = %q, want %q", got, tc.want)
			}
		})
	}
}
