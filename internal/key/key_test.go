package key

import (
	stderrors "errors"
	"math"
	"testing"
)

// TestFromIdentityBoundaries pins the bijection at the carry boundaries
func TestFromIdentityBoundaries(t *testing.T) {
	testCases := []struct {
		id   uint64
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{18277, "ZZZ"},
		{18278, "AAAA"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			k := FromIdentity(tc.id)
			if got := k.String(); got != tc.want {
				t.Errorf("FromIdentity(%d) = %q, want %q", tc.id, got, tc.want)
			}
			if k.Identity() != tc.id {
				t.Errorf("Identity() = %d, want %d", k.Identity(), tc.id)
			}
		})
	}
}

// TestRoundTrip checks identity -> letters -> identity for a large prefix of the key space
func TestRoundTrip(t *testing.T) {
	check := func(id uint64) {
		k := FromIdentity(id)
		back, err := FromLetters(k.Letters())
		if err != nil {
			t.Fatalf("FromLetters(%q) failed: %v", k, err)
		}
		if back.Identity() != id {
			t.Fatalf("round-trip of %d via %q gave %d", id, k, back.Identity())
		}
		if back.String() != k.String() {
			t.Fatalf("letters mismatch: %q vs %q", back, k)
		}
	}

	for id := uint64(0); id < 500000; id++ {
		check(id)
	}
	for _, id := range []uint64{1 << 32, 1<<48 + 12345, math.MaxUint64 / 2, math.MaxUint64 - 1} {
		check(id)
	}
}

func TestFromIdentityMaxUint64(t *testing.T) {
	k := FromIdentity(math.MaxUint64)
	if k.Len() != maxLen {
		t.Errorf("Len() = %d, want %d", k.Len(), maxLen)
	}
}

func TestAdvancePastLastIdentityPanics(t *testing.T) {
	k := FromIdentity(math.MaxUint64 - 1)
	k.Advance()
	if k.Identity() != math.MaxUint64 || k.String() != FromIdentity(math.MaxUint64).String() {
		t.Fatalf("Advance() to the last identity = %d %q", k.Identity(), k)
	}

	last := k.String()
	defer func() {
		if recover() == nil {
			t.Error("Advance() past MaxUint64 should panic")
		}
		if k.Identity() != math.MaxUint64 || k.String() != last {
			t.Errorf("key changed before panicking: %d %q", k.Identity(), k)
		}
	}()
	k.Advance()
}

// TestAdvance checks carry behaviour and the changed-letter count
func TestAdvance(t *testing.T) {
	testCases := []struct {
		from        string
		want        string
		wantChanged int
	}{
		{"A", "B", 1},
		{"Z", "AA", 2},
		{"AA", "AB", 1},
		{"AZ", "BA", 2},
		{"ZZ", "AAA", 3},
		{"ABZZ", "ACAA", 3},
		{"ZZZZ", "AAAAA", 5},
	}

	for _, tc := range testCases {
		t.Run(tc.from, func(t *testing.T) {
			k, err := FromLetters([]byte(tc.from))
			if err != nil {
				t.Fatalf("FromLetters failed: %v", err)
			}
			id := k.Identity()

			changed := k.Advance()
			if k.String() != tc.want {
				t.Errorf("Advance() key = %q, want %q", k, tc.want)
			}
			if changed != tc.wantChanged {
				t.Errorf("Advance() changed = %d, want %d", changed, tc.wantChanged)
			}
			if k.Identity() != id+1 {
				t.Errorf("Identity() = %d, want %d", k.Identity(), id+1)
			}
		})
	}
}

// TestAdvanceMatchesFromIdentity walks the counter and compares with direct construction
func TestAdvanceMatchesFromIdentity(t *testing.T) {
	k := First()
	for id := uint64(1); id < 100000; id++ {
		before := k.Clone()
		changed := k.Advance()
		want := FromIdentity(id)
		if k.String() != want.String() || k.Identity() != id {
			t.Fatalf("after %d advances got %q (%d), want %q", id, k, k.Identity(), want)
		}

		// Exactly the reported suffix differs (or the key grew).
		if k.Len() == before.Len() {
			stable := k.Len() - changed
			for i := 0; i < k.Len(); i++ {
				same := k.At(i) == before.At(i)
				if i < stable && !same {
					t.Fatalf("%q -> %q: letter %d changed outside reported suffix %d", before, k, i, changed)
				}
				if i >= stable && same {
					t.Fatalf("%q -> %q: letter %d reported changed but equal", before, k, i)
				}
			}
		} else if changed != k.Len() {
			t.Fatalf("%q -> %q: growth must report full length, got %d", before, k, changed)
		}
	}
}

func TestFromLetters(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		wantID  uint64
		wantKey string
		wantErr bool
	}{
		{"empty", "", 0, "A", false},
		{"single", "A", 0, "A", false},
		{"lower case", "ab", 27, "AB", false},
		{"mixed case", "aZ", 51, "AZ", false},
		{"libitina", "LIBITINA", 0, "LIBITINA", false},
		{"digit", "A1", 0, "", true},
		{"space", "A B", 0, "", true},
		{"punctuation", "KEY!", 0, "", true},
		{"high byte", "\xc3\xa9", 0, "", true},
		{"overflow", "ZZZZZZZZZZZZZZZ", 0, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, err := FromLetters([]byte(tc.in))
			if (err != nil) != tc.wantErr {
				t.Fatalf("FromLetters(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if tc.wantErr {
				if !stderrors.Is(err, ErrInvalidKey) {
					t.Errorf("error %v should match ErrInvalidKey", err)
				}
				return
			}
			if k.String() != tc.wantKey {
				t.Errorf("key = %q, want %q", k, tc.wantKey)
			}
			if tc.name != "libitina" && k.Identity() != tc.wantID {
				t.Errorf("identity = %d, want %d", k.Identity(), tc.wantID)
			}
		})
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0", "A", false},
		{"27", "AB", false},
		{"AB", "AB", false},
		{"", "A", false},
		{"12a", "", true},
		{"99999999999999999999999", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			k, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && k.String() != tc.want {
				t.Errorf("Parse(%q) = %q, want %q", tc.in, k, tc.want)
			}
		})
	}
}

func TestSetIdentityReusesKey(t *testing.T) {
	k := FromIdentity(18278)
	k.SetIdentity(27)
	if k.String() != "AB" || k.Identity() != 27 {
		t.Errorf("SetIdentity(27) = %q (%d), want AB (27)", k, k.Identity())
	}
}

func BenchmarkAdvance(b *testing.B) {
	k := First()
	for i := 0; i < b.N; i++ {
		k.Advance()
	}
}
