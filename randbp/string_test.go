package randbp

import (
	"strings"
	"testing"
)

func TestGenerateRandomStringLength(t *testing.T) {
	const (
		min = 8
		max = 32
	)
	for i := 0; i < 1000; i++ {
		s := GenerateRandomString(RandomStringArgs{
			MinLength: min,
			MaxLength: max,
		})
		if len(s) < min || len(s) >= max {
			t.Fatalf("generated string of length %d, want [%d, %d)", len(s), min, max)
		}
	}
}

func TestGenerateRandomStringRunes(t *testing.T) {
	runes := "ab"
	for i := 0; i < 100; i++ {
		s := GenerateRandomString(RandomStringArgs{
			MinLength: 10,
			MaxLength: 11,
			Runes:     []rune(runes),
		})
		for _, r := range s {
			if !strings.ContainsRune(runes, r) {
				t.Fatalf("generated %q containing %q, outside the allowed runes", s, r)
			}
		}
	}
}

func TestFilenameRunesAreSafe(t *testing.T) {
	for _, r := range FilenameRunes {
		if r == '/' || r == 0 {
			t.Errorf("FilenameRunes contains unsafe rune %q", r)
		}
	}
}
