// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "lucy allington", "lucy allington", 1.0},
		{"both empty", "", "", 1.0},
		{"no overlap", "abc", "xyz", 0.0},
		{"one empty", "abc", "", 0.0},
		// "abcd" vs "bcde": longest block "bcd" (3), 2*3/8.
		{"partial overlap", "abcd", "bcde", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityIdentical(t *testing.T) {
	for _, name := range []string{"Will Usher", "Lucy Allington", "Vignesh Sridharan"} {
		if got := Similarity(name, name, 0); !almostEqual(got, 1.0) {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", name, name, got)
		}
	}
}

func TestSimilaritySwappedOrder(t *testing.T) {
	got := Similarity("Sridharan Vignesh", "Vignesh Sridharan", 0)
	if !almostEqual(got, 1.0) {
		t.Errorf("Similarity(swapped) = %v, want 1.0", got)
	}
}

func TestSimilarityCaseInsensitive(t *testing.T) {
	a := Similarity("Will Usher", "will usher", 0)
	b := Similarity("will usher", "will usher", 0)
	if !almostEqual(a, b) {
		t.Errorf("case-sensitive mismatch: %v != %v", a, b)
	}
	if !almostEqual(a, 1.0) {
		t.Errorf("Similarity case-folded = %v, want 1.0", a)
	}
}

func TestSimilarityNoOverlap(t *testing.T) {
	if got := Similarity("abc", "xyz", 0); got != 0.0 {
		t.Errorf("Similarity(no overlap) = %v, want 0.0", got)
	}
}

func TestSimilarityBelowThresholdReturnsMean(t *testing.T) {
	// Neither the direct nor the reversed ratio clears 0.8, so the
	// result is the arithmetic mean of the two.
	a, b := "jane doe", "john smith"
	direct := Ratio(a, b)
	reversed := Ratio("doe jane", b)
	want := (direct + reversed) / 2.0

	if got := Similarity(a, b, 0); !almostEqual(got, want) {
		t.Errorf("Similarity(%q, %q) = %v, want mean %v", a, b, got, want)
	}
}

func TestSimilarityTrimsWhitespace(t *testing.T) {
	if got := Similarity("  Will Usher  ", "will usher", 0); !almostEqual(got, 1.0) {
		t.Errorf("Similarity(padded) = %v, want 1.0", got)
	}
}
