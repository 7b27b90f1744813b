package utils

import (
	"testing"
	"time"
)

func TestRandDeterministicWithSeed(t *testing.T) {
	choices := []string{"a", "b", "c", "d"}

	r1 := NewRand(42)
	r2 := NewRand(42)

	for i := 0; i < 20; i++ {
		if got1, got2 := r1.Pick(choices), r2.Pick(choices); got1 != got2 {
			t.Fatalf("iteration %d: seeded providers diverged: %q vs %q", i, got1, got2)
		}
	}
}

func TestRandBetweenBounds(t *testing.T) {
	r := NewRand(7)
	min, max := 1*time.Second, 3*time.Second

	for i := 0; i < 100; i++ {
		d := r.Between(min, max)
		if d < min || d >= max {
			t.Fatalf("Between(%v, %v) = %v, out of range", min, max, d)
		}
	}
}
