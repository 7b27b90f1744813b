package utils

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the randomness source behind user-agent rotation and navigation
// jitter. Keeping it injectable (and seedable) means tests can pin the
// scraper's "random" identity to a fixed sequence.
type Rand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRand creates a randomness provider. A zero seed falls back to the clock.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns a uniformly random element of choices.
func (r *Rand) Pick(choices []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return choices[r.rnd.Intn(len(choices))]
}

// Between returns a random duration in [min, max).
func (r *Rand) Between(min, max time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + time.Duration(r.rnd.Int63n(int64(max-min)))
}
