// Package sampler picks compliments at random, favouring the ones that have
// waited longest since they were last shown.
//
// Input slices must be ordered oldest-shown first. The compliment at position
// i of n gets weight n-i, so the oldest one is n times as likely to be drawn
// as the most recently shown one, and no compliment is ever excluded. Weights
// are derived from the order of each call's input; nothing is cached between
// calls. The sampler never mutates its input and never touches timestamps:
// marking the picked compliments as retrieved is up to the caller.
package sampler

import (
	"errors"
	"math/rand/v2"

	"github.com/d60-Lab/compliment-api/internal/model"
)

// ErrEmptyCollection is returned by PickOne when there is nothing to pick from.
var ErrEmptyCollection = errors.New("sampler: empty collection")

// Source is the randomness a Sampler draws from. *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// globalSource uses the process-wide generator, which is safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Sampler draws compliments with a recency bias.
//
// A Sampler is as goroutine-safe as its Source: the default one may be shared,
// a seeded one may not.
type Sampler struct {
	src Source
}

// New returns a Sampler drawing from src. A nil src selects the process-wide
// generator.
func New(src Source) *Sampler {
	if src == nil {
		src = globalSource{}
	}
	return &Sampler{src: src}
}

// NewSeeded returns a deterministic Sampler: equal seeds and equal inputs
// yield equal picks.
func NewSeeded(seed uint64) *Sampler {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// weight of the compliment at position i in a collection of n.
func weight(i, n int) int { return n - i }

// PickOne draws a single compliment.
func (s *Sampler) PickOne(compliments []*model.Compliment) (*model.Compliment, error) {
	n := len(compliments)
	if n == 0 {
		return nil, ErrEmptyCollection
	}

	r := s.src.IntN(n * (n + 1) / 2)
	for i := 0; i < n; i++ {
		w := weight(i, n)
		if r < w {
			return compliments[i], nil
		}
		r -= w
	}
	return compliments[n-1], nil
}

// PickMany draws up to count distinct compliments and returns them in the
// order they were drawn. A count that is not positive, or larger than the
// collection, means "all of them". An empty collection yields an empty slice.
//
// Every draw uses the weights of the original positions; they are not
// recomputed as compliments are taken. Drawn positions leave the pool, and a
// repeated id is skipped, which is the same distribution as drawing with
// fixed weights and rejecting repeats.
func (s *Sampler) PickMany(compliments []*model.Compliment, count int) []*model.Compliment {
	n := len(compliments)
	if count <= 0 || count > n {
		count = n
	}
	picked := make([]*model.Compliment, 0, count)
	if n == 0 {
		return picked
	}

	pending := make([]int, n)
	total := 0
	for i := range pending {
		pending[i] = i
		total += weight(i, n)
	}
	seen := make(map[string]struct{}, count)

	for len(picked) < count && len(pending) > 0 {
		r := s.src.IntN(total)
		j := 0
		for ; j < len(pending)-1; j++ {
			w := weight(pending[j], n)
			if r < w {
				break
			}
			r -= w
		}

		i := pending[j]
		pending = append(pending[:j], pending[j+1:]...)
		total -= weight(i, n)

		c := compliments[i]
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		picked = append(picked, c)
	}
	return picked
}
