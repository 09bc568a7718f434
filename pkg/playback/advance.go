package playback

import "math/rand/v2"

// Policy computes queue positions when a track ends or the user skips.
type Policy struct {
	rng *rand.Rand
}

// NewPolicy returns a policy drawing shuffle picks from src.
func NewPolicy(src rand.Source) *Policy {
	return &Policy{rng: rand.New(src)}
}

// NextIndex returns the index to play after the current one, or NoIndex
// when playback should end.
//
// Shuffle is evaluated before the loop mode, so shuffling keeps picking
// random entries even with looping off.
func (p *Policy) NextIndex(s *State) int {
	n := len(s.Queue)
	if n == 0 {
		return NoIndex
	}
	if s.Shuffle {
		return p.rng.IntN(n)
	}
	switch s.Loop {
	case LoopOne:
		return s.CurrentIndex
	case LoopAll:
		next := s.CurrentIndex + 1
		if next >= n {
			return 0
		}
		return next
	}
	return NoIndex
}

// PreviousIndex returns the entry before the current one, wrapping to the
// last entry.
func (p *Policy) PreviousIndex(s *State) int {
	n := len(s.Queue)
	if n == 0 {
		return NoIndex
	}
	prev := s.CurrentIndex - 1
	if prev < 0 {
		prev = n - 1
	}
	return prev
}
