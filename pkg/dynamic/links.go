package dynamic

import (
	"math/rand/v2"
)

// stepLinkInstability visits links in index order. An up link goes down with
// probability flipProb for downSteps steps; a down link counts down and comes
// back up when its timer reaches zero. flipProb == 0 disables the model and
// consumes no randomness. It returns how many links went down.
func (s *state) stepLinkInstability(rng *rand.Rand, flipProb float64, downSteps int) int {
	if flipProb <= 0 {
		return 0
	}

	flipped := 0
	for i := range s.links {
		l := &s.links[i]
		if l.Up {
			if rng.Float64() < flipProb {
				l.Up = false
				l.DownTimer = downSteps
				flipped++
			}
			continue
		}
		if l.DownTimer > 0 {
			l.DownTimer--
			if l.DownTimer == 0 {
				l.Up = true
			}
		}
	}
	return flipped
}
