// Package ai contains autopilots that steer a session through the same
// keyboard input a player uses.
package ai

import (
	"one-more-snake/game"
	"one-more-snake/game/types"
)

// Pilot picks the key to press before the next tick.
type Pilot interface {
	Next(snap game.Snapshot) types.Key
}

// Learner is a Pilot that learns from the outcome of its moves.
type Learner interface {
	Pilot
	Observe(prev, next game.Snapshot)
}

// Drive runs one tick of s. A non-nil pilot steers first and, if it learns,
// is shown the result.
func Drive(s *game.Session, p Pilot) {
	if p == nil {
		s.Step()
		return
	}
	prev := s.Snapshot()
	if prev.Phase == types.Over {
		return
	}
	s.SetOrientation(p.Next(prev))
	s.Step()
	if l, ok := p.(Learner); ok {
		l.Observe(prev, s.Snapshot())
	}
}
