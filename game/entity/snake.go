package entity

import (
	"slices"

	"one-more-snake/game/types"
)

type Snake struct {
	Points      []int // head first
	Orientation types.Orientation
}

func NewSnake(seed []int, orientation types.Orientation) *Snake {
	return &Snake{
		Points:      slices.Clone(seed),
		Orientation: orientation,
	}
}

// Advance moves head by orientation on a 1-D torus of area cells. Running off
// the end of a row lands on the next row, not the start of the same one.
func Advance(head int, orientation types.Orientation, area int) int {
	next := head + int(orientation)
	if next < 0 {
		return area + next
	}
	return next % area
}

func (s *Snake) GetHead() int {
	return s.Points[0]
}

func (s *Snake) GetTail() int {
	return s.Points[len(s.Points)-1]
}

// Candidate is the cell the head would enter on the next move.
func (s *Snake) Candidate(area int) int {
	return Advance(s.GetHead(), s.Orientation, area)
}

// Body returns the cells that remain once the tail is dropped.
func (s *Snake) Body() []int {
	return s.Points[:len(s.Points)-1]
}

func (s *Snake) Move(newHead int) {
	s.Points = slices.Insert(s.Points, 0, newHead)
}

func (s *Snake) RemoveTail() {
	if len(s.Points) > 0 {
		s.Points = s.Points[:len(s.Points)-1]
	}
}

func (s *Snake) Contains(cell int) bool {
	return slices.Contains(s.Points, cell)
}

func (s *Snake) Len() int {
	return len(s.Points)
}

func (s *Snake) Clone() *Snake {
	return &Snake{
		Points:      slices.Clone(s.Points),
		Orientation: s.Orientation,
	}
}

// SetDirection applies a new orientation unless it reverses the current one.
func (s *Snake) SetDirection(dir types.Orientation) bool {
	if dir == 0 || dir == -s.Orientation || dir == s.Orientation {
		return false
	}
	s.Orientation = dir
	return true
}
