package game

import (
	"time"

	"one-more-snake/game/manager"
	"one-more-snake/game/types"
)

// Snapshot is an immutable copy of a session's visible state.
type Snapshot struct {
	SessionID   string            `json:"sessionId"`
	Width       int               `json:"width"`
	Snake       []int             `json:"snake"`
	Orientation types.Orientation `json:"orientation"`
	Food        int               `json:"food"`
	Score       int               `json:"score"`
	Phase       types.Phase       `json:"phase"`
	Ticks       int               `json:"ticks"`
	StartTime   time.Time         `json:"startTime"`
}

// Cell carries the render flags of one grid cell. Renderers paint the parity
// shade first, then the game-over tint, then snake and food on top.
type Cell struct {
	Index int  `json:"index"`
	Food  bool `json:"food,omitempty"`
	Snake bool `json:"snake,omitempty"`
	Head  bool `json:"head,omitempty"`
	Over  bool `json:"over,omitempty"`
	Even  bool `json:"even,omitempty"`
}

func (s Snapshot) Grid() types.Grid {
	return types.Grid{Width: s.Width}
}

func (s Snapshot) Head() int {
	if len(s.Snake) == 0 {
		return -1
	}
	return s.Snake[0]
}

// Cells expands the snapshot into Width*Width flagged cells in index order.
func (s Snapshot) Cells() []Cell {
	grid := s.Grid()
	over := s.Phase == types.Over

	cells := make([]Cell, grid.Area())
	for i := range cells {
		cells[i] = Cell{
			Index: i,
			Food:  i == s.Food,
			Over:  over,
			Even:  grid.Even(i),
		}
	}
	for j, p := range s.Snake {
		if p < 0 || p >= len(cells) {
			continue
		}
		cells[p].Snake = true
		if j == 0 {
			cells[p].Head = true
		}
	}
	return cells
}

// Record summarises a finished run for the stats file.
func (s Snapshot) Record(end time.Time) manager.GameRecord {
	return manager.GameRecord{
		ID:        s.SessionID,
		StartTime: s.StartTime,
		EndTime:   end,
		Score:     s.Score,
		Length:    len(s.Snake),
		Ticks:     s.Ticks,
	}
}

// Fill is the colour of the top layer of the cell: food over snake over the
// game-over tint over the parity shade.
func (c Cell) Fill() types.Color {
	switch {
	case c.Food:
		return types.ColorFood
	case c.Snake:
		return types.ColorSnake
	case c.Over:
		return types.ColorOver
	case c.Even:
		return types.ColorEven
	default:
		return types.ColorOdd
	}
}
