package ai

import (
	"slices"

	"one-more-snake/game"
	"one-more-snake/game/entity"
	"one-more-snake/game/types"
)

// State is what the snake can see from its head: where the food lies and
// which of the three moves open to it would kill it on the next tick.
type State struct {
	Heading         types.Key
	RelativeFoodDir [2]int  // sign of column and row distance to the food
	FoodDistance    int     // Manhattan distance to food
	DangerDirs      [3]bool // left, straight, right
}

// Sense builds the State for a snapshot.
func Sense(snap game.Snapshot) State {
	grid := snap.Grid()
	head := snap.Head()
	heading := types.KeyFor(grid, snap.Orientation)

	hc, hr := grid.Coords(head)
	fc, fr := grid.Coords(snap.Food)

	state := State{
		Heading:         heading,
		RelativeFoodDir: [2]int{sign(fc - hc), sign(fr - hr)},
		FoodDistance:    manhattanDistance(grid, head, snap.Food),
	}
	for a := Left; a <= Right; a++ {
		state.DangerDirs[a] = IsDanger(snap, a.Apply(heading))
	}
	return state
}

// IsDanger reports whether steering with key would end the game on the next
// tick. The tail is ignored because it moves away on a normal step.
func IsDanger(snap game.Snapshot, key types.Key) bool {
	if len(snap.Snake) == 0 {
		return false
	}
	grid := snap.Grid()
	next := entity.Advance(snap.Head(), key.Orientation(grid), grid.Area())
	return slices.Contains(snap.Snake[:len(snap.Snake)-1], next)
}

// manhattanDistance measures on the flat board; the linear wrap of the grid
// does not map onto a 2-D shortcut.
func manhattanDistance(grid types.Grid, a, b int) int {
	ac, ar := grid.Coords(a)
	bc, br := grid.Coords(b)
	return abs(ac-bc) + abs(ar-br)
}

func sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
