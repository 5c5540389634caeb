package ai

import (
	"math"

	"one-more-snake/game"
	"one-more-snake/game/entity"
	"one-more-snake/game/types"

	"github.com/joonazan/vec2"
	"github.com/nickdavies/go-astar/astar"
)

const blockedTile = -1

// AStarPilot walks the shortest path from head to food on the flat board,
// treating the body as walls. Without a path it takes the safe move that
// ends closest to the food.
type AStarPilot struct{}

func NewAStarPilot() *AStarPilot {
	return &AStarPilot{}
}

func (p *AStarPilot) Next(snap game.Snapshot) types.Key {
	grid := snap.Grid()
	heading := types.KeyFor(grid, snap.Orientation)
	if len(snap.Snake) == 0 {
		return heading
	}

	if key, ok := p.route(snap); ok && key != reverse(heading) && !IsDanger(snap, key) {
		return key
	}
	return p.fallback(snap, heading)
}

func (p *AStarPilot) route(snap game.Snapshot) (types.Key, bool) {
	grid := snap.Grid()
	head := snap.Head()
	if snap.Food == head || snap.Food < 0 || snap.Food >= grid.Area() {
		return types.KeyNone, false
	}

	a := astar.NewAStar(grid.Width, grid.Width)
	for _, cell := range snap.Snake[1:max(1, len(snap.Snake)-1)] {
		col, row := grid.Coords(cell)
		a.FillTile(astar.Point{Row: row, Col: col}, blockedTile)
	}

	hc, hr := grid.Coords(head)
	fc, fr := grid.Coords(snap.Food)
	source := []astar.Point{{Row: hr, Col: hc}}
	target := []astar.Point{{Row: fr, Col: fc}}

	// searching from the food back to the head leaves the parent chain
	// ordered head first
	path := a.FindPath(astar.NewPointToPoint(), target, source)
	if path == nil || path.Parent == nil {
		return types.KeyNone, false
	}
	step := path.Parent
	return keyForStep(step.Col-hc, step.Row-hr), true
}

func (p *AStarPilot) fallback(snap game.Snapshot, heading types.Key) types.Key {
	grid := snap.Grid()
	fc, fr := grid.Coords(snap.Food)
	food := vec2.Vector{X: float64(fc), Y: float64(fr)}

	best := heading
	bestDist := math.Inf(1)
	for a := Left; a <= Right; a++ {
		key := a.Apply(heading)
		if IsDanger(snap, key) {
			continue
		}
		next := entity.Advance(snap.Head(), key.Orientation(grid), grid.Area())
		nc, nr := grid.Coords(next)
		pos := vec2.Vector{X: float64(nc), Y: float64(nr)}
		dist := pos.Minus(food).Length()
		if dist < bestDist {
			bestDist = dist
			best = key
		}
	}
	return best
}

func keyForStep(dc, dr int) types.Key {
	switch {
	case dc == 1 && dr == 0:
		return types.KeyRight
	case dc == -1 && dr == 0:
		return types.KeyLeft
	case dc == 0 && dr == 1:
		return types.KeyDown
	case dc == 0 && dr == -1:
		return types.KeyUp
	default:
		return types.KeyNone
	}
}

func reverse(k types.Key) types.Key {
	return k.TurnLeft().TurnLeft()
}
