package manager

import (
	"one-more-snake/game/entity"
	"one-more-snake/game/types"
)

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// HitsBody reports whether pos is one of the given body cells.
func (cm *CollisionManager) HitsBody(pos int, body []int) bool {
	occupied := make(map[int]struct{}, len(body))
	for _, cell := range body {
		occupied[cell] = struct{}{}
	}
	_, hit := occupied[pos]
	return hit
}

// CheckMove reports whether moving the snake into pos kills it. When the
// tail is about to be dropped it no longer blocks the head.
func (cm *CollisionManager) CheckMove(pos int, snake *entity.Snake, dropTail bool) bool {
	if dropTail {
		return cm.HitsBody(pos, snake.Body())
	}
	return cm.HitsBody(pos, snake.Points)
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos, food int) bool {
	return pos == food
}

// InBounds reports whether pos addresses a cell of the grid.
func (cm *CollisionManager) InBounds(pos int) bool {
	return pos >= 0 && pos < cm.grid.Area()
}
