package manager

import (
	"one-more-snake/game/entity"
	"one-more-snake/game/types"

	"golang.org/x/exp/rand"
)

type FoodManager struct {
	grid         types.Grid
	rng          *rand.Rand
	avoidSnake   bool
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, seed uint64, avoidSnake bool, collisionMgr *CollisionManager) *FoodManager {
	return &FoodManager{
		grid:         grid,
		rng:          rand.New(rand.NewSource(seed)),
		avoidSnake:   avoidSnake,
		collisionMgr: collisionMgr,
	}
}

// GenerateFood draws a uniform cell over the whole grid. Unless avoidance is
// enabled the draw may land on the snake.
func (fm *FoodManager) GenerateFood(snake *entity.Snake) int {
	area := fm.grid.Area()
	food := fm.rng.Intn(area)
	if !fm.avoidSnake || snake == nil || snake.Len() >= area {
		return food
	}
	for fm.collisionMgr.HitsBody(food, snake.Points) {
		food = fm.rng.Intn(area)
	}
	return food
}
