package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"one-more-snake/game"
	"one-more-snake/game/types"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Action is a move relative to the current heading.
type Action int

const (
	Left Action = iota
	Straight
	Right
)

// Apply turns heading by the action.
func (a Action) Apply(heading types.Key) types.Key {
	switch a {
	case Left:
		return heading.TurnLeft()
	case Right:
		return heading.TurnRight()
	default:
		return heading
	}
}

// Rewards
const (
	RewardFood   = 1.0
	RewardDeath  = -1.0
	RewardCloser = 0.1
	RewardAway   = -0.15
)

type QTable map[string]map[Action]float64

// QLearning is a tabular Q-learning pilot.
type QLearning struct {
	mu           sync.RWMutex
	QTable       QTable
	LearningRate float64
	Discount     float64
	Epsilon      float64
	MinEpsilon   float64
	EpsilonDecay float64
	TotalReward  float64
	GamesPlayed  int

	rng        *rand.Rand
	lastState  State
	lastAction Action
	hasLast    bool
}

func NewQLearning(seed uint64) *QLearning {
	return &QLearning{
		QTable:       make(QTable),
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		MinEpsilon:   0.01,
		EpsilonDecay: 0.995,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (q *QLearning) getStateKey(s State) string {
	return fmt.Sprintf("%d:%d,%d:%d%d%d", s.Heading,
		s.RelativeFoodDir[0], s.RelativeFoodDir[1],
		boolToInt(s.DangerDirs[Left]), boolToInt(s.DangerDirs[Straight]), boolToInt(s.DangerDirs[Right]))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Next picks a key epsilon-greedily and remembers the decision for Observe.
func (q *QLearning) Next(snap game.Snapshot) types.Key {
	state := Sense(snap)
	action := q.GetAction(state)

	q.mu.Lock()
	q.lastState, q.lastAction, q.hasLast = state, action, true
	q.mu.Unlock()

	return action.Apply(state.Heading)
}

func (q *QLearning) GetAction(state State) Action {
	q.mu.Lock()
	explore := q.rng.Float64() < q.Epsilon
	random := Action(q.rng.Intn(3))
	q.mu.Unlock()

	if explore {
		return random
	}
	return q.getBestAction(state)
}

func (q *QLearning) getBestAction(state State) Action {
	q.mu.RLock()
	defer q.mu.RUnlock()

	values, ok := q.QTable[q.getStateKey(state)]
	if !ok {
		return Straight
	}
	bestAction := Straight
	bestValue := math.Inf(-1)
	for a := Left; a <= Right; a++ {
		if v := values[a]; v > bestValue {
			bestValue = v
			bestAction = a
		}
	}
	return bestAction
}

// Observe rewards the last decision with the transition from prev to next.
func (q *QLearning) Observe(prev, next game.Snapshot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.hasLast {
		return
	}
	q.hasLast = false

	reward, done := Reward(prev, next)
	q.TotalReward += reward

	maxNextQ := 0.0
	if !done {
		maxNextQ = q.maxQ(Sense(next))
	}

	values := q.values(q.lastState)
	current := values[q.lastAction]
	values[q.lastAction] = current + q.LearningRate*(reward+q.Discount*maxNextQ-current)
}

// Reward scores a transition and reports whether it ended the game.
func Reward(prev, next game.Snapshot) (float64, bool) {
	switch {
	case next.Phase == types.Over:
		return RewardDeath, true
	case next.Score > prev.Score:
		return RewardFood, false
	}
	grid := next.Grid()
	before := manhattanDistance(grid, prev.Head(), prev.Food)
	after := manhattanDistance(grid, next.Head(), next.Food)
	if after < before {
		return RewardCloser, false
	}
	return RewardAway, false
}

// EndEpisode counts a finished game and decays exploration.
func (q *QLearning) EndEpisode() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.GamesPlayed++
	q.hasLast = false
	q.Epsilon = math.Max(q.MinEpsilon, q.Epsilon*q.EpsilonDecay)
}

// values returns the row for s, creating it. Callers hold mu.
func (q *QLearning) values(s State) map[Action]float64 {
	key := q.getStateKey(s)
	row, ok := q.QTable[key]
	if !ok {
		row = map[Action]float64{Left: 0, Straight: 0, Right: 0}
		q.QTable[key] = row
	}
	return row
}

func (q *QLearning) maxQ(s State) float64 {
	row, ok := q.QTable[q.getStateKey(s)]
	if !ok {
		return 0
	}
	best := math.Inf(-1)
	for _, v := range row {
		best = math.Max(best, v)
	}
	return best
}

// SaveQTable writes the Q-table as JSON, creating the directory.
func (q *QLearning) SaveQTable(filename string) error {
	q.mu.RLock()
	data, err := json.MarshalIndent(q.QTable, "", "  ")
	q.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode q-table")
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create q-table directory")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0644), "write q-table %s", filename)
}

// LoadQTable replaces the Q-table with the one stored in filename.
func (q *QLearning) LoadQTable(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read q-table %s", filename)
	}

	table := make(QTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return errors.Wrapf(err, "decode q-table %s", filename)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.QTable = table
	return nil
}
