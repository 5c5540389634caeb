package ai

import (
	"path/filepath"
	"testing"
	"time"

	"one-more-snake/game"
	"one-more-snake/game/types"
)

func snapshot(width int, snake []int, orientation types.Orientation, food int) game.Snapshot {
	return game.Snapshot{
		Width:       width,
		Snake:       snake,
		Orientation: orientation,
		Food:        food,
		Phase:       types.Running,
	}
}

func TestSense(t *testing.T) {
	// heading up from 5: straight enters 1 and right enters 6, both body cells
	snap := snapshot(4, []int{5, 6, 2, 1, 0}, -4, 15)
	state := Sense(snap)

	if state.Heading != types.KeyUp {
		t.Errorf("heading = %v, want up", state.Heading)
	}
	if state.DangerDirs != [3]bool{false, true, true} {
		t.Errorf("dangers = %v, want [false true true]", state.DangerDirs)
	}
	if state.RelativeFoodDir != [2]int{1, 1} {
		t.Errorf("food dir = %v, want [1 1]", state.RelativeFoodDir)
	}
	if state.FoodDistance != 4 {
		t.Errorf("food distance = %d, want 4", state.FoodDistance)
	}
}

func TestIsDangerIgnoresTail(t *testing.T) {
	snap := snapshot(4, []int{4, 5, 1, 0}, -4, 15)
	if IsDanger(snap, types.KeyUp) {
		t.Error("moving into the tail reported as danger")
	}
	if !IsDanger(snap, types.KeyRight) {
		t.Error("moving into the body not reported as danger")
	}
}

func TestActionApply(t *testing.T) {
	if Left.Apply(types.KeyRight) != types.KeyUp || Right.Apply(types.KeyRight) != types.KeyDown ||
		Straight.Apply(types.KeyRight) != types.KeyRight {
		t.Error("relative actions turned the wrong way")
	}
}

func TestDriveWithoutPilot(t *testing.T) {
	s := game.NewSession(game.Config{Width: 4, TickInterval: time.Second, Seed: 1}, game.WithFood(10))
	Drive(s, nil)
	if s.Snake()[0] != 3 {
		t.Errorf("head = %d, want 3", s.Snake()[0])
	}
}

type fixedPilot struct{ key types.Key }

func (p fixedPilot) Next(game.Snapshot) types.Key { return p.key }

func TestDriveAppliesPilotKey(t *testing.T) {
	s := game.NewSession(game.Config{Width: 4, TickInterval: time.Second, Seed: 1}, game.WithFood(15))
	Drive(s, fixedPilot{types.KeyDown})
	if s.Snake()[0] != 6 {
		t.Errorf("head = %d, want 6", s.Snake()[0])
	}
}

func TestAStarPilotHeadsForFood(t *testing.T) {
	// food two rows below the head
	snap := snapshot(8, []int{2, 1, 0}, 1, 26)
	if key := NewAStarPilot().Next(snap); key != types.KeyDown {
		t.Errorf("key = %v, want down", key)
	}
}

func TestAStarPilotNeverReverses(t *testing.T) {
	snap := snapshot(8, []int{2, 1, 0}, 1, 8)
	key := NewAStarPilot().Next(snap)
	if key == types.KeyLeft {
		t.Error("pilot reversed into its own body")
	}
	if IsDanger(snap, key) {
		t.Errorf("pilot chose a deadly key %v", key)
	}
}

func TestAStarFallbackPicksClosestSafeMove(t *testing.T) {
	snap := snapshot(8, []int{2, 1, 0}, 1, 26)
	p := NewAStarPilot()
	if key := p.fallback(snap, types.KeyRight); key != types.KeyDown {
		t.Errorf("fallback key = %v, want down", key)
	}
}

func TestAStarPilotPlays(t *testing.T) {
	s := game.NewSession(game.Config{Width: 8, TickInterval: time.Second, Seed: 3, AvoidSnakeOnSpawn: true})
	p := NewAStarPilot()
	for i := 0; i < 40 && s.Phase() == types.Running; i++ {
		Drive(s, p)
	}
	if s.Score() == 0 {
		t.Errorf("pilot ate nothing in 40 ticks")
	}
}

func TestReward(t *testing.T) {
	prev := snapshot(4, []int{2, 1, 0}, 1, 3)

	over := prev
	over.Phase = types.Over
	if r, done := Reward(prev, over); r != RewardDeath || !done {
		t.Errorf("death reward = %v,%v", r, done)
	}

	ate := snapshot(4, []int{4, 3, 2, 1, 0}, 1, 12)
	ate.Score = 1
	if r, done := Reward(prev, ate); r != RewardFood || done {
		t.Errorf("food reward = %v,%v", r, done)
	}

	far := snapshot(4, []int{2, 1, 0}, 1, 15)
	closer := snapshot(4, []int{3, 2, 1}, 1, 15)
	if r, _ := Reward(far, closer); r != RewardCloser {
		t.Errorf("closer reward = %v", r)
	}
	if r, _ := Reward(closer, far); r != RewardAway {
		t.Errorf("away reward = %v", r)
	}
}

func TestQLearningObserveUpdatesTable(t *testing.T) {
	q := NewQLearning(1)
	q.Epsilon = 0
	s := game.NewSession(game.Config{Width: 4, TickInterval: time.Second, Seed: 1}, game.WithFood(3))

	Drive(s, q)

	if len(q.QTable) != 1 {
		t.Fatalf("table rows = %d, want 1", len(q.QTable))
	}
	for _, row := range q.QTable {
		if row[Straight] <= 0 {
			t.Errorf("eating straight ahead not rewarded: %v", row)
		}
	}
	if q.TotalReward != RewardFood {
		t.Errorf("total reward = %v, want %v", q.TotalReward, RewardFood)
	}
}

func TestQLearningSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q", "table.json")
	q := NewQLearning(1)
	q.QTable["k"] = map[Action]float64{Left: 0.5, Straight: -1, Right: 0}

	if err := q.SaveQTable(path); err != nil {
		t.Fatalf("SaveQTable: %v", err)
	}
	loaded := NewQLearning(2)
	if err := loaded.LoadQTable(path); err != nil {
		t.Fatalf("LoadQTable: %v", err)
	}
	if loaded.QTable["k"][Left] != 0.5 || loaded.QTable["k"][Straight] != -1 {
		t.Errorf("loaded table = %v", loaded.QTable)
	}
	if err := loaded.LoadQTable(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing table loaded without error")
	}
}

func TestTrain(t *testing.T) {
	q := NewQLearning(7)
	cfg := game.Config{Width: 6, TickInterval: time.Second, Seed: 11}

	result := Train(cfg, q, 30, 200)

	if result.Episodes != 30 || q.GamesPlayed != 30 {
		t.Errorf("episodes = %d, games = %d, want 30", result.Episodes, q.GamesPlayed)
	}
	if result.AverageScore > float64(result.BestScore) {
		t.Errorf("average %v above best %d", result.AverageScore, result.BestScore)
	}
	if q.Epsilon >= 0.1 {
		t.Errorf("epsilon did not decay: %v", q.Epsilon)
	}
	if len(q.QTable) == 0 {
		t.Error("training left the table empty")
	}
}
