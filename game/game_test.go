package game

import (
	"slices"
	"testing"
	"time"

	"one-more-snake/game/entity"
	"one-more-snake/game/types"
)

// fakeTimer is a hand-driven Timer.
type fakeTimer struct {
	c       chan time.Time
	stopped bool
}

func (f *fakeTimer) C() <-chan time.Time { return f.c }
func (f *fakeTimer) Stop()               { f.stopped = true }

type fakeClock struct {
	timers    []*fakeTimer
	intervals []time.Duration
}

func (fc *fakeClock) factory(interval time.Duration) Timer {
	t := &fakeTimer{c: make(chan time.Time, 1)}
	fc.timers = append(fc.timers, t)
	fc.intervals = append(fc.intervals, interval)
	return t
}

func newTestSession(t *testing.T, width, food int) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	cfg := Config{Width: width, TickInterval: types.DefaultTickInterval, Seed: 1}
	return NewSession(cfg, WithTimerFactory(clock.factory), WithFood(food)), clock
}

func TestAdvanceStaysOnGrid(t *testing.T) {
	for _, width := range []int{2, 3, 4, 16} {
		grid := types.Grid{Width: width}
		orientations := []types.Orientation{grid.Right(), grid.Left(), grid.Down(), grid.Up()}
		for head := 0; head < grid.Area(); head++ {
			for _, o := range orientations {
				got := entity.Advance(head, o, grid.Area())
				if got < 0 || got >= grid.Area() {
					t.Fatalf("width %d: Advance(%d, %d) = %d, outside [0,%d)", width, head, o, got, grid.Area())
				}
			}
		}
	}
}

func TestAdvanceWrapsLinearly(t *testing.T) {
	tests := []struct {
		name string
		head int
		o    types.Orientation
		want int
	}{
		{"last cell right wraps to zero", 15, 1, 0},
		{"row end right enters next row", 3, 1, 4},
		{"first cell left wraps to last", 0, -1, 15},
		{"top row up wraps to bottom row", 1, -4, 13},
		{"bottom row down wraps to top row", 14, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entity.Advance(tt.head, tt.o, 16); got != tt.want {
				t.Errorf("Advance(%d, %d, 16) = %d, want %d", tt.head, tt.o, got, tt.want)
			}
		})
	}
}

func TestNewSessionInitialState(t *testing.T) {
	s, _ := newTestSession(t, 4, 10)

	if got := s.Snake(); !slices.Equal(got, []int{2, 1, 0}) {
		t.Errorf("snake = %v, want [2 1 0]", got)
	}
	if s.Orientation() != 1 {
		t.Errorf("orientation = %d, want 1", s.Orientation())
	}
	if s.Score() != 0 || s.Phase() != types.Running {
		t.Errorf("score=%d phase=%v, want 0 RUNNING", s.Score(), s.Phase())
	}
	if s.Food() != 10 {
		t.Errorf("food = %d, want 10", s.Food())
	}
}

func TestRandomFoodOnGrid(t *testing.T) {
	cfg := Config{Width: 4, TickInterval: time.Second, Seed: 42}
	for i := 0; i < 50; i++ {
		cfg.Seed = uint64(i)
		s := NewSession(cfg)
		if s.Food() < 0 || s.Food() >= 16 {
			t.Fatalf("food %d outside grid", s.Food())
		}
	}
}

func TestStepMovesWithoutGrowth(t *testing.T) {
	s, _ := newTestSession(t, 4, 10)

	s.Step()

	if got := s.Snake(); !slices.Equal(got, []int{3, 2, 1}) {
		t.Errorf("snake = %v, want [3 2 1]", got)
	}
	if s.Phase() != types.Running || s.Score() != 0 {
		t.Errorf("phase=%v score=%d, want RUNNING 0", s.Phase(), s.Score())
	}
	if s.TickCount() != 1 {
		t.Errorf("ticks = %d, want 1", s.TickCount())
	}
}

func TestStepWrapsLinearly(t *testing.T) {
	s, _ := newTestSession(t, 4, 5)
	s.snake.Points = []int{15, 14, 13}

	s.Step()

	if got := s.Snake(); !slices.Equal(got, []int{0, 15, 14}) {
		t.Errorf("snake = %v, want [0 15 14]", got)
	}
}

func TestStepEatsFood(t *testing.T) {
	s, _ := newTestSession(t, 4, 3)
	var eaten []Snapshot
	s.OnEat(func(snap Snapshot) { eaten = append(eaten, snap) })

	s.Step()

	if s.Score() != 1 {
		t.Errorf("score = %d, want 1", s.Score())
	}
	// step keeps the tail and grow adds one more head cell
	if got := s.Snake(); !slices.Equal(got, []int{4, 3, 2, 1, 0}) {
		t.Errorf("snake = %v, want [4 3 2 1 0]", got)
	}
	if s.Phase() != types.Running {
		t.Errorf("phase = %v, want RUNNING", s.Phase())
	}
	if len(eaten) != 1 || eaten[0].Score != 1 {
		t.Fatalf("OnEat calls = %v, want one with score 1", eaten)
	}
	if !slices.Equal(eaten[0].Snake, []int{4, 3, 2, 1, 0}) {
		t.Errorf("OnEat saw snake %v, want the grown [4 3 2 1 0]", eaten[0].Snake)
	}
	if s.Food() < 0 || s.Food() >= 16 {
		t.Errorf("food %d not relocated onto the grid", s.Food())
	}
}

func TestStepAvoidsSnakeWhenRelocatingFood(t *testing.T) {
	for seed := uint64(0); seed < 500; seed++ {
		cfg := Config{Width: 4, TickInterval: types.DefaultTickInterval, Seed: seed, AvoidSnakeOnSpawn: true}
		s := NewSession(cfg, WithTimerFactory((&fakeClock{}).factory), WithFood(3))

		s.Step()

		if s.Score() != 1 {
			t.Fatalf("seed %d: score = %d, want 1", seed, s.Score())
		}
		if slices.Contains(s.Snake(), s.Food()) {
			t.Fatalf("seed %d: food %d placed on snake %v", seed, s.Food(), s.Snake())
		}
	}
}

func TestSelfCollisionEndsGame(t *testing.T) {
	s, clock := newTestSession(t, 4, 15)
	s.Start()
	var overs int
	s.OnGameOver(func(Snapshot) { overs++ })

	// head 5 moving up enters 1, which stays in the body after the tail drops
	s.snake.Points = []int{5, 6, 2, 1, 0}
	s.snake.Orientation = s.Grid.Up()

	s.Step()

	if s.Phase() != types.Over {
		t.Fatalf("phase = %v, want OVER", s.Phase())
	}
	if got := s.Snake(); !slices.Equal(got, []int{5, 6, 2, 1}) {
		t.Errorf("snake = %v, want shrunk body [5 6 2 1]", got)
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
	if overs != 1 {
		t.Errorf("OnGameOver called %d times, want 1", overs)
	}
	if s.Ticking() || !clock.timers[0].stopped {
		t.Error("timer still active after game over")
	}

	s.Step()
	if got := s.Snake(); !slices.Equal(got, []int{5, 6, 2, 1}) {
		t.Errorf("step after game over changed snake to %v", got)
	}
}

func TestMovingIntoTailIsSafe(t *testing.T) {
	s, _ := newTestSession(t, 4, 15)
	// a 2x2 loop: the head chases its own tail
	s.snake.Points = []int{4, 5, 1, 0}
	s.snake.Orientation = s.Grid.Up()

	s.Step()

	if s.Phase() != types.Running {
		t.Fatalf("phase = %v, want RUNNING", s.Phase())
	}
	if got := s.Snake(); !slices.Equal(got, []int{0, 4, 5, 1}) {
		t.Errorf("snake = %v, want [0 4 5 1]", got)
	}
}

func TestGrowCollisionEndsGame(t *testing.T) {
	s, _ := newTestSession(t, 4, 15)
	s.snake.Points = []int{4, 5, 1, 0}
	s.snake.Orientation = s.Grid.Up()

	s.Grow()

	if s.Phase() != types.Over {
		t.Fatalf("phase = %v, want OVER", s.Phase())
	}
	if got := s.Snake(); !slices.Equal(got, []int{4, 5, 1, 0}) {
		t.Errorf("snake = %v, want unchanged [4 5 1 0]", got)
	}
}

func TestSetOrientation(t *testing.T) {
	tests := []struct {
		name    string
		key     types.Key
		want    types.Orientation
		changed bool
	}{
		{"reverse rejected", types.KeyLeft, 1, false},
		{"up", types.KeyUp, -4, true},
		{"down", types.KeyDown, 4, true},
		{"same direction", types.KeyRight, 1, false},
		{"unknown key", types.KeyNone, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, 4, 10)
			if changed := s.SetOrientation(tt.key); changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if s.Orientation() != tt.want {
				t.Errorf("orientation = %d, want %d", s.Orientation(), tt.want)
			}
		})
	}
}

func TestSetOrientationIgnoredWhenOver(t *testing.T) {
	s, _ := newTestSession(t, 4, 10)
	s.phase = types.Over

	if s.SetOrientation(types.ParseKey("ArrowDown")) {
		t.Error("orientation changed after game over")
	}
	if s.Orientation() != 1 {
		t.Errorf("orientation = %d, want 1", s.Orientation())
	}
}

func TestRestart(t *testing.T) {
	s, clock := newTestSession(t, 4, 3)
	s.Start()
	s.Step() // eat
	firstID := s.UUID

	if s.Restart() {
		t.Fatal("restart accepted while running")
	}

	s.snake.Points = []int{5, 6, 2, 1, 0}
	s.snake.Orientation = s.Grid.Up()
	s.Step()
	if s.Phase() != types.Over {
		t.Fatalf("phase = %v, want OVER", s.Phase())
	}
	food := s.Food()

	if !s.Restart() {
		t.Fatal("restart rejected from OVER")
	}
	if got := s.Snake(); !slices.Equal(got, []int{2, 1, 0}) {
		t.Errorf("snake = %v, want [2 1 0]", got)
	}
	if s.Orientation() != 1 || s.Score() != 0 || s.Phase() != types.Running {
		t.Errorf("orientation=%d score=%d phase=%v, want 1 0 RUNNING", s.Orientation(), s.Score(), s.Phase())
	}
	if s.Food() != food {
		t.Errorf("food re-rolled on restart: %d, want %d", s.Food(), food)
	}
	if s.UUID == firstID {
		t.Error("restart kept the previous session id")
	}
	if len(clock.timers) != 2 || !s.Ticking() {
		t.Errorf("timers created = %d, ticking = %v; want a fresh timer", len(clock.timers), s.Ticking())
	}
}

func TestTimerLifecycle(t *testing.T) {
	s, clock := newTestSession(t, 4, 10)

	if s.Ticks() != nil {
		t.Fatal("ticks channel set before Start")
	}

	s.Start()
	s.Start()
	if len(clock.timers) != 1 {
		t.Fatalf("timers created = %d, want 1", len(clock.timers))
	}
	if clock.intervals[0] != 300*time.Millisecond {
		t.Errorf("interval = %v, want 300ms", clock.intervals[0])
	}

	clock.timers[0].c <- time.Now()
	select {
	case <-s.Ticks():
		s.Step()
	default:
		t.Fatal("tick not delivered")
	}
	if got := s.Snake(); !slices.Equal(got, []int{3, 2, 1}) {
		t.Errorf("snake = %v, want [3 2 1]", got)
	}

	s.Stop()
	if s.Ticking() || !clock.timers[0].stopped {
		t.Error("Stop left the timer running")
	}
}

func TestRestartWithoutStartDoesNotTick(t *testing.T) {
	s, clock := newTestSession(t, 4, 10)
	s.phase = types.Over

	s.Restart()

	if len(clock.timers) != 0 || s.Ticking() {
		t.Error("restart started a timer on a session that was never started")
	}
}

func TestCells(t *testing.T) {
	s, _ := newTestSession(t, 4, 10)
	cells := s.Cells()

	if len(cells) != 16 {
		t.Fatalf("len(cells) = %d, want 16", len(cells))
	}
	if !cells[10].Food || cells[10].Snake {
		t.Errorf("cell 10 = %+v, want food only", cells[10])
	}
	if !cells[2].Head || !cells[2].Snake {
		t.Errorf("cell 2 = %+v, want snake head", cells[2])
	}
	if !cells[0].Snake || cells[0].Head {
		t.Errorf("cell 0 = %+v, want snake body", cells[0])
	}
	if !cells[4].Even || cells[5].Even {
		t.Error("parity flags wrong")
	}
	for _, c := range cells {
		if c.Over {
			t.Fatalf("cell %d tinted while running", c.Index)
		}
	}

	s.phase = types.Over
	for _, c := range s.Cells() {
		if !c.Over {
			t.Fatalf("cell %d not tinted after game over", c.Index)
		}
	}
}

func TestOnChangeFiresOnce(t *testing.T) {
	s, _ := newTestSession(t, 4, 3)
	var changes int
	s.OnChange(func(Snapshot) { changes++ })

	s.Step() // eat, then grow
	if changes != 1 {
		t.Errorf("OnChange called %d times for one tick, want 1", changes)
	}
}

func TestSnapshotRecord(t *testing.T) {
	s, _ := newTestSession(t, 4, 3)
	s.Step()
	snap := s.Snapshot()
	end := snap.StartTime.Add(time.Minute)

	rec := snap.Record(end)
	if rec.ID != s.UUID || rec.Score != 1 || rec.Length != 5 || rec.Ticks != 1 {
		t.Errorf("record = %+v", rec)
	}
	if !rec.EndTime.Equal(end) {
		t.Errorf("end time = %v, want %v", rec.EndTime, end)
	}
}

func TestCellFillLayering(t *testing.T) {
	tests := []struct {
		cell Cell
		want types.Color
	}{
		{Cell{Even: true}, types.ColorEven},
		{Cell{}, types.ColorOdd},
		{Cell{Even: true, Over: true}, types.ColorOver},
		{Cell{Over: true, Snake: true}, types.ColorSnake},
		{Cell{Over: true, Snake: true, Food: true}, types.ColorFood},
	}
	for _, tt := range tests {
		if got := tt.cell.Fill(); got != tt.want {
			t.Errorf("%+v.Fill() = %v, want %v", tt.cell, got, tt.want)
		}
	}
}
