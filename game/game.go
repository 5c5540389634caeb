package game

import (
	"slices"
	"time"

	"one-more-snake/game/entity"
	"one-more-snake/game/manager"
	"one-more-snake/game/types"

	"github.com/google/uuid"
)

// Config holds the fixed parameters of a session.
type Config struct {
	Width             int
	TickInterval      time.Duration
	Seed              uint64
	AvoidSnakeOnSpawn bool
}

func DefaultConfig() Config {
	return Config{
		Width:        types.DefaultWidth,
		TickInterval: types.DefaultTickInterval,
		Seed:         uint64(time.Now().UnixNano()),
	}
}

// Session owns one game: the grid, the snake, the food, the score and the
// phase, plus the handle of the timer driving it. It is not safe for
// concurrent use; ticks and input must be delivered from one goroutine.
type Session struct {
	UUID      string
	Grid      types.Grid
	StartTime time.Time

	interval   time.Duration
	avoidSnake bool
	snake      *entity.Snake
	food       int
	score      int
	phase      types.Phase
	ticks      int

	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager

	newTimer TimerFactory
	timer    Timer
	autoTick bool

	onEat      []func(Snapshot)
	onGameOver []func(Snapshot)
	onChange   []func(Snapshot)
}

type Option func(*Session)

// WithTimerFactory replaces the wall-clock ticker.
func WithTimerFactory(f TimerFactory) Option {
	return func(s *Session) {
		s.newTimer = f
	}
}

// WithFood places the first food on a known cell instead of a random one.
func WithFood(cell int) Option {
	return func(s *Session) {
		s.food = cell
	}
}

func NewSession(cfg Config, opts ...Option) *Session {
	grid := types.Grid{Width: cfg.Width}
	collisionMgr := manager.NewCollisionManager(grid)

	s := &Session{
		UUID:         uuid.New().String(),
		Grid:         grid,
		StartTime:    time.Now(),
		interval:     cfg.TickInterval,
		avoidSnake:   cfg.AvoidSnakeOnSpawn,
		snake:        entity.NewSnake(types.SeedSnake, grid.Right()),
		food:         -1,
		phase:        types.Running,
		collisionMgr: collisionMgr,
		foodMgr:      manager.NewFoodManager(grid, cfg.Seed, cfg.AvoidSnakeOnSpawn, collisionMgr),
		newTimer:     NewTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !collisionMgr.InBounds(s.food) {
		s.food = s.foodMgr.GenerateFood(s.snake)
	}
	return s
}

// Step advances the snake one cell. Entering the body ends the game with the
// tail already dropped; entering the food grows the snake, moves the food and
// scores a point.
func (s *Session) Step() {
	if s.phase == types.Over {
		return
	}
	s.ticks++

	newHead := s.snake.Candidate(s.Grid.Area())
	if s.collisionMgr.CheckMove(newHead, s.snake, true) {
		s.snake.RemoveTail()
		s.gameOver()
		return
	}

	s.snake.Move(newHead)
	if !s.collisionMgr.IsFoodCollision(newHead, s.food) {
		s.snake.RemoveTail()
		s.notify(s.onChange)
		return
	}

	s.score++
	if !s.avoidSnake {
		s.food = s.foodMgr.GenerateFood(s.snake)
	}
	s.Grow()
	if s.avoidSnake {
		// drawn once the snake has its final shape
		s.food = s.foodMgr.GenerateFood(s.snake)
	}
	s.notify(s.onEat)
	if s.phase == types.Running {
		s.notify(s.onChange)
	}
}

// Grow moves the head forward without dropping the tail. It follows every
// food eaten, so each food adds two cells.
func (s *Session) Grow() {
	if s.phase == types.Over {
		return
	}
	newHead := s.snake.Candidate(s.Grid.Area())
	if s.collisionMgr.CheckMove(newHead, s.snake, false) {
		s.gameOver()
		return
	}
	s.snake.Move(newHead)
}

// SetOrientation steers the snake with a directional key. Reversals, unknown
// keys and input after game over are ignored.
func (s *Session) SetOrientation(key types.Key) bool {
	if s.phase == types.Over {
		return false
	}
	changed := s.snake.SetDirection(key.Orientation(s.Grid))
	if changed {
		s.notify(s.onChange)
	}
	return changed
}

// Restart resets a finished game. The food stays where it was.
func (s *Session) Restart() bool {
	if s.phase != types.Over {
		return false
	}
	s.stopTimer()

	s.UUID = uuid.New().String()
	s.StartTime = time.Now()
	s.snake = entity.NewSnake(types.SeedSnake, s.Grid.Right())
	s.score = 0
	s.ticks = 0
	s.phase = types.Running

	if s.autoTick {
		s.startTimer()
	}
	s.notify(s.onChange)
	return true
}

// Start begins periodic ticking. Ticks are delivered on Ticks().
func (s *Session) Start() {
	s.autoTick = true
	if s.phase == types.Running {
		s.startTimer()
	}
}

// Stop cancels periodic ticking.
func (s *Session) Stop() {
	s.autoTick = false
	s.stopTimer()
}

// Ticks returns the channel of the active timer. It is nil while no timer
// runs, so a select on it blocks.
func (s *Session) Ticks() <-chan time.Time {
	if s.timer == nil {
		return nil
	}
	return s.timer.C()
}

// Ticking reports whether a timer is active.
func (s *Session) Ticking() bool {
	return s.timer != nil
}

func (s *Session) startTimer() {
	if s.timer != nil {
		return
	}
	s.timer = s.newTimer(s.interval)
}

func (s *Session) stopTimer() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
}

func (s *Session) gameOver() {
	s.phase = types.Over
	s.stopTimer()
	s.notify(s.onGameOver)
	s.notify(s.onChange)
}

// OnEat registers a callback run after food is eaten.
func (s *Session) OnEat(fn func(Snapshot)) {
	s.onEat = append(s.onEat, fn)
}

// OnGameOver registers a callback run when the game ends.
func (s *Session) OnGameOver(fn func(Snapshot)) {
	s.onGameOver = append(s.onGameOver, fn)
}

// OnChange registers a callback run after every visible state change.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Session) notify(fns []func(Snapshot)) {
	if len(fns) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Session) Phase() types.Phase {
	return s.phase
}

func (s *Session) Score() int {
	return s.score
}

func (s *Session) Food() int {
	return s.food
}

// TickCount is the number of ticks since the run started.
func (s *Session) TickCount() int {
	return s.ticks
}

func (s *Session) Orientation() types.Orientation {
	return s.snake.Orientation
}

// Snake returns a copy of the snake cells, head first.
func (s *Session) Snake() []int {
	return slices.Clone(s.snake.Points)
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID:   s.UUID,
		Width:       s.Grid.Width,
		Snake:       slices.Clone(s.snake.Points),
		Orientation: s.snake.Orientation,
		Food:        s.food,
		Score:       s.score,
		Phase:       s.phase,
		Ticks:       s.ticks,
		StartTime:   s.StartTime,
	}
}

func (s *Session) Cells() []Cell {
	return s.Snapshot().Cells()
}
