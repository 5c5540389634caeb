package manager

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultStatsFile = "data/gamestats.json"
	MaxHistory       = 200 // records kept in the score history
)

// GameRecord describes one finished run.
type GameRecord struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Ticks     int       `json:"ticks"`
}

type GameStats struct {
	HighScore    int          `json:"highScore"`
	ScoreHistory []GameRecord `json:"scoreHistory"`
}

// StateManager keeps the high score and score history and mirrors them to a
// JSON file. An empty path keeps everything in memory.
type StateManager struct {
	mu       sync.RWMutex
	filename string
	stats    GameStats
}

func NewStateManager(filename string) *StateManager {
	return &StateManager{
		filename: filename,
		stats: GameStats{
			ScoreHistory: make([]GameRecord, 0),
		},
	}
}

// LoadStats reads the stats file. A missing file leaves the manager empty.
func (sm *StateManager) LoadStats() error {
	if sm.filename == "" {
		return nil
	}
	data, err := os.ReadFile(sm.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read stats %s", sm.filename)
	}

	var stats GameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return errors.Wrapf(err, "decode stats %s", sm.filename)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.stats = stats
	if sm.stats.ScoreHistory == nil {
		sm.stats.ScoreHistory = make([]GameRecord, 0)
	}
	return nil
}

func (sm *StateManager) SaveStats() error {
	if sm.filename == "" {
		return nil
	}
	sm.mu.RLock()
	data, err := json.MarshalIndent(sm.stats, "", "  ")
	sm.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode stats")
	}

	if err := os.MkdirAll(filepath.Dir(sm.filename), 0755); err != nil {
		return errors.Wrap(err, "create stats directory")
	}
	return errors.Wrapf(os.WriteFile(sm.filename, data, 0644), "write stats %s", sm.filename)
}

// Record appends a finished run, updates the high score and saves the file.
// It reports whether the run set a new high score.
func (sm *StateManager) Record(rec GameRecord) (bool, error) {
	sm.mu.Lock()
	newHigh := rec.Score > sm.stats.HighScore
	if newHigh {
		sm.stats.HighScore = rec.Score
	}
	sm.stats.ScoreHistory = append(sm.stats.ScoreHistory, rec)
	if over := len(sm.stats.ScoreHistory) - MaxHistory; over > 0 {
		sm.stats.ScoreHistory = sm.stats.ScoreHistory[over:]
	}
	sm.mu.Unlock()

	return newHigh, sm.SaveStats()
}

func (sm *StateManager) GetHighScore() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.stats.HighScore
}

func (sm *StateManager) GetScoreHistory() []GameRecord {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	history := make([]GameRecord, len(sm.stats.ScoreHistory))
	copy(history, sm.stats.ScoreHistory)
	return history
}

// AverageScore is the mean score over the recorded history.
func (sm *StateManager) AverageScore() float64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if len(sm.stats.ScoreHistory) == 0 {
		return 0
	}
	sum := 0
	for _, rec := range sm.stats.ScoreHistory {
		sum += rec.Score
	}
	return float64(sum) / float64(len(sm.stats.ScoreHistory))
}

// MedianScore is the median score over the recorded history.
func (sm *StateManager) MedianScore() float64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if len(sm.stats.ScoreHistory) == 0 {
		return 0
	}
	scores := make([]int, len(sm.stats.ScoreHistory))
	for i, rec := range sm.stats.ScoreHistory {
		scores[i] = rec.Score
	}
	sort.Ints(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		return float64(scores[mid-1]+scores[mid]) / 2
	}
	return float64(scores[mid])
}

// GetGamesPlayed returns the number of runs in the history.
func (sm *StateManager) GetGamesPlayed() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.stats.ScoreHistory)
}

// AverageDuration is the mean wall-clock length of the recorded runs.
func (sm *StateManager) AverageDuration() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if len(sm.stats.ScoreHistory) == 0 {
		return 0
	}
	var total time.Duration
	for _, rec := range sm.stats.ScoreHistory {
		total += rec.EndTime.Sub(rec.StartTime)
	}
	return total / time.Duration(len(sm.stats.ScoreHistory))
}
