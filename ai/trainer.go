package ai

import (
	"log"

	"one-more-snake/game"
	"one-more-snake/game/types"
)

const (
	ReportEvery = 500 // episodes between progress log lines
)

type TrainResult struct {
	Episodes     int
	BestScore    int
	AverageScore float64
}

// Train plays episodes headless games with q steering. Each game ends on
// game over or after maxTicks ticks.
func Train(cfg game.Config, q *QLearning, episodes, maxTicks int) TrainResult {
	result := TrainResult{Episodes: episodes}
	totalScore := 0

	for episode := 0; episode < episodes; episode++ {
		cfg.Seed++
		s := game.NewSession(cfg)
		for ticks := 0; ticks < maxTicks && s.Phase() == types.Running; ticks++ {
			Drive(s, q)
		}
		q.EndEpisode()

		score := s.Score()
		totalScore += score
		if score > result.BestScore {
			result.BestScore = score
		}

		if (episode+1)%ReportEvery == 0 {
			log.Printf("training: episode %d best %d average %.2f epsilon %.3f",
				episode+1, result.BestScore, float64(totalScore)/float64(episode+1), q.Epsilon)
		}
	}

	if episodes > 0 {
		result.AverageScore = float64(totalScore) / float64(episodes)
	}
	return result
}
