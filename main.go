package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"one-more-snake/ai"
	"one-more-snake/audio"
	"one-more-snake/config"
	"one-more-snake/game"
	"one-more-snake/game/manager"
	"one-more-snake/spectate"
	"one-more-snake/terminal"
	"one-more-snake/ui"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const usage = `usage: one-more-snake [-frontend raylib|terminal] [-width N] [-tick 300ms]
       [-autopilot none|astar|qlearn] [-train N] [-spectate addr] [-sound=false]
       [-stats file] [-qtable file] [-seed N] [-avoid-snake] [-debug]`

func main() {
	cfg, err := config.Load(os.Args[1:], config.DefaultEnvFile)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Println(usage)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n%s\n", err, usage)
		os.Exit(2)
	}

	logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if cfg.EnvFile == "" {
		log.Printf("No %s file found, using system environment variables", config.DefaultEnvFile)
	} else {
		log.Printf("Loaded settings from %s", cfg.EnvFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Printf("Fatal: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.Train > 0 {
		return train(cfg)
	}

	stats := manager.NewStateManager(cfg.StatsFile)
	if err := stats.LoadStats(); err != nil {
		log.Printf("Failed to load stats, starting fresh: %v", err)
	}

	pilot, q := newPilot(cfg)
	s := game.NewSession(sessionConfig(cfg))
	log.Printf("Session %s: width %d tick %v autopilot %s", s.UUID, cfg.Width, cfg.TickInterval, cfg.Autopilot)

	recordGames(s, stats, q)

	if cfg.Sound {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			// Non-fatal, game can run without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			defer sm.Cleanup()
			s.OnEat(func(game.Snapshot) { sm.PlayEat() })
			s.OnGameOver(func(game.Snapshot) { sm.PlayGameOver() })
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	if cfg.SpectateAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		hub := spectate.NewHub()
		hub.Publish(s.Snapshot())
		s.OnGameOver(hub.GameOver)
		s.OnChange(hub.Publish)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := spectate.NewServer(cfg.SpectateAddr, hub).Run(ctx); err != nil {
				log.Printf("Spectator server stopped: %v", err)
			}
		}()
	}

	if err := play(ctx, cfg, s, pilot, stats.GetHighScore); err != nil {
		return err
	}

	if q != nil {
		if err := q.SaveQTable(cfg.QTableFile); err != nil {
			log.Printf("Failed to save Q-table: %v", err)
		}
	}

	if n := stats.GetGamesPlayed(); n > 0 {
		fmt.Printf("Games %d  best %d  average %.1f  median %.1f  average length %v\n",
			n, stats.GetHighScore(), stats.AverageScore(), stats.MedianScore(),
			stats.AverageDuration().Round(time.Second))
	}
	return nil
}

func play(ctx context.Context, cfg config.Config, s *game.Session, pilot ai.Pilot, highScore func() int) error {
	switch cfg.Frontend {
	case config.FrontendTerminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			return errors.Wrap(err, "create terminal screen")
		}
		if err := screen.Init(); err != nil {
			return errors.Wrap(err, "init terminal screen")
		}
		defer screen.Fini()

		err = terminal.New(screen, s, pilot, highScore).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err

	default:
		ui.Run(ctx, s, pilot, highScore)
		return nil
	}
}

func sessionConfig(cfg config.Config) game.Config {
	return game.Config{
		Width:             cfg.Width,
		TickInterval:      cfg.TickInterval,
		Seed:              cfg.Seed,
		AvoidSnakeOnSpawn: cfg.AvoidSnake,
	}
}

// newPilot builds the configured autopilot. q is set only for the learning
// pilot, whose table is saved on exit.
func newPilot(cfg config.Config) (pilot ai.Pilot, q *ai.QLearning) {
	switch cfg.Autopilot {
	case config.PilotAStar:
		return ai.NewAStarPilot(), nil
	case config.PilotQLearn:
		q = ai.NewQLearning(cfg.Seed)
		loadQTable(q, cfg.QTableFile)
		return q, q
	default:
		return nil, nil
	}
}

func loadQTable(q *ai.QLearning, filename string) {
	err := q.LoadQTable(filename)
	switch {
	case err == nil:
		log.Printf("Loaded Q-table %s with %d states", filename, len(q.QTable))
	case os.IsNotExist(errors.Cause(err)):
		log.Printf("No Q-table at %s, starting untrained", filename)
	default:
		log.Printf("Failed to load Q-table: %v", err)
	}
}

// recordGames stores every finished run and ends the learning episode.
func recordGames(s *game.Session, stats *manager.StateManager, q *ai.QLearning) {
	s.OnGameOver(func(snap game.Snapshot) {
		newHigh, err := stats.Record(snap.Record(time.Now()))
		if err != nil {
			log.Printf("Failed to save stats: %v", err)
		}
		if newHigh {
			log.Printf("New high score %d", snap.Score)
		}
		if q != nil {
			q.EndEpisode()
		}
	})
}

func train(cfg config.Config) error {
	q := ai.NewQLearning(cfg.Seed)
	loadQTable(q, cfg.QTableFile)

	start := time.Now()
	maxTicks := cfg.Width * cfg.Width * 4
	result := ai.Train(sessionConfig(cfg), q, cfg.Train, maxTicks)
	fmt.Printf("Trained %d episodes in %v: best %d, average %.2f, %d states\n",
		result.Episodes, time.Since(start).Round(time.Millisecond),
		result.BestScore, result.AverageScore, len(q.QTable))

	return q.SaveQTable(cfg.QTableFile)
}
