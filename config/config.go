// Package config resolves run settings from defaults, a .env file, SNAKE_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"one-more-snake/game/types"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	FrontendRaylib   = "raylib"
	FrontendTerminal = "terminal"

	PilotNone   = "none"
	PilotAStar  = "astar"
	PilotQLearn = "qlearn"

	DefaultEnvFile = ".env"
)

type Config struct {
	Frontend     string
	Width        int
	TickInterval time.Duration
	Autopilot    string
	Train        int
	SpectateAddr string
	Sound        bool
	StatsFile    string
	QTableFile   string
	Seed         uint64
	AvoidSnake   bool
	Debug        bool

	// EnvFile is the .env file that was read, empty when none was found.
	EnvFile string
}

func Default() Config {
	return Config{
		Frontend:     FrontendRaylib,
		Width:        types.DefaultWidth,
		TickInterval: types.DefaultTickInterval,
		Autopilot:    PilotNone,
		Sound:        true,
		StatsFile:    "data/gamestats.json",
		QTableFile:   "data/qtable.json",
	}
}

// Load builds a Config for the given command-line arguments (without the
// program name). A missing env file is not an error.
func Load(args []string, envFile string) (Config, error) {
	env, err := godotenv.Read(envFile)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return Config{}, errors.Wrapf(err, "read %s", envFile)
		}
		env = map[string]string{}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	if err == nil {
		cfg.EnvFile = envFile
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("one-more-snake", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Frontend, "frontend", cfg.Frontend, "Frontend: raylib or terminal")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Grid width in cells")
	fs.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Interval between ticks")
	fs.StringVar(&cfg.Autopilot, "autopilot", cfg.Autopilot, "Autopilot: none, astar or qlearn")
	fs.IntVar(&cfg.Train, "train", cfg.Train, "Train the Q-learning pilot for N headless episodes and exit")
	fs.StringVar(&cfg.SpectateAddr, "spectate", cfg.SpectateAddr, "Serve spectator HTTP/websocket on this address")
	fs.BoolVar(&cfg.Sound, "sound", cfg.Sound, "Play sound cues")
	fs.StringVar(&cfg.StatsFile, "stats", cfg.StatsFile, "High score file (empty to disable)")
	fs.StringVar(&cfg.QTableFile, "qtable", cfg.QTableFile, "Q-table file for the qlearn autopilot")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Food seed (0 picks one from the clock)")
	fs.BoolVar(&cfg.AvoidSnake, "avoid-snake", cfg.AvoidSnake, "Never spawn food on the snake")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Write a debug log to logs/")
	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "parse flags")
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SNAKE_FRONTEND"); ok {
		c.Frontend = v
	}
	if v, ok := lookup("SNAKE_AUTOPILOT"); ok {
		c.Autopilot = v
	}
	if v, ok := lookup("SNAKE_SPECTATE"); ok {
		c.SpectateAddr = v
	}
	if v, ok := lookup("SNAKE_STATS"); ok {
		c.StatsFile = v
	}
	if v, ok := lookup("SNAKE_QTABLE"); ok {
		c.QTableFile = v
	}

	ints := map[string]*int{
		"SNAKE_WIDTH": &c.Width,
		"SNAKE_TRAIN": &c.Train,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "%s", key)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"SNAKE_SOUND":       &c.Sound,
		"SNAKE_AVOID_SNAKE": &c.AvoidSnake,
		"SNAKE_DEBUG":       &c.Debug,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrapf(err, "%s", key)
			}
			*dst = b
		}
	}

	if v, ok := lookup("SNAKE_TICK"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "SNAKE_TICK")
		}
		c.TickInterval = d
	}
	if v, ok := lookup("SNAKE_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "SNAKE_SEED")
		}
		c.Seed = n
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.Width < 2 {
		return fmt.Errorf("width must be at least 2, got %d", c.Width)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.TickInterval)
	}
	switch c.Frontend {
	case FrontendRaylib, FrontendTerminal:
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}
	switch c.Autopilot {
	case PilotNone, PilotAStar, PilotQLearn:
	default:
		return fmt.Errorf("unknown autopilot %q", c.Autopilot)
	}
	if c.Train < 0 {
		return fmt.Errorf("train episodes must not be negative, got %d", c.Train)
	}
	return nil
}
