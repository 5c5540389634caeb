package ui

import (
	"context"

	"one-more-snake/ai"
	"one-more-snake/game"
	"one-more-snake/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var arrowKeys = map[int32]types.Key{
	rl.KeyUp:    types.KeyUp,
	rl.KeyRight: types.KeyRight,
	rl.KeyDown:  types.KeyDown,
	rl.KeyLeft:  types.KeyLeft,
}

// Run opens a window and plays s until the window closes or ctx is done.
// Ticks come from the session timer; a nil pilot leaves steering to the
// arrow keys. highScore may be nil.
func Run(ctx context.Context, s *game.Session, pilot ai.Pilot, highScore func() int) {
	rl.InitWindow(640, 800, title)
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	renderer := NewRenderer()
	s.Start()
	defer s.Stop()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}

		if rl.IsWindowResized() {
			renderer.UpdateDimensions()
		}

		if pilot == nil {
			for rlKey, key := range arrowKeys {
				if rl.IsKeyPressed(rlKey) {
					s.SetOrientation(key)
				}
			}
		}

		if s.Phase() == types.Over && (rl.IsKeyPressed(rl.KeyR) || renderer.RestartClicked()) {
			s.Restart()
		}

		select {
		case <-s.Ticks():
			ai.Drive(s, pilot)
		default:
		}

		best := 0
		if highScore != nil {
			best = highScore()
		}
		renderer.Draw(s.Snapshot(), best)
	}
}
