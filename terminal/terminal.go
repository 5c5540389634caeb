// Package terminal plays a session inside a text terminal. Each grid cell is
// drawn as two blank columns with a true-colour background.
package terminal

import (
	"context"
	"fmt"

	"one-more-snake/ai"
	"one-more-snake/game"
	"one-more-snake/game/types"

	"github.com/gdamore/tcell/v2"
)

const (
	cellColumns = 2
	boardTop    = 2
	boardLeft   = 1
)

var arrowKeys = map[tcell.Key]types.Key{
	tcell.KeyUp:    types.KeyUp,
	tcell.KeyRight: types.KeyRight,
	tcell.KeyDown:  types.KeyDown,
	tcell.KeyLeft:  types.KeyLeft,
}

// Frontend binds a session to a tcell screen.
type Frontend struct {
	screen    tcell.Screen
	session   *game.Session
	pilot     ai.Pilot
	highScore func() int
}

// New returns a frontend drawing on an initialised screen. highScore may be
// nil.
func New(screen tcell.Screen, s *game.Session, pilot ai.Pilot, highScore func() int) *Frontend {
	return &Frontend{
		screen:    screen,
		session:   s,
		pilot:     pilot,
		highScore: highScore,
	}
}

func toTcell(c types.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Draw renders the session onto the screen and shows it.
func (f *Frontend) Draw() {
	best := 0
	if f.highScore != nil {
		best = f.highScore()
	}
	f.drawSnapshot(f.session.Snapshot(), best)
}

func (f *Frontend) drawSnapshot(snap game.Snapshot, best int) {
	f.screen.Clear()
	best = max(best, snap.Score)
	titleStyle := tcell.StyleDefault.Foreground(toTcell(types.ColorTitle)).Bold(true)
	f.drawText(boardLeft, 0, titleStyle, "One More Snake")
	f.drawText(boardLeft, 1, tcell.StyleDefault, fmt.Sprintf("Score %d  Best %d", snap.Score, best))

	grid := snap.Grid()
	for _, cell := range snap.Cells() {
		col, row := grid.Coords(cell.Index)
		style := tcell.StyleDefault.Background(toTcell(cell.Fill()))
		x := boardLeft + col*cellColumns
		y := boardTop + row
		for dx := 0; dx < cellColumns; dx++ {
			f.screen.SetContent(x+dx, y, ' ', nil, style)
		}
	}

	footer := "arrows steer  esc quits"
	if snap.Phase == types.Over {
		footer = "game over  r restarts  esc quits"
	}
	f.drawText(boardLeft, boardTop+grid.Width+1, tcell.StyleDefault, footer)

	f.screen.Show()
}

func (f *Frontend) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		f.screen.SetContent(x+i, y, r, nil, style)
	}
}

// handleInput applies one terminal event. It returns false when the player
// asked to quit.
func (f *Frontend) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if key, ok := arrowKeys[ev.Key()]; ok {
			if f.pilot == nil {
				f.session.SetOrientation(key)
			}
			return true
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'r', 'R':
				f.session.Restart()
			case 'q':
				return false
			}
		}
	case *tcell.EventResize:
		f.screen.Sync()
	}
	return true
}

// Run drives the session until the player quits or ctx is done.
func (f *Frontend) Run(ctx context.Context) error {
	s := f.session
	s.Start()
	defer s.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	f.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-eventChan:
			if !f.handleInput(ev) {
				return nil
			}
			f.Draw()

		case <-s.Ticks():
			ai.Drive(s, f.pilot)
			f.Draw()
		}
	}
}
