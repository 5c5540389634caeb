package ui

import (
	"fmt"

	"one-more-snake/game"
	"one-more-snake/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	borderPadding = 10 // Padding around game area
	headerHeight  = 60
	scoreHeight   = 40
	buttonHeight  = 50
	title         = "One More Snake"
)

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
	restartButton   rl.Rectangle
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
}

func toRL(c types.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// layout fits a width x width board below the header, leaving room for the
// restart button underneath.
func (r *Renderer) layout(width int) {
	availableWidth := r.screenWidth - (borderPadding * 2)
	availableHeight := r.screenHeight - headerHeight - scoreHeight - buttonHeight - (borderPadding * 4)

	r.cellSize = min(availableWidth, availableHeight) / int32(width)
	if r.cellSize < 1 {
		r.cellSize = 1
	}
	r.totalGridWidth = r.cellSize * int32(width)
	r.totalGridHeight = r.cellSize * int32(width)

	r.offsetX = (r.screenWidth - r.totalGridWidth) / 2
	r.offsetY = headerHeight + scoreHeight + borderPadding*2

	buttonWidth := float32(r.screenWidth / 3)
	r.restartButton = rl.Rectangle{
		X:      float32(r.screenWidth)/2 - buttonWidth/2,
		Y:      float32(r.offsetY + r.totalGridHeight + borderPadding),
		Width:  buttonWidth,
		Height: buttonHeight,
	}
}

func (r *Renderer) Draw(snap game.Snapshot, highScore int) {
	r.UpdateDimensions()
	r.layout(snap.Width)

	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.RayWhite)

	r.drawHeader()

	fontSize := int32(scoreHeight * 3 / 4)
	score := fmt.Sprintf("Score %d", snap.Score)
	if highScore > 0 {
		score = fmt.Sprintf("Score %d  (best %d)", snap.Score, max(highScore, snap.Score))
	}
	scoreWidth := rl.MeasureText(score, fontSize)
	rl.DrawText(score, (r.screenWidth-scoreWidth)/2, headerHeight+borderPadding, fontSize, rl.Black)

	// Draw grid background
	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.Black)

	grid := snap.Grid()
	for _, cell := range snap.Cells() {
		col, row := grid.Coords(cell.Index)
		x := r.offsetX + int32(col)*r.cellSize
		y := r.offsetY + int32(row)*r.cellSize
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, toRL(cell.Fill()))
		rl.DrawRectangleLines(x, y, r.cellSize, r.cellSize, rl.Black)
		if cell.Head && !cell.Food {
			r.drawHeading(x, y, snap.Orientation, grid)
		}
	}

	if snap.Phase == types.Over {
		r.drawRestartButton()
	}
}

func (r *Renderer) drawHeader() {
	rl.DrawRectangle(0, 0, r.screenWidth, headerHeight, toRL(types.ColorTitle))
	fontSize := int32(headerHeight / 2)
	titleWidth := rl.MeasureText(title, fontSize)
	rl.DrawText(title, (r.screenWidth-titleWidth)/2, (headerHeight-fontSize)/2, fontSize, rl.White)
}

// drawHeading marks the head cell with a triangle pointing where it moves.
func (r *Renderer) drawHeading(headX, headY int32, orientation types.Orientation, grid types.Grid) {
	halfCell := r.cellSize / 2
	switch types.KeyFor(grid, orientation) {
	case types.KeyRight:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Yellow)
	case types.KeyLeft:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Yellow)
	case types.KeyDown:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + r.cellSize)},
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Yellow)
	case types.KeyUp:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + r.cellSize), Y: float32(headY + halfCell)},
			rl.Yellow)
	}
}

func (r *Renderer) drawRestartButton() {
	b := r.restartButton
	color := rl.LightGray
	if rl.CheckCollisionPointRec(rl.GetMousePosition(), b) {
		color = rl.Gray
	}
	rl.DrawRectangleRec(b, color)
	rl.DrawRectangleLinesEx(b, 2, rl.Black)

	fontSize := int32(buttonHeight / 2)
	textWidth := rl.MeasureText("Restart", fontSize)
	rl.DrawText("Restart",
		int32(b.X)+(int32(b.Width)-textWidth)/2,
		int32(b.Y)+(int32(b.Height)-fontSize)/2,
		fontSize, rl.Black)
}

// RestartClicked reports whether the restart button was clicked this frame.
func (r *Renderer) RestartClicked() bool {
	return rl.IsMouseButtonPressed(rl.MouseLeftButton) &&
		rl.CheckCollisionPointRec(rl.GetMousePosition(), r.restartButton)
}
