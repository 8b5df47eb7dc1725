package desktop

import (
	"github.com/CyberMindX-AI/merrychristmas/game/input"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

const (
	CellSize     = 40
	HeaderHeight = 70
	ButtonSize   = 48
	ButtonGap    = 6
	Margin       = 20
	FooterHeight = 24
)

// Rect is an axis-aligned screen rectangle
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Button is an on-screen arrow button
type Button struct {
	Key   input.Key
	Label string
	Rect  Rect
}

// Layout places the board and the four buttons for a grid of the given size
type Layout struct {
	Width   int
	Height  int
	Board   Rect
	Buttons []Button
}

var buttonLabels = map[input.Key]string{
	input.ButtonUp:    "^",
	input.ButtonDown:  "v",
	input.ButtonLeft:  "<",
	input.ButtonRight: ">",
}

// NewLayout computes the screen layout. The buttons sit in a cross below
// the board, centred horizontally.
func NewLayout(gridWidth, gridHeight int) Layout {
	board := Rect{X: Margin, Y: HeaderHeight, W: gridWidth * CellSize, H: gridHeight * CellSize}

	crossWidth := 3*ButtonSize + 2*ButtonGap
	crossHeight := 2*ButtonSize + ButtonGap

	width := board.W + 2*Margin
	if minWidth := crossWidth + 2*Margin; width < minWidth {
		width = minWidth
		board.X = (width - board.W) / 2
	}

	top := board.Y + board.H + Margin
	left := (width - crossWidth) / 2
	step := ButtonSize + ButtonGap

	positions := map[input.Key]Rect{
		input.ButtonUp:    {X: left + step, Y: top, W: ButtonSize, H: ButtonSize},
		input.ButtonLeft:  {X: left, Y: top + step, W: ButtonSize, H: ButtonSize},
		input.ButtonDown:  {X: left + step, Y: top + step, W: ButtonSize, H: ButtonSize},
		input.ButtonRight: {X: left + 2*step, Y: top + step, W: ButtonSize, H: ButtonSize},
	}

	var buttons []Button
	for _, key := range input.Buttons() {
		buttons = append(buttons, Button{Key: key, Label: buttonLabels[key], Rect: positions[key]})
	}

	return Layout{
		Width:   width,
		Height:  top + crossHeight + Margin + FooterHeight,
		Board:   board,
		Buttons: buttons,
	}
}

// ButtonAt returns the key of the button under the point
func (l Layout) ButtonAt(x, y int) (input.Key, bool) {
	for _, b := range l.Buttons {
		if b.Rect.Contains(x, y) {
			return b.Key, true
		}
	}
	return "", false
}

// CellRect returns the screen rectangle of a grid cell
func (l Layout) CellRect(p maze.Position) Rect {
	return Rect{
		X: l.Board.X + p.X*CellSize,
		Y: l.Board.Y + p.Y*CellSize,
		W: CellSize,
		H: CellSize,
	}
}
