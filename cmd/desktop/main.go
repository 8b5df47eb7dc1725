// Command desktop opens the maze in a native window. It runs the game
// service in-process: arrow keys (or WASD) and the four on-screen buttons
// feed the session, R starts over, and the greeting replaces the maze once
// the celebration delay has passed.
//
// Usage:
//
//	desktop [layouts-dir] [layout]
package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/CyberMindX-AI/merrychristmas/desktop"
	"github.com/CyberMindX-AI/merrychristmas/game/config"
	"github.com/CyberMindX-AI/merrychristmas/game/input"
	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/service"
	"github.com/CyberMindX-AI/merrychristmas/game/session"
)

var (
	wallColor    = color.RGBA{40, 60, 45, 255}
	pathColor    = color.RGBA{235, 235, 225, 255}
	startColor   = color.RGBA{120, 170, 230, 255}
	goalColor    = color.RGBA{230, 80, 90, 255}
	playerColor  = color.RGBA{30, 120, 60, 255}
	buttonColor  = color.RGBA{70, 90, 120, 255}
	greetingBack = color.RGBA{150, 20, 30, 255}
)

// keyBindings maps window keys to the keys the session understands
var keyBindings = map[ebiten.Key]input.Key{
	ebiten.KeyArrowUp:    input.ArrowUp,
	ebiten.KeyArrowDown:  input.ArrowDown,
	ebiten.KeyArrowLeft:  input.ArrowLeft,
	ebiten.KeyArrowRight: input.ArrowRight,
	ebiten.KeyW:          input.ArrowUp,
	ebiten.KeyS:          input.ArrowDown,
	ebiten.KeyA:          input.ArrowLeft,
	ebiten.KeyD:          input.ArrowRight,
}

// Window is the ebiten game driving one Model
type Window struct {
	ctx    context.Context
	model  *desktop.Model
	layout desktop.Layout
	grid   *maze.Definition
}

// Update reads keyboard and mouse input once per tick
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		w.model.Reset(w.ctx)
		return nil
	}

	for key, mapped := range keyBindings {
		if inpututil.IsKeyJustPressed(key) {
			w.model.Press(w.ctx, mapped)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if key, ok := w.layout.ButtonAt(x, y); ok {
			w.model.Press(w.ctx, key)
		}
	}
	return nil
}

// Draw paints the current view
func (w *Window) Draw(screen *ebiten.Image) {
	view := w.model.View()
	if view.Screen == desktop.ScreenGreeting {
		w.drawGreeting(screen, view)
		return
	}

	ebitenutil.DebugPrintAt(screen, view.Messages.Title, desktop.Margin, 10)
	ebitenutil.DebugPrintAt(screen, view.Status, desktop.Margin, 30)
	if view.State != nil {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("Moves: %d  Position: %s", view.State.Moves, view.State.Position),
			desktop.Margin, 50)
	}

	for y := 0; y < w.grid.Height(); y++ {
		for x := 0; x < w.grid.Width(); x++ {
			pos := maze.Position{X: x, Y: y}
			kind, _ := w.grid.CellAt(x, y)
			fillRect(screen, w.layout.CellRect(pos), 1, cellColor(kind))
		}
	}

	if view.State != nil {
		fillRect(screen, w.layout.CellRect(view.State.Position), 8, playerColor)
	}

	for _, b := range w.layout.Buttons {
		fillRect(screen, b.Rect, 0, buttonColor)
		ebitenutil.DebugPrintAt(screen, b.Label, b.Rect.X+b.Rect.W/2-3, b.Rect.Y+b.Rect.H/2-8)
	}

	ebitenutil.DebugPrintAt(screen, "Arrows/WASD/buttons: Move | R: Reset | ESC: Quit", 10, w.layout.Height-desktop.FooterHeight+4)
}

func (w *Window) drawGreeting(screen *ebiten.Image, view desktop.View) {
	screen.Fill(greetingBack)
	ebitenutil.DebugPrintAt(screen, view.Messages.Won, w.layout.Width/2-3*len(view.Messages.Won), w.layout.Height/2-8)
	ebitenutil.DebugPrintAt(screen, "R: Play again | ESC: Quit", 10, w.layout.Height-desktop.FooterHeight+4)
}

// Layout keeps the logical screen fixed
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.layout.Width, w.layout.Height
}

// fillRect draws r shrunk by inset on every side
func fillRect(screen *ebiten.Image, r desktop.Rect, inset int, clr color.Color) {
	ebitenutil.DrawRect(screen,
		float64(r.X+inset), float64(r.Y+inset),
		float64(r.W-2*inset), float64(r.H-2*inset),
		clr)
}

func cellColor(kind maze.CellKind) color.Color {
	switch kind {
	case maze.Wall:
		return wallColor
	case maze.Start:
		return startColor
	case maze.Goal:
		return goalColor
	default:
		return pathColor
	}
}

func main() {
	layoutsDir := "configs"
	if len(os.Args) > 1 {
		layoutsDir = os.Args[1]
	}
	layoutName := config.ReferenceName
	if len(os.Args) > 2 {
		layoutName = os.Args[2]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configs, err := config.NewManager(layoutsDir)
	if err != nil {
		log.Fatalf("Failed to create config manager: %v", err)
	}

	sessions := session.NewManager(ctx)
	defer sessions.CloseAll()

	svc := service.NewGameService(sessions, configs)
	model, err := desktop.NewModel(ctx, svc, layoutName)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	view := model.View()
	grid, err := maze.New(view.State.Grid)
	if err != nil {
		log.Fatalf("Invalid maze: %v", err)
	}

	window := &Window{
		ctx:    ctx,
		model:  model,
		layout: desktop.NewLayout(grid.Width(), grid.Height()),
		grid:   grid,
	}

	ebiten.SetWindowSize(window.layout.Width, window.layout.Height)
	ebiten.SetWindowTitle(view.Messages.Title)

	if err := ebiten.RunGame(window); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
