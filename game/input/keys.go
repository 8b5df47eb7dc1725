package input

import (
	"strings"

	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

// Key is a raw input stimulus: a keyboard key name or a button label
type Key string

// Keyboard keys
const (
	ArrowUp    Key = "ArrowUp"
	ArrowDown  Key = "ArrowDown"
	ArrowLeft  Key = "ArrowLeft"
	ArrowRight Key = "ArrowRight"
)

// On-screen buttons
const (
	ButtonUp    Key = "up"
	ButtonDown  Key = "down"
	ButtonLeft  Key = "left"
	ButtonRight Key = "right"
)

var keyDirections = map[Key]maze.Direction{
	ArrowUp:     maze.Up,
	ArrowDown:   maze.Down,
	ArrowLeft:   maze.Left,
	ArrowRight:  maze.Right,
	ButtonUp:    maze.Up,
	ButtonDown:  maze.Down,
	ButtonLeft:  maze.Left,
	ButtonRight: maze.Right,
}

// Direction maps a key to a maze direction. Arrow keys match exactly,
// button labels case-insensitively. ok is false for keys with no meaning.
func (k Key) Direction() (maze.Direction, bool) {
	if dir, ok := keyDirections[k]; ok {
		return dir, true
	}
	dir, ok := keyDirections[Key(strings.ToLower(strings.TrimSpace(string(k))))]
	return dir, ok
}

// Buttons returns the on-screen button keys in display order
func Buttons() []Key {
	return []Key{ButtonUp, ButtonDown, ButtonLeft, ButtonRight}
}
