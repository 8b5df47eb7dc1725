package maze

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CellKind is the static role of a grid cell
type CellKind int

const (
	Path  CellKind = 0
	Wall  CellKind = 1
	Start CellKind = 2
	Goal  CellKind = 3

	// Validation constants
	MaxDimension = 50
)

var (
	ErrInvalidLayout    = errors.New("invalid maze layout")
	ErrOutOfBounds      = errors.New("position out of bounds")
	ErrUnknownDirection = errors.New("unknown direction")
)

var cellKindNames = map[CellKind]string{
	Path:  "path",
	Wall:  "wall",
	Start: "start",
	Goal:  "goal",
}

func (k CellKind) String() string {
	if name, ok := cellKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

// Valid reports whether k is one of the four layout values
func (k CellKind) Valid() bool {
	_, ok := cellKindNames[k]
	return ok
}

// Passable reports whether the player may stand on a cell of this kind
func (k CellKind) Passable() bool {
	return k.Valid() && k != Wall
}

// MarshalJSON encodes the kind by name
func (k CellKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts either the name or the layout integer
func (k *CellKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for kind, n := range cellKindNames {
			if n == name {
				*k = kind
				return nil
			}
		}
		return fmt.Errorf("unknown cell kind %q", name)
	}

	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if !CellKind(value).Valid() {
		return fmt.Errorf("unknown cell kind %d", value)
	}
	*k = CellKind(value)
	return nil
}

// Position represents x,y coordinates (x is the column, y the row)
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position displaced by d
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a unit displacement in one of the four cardinal directions
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// Directions lists the four unit directions in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// IsUnit reports whether d is one of Up, Down, Left or Right
func (d Direction) IsUnit() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
}

// ParseDirection converts up/down/left/right (any case) to a Direction
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Direction{}, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}
