package maze

import (
	"fmt"
	"strings"
)

// Definition is an immutable maze grid with its start and goal cells
type Definition struct {
	width  int
	height int
	grid   [][]CellKind
	start  Position
	goal   Position
}

// New validates a row-major layout and builds a Definition from it.
// The layout is copied; later changes to the slice do not affect the maze.
func New(layout [][]int) (*Definition, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, fmt.Errorf("%w: layout must have at least one row and one column", ErrInvalidLayout)
	}

	height := len(layout)
	width := len(layout[0])
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d exceed the maximum of %d", ErrInvalidLayout, width, height, MaxDimension)
	}

	def := &Definition{
		width:  width,
		height: height,
		grid:   make([][]CellKind, height),
	}

	starts, goals := 0, 0
	for y, row := range layout {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidLayout, y, len(row), width)
		}

		def.grid[y] = make([]CellKind, width)
		for x, value := range row {
			kind := CellKind(value)
			if !kind.Valid() {
				return nil, fmt.Errorf("%w: unknown cell value %d at (%d,%d)", ErrInvalidLayout, value, x, y)
			}
			def.grid[y][x] = kind

			switch kind {
			case Start:
				def.start = Position{X: x, Y: y}
				starts++
			case Goal:
				def.goal = Position{X: x, Y: y}
				goals++
			}
		}
	}

	if starts != 1 {
		return nil, fmt.Errorf("%w: layout must contain exactly one start cell, found %d", ErrInvalidLayout, starts)
	}
	if goals != 1 {
		return nil, fmt.Errorf("%w: layout must contain exactly one goal cell, found %d", ErrInvalidLayout, goals)
	}

	if _, ok := def.ShortestPath(def.start, def.goal); !ok {
		return nil, fmt.Errorf("%w: goal %s is unreachable from start %s", ErrInvalidLayout, def.goal, def.start)
	}

	return def, nil
}

// MustNew is like New but panics on an invalid layout.
// Intended for package-level literals.
func MustNew(layout [][]int) *Definition {
	def, err := New(layout)
	if err != nil {
		panic(err)
	}
	return def
}

// Width returns the number of columns
func (d *Definition) Width() int {
	return d.width
}

// Height returns the number of rows
func (d *Definition) Height() int {
	return d.height
}

// Start returns the coordinate of the start cell
func (d *Definition) Start() Position {
	return d.start
}

// Goal returns the coordinate of the goal cell
func (d *Definition) Goal() Position {
	return d.goal
}

// InBounds reports whether (x,y) lies inside the grid
func (d *Definition) InBounds(x, y int) bool {
	return x >= 0 && x < d.width && y >= 0 && y < d.height
}

// CellAt returns the kind of the cell at (x,y)
func (d *Definition) CellAt(x, y int) (CellKind, error) {
	if !d.InBounds(x, y) {
		return Wall, fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrOutOfBounds, x, y, d.width, d.height)
	}
	return d.grid[y][x], nil
}

// Rows returns a copy of the layout in its integer wire format
func (d *Definition) Rows() [][]int {
	rows := make([][]int, d.height)
	for y := range d.grid {
		rows[y] = make([]int, d.width)
		for x, kind := range d.grid[y] {
			rows[y][x] = int(kind)
		}
	}
	return rows
}

// OpenCells counts every non-wall cell
func (d *Definition) OpenCells() int {
	count := 0
	for _, row := range d.grid {
		for _, kind := range row {
			if kind != Wall {
				count++
			}
		}
	}
	return count
}

// OpenNeighbours returns the directions from p that lead to a passable cell
func (d *Definition) OpenNeighbours(p Position) []Direction {
	var open []Direction
	for _, dir := range Directions {
		next := p.Add(dir)
		if kind, err := d.CellAt(next.X, next.Y); err == nil && kind.Passable() {
			open = append(open, dir)
		}
	}
	return open
}

// String renders the maze as text: '#' wall, '.' path, 'S' start, 'G' goal
func (d *Definition) String() string {
	return d.Render(Position{X: -1, Y: -1})
}

// Render is like String but marks the player position with '@'
func (d *Definition) Render(player Position) string {
	var b strings.Builder
	for y, row := range d.grid {
		for x, kind := range row {
			if player.X == x && player.Y == y {
				b.WriteByte('@')
				continue
			}
			b.WriteByte(kindChar(kind))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func kindChar(kind CellKind) byte {
	switch kind {
	case Wall:
		return '#'
	case Start:
		return 'S'
	case Goal:
		return 'G'
	default:
		return '.'
	}
}
