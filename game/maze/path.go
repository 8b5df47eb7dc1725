package maze

// pathStep records how a cell was first reached during a search
type pathStep struct {
	prev Position
	dir  Direction
}

// ShortestPath finds a shortest sequence of moves from one cell to another
// through passable cells. It returns false when no route exists.
func (d *Definition) ShortestPath(from, to Position) ([]Direction, bool) {
	if !d.passable(from) || !d.passable(to) {
		return nil, false
	}

	visited := map[Position]pathStep{from: {}}
	queue := []Position{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == to {
			return d.unwind(visited, from, to), true
		}

		for _, dir := range Directions {
			next := cur.Add(dir)
			if _, seen := visited[next]; seen || !d.passable(next) {
				continue
			}
			visited[next] = pathStep{prev: cur, dir: dir}
			queue = append(queue, next)
		}
	}

	return nil, false
}

// Reachable returns every passable cell connected to from
func (d *Definition) Reachable(from Position) map[Position]bool {
	reached := map[Position]bool{}
	if !d.passable(from) {
		return reached
	}

	stack := []Position{from}
	reached[from] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, dir := range Directions {
			next := cur.Add(dir)
			if !reached[next] && d.passable(next) {
				reached[next] = true
				stack = append(stack, next)
			}
		}
	}
	return reached
}

// DeadEnds returns passable cells, other than start and goal, with a single open neighbour
func (d *Definition) DeadEnds() []Position {
	var ends []Position
	for y, row := range d.grid {
		for x, kind := range row {
			if kind != Path {
				continue
			}
			p := Position{X: x, Y: y}
			if len(d.OpenNeighbours(p)) == 1 {
				ends = append(ends, p)
			}
		}
	}
	return ends
}

func (d *Definition) passable(p Position) bool {
	kind, err := d.CellAt(p.X, p.Y)
	return err == nil && kind.Passable()
}

func (d *Definition) unwind(visited map[Position]pathStep, from, to Position) []Direction {
	var reversed []Direction
	for cur := to; cur != from; {
		s := visited[cur]
		reversed = append(reversed, s.dir)
		cur = s.prev
	}

	path := make([]Direction, len(reversed))
	for i, dir := range reversed {
		path[len(reversed)-1-i] = dir
	}
	return path
}
