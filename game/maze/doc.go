// Package maze provides the static maze topology used by the greeting puzzle.
//
// A Definition is an immutable, rectangular grid of cell kinds built once
// from a literal layout of small integers:
//
//	0 = path, 1 = wall, 2 = start, 3 = goal
//
// Construction validates the layout and fails with ErrInvalidLayout when the
// grid is empty or ragged, contains unknown values, does not hold exactly one
// start and one goal, or when the goal cannot be reached from the start.
//
// Usage:
//
//	def, err := maze.New([][]int{
//		{2, 0, 1},
//		{1, 0, 1},
//		{1, 0, 3},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	kind, err := def.CellAt(1, 2)
//
// The reference 10x10 layout is available through Reference.
package maze
