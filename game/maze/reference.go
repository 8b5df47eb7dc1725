package maze

// referenceLayout is the hand-authored greeting maze: start at (0,0), goal at (9,9)
var referenceLayout = [][]int{
	{2, 0, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	{1, 1, 1, 0, 1, 0, 1, 1, 0, 1},
	{1, 0, 0, 0, 0, 0, 1, 0, 0, 1},
	{1, 0, 1, 1, 1, 1, 1, 1, 0, 1},
	{0, 0, 1, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 1, 0, 1, 1, 1, 1, 0, 1},
	{1, 0, 1, 0, 1, 0, 0, 1, 0, 0},
	{1, 0, 0, 0, 0, 0, 0, 0, 1, 0},
	{1, 1, 1, 1, 1, 1, 1, 0, 0, 3},
}

// ReferenceLayout returns a copy of the reference layout literal
func ReferenceLayout() [][]int {
	rows := make([][]int, len(referenceLayout))
	for i, row := range referenceLayout {
		rows[i] = append([]int(nil), row...)
	}
	return rows
}

// Reference builds the 10x10 reference maze
func Reference() *Definition {
	return MustNew(referenceLayout)
}
