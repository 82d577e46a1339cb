package engine

import "strings"

// RenderRows returns one string per field row, one symbol per cell
func RenderRows(f *Field) []string {
	rows := make([]string, f.Rows)
	var b strings.Builder
	for r := 0; r < f.Rows; r++ {
		b.Reset()
		for c := 0; c < f.Cols; c++ {
			b.WriteString(f.Symbol(Position{Row: r, Col: c}))
		}
		rows[r] = b.String()
	}
	return rows
}

// TotalPoints sums the points of the given veggies
func TotalPoints(veggies []Veggie) int {
	total := 0
	for _, v := range veggies {
		total += v.Points
	}
	return total
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// FindNearestVeggie finds the closest veggie to the captain and returns its
// position and distance
func FindNearestVeggie(state *GameState) (Position, int, bool) {
	minDistance := -1
	var nearest Position
	found := false

	for r, row := range state.Field.Cells {
		for c, cell := range row {
			if cell.Kind != VeggieCell {
				continue
			}
			pos := Position{Row: r, Col: c}
			distance := ManhattanDistance(state.Captain.Pos, pos)
			if minDistance == -1 || distance < minDistance {
				minDistance = distance
				nearest = pos
				found = true
			}
		}
	}

	return nearest, minDistance, found
}
