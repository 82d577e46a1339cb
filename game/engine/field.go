package engine

import "fmt"

// RandSource is the random number source used for placement and rabbit
// movement. *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Field is a rows x cols grid where every cell holds at most one entity
type Field struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells [][]Cell `json:"cells"`
}

// NewField creates an empty field
func NewField(rows, cols int) (*Field, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: field size must be positive, got %dx%d", ErrInvalidSetupData, rows, cols)
	}
	if rows > MaxFieldSize || cols > MaxFieldSize {
		return nil, fmt.Errorf("%w: field size must be at most %d, got %dx%d", ErrInvalidSetupData, MaxFieldSize, rows, cols)
	}

	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
		for c := range cells[r] {
			cells[r][c] = Cell{Kind: EmptyCell}
		}
	}

	return &Field{Rows: rows, Cols: cols, Cells: cells}, nil
}

// Clone returns a deep copy of the field. Veggie data is copied per cell.
func (f *Field) Clone() *Field {
	cells := make([][]Cell, len(f.Cells))
	for r, row := range f.Cells {
		cells[r] = make([]Cell, len(row))
		for c, cell := range row {
			if cell.Veggie != nil {
				v := *cell.Veggie
				cell.Veggie = &v
			}
			cells[r][c] = cell
		}
	}
	return &Field{Rows: f.Rows, Cols: f.Cols, Cells: cells}
}

// InBounds reports whether pos lies inside the field
func (f *Field) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < f.Rows && pos.Col >= 0 && pos.Col < f.Cols
}

// At returns the cell at pos. Out of bounds positions read as empty.
func (f *Field) At(pos Position) Cell {
	if !f.InBounds(pos) {
		return Cell{Kind: EmptyCell}
	}
	return f.Cells[pos.Row][pos.Col]
}

// IsEmpty reports whether the cell at pos holds nothing
func (f *Field) IsEmpty(pos Position) bool {
	return f.InBounds(pos) && f.Cells[pos.Row][pos.Col].Kind == EmptyCell
}

// Place puts cell at pos, overwriting whatever was there
func (f *Field) Place(cell Cell, pos Position) error {
	if !f.InBounds(pos) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, pos.Row, pos.Col)
	}
	f.Cells[pos.Row][pos.Col] = cell
	return nil
}

// Clear empties the cell at pos
func (f *Field) Clear(pos Position) {
	if f.InBounds(pos) {
		f.Cells[pos.Row][pos.Col] = Cell{Kind: EmptyCell}
	}
}

// Count returns the number of cells of the given kind
func (f *Field) Count(kind CellKind) int {
	count := 0
	for _, row := range f.Cells {
		for _, cell := range row {
			if cell.Kind == kind {
				count++
			}
		}
	}
	return count
}

// RandomEmptyLocation samples uniformly random cells until an empty one is
// found. ErrFieldFull is returned instead of looping when no cell is empty.
func (f *Field) RandomEmptyLocation(rng RandSource) (Position, error) {
	if f.Count(EmptyCell) == 0 {
		return Position{}, ErrFieldFull
	}

	for {
		pos := Position{Row: rng.IntN(f.Rows), Col: rng.IntN(f.Cols)}
		if f.IsEmpty(pos) {
			return pos, nil
		}
	}
}

// Symbol returns the display symbol of the cell at pos
func (f *Field) Symbol(pos Position) string {
	cell := f.At(pos)
	switch cell.Kind {
	case VeggieCell:
		if cell.Veggie != nil {
			return cell.Veggie.Symbol
		}
	case CaptainCell:
		return CaptainSymbol
	case RabbitCell:
		return RabbitSymbol
	}
	return EmptySymbol
}
