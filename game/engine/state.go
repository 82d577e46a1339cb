package engine

import (
	"errors"
	"fmt"
)

// PlaceVeggie puts a veggie on an empty cell
func (gs *GameState) PlaceVeggie(veggie Veggie, pos Position) error {
	if !gs.Field.IsEmpty(pos) {
		return fmt.Errorf("%w: cell (%d,%d) is not empty", ErrInvalidSetupData, pos.Row, pos.Col)
	}
	v := veggie
	return gs.Field.Place(Cell{Kind: VeggieCell, Veggie: &v}, pos)
}

// PlaceCaptain puts the captain on an empty cell. It fails if the captain
// has already been placed.
func (gs *GameState) PlaceCaptain(pos Position) error {
	if gs.Captain != nil {
		return fmt.Errorf("%w: captain already placed", ErrInvalidSetupData)
	}
	if !gs.Field.IsEmpty(pos) {
		return fmt.Errorf("%w: cell (%d,%d) is not empty", ErrInvalidSetupData, pos.Row, pos.Col)
	}
	if err := gs.Field.Place(Cell{Kind: CaptainCell}, pos); err != nil {
		return err
	}
	gs.Captain = &Captain{Pos: pos, Collected: []Veggie{}}
	return nil
}

// AddRabbit puts a new rabbit on an empty cell and returns it
func (gs *GameState) AddRabbit(pos Position) (*Rabbit, error) {
	if !gs.Field.IsEmpty(pos) {
		return nil, fmt.Errorf("%w: cell (%d,%d) is not empty", ErrInvalidSetupData, pos.Row, pos.Col)
	}
	rabbit := &Rabbit{ID: len(gs.Rabbits), Pos: pos}
	if err := gs.Field.Place(Cell{Kind: RabbitCell, RabbitID: rabbit.ID}, pos); err != nil {
		return nil, err
	}
	gs.Rabbits = append(gs.Rabbits, rabbit)
	return rabbit, nil
}

// RemainingVeggies counts the veggie cells still on the field
func (gs *GameState) RemainingVeggies() int {
	return gs.Field.Count(VeggieCell)
}

// Validate checks that every creature sits on the one cell that references it
// and that nothing else on the field claims to be a creature.
func (gs *GameState) Validate() error {
	if gs.Field == nil {
		return errors.New("state has no field")
	}
	if gs.Captain == nil {
		return errors.New("state has no captain")
	}
	if len(gs.Field.Cells) != gs.Field.Rows {
		return fmt.Errorf("field has %d rows, expected %d", len(gs.Field.Cells), gs.Field.Rows)
	}
	for r, row := range gs.Field.Cells {
		if len(row) != gs.Field.Cols {
			return fmt.Errorf("field row %d has %d cells, expected %d", r, len(row), gs.Field.Cols)
		}
	}

	if cell := gs.Field.At(gs.Captain.Pos); !gs.Field.InBounds(gs.Captain.Pos) || cell.Kind != CaptainCell {
		return fmt.Errorf("captain at (%d,%d) is not on its cell", gs.Captain.Pos.Row, gs.Captain.Pos.Col)
	}
	for i, rabbit := range gs.Rabbits {
		if rabbit.ID != i {
			return fmt.Errorf("rabbit %d has id %d", i, rabbit.ID)
		}
		cell := gs.Field.At(rabbit.Pos)
		if !gs.Field.InBounds(rabbit.Pos) || cell.Kind != RabbitCell || cell.RabbitID != rabbit.ID {
			return fmt.Errorf("rabbit %d at (%d,%d) is not on its cell", rabbit.ID, rabbit.Pos.Row, rabbit.Pos.Col)
		}
	}

	if n := gs.Field.Count(CaptainCell); n != 1 {
		return fmt.Errorf("field holds %d captain cells", n)
	}
	if n := gs.Field.Count(RabbitCell); n != len(gs.Rabbits) {
		return fmt.Errorf("field holds %d rabbit cells for %d rabbits", n, len(gs.Rabbits))
	}
	for r, row := range gs.Field.Cells {
		for c, cell := range row {
			switch cell.Kind {
			case EmptyCell, CaptainCell, RabbitCell:
			case VeggieCell:
				if cell.Veggie == nil {
					return fmt.Errorf("veggie cell (%d,%d) has no veggie", r, c)
				}
			default:
				return fmt.Errorf("cell (%d,%d) has unknown kind %q", r, c, cell.Kind)
			}
		}
	}

	return nil
}

// Clone returns a deep copy of the state. Callers that hand a state to
// another goroutine pass a clone so later turns do not mutate it.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}

	clone := *gs
	if gs.Field != nil {
		clone.Field = gs.Field.Clone()
	}
	if gs.Captain != nil {
		captain := *gs.Captain
		captain.Collected = cloneSlice(gs.Captain.Collected)
		clone.Captain = &captain
	}
	if gs.Rabbits != nil {
		clone.Rabbits = make([]*Rabbit, len(gs.Rabbits))
		for i, rabbit := range gs.Rabbits {
			r := *rabbit
			clone.Rabbits[i] = &r
		}
	}
	clone.Catalog = cloneSlice(gs.Catalog)
	clone.History = cloneSlice(gs.History)
	return &clone
}

// cloneSlice copies s, keeping nil and empty slices apart
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
