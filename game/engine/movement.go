package engine

import (
	"fmt"
	"strings"
	"time"
)

// Direction is a single step displacement of the captain
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid direction
var Directions = []Direction{Up, Down, Left, Right}

// Outcome classifies what a captain move did
type Outcome string

const (
	OutcomeMoved         Outcome = "moved"
	OutcomeHarvested     Outcome = "harvested"
	OutcomeBlockedRabbit Outcome = "blocked_rabbit"
	OutcomeOutOfBounds   Outcome = "out_of_bounds"
	OutcomeInvalidInput  Outcome = "invalid_input"
	OutcomeGameOver      Outcome = "game_over"
)

// ParseDirection maps an input token onto a direction. Accepted tokens are
// up/down/left/right and w/s/a/d, case insensitive.
func ParseDirection(token string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "up", "w":
		return Up, nil
	case "down", "s":
		return Down, nil
	case "left", "a":
		return Left, nil
	case "right", "d":
		return Right, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedDirection, token)
}

// Delta returns the row and column displacement of the direction
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// MoveResult describes a single captain move
type MoveResult struct {
	Outcome Outcome  `json:"outcome"`
	From    Position `json:"from"`
	To      Position `json:"to"`
	Veggie  *Veggie  `json:"veggie,omitempty"`
	Points  int      `json:"points,omitempty"`
}

// Success reports whether the captain actually changed cells
func (r MoveResult) Success() bool {
	return r.Outcome == OutcomeMoved || r.Outcome == OutcomeHarvested
}

// MoveCaptain attempts a single step. Exactly one of four outcomes happens:
// out of bounds, empty target, veggie target or rabbit target. Rejected moves
// leave the field untouched and return ErrOutOfBounds or ErrBlockedByRabbit.
func (gs *GameState) MoveCaptain(dir Direction, config *GameConfig) (MoveResult, error) {
	msgs := messagesFor(config)
	from := gs.Captain.Pos
	result := MoveResult{From: from, To: from}

	dr, dc := dir.Delta()
	if dr == 0 && dc == 0 {
		result.Outcome = OutcomeInvalidInput
		gs.Message = msgs.BadInput
		return result, fmt.Errorf("%w: %q", ErrUnrecognizedDirection, string(dir))
	}

	target := Position{Row: from.Row + dr, Col: from.Col + dc}
	result.To = target

	if !gs.Field.InBounds(target) {
		result.Outcome = OutcomeOutOfBounds
		gs.Message = msgs.CantMove
		return result, fmt.Errorf("%w: (%d,%d) moving %s", ErrOutOfBounds, target.Row, target.Col, dir)
	}

	cell := gs.Field.At(target)
	switch cell.Kind {
	case EmptyCell:
		gs.relocateCaptain(target)
		result.Outcome = OutcomeMoved
		gs.Message = fmt.Sprintf(msgs.Remaining, gs.RemainingVeggies())

	case VeggieCell:
		veggie := *cell.Veggie
		gs.Captain.Collected = append(gs.Captain.Collected, veggie)
		gs.Score += veggie.Points
		gs.relocateCaptain(target)
		result.Outcome = OutcomeHarvested
		result.Veggie = &veggie
		result.Points = veggie.Points
		gs.Message = fmt.Sprintf(msgs.Harvest, veggie.Name, veggie.Points)

	case RabbitCell:
		result.Outcome = OutcomeBlockedRabbit
		gs.Message = msgs.Rabbit
		return result, fmt.Errorf("%w: rabbit %d at (%d,%d)", ErrBlockedByRabbit, cell.RabbitID, target.Row, target.Col)

	default:
		// The captain never shares a cell with itself; anything else is corrupt state.
		result.Outcome = OutcomeOutOfBounds
		gs.Message = msgs.CantMove
		return result, fmt.Errorf("%w: cell (%d,%d) holds %q", ErrOutOfBounds, target.Row, target.Col, cell.Kind)
	}

	if gs.RemainingVeggies() == 0 {
		gs.GameOver = true
		gs.Message = fmt.Sprintf(msgs.GameOver, gs.Score)
	}

	return result, nil
}

// relocateCaptain moves the captain to target, overwriting what was there
func (gs *GameState) relocateCaptain(target Position) {
	from := gs.Captain.Pos
	gs.Field.Cells[target.Row][target.Col] = Cell{Kind: CaptainCell}
	gs.Field.Clear(from)
	gs.Captain.Pos = target
}

// MoveRabbits relocates every rabbit, in order, to a random empty cell. The
// new cell is chosen before the old one is vacated so a rabbit never stays
// put, and since only empty cells are targeted rabbits never land on veggies.
func (gs *GameState) MoveRabbits(rng RandSource) error {
	for _, rabbit := range gs.Rabbits {
		target, err := gs.Field.RandomEmptyLocation(rng)
		if err != nil {
			return fmt.Errorf("moving rabbit %d: %w", rabbit.ID, err)
		}
		gs.Field.Clear(rabbit.Pos)
		gs.Field.Cells[target.Row][target.Col] = Cell{Kind: RabbitCell, RabbitID: rabbit.ID}
		rabbit.Pos = target
	}
	return nil
}

// AddMoveToHistory appends a turn to the history
func (gs *GameState) AddMoveToHistory(action string, result MoveResult) {
	entry := MoveHistoryEntry{
		Action:       action,
		Outcome:      result.Outcome,
		FromPosition: result.From,
		ToPosition:   result.To,
		Points:       result.Points,
		Score:        gs.Score,
		Timestamp:    time.Now().Unix(),
		Success:      result.Success(),
		MoveNumber:   gs.Turn + 1,
	}
	if result.Veggie != nil {
		entry.Veggie = result.Veggie.Name
	}
	gs.History = append(gs.History, entry)
	gs.Turn++
}

func messagesFor(config *GameConfig) Messages {
	if config == nil {
		return DefaultMessages()
	}
	return config.Messages.withDefaults()
}
