package engine

import (
	"fmt"
	"unicode/utf8"
)

// ValidateGameConfig checks that a configuration can produce a playable field
func ValidateGameConfig(config *GameConfig) error {
	if err := validateLayout(config); err != nil {
		return err
	}

	if config.VeggieCount < 0 {
		return fmt.Errorf("%w: veggie_count cannot be negative, got %d", ErrInvalidSetupData, config.VeggieCount)
	}
	if config.RabbitCount < 0 {
		return fmt.Errorf("%w: rabbit_count cannot be negative, got %d", ErrInvalidSetupData, config.RabbitCount)
	}

	// One spare cell is required so a rabbit always has somewhere to go.
	needed := config.Capacity() + 1
	if capacity := config.Rows * config.Cols; capacity < needed {
		return fmt.Errorf("%w: %dx%d field holds %d cells, need at least %d",
			ErrInvalidSetupData, config.Rows, config.Cols, capacity, needed)
	}

	return nil
}

// validateLayout checks the field size and the catalog only
func validateLayout(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidSetupData)
	}

	if config.Rows <= 0 || config.Cols <= 0 {
		return fmt.Errorf("%w: field size must be positive, got %dx%d", ErrInvalidSetupData, config.Rows, config.Cols)
	}
	if config.Rows > MaxFieldSize || config.Cols > MaxFieldSize {
		return fmt.Errorf("%w: field size must be at most %dx%d, got %dx%d",
			ErrInvalidSetupData, MaxFieldSize, MaxFieldSize, config.Rows, config.Cols)
	}

	if len(config.Veggies) == 0 {
		return fmt.Errorf("%w: veggie catalog is empty", ErrInvalidSetupData)
	}
	for i, v := range config.Veggies {
		if v.Name == "" {
			return fmt.Errorf("%w: veggie %d has no name", ErrInvalidSetupData, i+1)
		}
		if utf8.RuneCountInString(v.Symbol) != 1 {
			return fmt.Errorf("%w: veggie %q symbol must be a single character, got %q", ErrInvalidSetupData, v.Name, v.Symbol)
		}
		if v.Symbol == CaptainSymbol || v.Symbol == RabbitSymbol || v.Symbol == EmptySymbol {
			return fmt.Errorf("%w: veggie %q symbol %q is reserved", ErrInvalidSetupData, v.Name, v.Symbol)
		}
		if v.Points <= 0 {
			return fmt.Errorf("%w: veggie %q points must be positive, got %d", ErrInvalidSetupData, v.Name, v.Points)
		}
	}

	return nil
}

// VeggieTotal returns how many veggies setup places. A zero VeggieCount means
// NumberOfVeggies.
func (c *GameConfig) VeggieTotal() int {
	if c.VeggieCount == 0 {
		return NumberOfVeggies
	}
	return c.VeggieCount
}

// RabbitTotal returns how many rabbits setup places. A zero RabbitCount means
// NumberOfRabbits, so a config cannot ask for a rabbit-free field.
func (c *GameConfig) RabbitTotal() int {
	if c.RabbitCount == 0 {
		return NumberOfRabbits
	}
	return c.RabbitCount
}

// Capacity returns how many entities setup will place
func (c *GameConfig) Capacity() int {
	return c.VeggieTotal() + 1 + c.RabbitTotal()
}

// DefaultMessages returns the texts used when a config leaves them blank
func DefaultMessages() Messages {
	return Messages{
		Welcome:   "Welcome to Captain Veggie! Harvest the veggies before the rabbits get in your way.",
		Harvest:   "Delicious vegetable found: %s! Score +%d",
		Rabbit:    "Oops! You stepped on a rabbit. Be careful!",
		CantMove:  "Invalid move. Captain cannot move there.",
		BadInput:  "Invalid input. Please enter W, A, S, or D.",
		GameOver:  "Game Over! Final score: %d",
		Remaining: "Remaining veggies: %d",
	}
}

func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	if m.Welcome == "" {
		m.Welcome = d.Welcome
	}
	if m.Harvest == "" {
		m.Harvest = d.Harvest
	}
	if m.Rabbit == "" {
		m.Rabbit = d.Rabbit
	}
	if m.CantMove == "" {
		m.CantMove = d.CantMove
	}
	if m.BadInput == "" {
		m.BadInput = d.BadInput
	}
	if m.GameOver == "" {
		m.GameOver = d.GameOver
	}
	if m.Remaining == "" {
		m.Remaining = d.Remaining
	}
	return m
}

// DefaultConfig returns the built-in layout used when no layout file is available
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "default",
		Description: "Built-in 10x10 field",
		Rows:        10,
		Cols:        10,
		Veggies: []Veggie{
			{Name: "Broccoli", Symbol: "b", Points: 10},
			{Name: "Carrot", Symbol: "c", Points: 5},
			{Name: "Lettuce", Symbol: "l", Points: 3},
			{Name: "Potato", Symbol: "p", Points: 2},
			{Name: "Zucchini", Symbol: "z", Points: 7},
		},
		Messages: DefaultMessages(),
	}
}

// NewGameState creates a state with an empty field and nothing placed on it.
// Only the field size and the catalog are checked; entity counts are the
// caller's business.
func NewGameState(config *GameConfig) (*GameState, error) {
	if err := validateLayout(config); err != nil {
		return nil, err
	}

	field, err := NewField(config.Rows, config.Cols)
	if err != nil {
		return nil, err
	}

	catalog := make([]Veggie, len(config.Veggies))
	copy(catalog, config.Veggies)

	return &GameState{
		Field:      field,
		Rabbits:    []*Rabbit{},
		Catalog:    catalog,
		Message:    config.Messages.withDefaults().Welcome,
		ConfigName: config.Name,
		History:    []MoveHistoryEntry{},
	}, nil
}

// InitGameStateFromConfig runs setup: veggies first, then the captain, then
// the rabbits, each on a random empty cell.
func InitGameStateFromConfig(config *GameConfig, rng RandSource) (*GameState, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	state, err := NewGameState(config)
	if err != nil {
		return nil, err
	}

	for i := 0; i < config.VeggieTotal(); i++ {
		pos, err := state.Field.RandomEmptyLocation(rng)
		if err != nil {
			return nil, fmt.Errorf("placing veggie %d: %w", i+1, err)
		}
		veggie := state.Catalog[rng.IntN(len(state.Catalog))]
		if err := state.PlaceVeggie(veggie, pos); err != nil {
			return nil, err
		}
	}

	pos, err := state.Field.RandomEmptyLocation(rng)
	if err != nil {
		return nil, fmt.Errorf("placing captain: %w", err)
	}
	if err := state.PlaceCaptain(pos); err != nil {
		return nil, err
	}

	for i := 0; i < config.RabbitTotal(); i++ {
		pos, err := state.Field.RandomEmptyLocation(rng)
		if err != nil {
			return nil, fmt.Errorf("placing rabbit %d: %w", i+1, err)
		}
		if _, err := state.AddRabbit(pos); err != nil {
			return nil, err
		}
	}

	return state, nil
}
