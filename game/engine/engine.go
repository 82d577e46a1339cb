package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() (*GameState, error)
	IsGameOver() bool
	GetScore() int
	GetCaptainPosition() Position
	GetCollected() []Veggie
	RemainingVeggies() int

	// Turn operations
	Move(token string) (MoveResult, error)
	MoveCaptain(token string) (MoveResult, error)
	MoveRabbits() error
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Rendering
	Board() []string
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    RandSource
}

// NewRand returns a seeded random source suitable for the engine
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEngine validates config and runs setup with the given random source.
// A nil source is replaced by one seeded from the clock.
func NewEngine(config *GameConfig, rng RandSource) (*GameEngine, error) {
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}

	state, err := InitGameStateFromConfig(config, rng)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		state:  state,
		config: config,
		rng:    rng,
	}, nil
}

// NewEngineFromState wraps an already populated state, e.g. a hand built
// field or one restored from storage.
func NewEngineFromState(config *GameConfig, state *GameState, rng RandSource) (*GameEngine, error) {
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}
	e := &GameEngine{config: config, rng: rng}
	if err := e.SetState(state); err != nil {
		return nil, err
	}
	return e, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}
	state.GameOver = state.RemainingVeggies() == 0
	e.state = state
	return nil
}

// Reset runs setup again with the same configuration
func (e *GameEngine) Reset() (*GameState, error) {
	state, err := InitGameStateFromConfig(e.config, e.rng)
	if err != nil {
		return nil, err
	}
	e.state = state
	return e.state, nil
}

// IsGameOver reports whether every veggie has been removed from the field
func (e *GameEngine) IsGameOver() bool {
	return e.state.RemainingVeggies() == 0
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetCaptainPosition returns the captain's position
func (e *GameEngine) GetCaptainPosition() Position {
	return e.state.Captain.Pos
}

// GetCollected returns the veggies harvested so far, in order
func (e *GameEngine) GetCollected() []Veggie {
	return e.state.Captain.Collected
}

// RemainingVeggies counts the veggies left on the field
func (e *GameEngine) RemainingVeggies() int {
	return e.state.RemainingVeggies()
}

// Move plays one full turn: the rabbits relocate, then the captain attempts
// the move. An unrecognized token is rejected before anything changes.
// Blocked and out of bounds captain moves still consume the turn.
func (e *GameEngine) Move(token string) (MoveResult, error) {
	from := e.state.Captain.Pos
	if e.IsGameOver() {
		return MoveResult{Outcome: OutcomeGameOver, From: from, To: from}, ErrGameOver
	}

	dir, err := ParseDirection(token)
	if err != nil {
		e.state.Message = messagesFor(e.config).BadInput
		return MoveResult{Outcome: OutcomeInvalidInput, From: from, To: from}, err
	}

	if err := e.state.MoveRabbits(e.rng); err != nil {
		return MoveResult{From: from, To: from}, err
	}

	result, moveErr := e.state.MoveCaptain(dir, e.config)
	e.state.AddMoveToHistory(string(dir), result)
	return result, moveErr
}

// MoveCaptain attempts a captain move without moving the rabbits
func (e *GameEngine) MoveCaptain(token string) (MoveResult, error) {
	from := e.state.Captain.Pos
	if e.IsGameOver() {
		return MoveResult{Outcome: OutcomeGameOver, From: from, To: from}, ErrGameOver
	}

	dir, err := ParseDirection(token)
	if err != nil {
		e.state.Message = messagesFor(e.config).BadInput
		return MoveResult{Outcome: OutcomeInvalidInput, From: from, To: from}, err
	}
	return e.state.MoveCaptain(dir, e.config)
}

// MoveRabbits relocates every rabbit once
func (e *GameEngine) MoveRabbits() error {
	return e.state.MoveRabbits(e.rng)
}

// GetPossibleMoves returns the directions the captain could move right now
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		dr, dc := dir.Delta()
		target := Position{Row: e.state.Captain.Pos.Row + dr, Col: e.state.Captain.Pos.Col + dc}
		if e.state.Field.InBounds(target) && e.state.Field.At(target).Kind != RabbitCell {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.History
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.History) == 0 {
		return nil
	}
	return &e.state.History[len(e.state.History)-1]
}

// Board returns the field as plain rows of symbols
func (e *GameEngine) Board() []string {
	return RenderRows(e.state.Field)
}

// IsRejection reports whether err is one of the recoverable move rejections
func IsRejection(err error) bool {
	return errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrBlockedByRabbit) ||
		errors.Is(err, ErrUnrecognizedDirection)
}
