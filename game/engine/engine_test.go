package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// createTestConfig creates a small but fully populated configuration
func createTestConfig() *GameConfig {
	return &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine testing",
		Rows:        8,
		Cols:        8,
		Veggies:     testCatalog,
		VeggieCount: 10,
		RabbitCount: 3,
	}
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config, NewRand(7))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	state := engine.GetState()
	if state == nil {
		t.Fatal("Engine state should not be nil")
	}
	if state.Field.Rows != config.Rows || state.Field.Cols != config.Cols {
		t.Errorf("Expected %dx%d field, got %dx%d", config.Rows, config.Cols, state.Field.Rows, state.Field.Cols)
	}
	if got := state.RemainingVeggies(); got != config.VeggieCount {
		t.Errorf("Expected %d veggies, got %d", config.VeggieCount, got)
	}
	if got := state.Field.Count(CaptainCell); got != 1 {
		t.Errorf("Expected exactly one captain cell, got %d", got)
	}
	if got := len(state.Rabbits); got != config.RabbitCount {
		t.Errorf("Expected %d rabbits, got %d", config.RabbitCount, got)
	}
	if got := state.Field.Count(RabbitCell); got != config.RabbitCount {
		t.Errorf("Expected %d rabbit cells, got %d", config.RabbitCount, got)
	}
	if err := state.Validate(); err != nil {
		t.Errorf("Fresh state should validate: %v", err)
	}
	if engine.GetScore() != 0 {
		t.Errorf("Initial score should be 0, got %d", engine.GetScore())
	}
	if engine.IsGameOver() {
		t.Error("Game should not be over initially")
	}
}

func TestNewEngine_DefaultCounts(t *testing.T) {
	engine, err := NewEngine(DefaultConfig(), NewRand(99))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	state := engine.GetState()
	if got := state.RemainingVeggies(); got != NumberOfVeggies {
		t.Errorf("Expected %d veggies, got %d", NumberOfVeggies, got)
	}
	if got := len(state.Rabbits); got != NumberOfRabbits {
		t.Errorf("Expected %d rabbits, got %d", NumberOfRabbits, got)
	}

	// Every veggie on the field comes from the catalog
	catalog := make(map[Veggie]bool)
	for _, v := range state.Catalog {
		catalog[v] = true
	}
	for _, row := range state.Field.Cells {
		for _, cell := range row {
			if cell.Kind == VeggieCell && !catalog[*cell.Veggie] {
				t.Errorf("Veggie %+v is not in the catalog", *cell.Veggie)
			}
		}
	}
}

func TestGameConfig_Totals(t *testing.T) {
	tests := []struct {
		name                     string
		veggies, rabbits         int
		wantVeggies, wantRabbits int
	}{
		{"defaults", 0, 0, NumberOfVeggies, NumberOfRabbits},
		{"explicit", 4, 1, 4, 1},
		{"mixed", 12, 0, 12, NumberOfRabbits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &GameConfig{VeggieCount: tt.veggies, RabbitCount: tt.rabbits}
			if got := config.VeggieTotal(); got != tt.wantVeggies {
				t.Errorf("VeggieTotal() = %d, want %d", got, tt.wantVeggies)
			}
			if got := config.RabbitTotal(); got != tt.wantRabbits {
				t.Errorf("RabbitTotal() = %d, want %d", got, tt.wantRabbits)
			}
			if got := config.Capacity(); got != tt.wantVeggies+1+tt.wantRabbits {
				t.Errorf("Capacity() = %d", got)
			}
		})
	}
}

func TestGameState_Clone(t *testing.T) {
	engine, err := NewEngine(createTestConfig(), NewRand(5))
	if err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{"w", "a", "s", "d", "d", "s"} {
		engine.Move(dir)
	}

	original := engine.GetState()
	clone := original.Clone()
	if !reflect.DeepEqual(original, clone) {
		t.Fatal("Clone should equal the original")
	}
	if err := clone.Validate(); err != nil {
		t.Fatalf("Clone should validate: %v", err)
	}
	snapshot, err := json.Marshal(clone)
	if err != nil {
		t.Fatal(err)
	}

	// Turns on the original leave the clone alone
	for _, dir := range []string{"d", "d", "s", "s", "a", "w", "w"} {
		engine.Move(dir)
	}
	after, err := json.Marshal(clone)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(snapshot, after) {
		t.Error("Clone changed when the original played on")
	}

	// Edits to the clone leave the original alone
	original = engine.GetState()
	before, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	clone = original.Clone()
	clone.Field.Clear(clone.Captain.Pos)
	clone.Captain.Pos = Position{Row: -1, Col: -1}
	clone.Captain.Collected = append(clone.Captain.Collected, testCatalog[0])
	if len(clone.Rabbits) > 0 {
		clone.Rabbits[0].Pos = Position{Row: -1, Col: -1}
	}
	clone.History = append(clone.History, MoveHistoryEntry{Action: "w"})
	if len(clone.Catalog) > 0 {
		clone.Catalog[0].Points = 999
	}
	for _, row := range clone.Field.Cells {
		for _, cell := range row {
			if cell.Veggie != nil {
				cell.Veggie.Points = 999
			}
		}
	}

	if err := original.Validate(); err != nil {
		t.Errorf("Original corrupted through its clone: %v", err)
	}
	now, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, now) {
		t.Error("Original changed through its clone")
	}

	var nilState *GameState
	if nilState.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestNewEngine_Deterministic(t *testing.T) {
	a, err := NewEngine(createTestConfig(), NewRand(42))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEngine(createTestConfig(), NewRand(42))
	if err != nil {
		t.Fatal(err)
	}

	boardA, boardB := a.Board(), b.Board()
	for i := range boardA {
		if boardA[i] != boardB[i] {
			t.Fatalf("Row %d differs with the same seed: %q vs %q", i, boardA[i], boardB[i])
		}
	}
}

func TestNewEngine_InvalidSetup(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GameConfig)
	}{
		{"zero rows", func(c *GameConfig) { c.Rows = 0 }},
		{"negative cols", func(c *GameConfig) { c.Cols = -3 }},
		{"too large", func(c *GameConfig) { c.Rows = MaxFieldSize + 1 }},
		{"empty catalog", func(c *GameConfig) { c.Veggies = nil }},
		{"missing name", func(c *GameConfig) { c.Veggies = []Veggie{{Symbol: "x", Points: 1}} }},
		{"long symbol", func(c *GameConfig) { c.Veggies = []Veggie{{Name: "Yam", Symbol: "ya", Points: 1}} }},
		{"reserved symbol", func(c *GameConfig) { c.Veggies = []Veggie{{Name: "Radish", Symbol: "R", Points: 1}} }},
		{"zero points", func(c *GameConfig) { c.Veggies = []Veggie{{Name: "Yam", Symbol: "y", Points: 0}} }},
		{"negative veggie count", func(c *GameConfig) { c.VeggieCount = -1 }},
		{"field too small", func(c *GameConfig) { c.Rows, c.Cols = 3, 3 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createTestConfig()
			test.modify(config)

			_, err := NewEngine(config, NewRand(1))
			if !errors.Is(err, ErrInvalidSetupData) {
				t.Errorf("Expected ErrInvalidSetupData, got %v", err)
			}
		})
	}

	if _, err := NewEngine(nil, NewRand(1)); !errors.Is(err, ErrInvalidSetupData) {
		t.Errorf("Expected ErrInvalidSetupData for nil config, got %v", err)
	}
}

// buildScenario builds the 3x3 field with one 10 point veggie at (0,2) and the
// captain at (0,0)
func buildScenario(t *testing.T) (*GameEngine, *GameConfig) {
	t.Helper()
	config := &GameConfig{
		Name:    "scenario",
		Rows:    3,
		Cols:    3,
		Veggies: []Veggie{{Name: "Pumpkin", Symbol: "p", Points: 10}},
	}
	state, err := NewGameState(config)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.PlaceVeggie(config.Veggies[0], Position{Row: 0, Col: 2}); err != nil {
		t.Fatal(err)
	}
	if err := state.PlaceCaptain(Position{Row: 0, Col: 0}); err != nil {
		t.Fatal(err)
	}

	engine, err := NewEngineFromState(config, state, NewRand(3))
	if err != nil {
		t.Fatalf("Failed to create engine from state: %v", err)
	}
	return engine, config
}

func TestEngine_Scenario(t *testing.T) {
	engine, _ := buildScenario(t)

	if _, err := engine.Move("d"); err != nil {
		t.Fatalf("First move failed: %v", err)
	}
	if engine.GetCaptainPosition() != (Position{Row: 0, Col: 1}) {
		t.Errorf("Expected captain at (0,1), got %+v", engine.GetCaptainPosition())
	}

	result, err := engine.Move("right")
	if err != nil {
		t.Fatalf("Second move failed: %v", err)
	}
	if result.Outcome != OutcomeHarvested {
		t.Errorf("Expected harvest, got %s", result.Outcome)
	}
	if engine.GetScore() != 10 {
		t.Errorf("Expected score 10, got %d", engine.GetScore())
	}
	if engine.RemainingVeggies() != 0 {
		t.Errorf("Expected 0 remaining, got %d", engine.RemainingVeggies())
	}
	if !engine.IsGameOver() {
		t.Error("Expected game over")
	}
	if len(engine.GetMoveHistory()) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(engine.GetMoveHistory()))
	}

	if _, err := engine.Move("a"); !errors.Is(err, ErrGameOver) {
		t.Errorf("Expected ErrGameOver after the end, got %v", err)
	}
}

func TestEngine_MoveInvalidToken(t *testing.T) {
	engine, err := NewEngine(createTestConfig(), NewRand(5))
	if err != nil {
		t.Fatal(err)
	}
	before := snapshotCells(engine.GetState().Field)

	result, err := engine.Move("x")
	if !errors.Is(err, ErrUnrecognizedDirection) {
		t.Fatalf("Expected ErrUnrecognizedDirection, got %v", err)
	}
	if !IsRejection(err) {
		t.Error("Unrecognized direction should be a rejection")
	}
	if result.Outcome != OutcomeInvalidInput {
		t.Errorf("Expected outcome %s, got %s", OutcomeInvalidInput, result.Outcome)
	}

	after := engine.GetState().Field.Cells
	for r := range before {
		for c := range before[r] {
			if before[r][c].Kind != after[r][c].Kind {
				t.Fatalf("Cell (%d,%d) changed on invalid input", r, c)
			}
		}
	}
	if engine.GetState().Turn != 0 {
		t.Errorf("Invalid input should not consume a turn, turn=%d", engine.GetState().Turn)
	}
	if engine.GetState().Message != DefaultMessages().BadInput {
		t.Errorf("Expected bad input message, got %q", engine.GetState().Message)
	}
}

func TestEngine_Invariants(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config, NewRand(2024))
	if err != nil {
		t.Fatal(err)
	}

	moves := NewRand(77)
	tokens := []string{"w", "a", "s", "d"}
	lastScore := 0

	for turn := 0; turn < 300 && !engine.IsGameOver(); turn++ {
		_, err := engine.Move(tokens[moves.IntN(len(tokens))])
		if err != nil && !IsRejection(err) {
			t.Fatalf("Turn %d: unexpected error %v", turn, err)
		}

		state := engine.GetState()
		if err := state.Validate(); err != nil {
			t.Fatalf("Turn %d: invalid state: %v", turn, err)
		}

		occupied := state.Field.Rows*state.Field.Cols - state.Field.Count(EmptyCell)
		expected := state.RemainingVeggies() + 1 + len(state.Rabbits)
		if occupied != expected {
			t.Fatalf("Turn %d: %d occupied cells, expected %d", turn, occupied, expected)
		}
		if got := state.RemainingVeggies() + len(state.Captain.Collected); got != config.VeggieCount {
			t.Fatalf("Turn %d: veggies on field plus collected = %d, expected %d", turn, got, config.VeggieCount)
		}
		if state.Score != TotalPoints(state.Captain.Collected) {
			t.Fatalf("Turn %d: score %d does not match collected points %d", turn, state.Score, TotalPoints(state.Captain.Collected))
		}
		if state.Score < lastScore {
			t.Fatalf("Turn %d: score decreased from %d to %d", turn, lastScore, state.Score)
		}
		lastScore = state.Score

		if first, second := engine.RemainingVeggies(), engine.RemainingVeggies(); first != second {
			t.Fatalf("Turn %d: RemainingVeggies changed between reads: %d then %d", turn, first, second)
		}
	}
}

func TestEngine_GetPossibleMoves(t *testing.T) {
	engine, _ := buildScenario(t)

	moves := engine.GetPossibleMoves()
	expected := map[Direction]bool{Down: true, Right: true}
	if len(moves) != len(expected) {
		t.Fatalf("Expected %d possible moves from the corner, got %v", len(expected), moves)
	}
	for _, m := range moves {
		if !expected[m] {
			t.Errorf("Unexpected possible move %s", m)
		}
	}
}

func TestEngine_Reset(t *testing.T) {
	engine, err := NewEngine(createTestConfig(), NewRand(11))
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range []string{"w", "a", "s", "d"} {
		engine.Move(tok)
	}

	state, err := engine.Reset()
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.Score != 0 || state.Turn != 0 || len(state.History) != 0 {
		t.Errorf("Reset state should be fresh, got score=%d turn=%d history=%d", state.Score, state.Turn, len(state.History))
	}
	if engine.GetLastMove() != nil {
		t.Error("Expected no last move after reset")
	}
}

func TestEngine_SetStateRoundTrip(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config, NewRand(8))
	if err != nil {
		t.Fatal(err)
	}
	engine.Move("s")

	data, err := json.Marshal(engine.GetState())
	if err != nil {
		t.Fatal(err)
	}
	var restored GameState
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatal(err)
	}

	other, err := NewEngineFromState(config, &restored, NewRand(8))
	if err != nil {
		t.Fatalf("Restored state rejected: %v", err)
	}
	if other.GetCaptainPosition() != engine.GetCaptainPosition() {
		t.Errorf("Captain position mismatch after restore")
	}
	if other.RemainingVeggies() != engine.RemainingVeggies() {
		t.Errorf("Veggie count mismatch after restore")
	}
}

func TestEngine_SetStateRejectsCorruptState(t *testing.T) {
	engine, _ := buildScenario(t)

	if err := engine.SetState(nil); err == nil {
		t.Error("Expected error for nil state")
	}

	config := &GameConfig{Rows: 2, Cols: 2, Veggies: testCatalog}
	state, err := NewGameState(config)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.SetState(state); err == nil {
		t.Error("Expected error for a state with no captain")
	}

	if err := state.PlaceCaptain(Position{Row: 0, Col: 0}); err != nil {
		t.Fatal(err)
	}
	state.Field.Cells[1][1] = Cell{Kind: CaptainCell}
	if err := engine.SetState(state); err == nil {
		t.Error("Expected error for a field with two captains")
	}
}
