// Package engine provides the core game logic for Captain Veggie.
//
// The engine package implements:
//   - The field: a grid of tagged cells (empty, veggie, captain, rabbit)
//   - Setup: random placement of veggies, the captain and the rabbits
//   - Turn resolution: rabbit relocation and captain movement
//   - Scoring and the end-of-game condition
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the field, the creatures and
// the score, while GameConfig supplies the field size and veggie catalog.
//
// Usage:
//
//	config := engine.DefaultConfig()
//	gameEngine, err := engine.NewEngine(config, engine.NewRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Play one turn: rabbits hop, then the captain steps right
//	result, err := gameEngine.Move("d")
//	if engine.IsRejection(err) {
//		fmt.Println(gameEngine.GetState().Message)
//	}
//	remaining := gameEngine.RemainingVeggies()
//
// Game Rules:
//
// The captain steps one cell at a time. Stepping on a veggie harvests it
// and adds its points to the score. Stepping on a rabbit or off the field is
// rejected. Every turn each rabbit teleports to a random empty cell. The game
// ends when no veggie is left on the field.
package engine
