// Package config provides layout management for Captain Veggie.
//
// The config package handles:
//   - Loading layouts from CSV and JSON files
//   - Layout validation through the engine
//   - Default layout selection
//   - Layout discovery and listing
//
// Layout Format:
//
// CSV layouts hold the field size followed by the veggie catalog:
//
//	Field Size,10,10
//	Vegetable,Symbol,Points
//	Broccoli,b,10
//	Carrot,c,5
//
// JSON layouts are serialized engine.GameConfig values and may also set the
// veggie and rabbit counts and override the game messages.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific layout
//	gameConfig, err := manager.LoadConfig("small")
//
//	// Get default layout (classic, else the first valid one, else built in)
//	defaultConfig := manager.GetDefault()
//
//	// List available layouts
//	configs, err := manager.ListConfigs()
package config
