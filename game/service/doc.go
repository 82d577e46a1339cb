// Package service provides the business logic layer for Captain Veggie.
//
// The service package implements:
//   - Multi-session game management
//   - Turn processing (single and bulk)
//   - Move history tracking
//   - High score recording for finished games
//   - Layout listing and loading
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages layout loading and validation.
// ScoreKeeper ranks and persists finished games.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP/terminal)
// and the game engine. Each session owns its own engine instance. Every call
// opens an OpenTelemetry span named service.<operation>.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	scores := highscore.NewRecorder(highscore.NewFileStore("highscore.json"))
//	gameService := service.NewGameService(sessionMgr, configMgr, scores)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Play a turn
//	result, err := gameService.Move(ctx, sessionInfo.ID, "up", false)
//
// Errors:
//
// Blocked and out of bounds moves consume the turn and come back as a
// MoveResult with Success false. Unrecognized directions and moves after the
// game ended are returned as errors wrapping the engine sentinels.
package service
