// Package mcp exposes Captain Veggie to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API of a running server, and the JSON reply is rendered as text with
// the field drawn inside a border.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, move, bulk_move, reset_game, move_history, describe_cell
//   - record_high_score, high_scores
//   - list_configs, game_instructions
//
// REST errors are returned as tool errors carrying the server's message, so
// an agent sees "game is over" rather than a transport failure.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.Serve(); err != nil {
//		log.Fatal(err)
//	}
package mcp
