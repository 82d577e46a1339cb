// Package api provides the HTTP REST API for Captain Veggie.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session, body {"config_id": "classic"}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/board - Rendered field rows (?format=text for plain text)
//   - POST /api/sessions/{id}/move - Play one turn, body {"direction": "w"}
//   - POST /api/sessions/{id}/bulk-move - Play several turns, body {"moves": ["w","d"]}
//   - POST /api/sessions/{id}/reset - Start a fresh game in the session
//   - GET /api/sessions/{id}/history - Paginated turn history (?page&limit&order)
//
// High Scores:
//   - POST /api/sessions/{id}/highscore - Record a finished game, body {"initials": "ABC"}
//   - GET /api/highscores - The table, best first (?limit=N)
//
// Configuration:
//   - GET /api/configs - List layouts
//   - GET /api/configs/{name} - Get one layout
//   - POST /api/configs - Save a layout
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket state updates
//
// A turn blocked by a rabbit or the field edge still returns 200 with
// "success": false. Errors are JSON {"error": "...", "code": N}: unknown
// sessions and layouts give 404, bad directions and layouts give 400, and
// moving after the game ended or recording a score twice gives 409.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
