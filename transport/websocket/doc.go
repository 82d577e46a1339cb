// Package websocket pushes Captain Veggie game updates to browser clients.
//
// A single Hub goroutine owns the map of sessions to connected clients.
// Registration, removal, broadcasts and client counts are all requests sent
// to that goroutine over channels, so no locks are needed.
//
// Clients connect to /ws?session=<id> and only listen. Every turn played
// through the REST API is followed by a state_update message carrying the
// game state and the rendered board rows:
//
//	{"session_id":"1a2b3c4d","event":"state_update","game_state":{...},"board":["c  ","V R"]}
//
// Custom events (game_over, high_score) carry their payload in data.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
