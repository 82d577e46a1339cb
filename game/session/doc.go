// Package session keeps the Captain Veggie games that are in progress.
//
// Manager stores sessions in memory behind an RWMutex. IDs are case
// insensitive; generated IDs are the first 8 characters of a random UUID.
// With a SessionPersistence attached, new sessions are saved immediately and
// sessions missing from memory are loaded on first access.
//
// FilePersistence writes one JSON document per session. The document carries
// the layout, the full game state and whether the final score has already
// been recorded, so a restarted server resumes games exactly where they were.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configManager)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.Create("", config)
//
// Expired sessions are dropped from memory by CleanupExpiredSessions; their
// files stay on disk.
package session
