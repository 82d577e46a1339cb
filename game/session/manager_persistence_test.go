package session

import (
	"testing"
	"time"
)

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir, nil)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	gameConfig := createTestConfig()
	manager := NewManagerWithPersistence(persistence, WithRandFactory(seededRand()))

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", gameConfig)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if !persistence.Exists(session.ID) {
			t.Fatal("Session should be auto-saved on creation")
		}

		loaded, err := persistence.Load(session.ID)
		if err != nil {
			t.Fatalf("Failed to load auto-saved session: %v", err)
		}
		if loaded.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loaded.ID)
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		manager2 := NewManagerWithPersistence(persistence)

		session, err := manager2.Get("AUTO1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}
		if session.ID != "auto1" {
			t.Errorf("Expected ID auto1, got %s", session.ID)
		}

		cached, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from memory: %v", err)
		}
		if cached != session {
			t.Error("Session should be cached in memory after loading from persistence")
		}
	})

	t.Run("Save Method Persists Changes", func(t *testing.T) {
		session, err := manager.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}

		// Turns count even when the captain is blocked
		for _, dir := range []string{"right", "down"} {
			session.Engine.Move(dir)
		}

		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		manager3 := NewManagerWithPersistence(persistence)
		loaded, err := manager3.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to load session after manual save: %v", err)
		}

		if loaded.Engine.GetState().Turn != 2 {
			t.Errorf("Expected 2 turns persisted, got %d", loaded.Engine.GetState().Turn)
		}
		if loaded.Engine.GetCaptainPosition() != session.Engine.GetCaptainPosition() {
			t.Error("Captain position should be persisted")
		}
	})

	t.Run("Delete Removes from Persistence", func(t *testing.T) {
		session, err := manager.Create("delete_test", gameConfig)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if !persistence.Exists(session.ID) {
			t.Error("Session should exist in persistence")
		}

		if err := manager.Delete(session.ID); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		if persistence.Exists(session.ID) {
			t.Error("Session should be removed from persistence on delete")
		}
		if _, err := manager.Get(session.ID); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Load Persisted Sessions on Startup", func(t *testing.T) {
		ids := []string{"startup1", "startup2", "startup3"}
		for _, id := range ids {
			if _, err := manager.Create(id, gameConfig); err != nil {
				t.Fatalf("Failed to create session %s: %v", id, err)
			}
		}

		// New manager simulates a server restart
		manager4 := NewManagerWithPersistence(persistence)
		if err := manager4.LoadPersistedSessions(); err != nil {
			t.Fatalf("Failed to load persisted sessions: %v", err)
		}

		for _, id := range ids {
			session, err := manager4.Get(id)
			if err != nil {
				t.Fatalf("Failed to get session %s after loading persisted sessions: %v", id, err)
			}
			if session.ID != id {
				t.Errorf("Expected ID %s, got %s", id, session.ID)
			}
		}

		// auto1 plus the three startup sessions
		if got := manager4.Count(); got != 4 {
			t.Errorf("Expected 4 sessions, got %d", got)
		}
	})

	t.Run("Save All Sessions", func(t *testing.T) {
		session, err := manager.Get("startup1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}

		originalTime := session.LastAccessedAt
		time.Sleep(10 * time.Millisecond)

		if err := manager.UpdateLastAccessed("startup1"); err != nil {
			t.Fatalf("Failed to update last accessed: %v", err)
		}
		if err := manager.SaveAllSessions(); err != nil {
			t.Fatalf("SaveAllSessions failed: %v", err)
		}

		manager5 := NewManagerWithPersistence(persistence)
		loaded, err := manager5.Get("startup1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if !loaded.LastAccessedAt.After(originalTime) {
			t.Error("Last accessed time should be updated and persisted")
		}
	})

	t.Run("Cleanup Keeps Files", func(t *testing.T) {
		session, _ := manager.Get("startup2")
		session.LastAccessedAt = time.Now().Add(-3 * time.Hour)

		if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
			t.Fatalf("Expected 1 expired session, got %d", removed)
		}
		if !persistence.Exists("startup2") {
			t.Error("Expired session file should remain on disk")
		}
		if _, err := manager.Get("startup2"); err != nil {
			t.Errorf("Expired session should reload from disk, got %v", err)
		}
	})
}
