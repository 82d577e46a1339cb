package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/kartikeysingh210/Captain-veggie/game/config"
	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
	"github.com/kartikeysingh210/Captain-veggie/game/service"
	"github.com/kartikeysingh210/Captain-veggie/game/session"
)

// High score backends
const (
	backendFile = "file"
	backendBolt = "bolt"
)

// Background maintenance intervals
const (
	cleanupInterval = 1 * time.Hour
	sessionMaxAge   = 24 * time.Hour
	syncInterval    = 5 * time.Second
)

// services holds everything the server and MCP commands share
type services struct {
	game        service.GameService
	configs     *config.Manager
	sessions    *session.Manager
	persistence *session.FilePersistence
	recorder    *highscore.Recorder
	closeScores func() error
}

// Close releases the high score store
func (s *services) Close() error {
	if s.closeScores == nil {
		return nil
	}
	return s.closeScores()
}

// openScoreStore opens the configured high score backend. The returned
// function closes it.
func openScoreStore(backend, path string) (highscore.Store, func() error, error) {
	switch backend {
	case "", backendFile:
		return highscore.NewFileStore(path), func() error { return nil }, nil
	case backendBolt:
		store, err := highscore.OpenBoltStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown score backend %q (use %s or %s)", backend, backendFile, backendBolt)
	}
}

// seededRandFactory hands out sources seeded seed, seed+1, ... so every game
// of a seeded server is reproducible in creation order.
func seededRandFactory(seed uint64) session.RandFactory {
	var n atomic.Uint64
	return func() engine.RandSource {
		return engine.NewRand(seed + n.Add(1) - 1)
	}
}

// initializeServices wires the layout, session and score stores into the game
// service.
func initializeServices(s settings) (*services, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(s.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(s.sessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	var opts []session.Option
	if s.seed != 0 {
		opts = append(opts, session.WithRandFactory(seededRandFactory(s.seed)))
	}
	sessionManager := session.NewManagerWithPersistence(persistence, opts...)

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	store, closeStore, err := openScoreStore(s.scoreBackend, s.scoresPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open high scores: %w", err)
	}
	recorder := highscore.NewRecorder(store)

	return &services{
		game:        service.NewGameService(sessionManager, configManager, recorder),
		configs:     configManager,
		sessions:    sessionManager,
		persistence: persistence,
		recorder:    recorder,
		closeScores: closeStore,
	}, nil
}

// startBackground runs the session cleanup and filesystem sync routines
// until ctx is cancelled.
func (s *services) startBackground(ctx context.Context) {
	go sessionCleanupRoutine(ctx, s.sessions, cleanupInterval, sessionMaxAge)
	go filesystemSyncRoutine(ctx, s.sessions, s.persistence, syncInterval)
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with filesystem state.
// It removes sessions from memory when their corresponding files are deleted.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, interval time.Duration) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneOrphanedSessions(manager, persistence); pruned > 0 {
				log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

// pruneOrphanedSessions drops sessions whose files were deleted and returns
// how many were removed.
func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Printf("Pruned session %s from memory (file deleted)", sess.ID)
		}
	}
	return pruned
}
