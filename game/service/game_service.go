package service

import (
	"context"
	"errors"
	"time"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrGameNotOver          = errors.New("game is not over yet")
	ErrScoreAlreadyRecorded = errors.New("high score already recorded for this session")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetBoard(ctx context.Context, sessionID string) ([]string, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// High Scores
	RecordHighScore(ctx context.Context, sessionID, initials string) (*HighScoreResult, error)
	GetHighScores(ctx context.Context, limit int) (*HighScoresResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles layout loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// ScoreKeeper records finished games. *highscore.Recorder implements it.
type ScoreKeeper interface {
	Record(initials string, score int) (highscore.Table, int, error)
	Load() (highscore.Table, error)
}

// Session represents an active game session
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ScoreRecorded  bool
}
