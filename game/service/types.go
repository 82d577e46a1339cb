package service

import (
	"time"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	ScoreRecorded  bool               `json:"score_recorded"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
	Board          []string           `json:"board,omitempty"`
}

// MoveResult contains the result of one turn
type MoveResult struct {
	Success          bool              `json:"success"`
	Outcome          engine.Outcome    `json:"outcome"`
	GameState        *engine.GameState `json:"game_state"`
	Message          string            `json:"message"`
	Events           []GameEvent       `json:"events,omitempty"`
	Step             *StepInfo         `json:"step,omitempty"`
	RemainingVeggies int               `json:"remaining_veggies"`
	Board            []string          `json:"board,omitempty"`
	LocalView3x3     []string          `json:"local_view_3x3,omitempty"`
	PossibleMoves    []string          `json:"possible_moves,omitempty"`
}

// BulkMoveResult contains the result of several turns
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // invalid_input|game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos   engine.Position `json:"start_pos"`
	EndPos     engine.Position `json:"end_pos"`
	ScoreDelta int             `json:"score_delta"`
	Harvested  []string        `json:"harvested,omitempty"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver         bool     `json:"game_over"`
	RemainingVeggies int      `json:"remaining_veggies"`
	Message          string   `json:"message,omitempty"`
	PossibleMoves    []string `json:"possible_moves,omitempty"`
	LocalView3x3     []string `json:"local_view_3x3,omitempty"`
}

// StepInfo is a compact record of one executed turn
type StepInfo struct {
	Idx      int             `json:"idx"`
	Dir      string          `json:"dir"`
	From     engine.Position `json:"from"`
	To       engine.Position `json:"to"`
	Outcome  engine.Outcome  `json:"outcome"`
	TileChar string          `json:"tile_char"`
	Veggie   string          `json:"veggie,omitempty"`
	Points   int             `json:"points,omitempty"`
	Success  bool            `json:"success"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "harvest", "blocked", "game_over", "reset", "high_score"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a layout
type ConfigInfo struct {
	Filename    string          `json:"filename"`
	ConfigID    string          `json:"config_id"` // The identifier to use for session creation
	Name        string          `json:"name"`      // Display name
	Description string          `json:"description"`
	Rows        int             `json:"rows"`
	Cols        int             `json:"cols"`
	VeggieCount int             `json:"veggie_count"`
	RabbitCount int             `json:"rabbit_count"`
	Catalog     []engine.Veggie `json:"catalog"`
}

// HighScoreResult is returned after recording a finished game
type HighScoreResult struct {
	SessionID string          `json:"session_id"`
	Entry     highscore.Entry `json:"entry"`
	Rank      int             `json:"rank"`
	Table     highscore.Table `json:"table"`
	Lines     []string        `json:"lines"`
}

// HighScoresResponse lists the high score table
type HighScoresResponse struct {
	Entries highscore.Table `json:"entries"`
	Lines   []string        `json:"lines"`
	Total   int             `json:"total"`
}
