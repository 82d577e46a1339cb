package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
	"github.com/kartikeysingh210/Captain-veggie/telemetry"
)

// MaxBulkMoves caps the number of turns a single bulk call may play
const MaxBulkMoves = 50

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	scores   ScoreKeeper
	tracer   trace.Tracer
	mu       sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, scores ScoreKeeper) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		scores:   scores,
		tracer:   telemetry.Tracer("service"),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == sess.Config.Name {
				return cfg.ConfigID
			}
		}
	}
	if sess.Config.Name == "" {
		return "default"
	}
	return sess.Config.Name
}

// sessionInfo snapshots a session. Callers hold s.mu; the returned state is a
// clone that stays valid after the lock is released.
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess), // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		ScoreRecorded:  sess.ScoreRecorded,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
		Board:          sess.Engine.Board(),
	}
}

// startSpan opens a span tagged with the session ID
func (s *gameServiceImpl) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "service."+name)
	if sessionID != "" {
		span.SetAttributes(attribute.String("session.id", sessionID))
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (info *SessionInfo, err error) {
	_, span := s.startSpan(ctx, "create_session", "")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate the ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if configName != "" {
		sess.ConfigID = configName
		if err := s.sessions.Save(sess.ID); err != nil {
			log.Printf("Warning: Failed to persist session %s: %v", sess.ID, err)
		}
	}

	span.SetAttributes(
		attribute.String("session.id", sess.ID),
		attribute.String("config.name", config.Name),
		attribute.Int("field.rows", config.Rows),
		attribute.Int("field.cols", config.Cols),
	)

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (info *SessionInfo, err error) {
	_, span := s.startSpan(ctx, "get_session", sessionID)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	_, span := s.startSpan(ctx, "list_sessions", "")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	span.SetAttributes(attribute.Int("sessions.count", len(result)))
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) (err error) {
	_, span := s.startSpan(ctx, "delete_session", sessionID)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return notFound(err)
	}
	return nil
}

// Move plays one full turn for a session. Blocked and out of bounds captain
// moves are reported through the result, not as errors.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (result *MoveResult, err error) {
	_, span := s.startSpan(ctx, "move", sessionID)
	span.SetAttributes(attribute.String("move.direction", direction))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}

	if reset {
		if err := s.resetSession(sess); err != nil {
			return nil, err
		}
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to a fresh field",
			Timestamp: time.Now(),
		})
	}

	moveResult, moveErr := sess.Engine.Move(direction)
	if moveErr != nil && !isCaptainRejection(moveErr) {
		return nil, moveErr
	}

	state := sess.Engine.GetState()
	result = &MoveResult{
		Success:          moveResult.Success(),
		Outcome:          moveResult.Outcome,
		GameState:        state.Clone(),
		Message:          state.Message,
		Events:           append(events, moveEvents(moveResult, state)...),
		Step:             stepInfo(1, direction, moveResult, state),
		RemainingVeggies: state.RemainingVeggies(),
		Board:            sess.Engine.Board(),
		LocalView3x3:     buildLocal3x3(state),
		PossibleMoves:    directionNames(sess.Engine.GetPossibleMoves()),
	}

	span.SetAttributes(
		attribute.String("move.outcome", string(moveResult.Outcome)),
		attribute.Int("game.score", state.Score),
		attribute.Int("game.remaining", result.RemainingVeggies),
	)

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after move: %v", sessionID, err)
	}

	return result, nil
}

// BulkMove plays several turns in sequence. It stops early at game over or
// at an unrecognized direction; blocked moves still consume their turn.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (result *BulkMoveResult, err error) {
	_, span := s.startSpan(ctx, "bulk_move", sessionID)
	span.SetAttributes(attribute.Int("move.requested", len(moves)))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result = &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		if err := s.resetSession(sess); err != nil {
			return nil, err
		}
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to a fresh field",
			Timestamp: time.Now(),
		})
	}

	state := sess.Engine.GetState()
	result.StartPos = state.Captain.Pos
	startScore := state.Score

	// Limit moves to prevent abuse
	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		moves = moves[:MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game over"
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}

		moveResult, moveErr := sess.Engine.Move(move)
		if moveErr != nil && !isCaptainRejection(moveErr) {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d rejected: %v", i+1, moveErr)
			result.StoppedOnMove = i + 1
			if errors.Is(moveErr, engine.ErrUnrecognizedDirection) {
				result.StopReasonCode = "invalid_input"
			} else {
				result.StopReasonCode = "error"
			}
			break
		}

		result.MovesExecuted++
		current := sess.Engine.GetState()
		if !moveResult.Success() {
			result.Success = false
		}
		if moveResult.Veggie != nil {
			result.Harvested = append(result.Harvested, moveResult.Veggie.Name)
		}
		result.Events = append(result.Events, moveEvents(moveResult, current)...)
		result.Steps = append(result.Steps, *stepInfo(i+1, move, moveResult, current))
	}

	endState := sess.Engine.GetState()
	result.GameState = endState.Clone()
	result.EndPos = endState.Captain.Pos
	result.ScoreDelta = endState.Score - startScore
	result.GameOver = sess.Engine.IsGameOver()
	result.RemainingVeggies = endState.RemainingVeggies()
	result.Message = endState.Message
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = "game_over"
	}

	result.PossibleMoves = directionNames(sess.Engine.GetPossibleMoves())
	result.LocalView3x3 = buildLocal3x3(endState)

	span.SetAttributes(
		attribute.Int("move.executed", result.MovesExecuted),
		attribute.Int("game.score_delta", result.ScoreDelta),
	)

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after bulk moves: %v", sessionID, err)
	}

	return result, nil
}

// Reset starts a fresh field for a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (state *engine.GameState, err error) {
	_, span := s.startSpan(ctx, "reset", sessionID)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if err := s.resetSession(sess); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}

	return sess.Engine.GetState().Clone(), nil
}

func (s *gameServiceImpl) resetSession(sess *Session) error {
	if _, err := sess.Engine.Reset(); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}
	sess.ScoreRecorded = false
	return nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (state *engine.GameState, err error) {
	_, span := s.startSpan(ctx, "get_game_state", sessionID)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Clone(), nil
}

// GetBoard returns the field as plain text rows
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (board []string, err error) {
	_, span := s.startSpan(ctx, "get_board", sessionID)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}
	return sess.Engine.Board(), nil
}

// GetMoveHistory retrieves paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (resp *HistoryResponse, err error) {
	_, span := s.startSpan(ctx, "get_move_history", sessionID)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append([]engine.MoveHistoryEntry(nil), history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// RecordHighScore stores the final score of a finished session. A session
// records at most one entry per game.
func (s *gameServiceImpl) RecordHighScore(ctx context.Context, sessionID, initials string) (result *HighScoreResult, err error) {
	_, span := s.startSpan(ctx, "record_high_score", sessionID)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(err)
	}
	if !sess.Engine.IsGameOver() {
		return nil, fmt.Errorf("%w: %d veggies remaining", ErrGameNotOver, sess.Engine.RemainingVeggies())
	}
	if sess.ScoreRecorded {
		return nil, ErrScoreAlreadyRecorded
	}

	score := sess.Engine.GetScore()
	table, rank, err := s.scores.Record(initials, score)
	if err != nil {
		return nil, err
	}

	sess.ScoreRecorded = true
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after recording score: %v", sessionID, err)
	}

	span.SetAttributes(attribute.Int("highscore.rank", rank), attribute.Int("game.score", score))

	return &HighScoreResult{
		SessionID: sess.ID,
		Entry:     table[rank-1],
		Rank:      rank,
		Table:     table,
		Lines:     table.Lines(),
	}, nil
}

// GetHighScores returns the table, optionally limited to the top entries
func (s *gameServiceImpl) GetHighScores(ctx context.Context, limit int) (resp *HighScoresResponse, err error) {
	_, span := s.startSpan(ctx, "get_high_scores", "")
	defer func() { endSpan(span, err) }()

	table, err := s.scores.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load high scores: %w", err)
	}

	top := table.Top(limit)
	if top == nil {
		top = highscore.Table{}
	}
	return &HighScoresResponse{
		Entries: top,
		Lines:   top.Lines(),
		Total:   len(table),
	}, nil
}

// ListConfigs returns available layouts
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific layout
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a layout to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// notFound tags a session lookup failure with ErrSessionNotFound
func notFound(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
}

// isCaptainRejection reports blocked and out of bounds moves, which consume
// the turn and are not service errors
func isCaptainRejection(err error) bool {
	return errors.Is(err, engine.ErrOutOfBounds) || errors.Is(err, engine.ErrBlockedByRabbit)
}

// moveEvents generates events from a turn
func moveEvents(result engine.MoveResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	var events []GameEvent

	switch result.Outcome {
	case engine.OutcomeMoved:
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved to (%d,%d)", result.To.Row, result.To.Col),
			Timestamp: now,
			Position:  result.To,
		})
	case engine.OutcomeHarvested:
		events = append(events, GameEvent{
			Type:      "harvest",
			Message:   state.Message,
			Timestamp: now,
			Position:  result.To,
		})
	case engine.OutcomeBlockedRabbit, engine.OutcomeOutOfBounds:
		events = append(events, GameEvent{
			Type:      "blocked",
			Message:   state.Message,
			Timestamp: now,
			Position:  result.From,
		})
	}

	if state.GameOver {
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   fmt.Sprintf("Game over! Final score: %d", state.Score),
			Timestamp: now,
		})
	}

	return events
}

func stepInfo(idx int, dir string, result engine.MoveResult, state *engine.GameState) *StepInfo {
	step := &StepInfo{
		Idx:      idx,
		Dir:      dir,
		From:     result.From,
		To:       result.To,
		Outcome:  result.Outcome,
		TileChar: state.Field.Symbol(result.To),
		Points:   result.Points,
		Success:  result.Success(),
	}
	if result.Veggie != nil {
		step.Veggie = result.Veggie.Name
	}
	if !state.Field.InBounds(result.To) {
		step.TileChar = "#"
	}
	return step
}

// buildLocal3x3 shows the cells around the captain, with # for the border
func buildLocal3x3(state *engine.GameState) []string {
	if state == nil || state.Captain == nil {
		return nil
	}
	pr, pc := state.Captain.Pos.Row, state.Captain.Pos.Col
	lines := make([]string, 0, 3)
	for dr := -1; dr <= 1; dr++ {
		var row strings.Builder
		for dc := -1; dc <= 1; dc++ {
			pos := engine.Position{Row: pr + dr, Col: pc + dc}
			if !state.Field.InBounds(pos) {
				row.WriteString("#")
				continue
			}
			symbol := state.Field.Symbol(pos)
			if symbol == engine.EmptySymbol {
				symbol = "."
			}
			row.WriteString(symbol)
		}
		lines = append(lines, row.String())
	}
	return lines
}

func directionNames(dirs []engine.Direction) []string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = string(d)
	}
	return names
}
