package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kartikeysingh210/Captain-veggie/game/config"
	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
	"github.com/kartikeysingh210/Captain-veggie/game/service"
	"github.com/kartikeysingh210/Captain-veggie/game/session"
	"github.com/kartikeysingh210/Captain-veggie/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	CreateSessionFunc   func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc      func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc    func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc   func(ctx context.Context, sessionID string) error
	MoveFunc            func(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error)
	BulkMoveFunc        func(ctx context.Context, sessionID string, moves []string, reset bool) (*service.BulkMoveResult, error)
	ResetFunc           func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetGameStateFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetBoardFunc        func(ctx context.Context, sessionID string) ([]string, error)
	GetMoveHistoryFunc  func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)
	RecordHighScoreFunc func(ctx context.Context, sessionID, initials string) (*service.HighScoreResult, error)
	GetHighScoresFunc   func(ctx context.Context, limit int) (*service.HighScoresResponse, error)
	ListConfigsFunc     func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc      func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc      func(ctx context.Context, configName string, config *engine.GameConfig) error
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{ID: "test-session", ConfigName: configName, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, ConfigName: "test-config", CreatedAt: time.Now()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Move(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, direction, reset)
	}
	return &service.MoveResult{Success: true, Outcome: engine.OutcomeMoved, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*service.BulkMoveResult, error) {
	if m.BulkMoveFunc != nil {
		return m.BulkMoveFunc(ctx, sessionID, moves, reset)
	}
	return &service.BulkMoveResult{Success: true, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetBoard(ctx context.Context, sessionID string) ([]string, error) {
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(ctx, sessionID)
	}
	return []string{"c V", " R "}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Moves:      []engine.MoveHistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) RecordHighScore(ctx context.Context, sessionID, initials string) (*service.HighScoreResult, error) {
	if m.RecordHighScoreFunc != nil {
		return m.RecordHighScoreFunc(ctx, sessionID, initials)
	}
	entry := highscore.Entry{Initials: initials, Score: 10}
	return &service.HighScoreResult{SessionID: sessionID, Entry: entry, Rank: 1, Table: highscore.Table{entry}}, nil
}

func (m *MockGameService) GetHighScores(ctx context.Context, limit int) (*service.HighScoresResponse, error) {
	if m.GetHighScoresFunc != nil {
		return m.GetHighScoresFunc(ctx, limit)
	}
	return &service.HighScoresResponse{Entries: highscore.Table{}, Lines: []string{}}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return engine.DefaultConfig(), nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing session", fmt.Errorf("wrapped: %w", service.ErrSessionNotFound), http.StatusNotFound},
		{"missing config", config.ErrConfigNotFound, http.StatusNotFound},
		{"bad direction", engine.ErrUnrecognizedDirection, http.StatusBadRequest},
		{"bad setup", engine.ErrInvalidSetupData, http.StatusBadRequest},
		{"bad initials", highscore.ErrInvalidEntry, http.StatusBadRequest},
		{"game over", engine.ErrGameOver, http.StatusConflict},
		{"game not over", service.ErrGameNotOver, http.StatusConflict},
		{"already recorded", service.ErrScoreAlreadyRecorded, http.StatusConflict},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleCreateSession(t *testing.T) {
	var gotConfig string
	mock := &MockGameService{
		CreateSessionFunc: func(ctx context.Context, configName string) (*service.SessionInfo, error) {
			gotConfig = configName
			if configName == "missing" {
				return nil, fmt.Errorf("config 'missing' not found: %w", config.ErrConfigNotFound)
			}
			return &service.SessionInfo{ID: "abcd1234", ConfigName: configName}, nil
		},
	}
	server := NewServer(mock, nil)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantConfig string
	}{
		{"no body", nil, http.StatusCreated, ""},
		{"config_id", map[string]string{"config_id": "garden"}, http.StatusCreated, "garden"},
		{"legacy config_name", map[string]string{"config_name": "small"}, http.StatusCreated, "small"},
		{"unknown config", map[string]string{"config_id": "missing"}, http.StatusNotFound, "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, server, "POST", "/api/sessions", tt.body)
			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if gotConfig != tt.wantConfig {
				t.Errorf("Expected config %q, got %q", tt.wantConfig, gotConfig)
			}
		})
	}
}

func TestHandleListSessions(t *testing.T) {
	now := time.Now()
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-3 * time.Hour), LastAccessedAt: now.Add(-time.Minute)},
				{ID: "mid", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now.Add(-1 * time.Hour), LastAccessedAt: now},
			}, nil
		},
	}
	server := NewServer(mock, nil)

	tests := []struct {
		query     string
		wantFirst string
		wantCount int
	}{
		{"", "new", 3},
		{"?sort=created&order=asc", "old", 3},
		{"?sort=accessed&order=asc&limit=2", "mid", 2},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := doRequest(t, server, "GET", "/api/sessions"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rr.Code)
			}
			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			decode(t, rr, &resp)
			if resp.Count != tt.wantCount || resp.Total != 3 {
				t.Errorf("Expected count %d total 3, got %d/%d", tt.wantCount, resp.Count, resp.Total)
			}
			if resp.Sessions[0].ID != tt.wantFirst {
				t.Errorf("Expected first %s, got %s", tt.wantFirst, resp.Sessions[0].ID)
			}
		})
	}
}

func TestHandleMove(t *testing.T) {
	mock := &MockGameService{
		MoveFunc: func(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error) {
			switch direction {
			case "up":
				return &service.MoveResult{
					Success:   false,
					Outcome:   engine.OutcomeBlockedRabbit,
					GameState: &engine.GameState{Message: "Oops! You stepped on a rabbit. Be careful!"},
				}, nil
			case "left":
				return nil, engine.ErrGameOver
			case "nowhere":
				return nil, fmt.Errorf("%w: %q", engine.ErrUnrecognizedDirection, direction)
			}
			if sessionID == "missing" {
				return nil, service.ErrSessionNotFound
			}
			return &service.MoveResult{Success: true, Outcome: engine.OutcomeMoved, GameState: &engine.GameState{}}, nil
		},
	}
	server := NewServer(mock, nil)

	tests := []struct {
		name        string
		sessionID   string
		body        interface{}
		wantStatus  int
		wantSuccess bool
	}{
		{"moved", "s1", map[string]string{"direction": "down"}, http.StatusOK, true},
		{"blocked by rabbit", "s1", map[string]string{"direction": "up"}, http.StatusOK, false},
		{"game over", "s1", map[string]string{"direction": "left"}, http.StatusConflict, false},
		{"unrecognized", "s1", map[string]string{"direction": "nowhere"}, http.StatusBadRequest, false},
		{"missing session", "missing", map[string]string{"direction": "down"}, http.StatusNotFound, false},
		{"bad body", "s1", "not json", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, server, "POST", "/api/sessions/"+tt.sessionID+"/move", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if rr.Code == http.StatusOK {
				var result service.MoveResult
				decode(t, rr, &result)
				if result.Success != tt.wantSuccess {
					t.Errorf("Expected success=%v, got %v", tt.wantSuccess, result.Success)
				}
			}
		})
	}
}

func TestHandleBulkMoveRejectsEmpty(t *testing.T) {
	server := NewServer(&MockGameService{}, nil)

	rr := doRequest(t, server, "POST", "/api/sessions/s1/bulk-move", map[string][]string{"moves": {}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty moves, got %d", rr.Code)
	}

	rr = doRequest(t, server, "POST", "/api/sessions/s1/bulk-move", map[string][]string{"moves": {"w", "d"}})
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestHandleGetHistoryParsesQuery(t *testing.T) {
	var got service.HistoryOptions
	mock := &MockGameService{
		GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			got = opts
			return &service.HistoryResponse{Moves: []engine.MoveHistoryEntry{}}, nil
		},
	}
	server := NewServer(mock, nil)

	rr := doRequest(t, server, "GET", "/api/sessions/s1/history?page=2&limit=5&order=asc", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if got.Page != 2 || got.Limit != 5 || got.Order != "asc" {
		t.Errorf("Unexpected options %+v", got)
	}

	doRequest(t, server, "GET", "/api/sessions/s1/history?page=x&order=sideways", nil)
	if got.Page != 1 || got.Limit != 20 || got.Order != "desc" {
		t.Errorf("Expected defaults, got %+v", got)
	}
}

func TestHandleGetBoardText(t *testing.T) {
	server := NewServer(&MockGameService{}, nil)

	rr := doRequest(t, server, "GET", "/api/sessions/s1/board?format=text", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "c V\n R \n" {
		t.Errorf("Unexpected board text %q", rr.Body.String())
	}

	rr = doRequest(t, server, "GET", "/api/sessions/s1/board", nil)
	var resp struct {
		Board []string `json:"board"`
	}
	decode(t, rr, &resp)
	if len(resp.Board) != 2 {
		t.Errorf("Expected 2 rows, got %v", resp.Board)
	}
}

func TestHandleHighScores(t *testing.T) {
	var gotLimit int
	mock := &MockGameService{
		GetHighScoresFunc: func(ctx context.Context, limit int) (*service.HighScoresResponse, error) {
			gotLimit = limit
			table := highscore.Table{{Initials: "AAA", Score: 100}}
			return &service.HighScoresResponse{Entries: table, Lines: table.Lines(), Total: 1}, nil
		},
		RecordHighScoreFunc: func(ctx context.Context, sessionID, initials string) (*service.HighScoreResult, error) {
			if sessionID == "running" {
				return nil, service.ErrGameNotOver
			}
			return nil, service.ErrScoreAlreadyRecorded
		},
	}
	server := NewServer(mock, nil)

	rr := doRequest(t, server, "GET", "/api/highscores?limit=5", nil)
	if rr.Code != http.StatusOK || gotLimit != 5 {
		t.Fatalf("Expected 200 with limit 5, got %d/%d", rr.Code, gotLimit)
	}
	var resp service.HighScoresResponse
	decode(t, rr, &resp)
	if len(resp.Lines) != 1 || resp.Lines[0] != "1. AAA: 100" {
		t.Errorf("Unexpected lines %v", resp.Lines)
	}

	for _, id := range []string{"running", "done"} {
		rr := doRequest(t, server, "POST", "/api/sessions/"+id+"/highscore", map[string]string{"initials": "ABC"})
		if rr.Code != http.StatusConflict {
			t.Errorf("%s: expected 409, got %d", id, rr.Code)
		}
	}
}

func TestHandleCreateConfig(t *testing.T) {
	var saved string
	mock := &MockGameService{
		SaveConfigFunc: func(ctx context.Context, name string, cfg *engine.GameConfig) error {
			saved = name
			return nil
		},
	}
	server := NewServer(mock, nil)

	valid := engine.DefaultConfig()
	valid.Name = "custom"
	rr := doRequest(t, server, "POST", "/api/configs", valid)
	if rr.Code != http.StatusCreated || saved != "custom" {
		t.Errorf("Expected config saved as custom, got %d/%q", rr.Code, saved)
	}

	tooSmall := engine.DefaultConfig()
	tooSmall.Name = "tiny"
	tooSmall.Rows, tooSmall.Cols = 3, 3
	rr = doRequest(t, server, "POST", "/api/configs", tooSmall)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an undersized field, got %d", rr.Code)
	}

	rr = doRequest(t, server, "POST", "/api/configs", map[string]int{"rows": 5})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a name, got %d", rr.Code)
	}
}

func TestWebSocketRequiresSession(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, service.ErrSessionNotFound
		},
	}
	server := NewServer(mock, hub)

	if rr := doRequest(t, server, "GET", "/ws", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without session, got %d", rr.Code)
	}
	if rr := doRequest(t, server, "GET", "/ws?session=nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rr.Code)
	}
	if rr := doRequest(t, NewServer(mock, nil), "GET", "/ws?session=nope", nil); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a hub, got %d", rr.Code)
	}
}

// newIntegrationServer wires the real session, config and high score layers
func newIntegrationServer(t *testing.T) *Server {
	t.Helper()
	svc, _ := newIntegrationService(t)
	return NewServer(svc, nil)
}

// newIntegrationService builds the real service over a temp dir and returns
// the dir alongside it. Layouts live in dir/configs.
func newIntegrationService(t *testing.T) (service.GameService, string) {
	t.Helper()
	dir := t.TempDir()
	configDir := filepath.Join(dir, "configs")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	layout := "Field Size,7,7\nVegetable,Symbol,Points\nCarrot,c,5\nPea,p,1\n"
	if err := os.WriteFile(filepath.Join(configDir, "classic.csv"), []byte(layout), 0644); err != nil {
		t.Fatal(err)
	}
	small := `{"name":"small","rows":5,"cols":5,"veggie_count":4,"rabbit_count":1,"veggies":[{"name":"Carrot","symbol":"c","points":5}]}`
	if err := os.WriteFile(filepath.Join(configDir, "small.json"), []byte(small), 0644); err != nil {
		t.Fatal(err)
	}

	configMgr, err := config.NewManager(configDir)
	if err != nil {
		t.Fatal(err)
	}
	persistence, err := session.NewFilePersistence(filepath.Join(dir, "sessions"), configMgr)
	if err != nil {
		t.Fatal(err)
	}
	seed := uint64(0)
	sessions := session.NewManagerWithPersistence(persistence, session.WithRandFactory(func() engine.RandSource {
		seed++
		return engine.NewRand(seed)
	}))
	scores := highscore.NewRecorder(highscore.NewFileStore(filepath.Join(dir, "highscore.json")))

	return service.NewGameService(sessions, configMgr, scores), dir
}

func TestIntegration_PlayToHighScore(t *testing.T) {
	server := newIntegrationServer(t)

	rr := doRequest(t, server, "POST", "/api/sessions", map[string]string{"config_id": "small"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Create session failed: %d %s", rr.Code, rr.Body.String())
	}
	var info service.SessionInfo
	decode(t, rr, &info)
	if info.GameState.RemainingVeggies() != 4 {
		t.Fatalf("Expected 4 veggies, got %d", info.GameState.RemainingVeggies())
	}

	rr = doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/highscore", map[string]string{"initials": "ABC"})
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409 before game over, got %d", rr.Code)
	}

	// Sweep the field row by row until every veggie is harvested
	over := false
	for i := 0; i < 400 && !over; i++ {
		var state engine.GameState
		decode(t, doRequest(t, server, "GET", "/api/sessions/"+info.ID+"/state", nil), &state)
		target, _, ok := engine.FindNearestVeggie(&state)
		if !ok {
			break
		}
		dir := stepToward(state.Captain.Pos, target)

		rr := doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/move", map[string]string{"direction": dir})
		if rr.Code != http.StatusOK {
			t.Fatalf("Move %s failed: %d %s", dir, rr.Code, rr.Body.String())
		}
		var result service.MoveResult
		decode(t, rr, &result)
		over = result.GameState.GameOver
	}
	if !over {
		t.Fatal("Expected to finish the game")
	}

	rr = doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/move", map[string]string{"direction": "w"})
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409 after game over, got %d", rr.Code)
	}

	rr = doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/highscore", map[string]string{"initials": "abcd"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Record high score failed: %d %s", rr.Code, rr.Body.String())
	}
	var hs service.HighScoreResult
	decode(t, rr, &hs)
	if hs.Rank != 1 || hs.Entry.Initials != "abc" || hs.Entry.Score != 20 {
		t.Errorf("Unexpected high score %+v", hs)
	}

	rr = doRequest(t, server, "GET", "/api/highscores", nil)
	var table service.HighScoresResponse
	decode(t, rr, &table)
	if table.Total != 1 || !strings.HasPrefix(table.Lines[0], "1. abc: 20") {
		t.Errorf("Unexpected table %+v", table)
	}
}

func TestIntegration_ConfigsAndMissingSession(t *testing.T) {
	server := newIntegrationServer(t)

	rr := doRequest(t, server, "GET", "/api/configs", nil)
	var configs []service.ConfigInfo
	decode(t, rr, &configs)
	if len(configs) != 2 || configs[0].ConfigID != "classic" || configs[1].ConfigID != "small" {
		t.Errorf("Unexpected configs %+v", configs)
	}

	if rr := doRequest(t, server, "GET", "/api/configs/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown config, got %d", rr.Code)
	}
	if rr := doRequest(t, server, "GET", "/api/sessions/nope/state", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rr.Code)
	}
	if rr := doRequest(t, server, "DELETE", "/api/sessions/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting an unknown session, got %d", rr.Code)
	}
	if rr := doRequest(t, server, "GET", "/health", nil); rr.Code != http.StatusOK {
		t.Errorf("Expected healthy, got %d", rr.Code)
	}
}

func stepToward(from, to engine.Position) string {
	switch {
	case to.Row < from.Row:
		return "up"
	case to.Row > from.Row:
		return "down"
	case to.Col < from.Col:
		return "left"
	}
	return "right"
}

func TestIntegration_ConcurrentMovesAndState(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	svc, _ := newIntegrationService(t)
	server := NewServer(svc, hub)

	rr := doRequest(t, server, "POST", "/api/sessions", map[string]string{"config_id": "classic"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Create session failed: %d %s", rr.Code, rr.Body.String())
	}
	var info service.SessionInfo
	decode(t, rr, &info)

	const workers, iterations = 4, 50
	directions := []string{"w", "a", "s", "d"}
	errs := make(chan error, workers*iterations*2)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				body := strings.NewReader(fmt.Sprintf(`{"direction":%q}`, directions[(w+i)%len(directions)]))
				req := httptest.NewRequest("POST", "/api/sessions/"+info.ID+"/move", body)
				req.Header.Set("Content-Type", "application/json")
				move := httptest.NewRecorder()
				server.ServeHTTP(move, req)
				if move.Code != http.StatusOK && move.Code != http.StatusConflict {
					errs <- fmt.Errorf("move: status %d %s", move.Code, move.Body.String())
				}

				state := httptest.NewRecorder()
				server.ServeHTTP(state, httptest.NewRequest("GET", "/api/sessions/"+info.ID+"/state", nil))
				if state.Code != http.StatusOK {
					errs <- fmt.Errorf("state: status %d %s", state.Code, state.Body.String())
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	rr = doRequest(t, server, "GET", "/api/sessions/"+info.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Get session failed: %d", rr.Code)
	}
	var final service.SessionInfo
	decode(t, rr, &final)
	if err := final.GameState.Validate(); err != nil {
		t.Errorf("State corrupted by concurrent turns: %v", err)
	}
}

func TestIntegration_CreateConfigRejectsPathNames(t *testing.T) {
	svc, dir := newIntegrationService(t)
	server := NewServer(svc, nil)

	layout := map[string]interface{}{
		"rows": 5, "cols": 5, "veggie_count": 4, "rabbit_count": 1,
		"veggies": []map[string]interface{}{{"name": "Pea", "symbol": "p", "points": 1}},
	}
	for _, name := range []string{"../escaped", "nested/layout", `..\escaped`, ".."} {
		layout["name"] = name
		rr := doRequest(t, server, "POST", "/api/configs", layout)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for name %q, got %d %s", name, rr.Code, rr.Body.String())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "escaped.json")); !os.IsNotExist(err) {
		t.Errorf("Layout written outside the config dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "configs", "nested")); !os.IsNotExist(err) {
		t.Errorf("Nested layout path created: %v", err)
	}
}
