package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Captain Veggie",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Captain Veggie - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Steer Captain Veggie (V) around the field and harvest every veggie. Rabbits (R)
hop to a random empty cell every turn and block the Captain.

AVAILABLE TOOLS:
- create_session: Start a new game, optionally on a named layout
- list_sessions / get_session: Inspect running games
- game_state: Field, score and position for a session
- move: Play one turn (up/down/left/right or w/s/a/d)
- bulk_move: Play several turns in one call
- reset_game: Start over in the same session
- move_history: Past turns, paginated
- describe_cell: What is on a given cell
- record_high_score: Save a finished game under your initials
- high_scores: Show the high score table
- list_configs: Available layouts
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional layout selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Layout to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current field, score and captain position",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Play one turn: rabbits hop, then the captain moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "up, down, left, right (or w, s, a, d)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Play several turns in sequence, stopping at invalid input or game over",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Array of directions",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a fresh game in the session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the contents of one cell (0-based row and col)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0 is the top",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0 is the left edge",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)

	// High scores
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "record_high_score",
		Description: "Record the score of a finished game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"initials": map[string]interface{}{
					"type":        "string",
					"description": "Player initials, at most 3 characters are kept",
				},
			},
			Required: []string{"session_id", "initials"},
		},
	}, c.handleRecordHighScore)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "high_scores",
		Description: "Show the high score table, best first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum entries to show",
				},
			},
		},
	}, c.handleHighScores)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available field layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Serve runs the MCP server over stdio until stdin closes
func (c *Client) Serve() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score, over := 0, false
		if s.GameState != nil {
			score, over = s.GameState.Score, s.GameState.GameOver
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Score: %d, Over: %v, Created: %s)\n",
			s.ID, s.ConfigName, score, over, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}

	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	row, rowOK := args["row"].(float64)
	col, colOK := args["col"].(float64)
	if !rowOK || !colOK {
		return mcp.NewToolResultError("row and col are required integers"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pos := engine.Position{Row: int(row), Col: int(col)}
	if state.Field == nil || !state.Field.InBounds(pos) {
		rows, cols := 0, 0
		if state.Field != nil {
			rows, cols = state.Field.Rows, state.Field.Cols
		}
		return mcp.NewToolResultError(fmt.Sprintf("Cell (%d,%d) is out of bounds. Field is %dx%d",
			pos.Row, pos.Col, rows, cols)), nil
	}

	return mcp.NewToolResultText(describeCell(&state, pos)), nil
}

func (c *Client) handleRecordHighScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	initials, _ := args["initials"].(string)

	var result service.HighScoreResult
	body := map[string]string{"initials": initials}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/highscore"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recorded %s with %d points, rank %d\n\nHIGH SCORES\n",
		result.Entry.Initials, result.Entry.Score, result.Rank)
	b.WriteString(strings.Join(result.Table.Lines(), "\n"))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleHighScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/highscores"
	if limit, ok := arguments(request)["limit"].(float64); ok && limit > 0 {
		path += fmt.Sprintf("?limit=%d", int(limit))
	}

	var scores service.HighScoresResponse
	if err := c.apiCall(ctx, "GET", path, nil, &scores); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(scores.Lines) == 0 {
		return mcp.NewToolResultText("No high scores yet"), nil
	}
	return mcp.NewToolResultText("HIGH SCORES\n" + strings.Join(scores.Lines, "\n")), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		veggies := make([]string, len(config.Catalog))
		for i, v := range config.Catalog {
			veggies[i] = fmt.Sprintf("%s(%s)=%d", v.Name, v.Symbol, v.Points)
		}
		fmt.Fprintf(&b, "• %s\n  %s\n  Field: %dx%d, Veggies: %d, Rabbits: %d\n  Catalog: %s\n\n",
			config.ConfigID, config.Description, config.Rows, config.Cols,
			config.VeggieCount, config.RabbitCount, strings.Join(veggies, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Captain Veggie - Instructions

OBJECTIVE:
Harvest every veggie on the field. Each veggie is worth the points listed in
the layout catalog. The game ends when no veggies remain.

FIELD LEGEND:
• V - Captain Veggie (you)
• R - Rabbit
• lowercase letters - veggies, see the catalog for names and points
• space - empty cell

EACH TURN:
1. Every rabbit hops to a random empty cell.
2. The captain moves one cell:
   - onto a veggie: it is harvested and its points are added
   - onto an empty cell: the captain just moves
   - onto a rabbit: the captain stays put
   - off the edge: the captain stays put
Blocked moves still use up the turn, so rabbits keep hopping.

DIRECTIONS:
up/w, down/s, left/a, right/d (case-insensitive). Anything else is rejected
and no turn is played.

HIGH SCORES:
When the game is over, call record_high_score with your initials (at most 3
characters). Equal scores keep their earlier position in the table.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nScore recorded: %v\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.ScoreRecorded,
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil || state.Field == nil {
		return "No game state available"
	}

	var b strings.Builder

	pos := engine.Position{}
	if state.Captain != nil {
		pos = state.Captain.Pos
	}
	fmt.Fprintf(&b, "Position: (%d,%d) | Score: %d | Remaining: %d | Turn: %d\n\n",
		pos.Row, pos.Col, state.Score, state.RemainingVeggies(), state.Turn)

	border := "+" + strings.Repeat("-", state.Field.Cols) + "+\n"
	b.WriteString(border)
	for _, row := range engine.RenderRows(state.Field) {
		b.WriteString("|" + row + "|\n")
	}
	b.WriteString(border)

	if state.GameOver {
		b.WriteString("\nGAME OVER")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d) outcome=%s", s.Dir, s.From.Row, s.From.Col, s.To.Row, s.To.Col, s.Outcome)
		if s.Veggie != "" {
			fmt.Fprintf(&b, " harvested=%s(+%d)", s.Veggie, s.Points)
		}
		b.WriteString("\n")
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)
	fmt.Fprintf(&b, "Executed %d/%d moves, score +%d\n", result.MovesExecuted, result.RequestedMoves, result.ScoreDelta)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d moves were played\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}
	if len(result.Harvested) > 0 {
		fmt.Fprintf(&b, "Harvested: %s\n", strings.Join(result.Harvested, ", "))
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d) %s\n", s.Idx, s.Dir, s.From.Row, s.From.Col, s.To.Row, s.To.Col, s.Outcome)
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}
	if len(result.LocalView3x3) == 3 {
		b.WriteString("Local 3x3:\n")
		b.WriteString(strings.Join(result.LocalView3x3, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s %s [Score: %d]\n",
			move.MoveNumber, move.Action, status, move.Outcome, move.Score)
	}

	return b.String()
}

// describeCell explains what occupies pos
func describeCell(state *engine.GameState, pos engine.Position) string {
	cell := state.Field.At(pos)
	symbol := state.Field.Symbol(pos)

	var description string
	switch cell.Kind {
	case engine.CaptainCell:
		description = "Captain Veggie (you)"
	case engine.RabbitCell:
		description = "A rabbit, impassable this turn. It will hop elsewhere before your next move."
	case engine.VeggieCell:
		if cell.Veggie == nil {
			description = "A veggie"
			break
		}
		description = fmt.Sprintf("%s worth %d points, harvest it by moving here", cell.Veggie.Name, cell.Veggie.Points)
	default:
		description = "Empty cell"
	}

	return fmt.Sprintf("Cell (%d,%d): '%s'\n%s", pos.Row, pos.Col, symbol, description)
}
