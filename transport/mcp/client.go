package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/mazegame/game/service"
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
		baseURL: strings.TrimSuffix(baseURL, "/"),
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
		"Maze Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find your way from the start room to an end room by choosing exits.

AVAILABLE TOOLS:
- current_room: Describe the current room and its numbered exits
- choose_exit: Take an exit by its index - requires intent explanation
- restart_game: Start over on the built-in maze
- move_history: View past moves
- maze_info: Summary of the maze being played
- list_mazes: Mazes available on the server
- game_instructions: Rules and tips

NOTE: The 'intent' parameter on choose_exit serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	empty := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "current_room",
		Description: "Describe the current room, its exits, and whether the maze is finished",
		InputSchema: empty,
	}, c.handleCurrentRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "choose_exit",
		Description: "Take an exit of the current room by its 0-based index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"description": "Index of the exit as listed by current_room",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why you are taking this exit (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"index"},
		},
	}, c.handleChooseExit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Discard the current game and start over on the built-in maze",
		InputSchema: empty,
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the exits taken in the current game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Moves per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "desc for most recent first (default)",
				},
			},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "maze_info",
		Description: "Summarize the maze being played: rooms, exits, end rooms, reachability",
		InputSchema: empty,
	}, c.handleMazeInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_mazes",
		Description: "List maze files available on the server",
		InputSchema: empty,
	}, c.handleListMazes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the maze game",
		InputSchema: empty,
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
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
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCurrentRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state service.StateView
	if err := c.apiCall(ctx, "GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleChooseExit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := request.GetArguments()["index"]; !ok {
		return mcp.NewToolResultError("index is required"), nil
	}
	index := request.GetInt("index", -1)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	var result service.ChoiceResult
	if err := c.apiCall(ctx, "POST", "/api/choose", map[string]int{"index": index}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatChoiceResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.ChoiceResult
	if err := c.apiCall(ctx, "POST", "/api/restart", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatChoiceResult(&result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		query.Set("order", order)
	}

	path := "/api/history"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleMazeInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.MazeInfo
	if err := c.apiCall(ctx, "GET", "/api/maze", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMazeInfo(&info)), nil
}

func (c *Client) handleListMazes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count int                 `json:"count"`
		Mazes []*service.MazeInfo `json:"mazes"`
	}
	if err := c.apiCall(ctx, "GET", "/api/mazes", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if resp.Count == 0 {
		return mcp.NewToolResultText("No maze catalog is configured on the server."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available mazes (%d):\n", resp.Count)
	for _, m := range resp.Mazes {
		fmt.Fprintf(&b, "- %s (%s): %d rooms, end reachable: %t\n", m.Name, m.Filename, m.RoomCount, m.EndReachable)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `MAZE GAME RULES

You are standing in a room of a maze. Every room has a description and a
numbered list of exits. Each exit leads to another room.

HOW TO PLAY:
1. Call current_room to read where you are and which exits exist.
2. Call choose_exit with the index of the exit you want to take.
3. Repeat until you enter an end room. The game is then finished.

RULES:
- Exit indexes start at 0 and are only valid for the room you are in.
- Choosing an index that does not exist does nothing; nothing is lost.
- Some rooms have no exits. If you are stuck, call restart_game.
- Once finished, the game stays finished even if you keep walking.
- restart_game always starts over on the built-in three-room maze and
  clears the move history.

TIPS:
- Use move_history to avoid walking in circles.
- Use maze_info to see how many rooms and end rooms the maze has.`

// Formatting helpers

func formatState(state *service.StateView) string {
	var b strings.Builder
	room := state.Room

	fmt.Fprintf(&b, "Room: %s\n", room.ID)
	fmt.Fprintf(&b, "%s\n", room.Description)

	if len(room.Exits) == 0 {
		b.WriteString("\nThere are no exits.\n")
	} else {
		b.WriteString("\nExits:\n")
		for _, exit := range room.Exits {
			fmt.Fprintf(&b, "  [%d] %s\n", exit.Index, exit.Label)
		}
	}

	fmt.Fprintf(&b, "\nMoves: %d | Finished: %t\n", state.TotalMoves, state.Finished)
	b.WriteString(state.Message)
	return b.String()
}

func formatChoiceResult(result *service.ChoiceResult) string {
	var b strings.Builder

	status := "OK"
	if !result.Success {
		status = "NOT TAKEN"
	}
	fmt.Fprintf(&b, "%s: %s\n", status, result.Message)

	if result.Step != nil {
		fmt.Fprintf(&b, "Move #%d: [%d] %s (%s -> %s)\n",
			result.Step.MoveNumber, result.Step.ExitIndex, result.Step.Label, result.Step.From, result.Step.To)
	}
	for _, event := range result.Events {
		if event.Type == service.EventFinished {
			b.WriteString("*** You reached the end of the maze! ***\n")
		}
	}

	if result.State != nil {
		b.WriteString("\n")
		b.WriteString(formatState(result.State))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	if history.TotalMoves == 0 {
		return "No moves yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Move history (page %d/%d, %d total):\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, move := range history.Moves {
		fmt.Fprintf(&b, "#%d [%d] %s: %s -> %s", move.MoveNumber, move.ExitIndex, move.Label, move.FromRoom, move.ToRoom)
		if move.Finished {
			b.WriteString(" (finished)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatMazeInfo(info *service.MazeInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Maze: %s\n", info.Name)
	fmt.Fprintf(&b, "Rooms: %d | Exits: %d | Start: %s\n", info.RoomCount, info.ExitCount, info.StartRoom)
	fmt.Fprintf(&b, "End rooms: %s\n", strings.Join(info.EndRooms, ", "))
	fmt.Fprintf(&b, "End reachable from start: %t\n", info.EndReachable)
	if len(info.DeadEnds) > 0 {
		fmt.Fprintf(&b, "Dead ends: %s\n", strings.Join(info.DeadEnds, ", "))
	}
	return b.String()
}
