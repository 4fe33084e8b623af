// Package mcp exposes the maze game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, so agents and human watchers share the one live session.
//
// MCP Tools:
//   - current_room: Room description and numbered exits
//   - choose_exit: Take an exit by index (with an optional intent)
//   - restart_game: Start over on the built-in maze
//   - move_history: Paginated move history
//   - maze_info: Summary of the maze being played
//   - list_mazes: Maze catalog
//   - game_instructions: Rules of the game
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: client.HTTPHandler() mounted at POST /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
