// Package api provides the HTTP REST API of the maze game.
//
// Endpoints:
//
// Game State:
//   - GET /api/state - Current session: room, exits, finished flag, move count
//   - GET /api/room - Current room only
//   - GET /api/history - Move history (?page=1&limit=20&order=desc|asc)
//
// Game Operations:
//   - POST /api/choose - Take an exit: {"index": 0}
//   - POST /api/restart - Start over on the built-in maze
//   - POST /api/actions - Tagged action: {"action": "choose_exit", "index": 1}
//     or {"action": "restart"}
//
// Mazes:
//   - GET /api/maze - Summary of the maze being played
//   - GET /api/mazes - Maze catalog
//   - GET /api/mazes/{name} - Summary of one catalog maze
//
// Other:
//   - GET /healthz - Liveness
//   - GET /ws - WebSocket state stream
//
// Choosing an exit that does not exist is answered with 200 and
// "success": false; the game is unchanged. Malformed bodies get 400.
// Errors are JSON:
//
//	{"error": "error message"}
//
// Every applied action is broadcast to WebSocket watchers.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, mon)
//	server.Handle("/metrics", mon.Handler(), "GET")
//	http.ListenAndServe(":8080", server)
package api
