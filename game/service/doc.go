// Package service provides the business API of the maze game.
//
// GameService sits between the transports (REST, WebSocket, MCP, terminal)
// and the live session. It turns session snapshots into presentation views,
// applies collected actions, reports gameplay events, paginates the move
// history, and describes mazes from the catalog.
//
// Choosing an exit that does not exist is not an error: the result has
// Success=false, an invalid_exit event, and the game is unchanged. Errors
// are reserved for cancelled contexts, unknown actions, catalog lookups and
// a cursor that no longer points at a room.
//
// Usage:
//
//	svc := service.NewGameService(host, mazeManager, mon)
//
//	state, err := svc.GetState(ctx)
//	result, err := svc.ChooseExit(ctx, 0)
//	if !result.Success {
//		fmt.Println(result.Message)
//	}
package service
