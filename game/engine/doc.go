// Package engine provides the core logic of the maze game.
//
// The engine package implements:
//   - The maze data model (rooms connected by labeled, directed exits)
//   - The traversal state machine (current-room cursor and finished flag)
//   - Loading maze definitions from JSON or YAML files
//   - The built-in default maze used as a fallback and on restart
//   - Structural validation and analysis of room graphs
//
// Core Types:
//
// Room and Exit describe the graph. MazeFile is the on-disk payload, used only
// while loading. GameState is the live traversal state; it implements the
// Engine interface.
//
// Usage:
//
//	state, err := engine.LoadFromFile("maze.json")
//	if err != nil {
//		state = engine.NewGameState()
//	}
//
//	room, err := state.CurrentRoom()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(room.Description)
//
//	// Take the first exit
//	moved := state.ChooseExit(0)
//
// Game Rules:
//
// The player starts in the first room listed in the maze. Choosing an exit
// moves the cursor to the exit's destination. The game is finished once an
// end room has been entered, and stays finished until the state is replaced.
// Choosing an exit index that does not exist is a no-op.
package engine
