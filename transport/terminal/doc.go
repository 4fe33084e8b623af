// Package terminal is the interactive player shell used by the play command.
//
// Every turn has two phases. The read phase fetches the state and prints the
// room description and its exits numbered from 1; it never changes the game.
// The shell then reads one line and turns it into a session.Action:
//
//	1..N      take that exit
//	r         restart on the built-in maze
//	h         show the move history
//	q         quit
//
// Only after that does the mutation phase apply the action.
package terminal
