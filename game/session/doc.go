// Package session owns the single live game.
//
// A shell first reads the current room through Host.Current, collects one
// user intent as an Action (ChooseExit or Restart), and only then calls
// Host.Apply. Reads return snapshots, so the read phase never observes a
// half-applied transition.
//
// Restart discards the session, including its move history, and replaces it
// with a fresh one built from the built-in maze under a new ID. Progress is
// never persisted.
//
// There is exactly one live session per Host. The Host is safe for
// concurrent use because network transports call in from many goroutines;
// the game state inside it is not, and is only touched under the Host lock.
//
// Usage:
//
//	host := session.NewHost(state, source)
//
//	room, err := host.Current().State.CurrentRoom()
//	...
//	outcome := host.Apply(session.ChooseExit(1))
//	if !outcome.Applied {
//		// exit 1 does not exist, nothing changed
//	}
package session
