package engine

import "time"

// ChooseExit moves the cursor through the exit at index in the current room.
// An index outside the current room's exits leaves the state untouched and
// returns false.
func (gs *GameState) ChooseExit(index int) bool {
	room, err := gs.CurrentRoom()
	if err != nil {
		return false
	}
	if index < 0 || index >= len(room.Exits) {
		return false
	}

	// Capture everything needed from the current room before moving
	exit := room.Exits[index]
	wasEnd := room.IsEnd
	from := gs.Current

	gs.Current = exit.Destination

	if wasEnd {
		gs.Finished = true
	}
	if dest, ok := gs.FindRoom(exit.Destination); ok && dest.IsEnd {
		gs.Finished = true
	}

	gs.addMoveToHistory(index, exit, from)
	return true
}

// addMoveToHistory appends a successful transition to the history
func (gs *GameState) addMoveToHistory(index int, exit Exit, from string) {
	entry := MoveHistoryEntry{
		ExitIndex:  index,
		Label:      exit.Label,
		FromRoom:   from,
		ToRoom:     exit.Destination,
		Finished:   gs.Finished,
		Timestamp:  time.Now().Unix(),
		MoveNumber: gs.TotalMoves + 1,
	}
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++
}
