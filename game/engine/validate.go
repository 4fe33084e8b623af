package engine

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRoomID = errors.New("room id is required")
	ErrDuplicateRoom = errors.New("duplicate room id")
	ErrDanglingExit  = errors.New("exit destination does not exist")
)

// ValidateRooms checks a room graph for structural problems: no rooms, rooms
// without an id, duplicate ids, and exits pointing at unknown rooms. It
// returns the first problem found.
func ValidateRooms(rooms []Room) error {
	if len(rooms) == 0 {
		return ErrEmptyMaze
	}

	seen := make(map[string]int, len(rooms))
	for i, room := range rooms {
		if room.ID == "" {
			return fmt.Errorf("maze validation: room %d: %w", i+1, ErrMissingRoomID)
		}
		if first, ok := seen[room.ID]; ok {
			return fmt.Errorf("maze validation: room %d: %w %q (first defined as room %d)",
				i+1, ErrDuplicateRoom, room.ID, first+1)
		}
		seen[room.ID] = i
	}

	for _, room := range rooms {
		for j, exit := range room.Exits {
			if _, ok := seen[exit.Destination]; !ok {
				return fmt.Errorf("maze validation: room %q exit %d (%q): %w: %q",
					room.ID, j, exit.Label, ErrDanglingExit, exit.Destination)
			}
		}
	}

	return nil
}
