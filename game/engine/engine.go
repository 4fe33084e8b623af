package engine

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMaze    = errors.New("maze must have at least one room")
	ErrRoomNotFound = errors.New("current room does not exist in the maze")
)

// Engine provides the main interface for traversal operations
type Engine interface {
	// State inspection
	CurrentRoom() (*Room, error)
	IsFinished() bool
	Exits() []Exit

	// Transitions
	ChooseExit(index int) bool

	// History
	GetMoveHistory() []MoveHistoryEntry
	LastMove() *MoveHistoryEntry
}

var _ Engine = (*GameState)(nil)

// FromRooms creates a new game state whose start room is the first room in
// rooms. Destinations are not validated here.
func FromRooms(rooms []Room) (*GameState, error) {
	if len(rooms) == 0 {
		return nil, ErrEmptyMaze
	}

	return &GameState{
		Rooms:       rooms,
		Current:     rooms[0].ID,
		Finished:    false,
		MoveHistory: []MoveHistoryEntry{},
		TotalMoves:  0,
	}, nil
}

// MustFromRooms is like FromRooms but panics on an empty maze
func MustFromRooms(rooms []Room) *GameState {
	state, err := FromRooms(rooms)
	if err != nil {
		panic(fmt.Sprintf("engine: %v", err))
	}
	return state
}

// NewGameState creates a new game state with the default built-in maze
func NewGameState() *GameState {
	return MustFromRooms(DefaultRooms())
}

// CurrentRoom returns the room the cursor points at. It returns
// ErrRoomNotFound when the cursor was moved through a dangling exit.
func (gs *GameState) CurrentRoom() (*Room, error) {
	room, ok := gs.FindRoom(gs.Current)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, gs.Current)
	}
	return room, nil
}

// FindRoom returns the first room with the given id
func (gs *GameState) FindRoom(id string) (*Room, bool) {
	for i := range gs.Rooms {
		if gs.Rooms[i].ID == id {
			return &gs.Rooms[i], true
		}
	}
	return nil, false
}

// IsFinished returns whether an end room has been entered
func (gs *GameState) IsFinished() bool {
	return gs.Finished
}

// Exits returns the exits of the current room, or nil if the cursor is dangling
func (gs *GameState) Exits() []Exit {
	room, err := gs.CurrentRoom()
	if err != nil {
		return nil
	}
	return room.Exits
}

// GetMoveHistory returns the transitions made on this state
func (gs *GameState) GetMoveHistory() []MoveHistoryEntry {
	return gs.MoveHistory
}

// LastMove returns the last transition made, or nil if no moves
func (gs *GameState) LastMove() *MoveHistoryEntry {
	if len(gs.MoveHistory) == 0 {
		return nil
	}
	return &gs.MoveHistory[len(gs.MoveHistory)-1]
}
