package service

import (
	"time"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

// Event types reported in ChoiceResult.Events
const (
	EventMove        = "move"
	EventFinished    = "finished"
	EventRestart     = "restart"
	EventInvalidExit = "invalid_exit"
)

// StateView is the presentation-ready state of the live session
type StateView struct {
	SessionID    string                   `json:"session_id"`
	Source       string                   `json:"source"`
	StartedAt    time.Time                `json:"started_at"`
	LastActionAt time.Time                `json:"last_action_at"`
	Room         *RoomView                `json:"room"`
	Finished     bool                     `json:"is_finished"`
	TotalMoves   int                      `json:"total_moves"`
	LastMove     *engine.MoveHistoryEntry `json:"last_move,omitempty"`
	Message      string                   `json:"message"`
}

// RoomView describes the current room with numbered exits
type RoomView struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Exits       []ExitView `json:"exits"`
	IsEnd       bool       `json:"is_end"`
}

// ExitView is one exit; Index is what ChooseExit expects
type ExitView struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Destination string `json:"destination"`
}

// ChoiceResult contains the result of an action
type ChoiceResult struct {
	Success bool        `json:"success"`
	Action  string      `json:"action"`
	Message string      `json:"message"`
	State   *StateView  `json:"state"`
	Step    *StepInfo   `json:"step,omitempty"`
	Events  []GameEvent `json:"events,omitempty"`
}

// StepInfo is a compact record of one transition
type StepInfo struct {
	MoveNumber int    `json:"move_number"`
	ExitIndex  int    `json:"exit_index"`
	Label      string `json:"label"`
	From       string `json:"from"`
	To         string `json:"to"`
	Finished   bool   `json:"finished"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "finished", "restart", "invalid_exit"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RoomID    string    `json:"room_id,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// MazeInfo summarizes a maze graph
type MazeInfo struct {
	Name         string   `json:"name"`
	Filename     string   `json:"filename,omitempty"`
	Description  string   `json:"description"` // the start room's description
	RoomCount    int      `json:"room_count"`
	ExitCount    int      `json:"exit_count"`
	StartRoom    string   `json:"start_room"`
	EndRooms     []string `json:"end_rooms"`
	EndReachable bool     `json:"end_reachable"`
	DeadEnds     []string `json:"dead_ends,omitempty"`
	Unreachable  []string `json:"unreachable,omitempty"`
}

// DescribeMaze builds a MazeInfo from a room graph
func DescribeMaze(name string, rooms []engine.Room) *MazeInfo {
	a := engine.AnalyzeRooms(rooms)
	info := &MazeInfo{
		Name:         name,
		RoomCount:    a.RoomCount,
		ExitCount:    a.ExitCount,
		StartRoom:    a.StartRoom,
		EndRooms:     a.EndRooms,
		EndReachable: a.EndReachable,
		DeadEnds:     a.DeadEnds,
		Unreachable:  a.Unreachable,
	}
	if len(rooms) > 0 {
		info.Description = rooms[0].Description
	}
	return info
}
