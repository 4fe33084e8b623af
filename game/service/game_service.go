package service

import (
	"context"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	// Game State
	GetState(ctx context.Context) (*StateView, error)
	GetRoom(ctx context.Context) (*RoomView, error)
	GetMoveHistory(ctx context.Context, opts HistoryOptions) (*HistoryResponse, error)

	// Game Operations
	ChooseExit(ctx context.Context, index int) (*ChoiceResult, error)
	Restart(ctx context.Context) (*ChoiceResult, error)
	Apply(ctx context.Context, action session.Action) (*ChoiceResult, error)

	// Mazes
	GetMazeInfo(ctx context.Context) (*MazeInfo, error)
	ListMazes(ctx context.Context) ([]*MazeInfo, error)
	GetCatalogMaze(ctx context.Context, name string) (*MazeInfo, error)
}

// SessionHost owns the live session
type SessionHost interface {
	Current() *session.Session
	Apply(action session.Action) session.Outcome
}

// MazeCatalog lists maze files available on disk
type MazeCatalog interface {
	ListMazes() ([]*MazeInfo, error)
	LoadMaze(name string) (*engine.MazeFile, error)
}

// MetricsRecorder receives gameplay counters
type MetricsRecorder interface {
	RecordMove(totalMoves int, finished bool)
	RecordInvalidChoice()
	RecordCompletion()
	RecordRestart()
}
