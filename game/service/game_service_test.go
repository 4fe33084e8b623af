package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/session"
)

type fakeMetrics struct {
	moves, invalid, completions, restarts int
}

func (f *fakeMetrics) RecordMove(int, bool) { f.moves++ }
func (f *fakeMetrics) RecordInvalidChoice() { f.invalid++ }
func (f *fakeMetrics) RecordCompletion()    { f.completions++ }
func (f *fakeMetrics) RecordRestart()       { f.restarts++ }

type fakeCatalog struct {
	mazes map[string]*engine.MazeFile
}

func (f *fakeCatalog) ListMazes() ([]*MazeInfo, error) {
	var out []*MazeInfo
	for name, maze := range f.mazes {
		out = append(out, DescribeMaze(name, maze.Rooms))
	}
	return out, nil
}

func (f *fakeCatalog) LoadMaze(name string) (*engine.MazeFile, error) {
	maze, ok := f.mazes[name]
	if !ok {
		return nil, errors.New("maze not found")
	}
	return maze, nil
}

func createTestService(t *testing.T) (GameService, *fakeMetrics) {
	t.Helper()
	state, err := engine.FromRooms([]engine.Room{
		{ID: "hall", Description: "A hall.", Exits: []engine.Exit{
			{Label: "Open the vault", Destination: "vault"},
			{Label: "Pace", Destination: "hall"},
		}},
		{ID: "vault", Description: "The vault.", Exits: []engine.Exit{}, IsEnd: true},
	})
	if err != nil {
		t.Fatalf("Failed to create state: %v", err)
	}

	metrics := &fakeMetrics{}
	catalog := &fakeCatalog{mazes: map[string]*engine.MazeFile{
		"default": {Rooms: engine.DefaultRooms()},
	}}
	return NewGameService(session.NewHost(state, "/mazes/bank.json"), catalog, metrics), metrics
}

func TestGetState(t *testing.T) {
	svc, _ := createTestService(t)

	state, err := svc.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}

	if state.Room.ID != "hall" {
		t.Errorf("Expected room hall, got %s", state.Room.ID)
	}
	if len(state.Room.Exits) != 2 || state.Room.Exits[1].Index != 1 || state.Room.Exits[1].Label != "Pace" {
		t.Errorf("Unexpected exits: %+v", state.Room.Exits)
	}
	if state.Finished || state.TotalMoves != 0 || state.LastMove != nil {
		t.Errorf("Expected fresh state, got %+v", state)
	}
	if state.Message != "Choose an exit (0-1)." {
		t.Errorf("Unexpected message: %s", state.Message)
	}

	room, err := svc.GetRoom(context.Background())
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if room.ID != "hall" {
		t.Errorf("Expected room hall, got %s", room.ID)
	}
}

func TestChooseExit(t *testing.T) {
	svc, metrics := createTestService(t)
	ctx := context.Background()

	result, err := svc.ChooseExit(ctx, 1)
	if err != nil {
		t.Fatalf("ChooseExit failed: %v", err)
	}
	if !result.Success || result.Action != "choose_exit" {
		t.Errorf("Expected successful choose_exit, got %+v", result)
	}
	if result.Step == nil || result.Step.From != "hall" || result.Step.To != "hall" || result.Step.MoveNumber != 1 {
		t.Errorf("Unexpected step: %+v", result.Step)
	}
	if len(result.Events) != 1 || result.Events[0].Type != EventMove {
		t.Errorf("Expected a single move event, got %+v", result.Events)
	}

	result, err = svc.ChooseExit(ctx, 0)
	if err != nil {
		t.Fatalf("ChooseExit failed: %v", err)
	}
	if !result.State.Finished || result.State.Room.ID != "vault" {
		t.Errorf("Expected finished in vault, got %+v", result.State)
	}
	if len(result.Events) != 2 || result.Events[1].Type != EventFinished {
		t.Errorf("Expected move and finished events, got %+v", result.Events)
	}
	if result.State.Message != "You have reached the end of the maze!" {
		t.Errorf("Unexpected message: %s", result.State.Message)
	}

	if metrics.moves != 2 || metrics.completions != 1 {
		t.Errorf("Expected 2 moves and 1 completion, got %+v", metrics)
	}
}

func TestChooseExit_Invalid(t *testing.T) {
	svc, metrics := createTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"one past end", 2},
		{"far out", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ChooseExit(ctx, tt.index)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result.Success {
				t.Error("Expected Success=false")
			}
			if result.Step != nil {
				t.Error("Expected no step")
			}
			if len(result.Events) != 1 || result.Events[0].Type != EventInvalidExit {
				t.Errorf("Expected invalid_exit event, got %+v", result.Events)
			}
			if result.State.Room.ID != "hall" || result.State.TotalMoves != 0 {
				t.Errorf("Expected unchanged state, got %+v", result.State)
			}
		})
	}

	if metrics.invalid != 3 || metrics.moves != 0 {
		t.Errorf("Expected 3 invalid choices, got %+v", metrics)
	}
}

func TestChooseExit_NoExits(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()

	if _, err := svc.ChooseExit(ctx, 0); err != nil {
		t.Fatalf("ChooseExit failed: %v", err)
	}

	result, err := svc.ChooseExit(ctx, 0)
	if err != nil {
		t.Fatalf("ChooseExit failed: %v", err)
	}
	if result.Success {
		t.Error("Expected choice in exitless room to fail")
	}
	if result.Message != `Exit 0 does not exist: room "vault" has no exits.` {
		t.Errorf("Unexpected message: %s", result.Message)
	}
}

func TestRestart(t *testing.T) {
	svc, metrics := createTestService(t)
	ctx := context.Background()

	before, _ := svc.GetState(ctx)
	svc.ChooseExit(ctx, 0)

	result, err := svc.Restart(ctx)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if !result.Success || result.Action != "restart" {
		t.Errorf("Expected successful restart, got %+v", result)
	}
	if result.State.SessionID == before.SessionID {
		t.Error("Expected new session ID")
	}
	if result.State.Source != session.SourceBuiltin || result.State.Room.ID != "start" {
		t.Errorf("Expected built-in maze at start, got %s in %s", result.State.Source, result.State.Room.ID)
	}
	if result.State.Finished || result.State.TotalMoves != 0 {
		t.Errorf("Expected fresh state, got %+v", result.State)
	}
	if len(result.Events) != 1 || result.Events[0].Type != EventRestart {
		t.Errorf("Expected restart event, got %+v", result.Events)
	}
	if metrics.restarts != 1 {
		t.Errorf("Expected 1 restart, got %d", metrics.restarts)
	}
}

func TestApply(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()

	result, err := svc.Apply(ctx, session.ChooseExit(0))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !result.Success {
		t.Error("Expected success")
	}

	if _, err := svc.Apply(ctx, session.Action{}); err == nil {
		t.Error("Expected error for zero action")
	}
}

func TestCancelledContext(t *testing.T) {
	svc, _ := createTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.GetState(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, err := svc.ChooseExit(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	// Nothing was applied
	state, _ := svc.GetState(context.Background())
	if state.TotalMoves != 0 {
		t.Errorf("Expected 0 moves, got %d", state.TotalMoves)
	}
}

func TestGetMoveHistory(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.ChooseExit(ctx, 1)
	}
	svc.ChooseExit(ctx, 7) // rejected, not recorded

	tests := []struct {
		name        string
		opts        HistoryOptions
		wantLen     int
		wantFirst   int
		wantPages   int
		wantHasNext bool
	}{
		{"defaults are desc", HistoryOptions{}, 5, 5, 1, false},
		{"asc", HistoryOptions{Order: "asc"}, 5, 1, 1, false},
		{"paged asc", HistoryOptions{Page: 2, Limit: 2, Order: "asc"}, 2, 3, 3, true},
		{"paged desc", HistoryOptions{Page: 3, Limit: 2, Order: "desc"}, 1, 1, 3, false},
		{"beyond last page", HistoryOptions{Page: 9, Limit: 2}, 0, 0, 3, false},
		{"huge page desc", HistoryOptions{Page: math.MaxInt / 2, Limit: 20}, 0, 0, 1, false},
		{"huge page asc", HistoryOptions{Page: 500000000000000000, Limit: 37, Order: "asc"}, 0, 0, 1, false},
		{"limit clamped", HistoryOptions{Limit: 1000}, 5, 5, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetMoveHistory(ctx, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory failed: %v", err)
			}
			if resp.TotalMoves != 5 {
				t.Errorf("Expected 5 total moves, got %d", resp.TotalMoves)
			}
			if len(resp.Moves) != tt.wantLen {
				t.Fatalf("Expected %d moves, got %d", tt.wantLen, len(resp.Moves))
			}
			if tt.wantLen > 0 && resp.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("Expected first move %d, got %d", tt.wantFirst, resp.Moves[0].MoveNumber)
			}
			if resp.TotalPages != tt.wantPages {
				t.Errorf("Expected %d pages, got %d", tt.wantPages, resp.TotalPages)
			}
			if resp.HasNext != tt.wantHasNext {
				t.Errorf("Expected HasNext %v, got %v", tt.wantHasNext, resp.HasNext)
			}
		})
	}
}

func TestGetMazeInfo(t *testing.T) {
	svc, _ := createTestService(t)

	info, err := svc.GetMazeInfo(context.Background())
	if err != nil {
		t.Fatalf("GetMazeInfo failed: %v", err)
	}
	if info.Name != "bank" || info.Filename != "bank.json" {
		t.Errorf("Expected bank/bank.json, got %s/%s", info.Name, info.Filename)
	}
	if info.RoomCount != 2 || info.ExitCount != 2 || info.StartRoom != "hall" {
		t.Errorf("Unexpected info: %+v", info)
	}
	if !info.EndReachable || len(info.EndRooms) != 1 || info.EndRooms[0] != "vault" {
		t.Errorf("Expected reachable end vault, got %+v", info)
	}

	svc.Restart(context.Background())
	info, _ = svc.GetMazeInfo(context.Background())
	if info.Name != session.SourceBuiltin || info.Filename != "" {
		t.Errorf("Expected builtin maze info, got %+v", info)
	}
	if info.Description != engine.DefaultRooms()[0].Description {
		t.Errorf("Expected start room description, got %s", info.Description)
	}
}

func TestMazeCatalog(t *testing.T) {
	svc, _ := createTestService(t)
	ctx := context.Background()

	mazes, err := svc.ListMazes(ctx)
	if err != nil {
		t.Fatalf("ListMazes failed: %v", err)
	}
	if len(mazes) != 1 || mazes[0].RoomCount != 3 {
		t.Errorf("Unexpected catalog: %+v", mazes)
	}

	info, err := svc.GetCatalogMaze(ctx, "default")
	if err != nil {
		t.Fatalf("GetCatalogMaze failed: %v", err)
	}
	if info.StartRoom != "start" {
		t.Errorf("Expected start room start, got %s", info.StartRoom)
	}

	if _, err := svc.GetCatalogMaze(ctx, "missing"); err == nil {
		t.Error("Expected error for missing maze")
	}
}

func TestNilCatalogAndMetrics(t *testing.T) {
	svc := NewGameService(session.NewHost(engine.NewGameState(), session.SourceBuiltin), nil, nil)
	ctx := context.Background()

	mazes, err := svc.ListMazes(ctx)
	if err != nil || len(mazes) != 0 {
		t.Errorf("Expected empty catalog, got %v %v", mazes, err)
	}
	if _, err := svc.GetCatalogMaze(ctx, "any"); err == nil {
		t.Error("Expected error without catalog")
	}
	if _, err := svc.ChooseExit(ctx, 0); err != nil {
		t.Errorf("Expected choice to work without metrics, got %v", err)
	}
}

func TestDanglingCursor(t *testing.T) {
	state := engine.MustFromRooms([]engine.Room{
		{ID: "a", Exits: []engine.Exit{{Label: "Into the void", Destination: "void"}}},
	})
	svc := NewGameService(session.NewHost(state, session.SourceBuiltin), nil, nil)

	if _, err := svc.ChooseExit(context.Background(), 0); !errors.Is(err, engine.ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
	if _, err := svc.GetState(context.Background()); !errors.Is(err, engine.ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}

	// Restart recovers
	result, err := svc.Restart(context.Background())
	if err != nil || result.State.Room.ID != "start" {
		t.Errorf("Expected restart to recover, got %v", err)
	}
}
