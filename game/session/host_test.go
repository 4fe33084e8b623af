package session

import (
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

func createTestState(t *testing.T) *engine.GameState {
	t.Helper()
	state, err := engine.FromRooms([]engine.Room{
		{ID: "hall", Description: "A hall.", Exits: []engine.Exit{
			{Label: "North", Destination: "vault"},
			{Label: "Stay", Destination: "hall"},
		}},
		{ID: "vault", Description: "The vault.", Exits: []engine.Exit{
			{Label: "Back", Destination: "hall"},
		}, IsEnd: true},
	})
	if err != nil {
		t.Fatalf("Failed to create state: %v", err)
	}
	return state
}

func TestNewHost(t *testing.T) {
	host := NewHost(createTestState(t), "/tmp/maze.json")
	sess := host.Current()

	if sess.ID == "" {
		t.Error("Expected session ID")
	}
	if sess.Source != "/tmp/maze.json" {
		t.Errorf("Expected source /tmp/maze.json, got %s", sess.Source)
	}
	if sess.State.Current != "hall" {
		t.Errorf("Expected current room hall, got %s", sess.State.Current)
	}
	if sess.StartedAt.IsZero() || !sess.LastActionAt.Equal(sess.StartedAt) {
		t.Error("Expected StartedAt and LastActionAt to be set equal")
	}
}

func TestApply_ChooseExit(t *testing.T) {
	host := NewHost(createTestState(t), SourceBuiltin)

	outcome := host.Apply(ChooseExit(1))
	if !outcome.Applied {
		t.Fatal("Expected choice to apply")
	}
	if outcome.NewlyFinished {
		t.Error("Did not expect finish on self loop")
	}
	if outcome.Move == nil || outcome.Move.MoveNumber != 1 || outcome.Move.ToRoom != "hall" {
		t.Errorf("Unexpected move: %+v", outcome.Move)
	}

	outcome = host.Apply(ChooseExit(0))
	if !outcome.Applied || !outcome.NewlyFinished {
		t.Errorf("Expected applied finishing move, got %+v", outcome)
	}
	if outcome.Session.State.Current != "vault" || !outcome.Session.State.IsFinished() {
		t.Errorf("Expected finished in vault, got %s", outcome.Session.State.Current)
	}

	// Leaving the end room keeps the game finished but is not a new finish
	outcome = host.Apply(ChooseExit(0))
	if !outcome.Applied || outcome.NewlyFinished {
		t.Errorf("Expected applied move without new finish, got %+v", outcome)
	}
	if !outcome.Session.State.IsFinished() {
		t.Error("Expected finished to stay true")
	}
}

func TestApply_InvalidExit(t *testing.T) {
	host := NewHost(createTestState(t), SourceBuiltin)
	before := host.Current()

	for _, index := range []int{-1, 2, 99} {
		outcome := host.Apply(ChooseExit(index))
		if outcome.Applied {
			t.Errorf("Expected index %d to be rejected", index)
		}
		if outcome.Move != nil {
			t.Errorf("Expected no move for index %d", index)
		}
	}

	after := host.Current()
	if after.State.Current != before.State.Current || after.State.TotalMoves != 0 {
		t.Errorf("Expected state unchanged, got room %s moves %d", after.State.Current, after.State.TotalMoves)
	}
	if !after.LastActionAt.Equal(before.LastActionAt) {
		t.Error("Expected LastActionAt unchanged after rejected choice")
	}
}

func TestApply_Restart(t *testing.T) {
	host := NewHost(createTestState(t), "/tmp/maze.json")
	host.Apply(ChooseExit(0))
	before := host.Current()

	outcome := host.Apply(Restart())
	if !outcome.Applied {
		t.Fatal("Expected restart to apply")
	}
	if outcome.PreviousID != before.ID {
		t.Errorf("Expected previous ID %s, got %s", before.ID, outcome.PreviousID)
	}

	after := host.Current()
	if after.ID == before.ID {
		t.Error("Expected a new session ID after restart")
	}
	if after.Source != SourceBuiltin {
		t.Errorf("Expected restart to use the built-in maze, got source %s", after.Source)
	}
	if after.State.Current != "start" || after.State.IsFinished() || after.State.TotalMoves != 0 {
		t.Errorf("Expected fresh built-in state, got %+v", after.State)
	}
	if len(after.State.GetMoveHistory()) != 0 {
		t.Error("Expected history to be discarded")
	}
}

func TestApply_UnknownKind(t *testing.T) {
	host := NewHost(createTestState(t), SourceBuiltin)
	outcome := host.Apply(Action{Kind: ActionKind(42)})
	if outcome.Applied {
		t.Error("Expected unknown action to be ignored")
	}
	if outcome.Session == nil {
		t.Error("Expected a snapshot even for ignored actions")
	}
}

func TestSnapshot_Isolated(t *testing.T) {
	host := NewHost(createTestState(t), SourceBuiltin)
	snap := host.Current()

	host.Apply(ChooseExit(0))

	if snap.State.Current != "hall" {
		t.Errorf("Expected snapshot to keep hall, got %s", snap.State.Current)
	}
	if len(snap.State.MoveHistory) != 0 {
		t.Error("Expected snapshot history to stay empty")
	}

	outcome := host.Apply(ChooseExit(0))
	outcome.Session.State.MoveHistory[0].Label = "tampered"
	if host.Current().State.MoveHistory[0].Label == "tampered" {
		t.Error("Expected snapshot history to be a copy")
	}
}

func TestAction(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Restart(), "restart"},
		{ChooseExit(2), "choose_exit(2)"},
		{Action{}, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		name    string
		want    ActionKind
		wantErr bool
	}{
		{"choose_exit", ActionChooseExit, false},
		{"choose", ActionChooseExit, false},
		{"restart", ActionRestart, false},
		{"reset", ActionRestart, false},
		{"jump", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActionKind(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHost_Concurrent(t *testing.T) {
	host := NewHost(createTestState(t), SourceBuiltin)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			host.Apply(ChooseExit(1))
		}()
		go func() {
			defer wg.Done()
			_ = host.Current().State.Current
		}()
	}
	wg.Wait()

	if got := host.Current().State.TotalMoves; got != 20 {
		t.Errorf("Expected 20 moves, got %d", got)
	}
}
