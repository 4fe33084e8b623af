package engine

import (
	"testing"
)

func TestChooseExit_DefaultMazeScenarios(t *testing.T) {
	t.Run("start to middle", func(t *testing.T) {
		state := NewGameState()

		if !state.ChooseExit(0) {
			t.Fatal("Expected exit 0 from start to succeed")
		}
		if state.Current != "middle" {
			t.Errorf("Expected current room 'middle', got '%s'", state.Current)
		}
		if state.Finished {
			t.Error("Expected game not to be finished in the middle room")
		}
	})

	t.Run("middle forward to end", func(t *testing.T) {
		state := NewGameState()
		state.ChooseExit(0)

		if !state.ChooseExit(1) {
			t.Fatal("Expected forward exit to succeed")
		}
		if state.Current != "end" {
			t.Errorf("Expected current room 'end', got '%s'", state.Current)
		}
		if !state.Finished {
			t.Error("Expected game to be finished after entering the end room")
		}
		if last := state.LastMove(); last == nil || !last.Finished {
			t.Error("Expected last history entry to record the finish")
		}
	})

	t.Run("middle back to start", func(t *testing.T) {
		state := NewGameState()
		state.ChooseExit(0)

		if !state.ChooseExit(0) {
			t.Fatal("Expected back exit to succeed")
		}
		if state.Current != "start" {
			t.Errorf("Expected current room 'start', got '%s'", state.Current)
		}
		if state.Finished {
			t.Error("Expected game not to be finished after going back")
		}
	})
}

func TestChooseExit_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		moves []int
		index int
	}{
		{"negative index at start", nil, -1},
		{"past the end at start", nil, 1},
		{"far past the end", nil, 1000},
		{"past the end in middle", []int{0}, 2},
		{"any index in the end room", []int{0, 1}, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state := NewGameState()
			for _, m := range test.moves {
				state.ChooseExit(m)
			}
			beforeRoom := state.Current
			beforeFinished := state.Finished
			beforeMoves := state.TotalMoves

			if state.ChooseExit(test.index) {
				t.Errorf("Expected ChooseExit(%d) to be a no-op", test.index)
			}
			if state.Current != beforeRoom {
				t.Errorf("Expected current room to stay '%s', got '%s'", beforeRoom, state.Current)
			}
			if state.Finished != beforeFinished {
				t.Errorf("Expected finished to stay %v, got %v", beforeFinished, state.Finished)
			}
			if state.TotalMoves != beforeMoves {
				t.Errorf("Expected no history entry, total moves went %d -> %d", beforeMoves, state.TotalMoves)
			}
		})
	}
}

func TestChooseExit_FinishedIsMonotonic(t *testing.T) {
	state := MustFromRooms(createTestRooms())

	// hall -> vault (end), then keep walking around
	state.ChooseExit(1)
	if !state.Finished {
		t.Fatal("Expected game to be finished after entering the vault")
	}

	for _, index := range []int{0, 0, 0, 1, 7, -3, 0} {
		state.ChooseExit(index)
		if !state.Finished {
			t.Fatalf("Finished flag reset after ChooseExit(%d)", index)
		}
	}
}

func TestChooseExit_LeavingEndRoomKeepsFinished(t *testing.T) {
	rooms := []Room{
		{ID: "goal", Description: "Already at the goal.", IsEnd: true,
			Exits: []Exit{{Label: "Wander off", Destination: "field"}}},
		{ID: "field", Description: "An empty field."},
	}
	state := MustFromRooms(rooms)

	if state.Finished {
		t.Fatal("Expected a fresh state to be unfinished even when starting in an end room")
	}

	state.ChooseExit(0)
	if !state.Finished {
		t.Error("Expected leaving an end room to mark the game finished")
	}
	if state.Current != "field" {
		t.Errorf("Expected current room 'field', got '%s'", state.Current)
	}
}

func TestChooseExit_NeverMutatesRooms(t *testing.T) {
	state := NewGameState()
	before := DefaultRooms()

	state.ChooseExit(0)
	state.ChooseExit(1)

	if len(state.Rooms) != len(before) {
		t.Fatalf("Room count changed from %d to %d", len(before), len(state.Rooms))
	}
	for i := range before {
		if state.Rooms[i].ID != before[i].ID || state.Rooms[i].IsEnd != before[i].IsEnd ||
			len(state.Rooms[i].Exits) != len(before[i].Exits) {
			t.Errorf("Room %d changed: %+v", i, state.Rooms[i])
		}
	}
}
