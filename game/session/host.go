package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/logger"
)

// SourceBuiltin marks a session built from the built-in default maze
const SourceBuiltin = "builtin"

// Session is the one live game: its traversal state plus metadata
type Session struct {
	ID           string
	State        *engine.GameState
	Source       string // maze file path, or SourceBuiltin
	StartedAt    time.Time
	LastActionAt time.Time
}

// Outcome describes what applying an action did
type Outcome struct {
	Action  Action
	Applied bool // false when the chosen exit does not exist

	// ChooseExit only
	Move          *engine.MoveHistoryEntry
	NewlyFinished bool

	// Restart only
	PreviousID string

	// Session is a snapshot taken after the action
	Session *Session
}

// Host owns the single live session. Reads get snapshots; Apply is the only
// way to mutate, and Restart replaces the session wholesale.
type Host struct {
	current *Session
	mu      sync.RWMutex
}

// NewHost wraps the initial state resolved at startup
func NewHost(state *engine.GameState, source string) *Host {
	return &Host{current: newSession(state, source)}
}

func newSession(state *engine.GameState, source string) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		State:        state,
		Source:       source,
		StartedAt:    now,
		LastActionAt: now,
	}
}

// Current returns a snapshot of the live session
func (h *Host) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Snapshot()
}

// Apply performs one action on the live session
func (h *Host) Apply(action Action) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	outcome := Outcome{Action: action}

	switch action.Kind {
	case ActionRestart:
		outcome.PreviousID = h.current.ID
		h.current = newSession(engine.NewGameState(), SourceBuiltin)
		outcome.Applied = true
		logger.Log.Infow("session restarted", "previous", outcome.PreviousID, "session", h.current.ID)

	case ActionChooseExit:
		state := h.current.State
		wasFinished := state.IsFinished()
		if state.ChooseExit(action.Index) {
			outcome.Applied = true
			outcome.Move = state.LastMove()
			outcome.NewlyFinished = !wasFinished && state.IsFinished()
			h.current.LastActionAt = time.Now()
		}
		logger.Log.Debugw("exit chosen", "session", h.current.ID, "index", action.Index, "applied", outcome.Applied, "room", state.Current)

	default:
		logger.Log.Warnw("ignoring unknown action", "kind", int(action.Kind))
	}

	outcome.Session = h.current.Snapshot()
	if outcome.Move != nil {
		move := *outcome.Move
		outcome.Move = &move
	}
	return outcome
}

// Snapshot copies the session so it can be read after the host lock is
// released. Rooms are shared since they never change after construction.
func (s *Session) Snapshot() *Session {
	cp := *s
	state := *s.State
	state.MoveHistory = append([]engine.MoveHistoryEntry(nil), s.State.MoveHistory...)
	cp.State = &state
	return &cp
}
