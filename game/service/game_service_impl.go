package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/session"
	"github.com/wricardo/mcp-training/mazegame/logger"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	host    SessionHost
	mazes   MazeCatalog
	metrics MetricsRecorder
}

// NewGameService creates a new game service instance. mazes and metrics may
// be nil.
func NewGameService(host SessionHost, mazes MazeCatalog, metrics MetricsRecorder) GameService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &gameServiceImpl{
		host:    host,
		mazes:   mazes,
		metrics: metrics,
	}
}

// GetState returns the live session as a view
func (s *gameServiceImpl) GetState(ctx context.Context) (*StateView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buildStateView(s.host.Current())
}

// GetRoom returns only the current room
func (s *gameServiceImpl) GetRoom(ctx context.Context) (*RoomView, error) {
	view, err := s.GetState(ctx)
	if err != nil {
		return nil, err
	}
	return view.Room, nil
}

// ChooseExit takes exit index of the current room
func (s *gameServiceImpl) ChooseExit(ctx context.Context, index int) (*ChoiceResult, error) {
	return s.Apply(ctx, session.ChooseExit(index))
}

// Restart discards the game and starts over on the built-in maze
func (s *gameServiceImpl) Restart(ctx context.Context) (*ChoiceResult, error) {
	return s.Apply(ctx, session.Restart())
}

// Apply performs a collected action. A choice of a non-existent exit is not
// an error: it reports Success=false and leaves the game untouched.
func (s *gameServiceImpl) Apply(ctx context.Context, action session.Action) (*ChoiceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch action.Kind {
	case session.ActionChooseExit, session.ActionRestart:
	default:
		return nil, fmt.Errorf("unsupported action %s", action)
	}

	outcome := s.host.Apply(action)

	view, err := buildStateView(outcome.Session)
	if err != nil {
		return nil, err
	}

	result := &ChoiceResult{
		Success: outcome.Applied,
		Action:  action.Kind.String(),
		State:   view,
		Events:  extractEvents(outcome, view),
	}

	switch action.Kind {
	case session.ActionRestart:
		s.metrics.RecordRestart()
		result.Message = "Game restarted. " + view.Message

	case session.ActionChooseExit:
		if !outcome.Applied {
			s.metrics.RecordInvalidChoice()
			result.Message = invalidExitMessage(action.Index, view.Room)
			logger.Log.Debugw("invalid exit", "index", action.Index, "room", view.Room.ID)
			break
		}

		move := outcome.Move
		result.Step = &StepInfo{
			MoveNumber: move.MoveNumber,
			ExitIndex:  move.ExitIndex,
			Label:      move.Label,
			From:       move.FromRoom,
			To:         move.ToRoom,
			Finished:   move.Finished,
		}
		s.metrics.RecordMove(view.TotalMoves, view.Finished)
		if outcome.NewlyFinished {
			s.metrics.RecordCompletion()
			logger.Log.Infow("maze completed", "session", view.SessionID, "moves", view.TotalMoves)
		}
		result.Message = fmt.Sprintf("%s. %s", move.Label, view.Message)
	}

	return result, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, opts HistoryOptions) (*HistoryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	history := s.host.Current().State.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	var moves []engine.MoveHistoryEntry
	// Pages past the end are empty. Checked before computing start.
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := start + opts.Limit
		if end > total {
			end = total
		}

		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else if start < total {
			moves = history[start:end]
		}
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// GetMazeInfo describes the maze the live session runs on
func (s *gameServiceImpl) GetMazeInfo(ctx context.Context) (*MazeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess := s.host.Current()
	name := sess.Source
	if name != session.SourceBuiltin {
		name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}

	info := DescribeMaze(name, sess.State.Rooms)
	if sess.Source != session.SourceBuiltin {
		info.Filename = filepath.Base(sess.Source)
	}
	return info, nil
}

// ListMazes returns the maze catalog
func (s *gameServiceImpl) ListMazes(ctx context.Context) ([]*MazeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.mazes == nil {
		return []*MazeInfo{}, nil
	}
	return s.mazes.ListMazes()
}

// GetCatalogMaze describes one maze from the catalog
func (s *gameServiceImpl) GetCatalogMaze(ctx context.Context, name string) (*MazeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.mazes == nil {
		return nil, fmt.Errorf("no maze catalog configured")
	}

	maze, err := s.mazes.LoadMaze(name)
	if err != nil {
		return nil, err
	}
	return DescribeMaze(strings.TrimSuffix(name, filepath.Ext(name)), maze.Rooms), nil
}

// buildStateView renders a session snapshot. A cursor that no longer points
// at a room is an internal consistency failure and is returned as an error.
func buildStateView(sess *session.Session) (*StateView, error) {
	room, err := sess.State.CurrentRoom()
	if err != nil {
		return nil, fmt.Errorf("failed to read current room: %w", err)
	}

	view := &StateView{
		SessionID:    sess.ID,
		Source:       sess.Source,
		StartedAt:    sess.StartedAt,
		LastActionAt: sess.LastActionAt,
		Room:         buildRoomView(room),
		Finished:     sess.State.IsFinished(),
		TotalMoves:   sess.State.TotalMoves,
		LastMove:     sess.State.LastMove(),
	}
	view.Message = stateMessage(view)
	return view, nil
}

func buildRoomView(room *engine.Room) *RoomView {
	exits := make([]ExitView, len(room.Exits))
	for i, exit := range room.Exits {
		exits[i] = ExitView{Index: i, Label: exit.Label, Destination: exit.Destination}
	}
	return &RoomView{
		ID:          room.ID,
		Description: room.Description,
		Exits:       exits,
		IsEnd:       room.IsEnd,
	}
}

func stateMessage(view *StateView) string {
	switch {
	case view.Finished:
		return "You have reached the end of the maze!"
	case len(view.Room.Exits) == 0:
		return "There are no exits here. Restart to try again."
	default:
		return fmt.Sprintf("Choose an exit (0-%d).", len(view.Room.Exits)-1)
	}
}

func invalidExitMessage(index int, room *RoomView) string {
	if len(room.Exits) == 0 {
		return fmt.Sprintf("Exit %d does not exist: room %q has no exits.", index, room.ID)
	}
	return fmt.Sprintf("Exit %d does not exist in room %q (valid: 0-%d).", index, room.ID, len(room.Exits)-1)
}

// extractEvents derives the events an action produced
func extractEvents(outcome session.Outcome, view *StateView) []GameEvent {
	now := time.Now()
	var events []GameEvent

	switch outcome.Action.Kind {
	case session.ActionRestart:
		events = append(events, GameEvent{
			Type:      EventRestart,
			Message:   "Started a new game on the built-in maze",
			Timestamp: now,
			RoomID:    view.Room.ID,
		})

	case session.ActionChooseExit:
		if !outcome.Applied {
			events = append(events, GameEvent{
				Type:      EventInvalidExit,
				Message:   fmt.Sprintf("Exit %d does not exist", outcome.Action.Index),
				Timestamp: now,
				RoomID:    view.Room.ID,
			})
			break
		}
		events = append(events, GameEvent{
			Type:      EventMove,
			Message:   fmt.Sprintf("%s: %s -> %s", outcome.Move.Label, outcome.Move.FromRoom, outcome.Move.ToRoom),
			Timestamp: now,
			RoomID:    outcome.Move.ToRoom,
		})
		if outcome.NewlyFinished {
			events = append(events, GameEvent{
				Type:      EventFinished,
				Message:   "Reached the end of the maze",
				Timestamp: now,
				RoomID:    outcome.Move.ToRoom,
			})
		}
	}

	return events
}

type noopMetrics struct{}

func (noopMetrics) RecordMove(int, bool) {}
func (noopMetrics) RecordInvalidChoice() {}
func (noopMetrics) RecordCompletion()    {}
func (noopMetrics) RecordRestart()       {}
