package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/mazegame/game/service"
	"github.com/wricardo/mcp-training/mazegame/game/session"
)

// ErrQuit is returned by ParseCommand when the player asks to leave
var ErrQuit = errors.New("quit")

// Shell is a line-oriented player interface. Each turn it renders the
// current room, reads one line, and only then applies the resulting action.
type Shell struct {
	service service.GameService
	in      *bufio.Scanner
	out     io.Writer
}

// NewShell creates a shell reading commands from in and writing to out
func NewShell(svc service.GameService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		service: svc,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run plays until the player quits, input ends, or ctx is cancelled
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to the maze. Type a number to take an exit, 'h' for history, 'r' to restart, 'q' to quit.")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		// Read phase: render without touching the game
		state, err := s.service.GetState(ctx)
		if err != nil {
			return fmt.Errorf("failed to read game state: %w", err)
		}
		s.render(state)

		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())

		if isHistoryCommand(line) {
			if err := s.printHistory(ctx); err != nil {
				return err
			}
			continue
		}

		action, err := ParseCommand(line, len(state.Room.Exits))
		if errors.Is(err, ErrQuit) {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, err.Error())
			continue
		}

		// Mutation phase
		result, err := s.service.Apply(ctx, action)
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", action, err)
		}
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, result.Message)
	}
}

// ParseCommand maps one input line to an action. Exits are numbered from 1
// for the player and from 0 for the game. Numbers outside 1..exits are
// still turned into a ChooseExit so the game reports them as not taken.
func ParseCommand(line string, exits int) (session.Action, error) {
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return session.Action{}, ErrQuit
	case "r", "restart":
		return session.Restart(), nil
	case "":
		return session.Action{}, errors.New("please type a command")
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		if exits == 0 {
			return session.Action{}, fmt.Errorf("unknown command %q: type 'r' to restart or 'q' to quit", line)
		}
		return session.Action{}, fmt.Errorf("unknown command %q: type 1-%d, 'r' or 'q'", line, exits)
	}
	return session.ChooseExit(n - 1), nil
}

func isHistoryCommand(line string) bool {
	switch strings.ToLower(line) {
	case "h", "history":
		return true
	}
	return false
}

func (s *Shell) render(state *service.StateView) {
	room := state.Room

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, room.Description)

	if state.Finished {
		fmt.Fprintf(s.out, "You have reached the end of the maze in %d moves!\n", state.TotalMoves)
	}

	if len(room.Exits) == 0 {
		fmt.Fprintln(s.out, "There are no exits. Type 'r' to restart or 'q' to quit.")
		return
	}

	fmt.Fprintln(s.out, "Exits:")
	for _, exit := range room.Exits {
		fmt.Fprintf(s.out, "  %d) %s\n", exit.Index+1, exit.Label)
	}
}

func (s *Shell) printHistory(ctx context.Context) error {
	opts := service.HistoryOptions{Order: "asc", Limit: 100, Page: 1}
	for {
		history, err := s.service.GetMoveHistory(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		if history.TotalMoves == 0 {
			fmt.Fprintln(s.out, "No moves yet.")
			return nil
		}
		for _, move := range history.Moves {
			fmt.Fprintf(s.out, "  %d. %s (%s -> %s)\n", move.MoveNumber, move.Label, move.FromRoom, move.ToRoom)
		}
		if !history.HasNext {
			return nil
		}
		opts.Page++
	}
}
