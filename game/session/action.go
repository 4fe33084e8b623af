package session

import "fmt"

// ActionKind tags the two intents a shell can produce
type ActionKind int

const (
	ActionChooseExit ActionKind = iota + 1
	ActionRestart
)

func (k ActionKind) String() string {
	switch k {
	case ActionChooseExit:
		return "choose_exit"
	case ActionRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// ParseActionKind maps the wire name of an action to its kind
func ParseActionKind(name string) (ActionKind, error) {
	switch name {
	case "choose_exit", "choose":
		return ActionChooseExit, nil
	case "restart", "reset":
		return ActionRestart, nil
	default:
		return 0, fmt.Errorf("unknown action %q", name)
	}
}

// Action is one user intent collected during the read phase and applied
// afterwards. Index is only meaningful for ActionChooseExit.
type Action struct {
	Kind  ActionKind
	Index int
}

// Restart returns the action that discards the game and starts over
func Restart() Action {
	return Action{Kind: ActionRestart}
}

// ChooseExit returns the action that takes exit index of the current room
func ChooseExit(index int) Action {
	return Action{Kind: ActionChooseExit, Index: index}
}

func (a Action) String() string {
	if a.Kind == ActionChooseExit {
		return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
	}
	return a.Kind.String()
}
