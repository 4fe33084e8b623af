package engine

// Format identifies the structured-data encoding of a maze file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"

	// DefaultMazeFile is the maze definition looked up next to the executable
	DefaultMazeFile = "maze.json"
)

// Exit represents one directed edge out of a room
type Exit struct {
	Label       string `json:"label" yaml:"label"`             // e.g. "Go through the left door"
	Destination string `json:"destination" yaml:"destination"` // e.g. "middle"
}

// Room represents one location in the maze
type Room struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Exits       []Exit `json:"exits" yaml:"exits"`
	IsEnd       bool   `json:"is_end" yaml:"is_end"`
}

// MazeFile is the externally loadable maze definition
type MazeFile struct {
	Rooms []Room `json:"rooms" yaml:"rooms"`
}

// GameState represents the live traversal state.
// Rooms is never modified after construction.
type GameState struct {
	Rooms    []Room `json:"rooms"`
	Current  string `json:"current_room"`
	Finished bool   `json:"is_finished"`

	// MoveHistory holds successful transitions made on this state only.
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
}

// MoveHistoryEntry represents a single exit taken
type MoveHistoryEntry struct {
	ExitIndex  int    `json:"exit_index"`
	Label      string `json:"label"`
	FromRoom   string `json:"from_room"`
	ToRoom     string `json:"to_room"`
	Finished   bool   `json:"finished"`
	Timestamp  int64  `json:"timestamp"`
	MoveNumber int    `json:"move_number"`
}
