package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadErrorKind classifies why a maze file could not be loaded
type LoadErrorKind int

const (
	LoadErrNotFound LoadErrorKind = iota + 1
	LoadErrUnreadable
	LoadErrMalformed
	LoadErrInvalid
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadErrNotFound:
		return "not found"
	case LoadErrUnreadable:
		return "unreadable"
	case LoadErrMalformed:
		return "malformed"
	case LoadErrInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// LoadError is returned when a maze file cannot be turned into a game state
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load maze %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadErrorKind reports whether err is a *LoadError of the given kind
func IsLoadErrorKind(err error, kind LoadErrorKind) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr) && loadErr.Kind == kind
}

// FormatFromPath picks the decoder for a maze file by its extension
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ErrMissingField is returned when a room omits description or exits
var ErrMissingField = errors.New("missing required field")

// wireRoom mirrors Room with presence tracking for the required fields
type wireRoom struct {
	ID          string  `json:"id" yaml:"id"`
	Description *string `json:"description" yaml:"description"`
	Exits       *[]Exit `json:"exits" yaml:"exits"`
	IsEnd       bool    `json:"is_end" yaml:"is_end"`
}

type wireMaze struct {
	Rooms []wireRoom `json:"rooms" yaml:"rooms"`
}

// ParseMaze decodes a maze definition. Every room must carry description
// and exits; missing is_end fields decode as false.
func ParseMaze(data []byte, format Format) (*MazeFile, error) {
	var wire wireMaze

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported maze format %q", format)
	}

	maze := &MazeFile{Rooms: make([]Room, 0, len(wire.Rooms))}
	for i, w := range wire.Rooms {
		if w.Description == nil {
			return nil, fmt.Errorf("room %d (%q): %w \"description\"", i+1, w.ID, ErrMissingField)
		}
		if w.Exits == nil {
			return nil, fmt.Errorf("room %d (%q): %w \"exits\"", i+1, w.ID, ErrMissingField)
		}
		maze.Rooms = append(maze.Rooms, Room{
			ID:          w.ID,
			Description: *w.Description,
			Exits:       *w.Exits,
			IsEnd:       w.IsEnd,
		})
	}

	return maze, nil
}

// MarshalMaze encodes rooms as a maze definition in the given format
func MarshalMaze(rooms []Room, format Format) ([]byte, error) {
	maze := MazeFile{Rooms: make([]Room, len(rooms))}
	for i, room := range rooms {
		if room.Exits == nil {
			room.Exits = []Exit{}
		}
		maze.Rooms[i] = room
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&maze); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return json.MarshalIndent(&maze, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported maze format %q", format)
	}
}

// ReadMazeFile reads and decodes a maze file without validating it
func ReadMazeFile(path string) (*MazeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Kind: LoadErrNotFound, Path: path, Err: err}
		}
		return nil, &LoadError{Kind: LoadErrUnreadable, Path: path, Err: err}
	}

	maze, err := ParseMaze(data, FormatFromPath(path))
	if err != nil {
		return nil, &LoadError{Kind: LoadErrMalformed, Path: path, Err: err}
	}

	return maze, nil
}

// LoadFromFile loads a maze file and builds a game state from it. The maze
// is validated first, so a loaded state never starts with dangling exits or
// duplicate room ids.
func LoadFromFile(path string) (*GameState, error) {
	maze, err := ReadMazeFile(path)
	if err != nil {
		return nil, err
	}

	if err := ValidateRooms(maze.Rooms); err != nil {
		return nil, &LoadError{Kind: LoadErrInvalid, Path: path, Err: err}
	}

	state, err := FromRooms(maze.Rooms)
	if err != nil {
		return nil, &LoadError{Kind: LoadErrInvalid, Path: path, Err: err}
	}

	return state, nil
}
