package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
	"github.com/wricardo/mcp-training/mazegame/game/session"
	"github.com/wricardo/mcp-training/mazegame/logger"
)

// SourceBuiltin marks a state built from the built-in default maze
const SourceBuiltin = session.SourceBuiltin

var ErrMazeNotFound = errors.New("maze not found")

var mazeExtensions = []string{".json", ".yaml", ".yml"}

// Manager resolves the startup maze and serves a catalog of maze files
type Manager struct {
	mazeDir     string
	defaultPath string
	mazes       map[string]*engine.MazeFile
	mu          sync.RWMutex
}

// NewManager creates a new maze manager. mazeDir may be empty, in which case
// the catalog is empty.
func NewManager(mazeDir string) (*Manager, error) {
	if mazeDir != "" {
		info, err := os.Stat(mazeDir)
		if err != nil {
			return nil, fmt.Errorf("maze directory does not exist: %s", mazeDir)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("maze directory is not a directory: %s", mazeDir)
		}
	}

	return &Manager{
		mazeDir:     mazeDir,
		defaultPath: ExecutableMazePath(),
		mazes:       make(map[string]*engine.MazeFile),
	}, nil
}

// ExecutableMazePath returns the maze.json location next to the running
// executable, or an empty string if the executable cannot be located
func ExecutableMazePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), engine.DefaultMazeFile)
}

// Resolve produces the initial game state. An explicit path wins; otherwise
// maze.json next to the executable is tried. Resolve never fails: a missing
// default file silently yields the built-in maze and any other load problem
// is logged before falling back to it. The second result names the source.
func (m *Manager) Resolve(explicit string) (*engine.GameState, string) {
	path := explicit
	if path == "" {
		path = m.defaultPath
	}
	if path == "" {
		return engine.NewGameState(), SourceBuiltin
	}

	state, err := engine.LoadFromFile(path)
	if err != nil {
		if explicit == "" && engine.IsLoadErrorKind(err, engine.LoadErrNotFound) {
			logger.Log.Debugw("no maze file next to executable, using built-in maze", "path", path)
		} else {
			logger.Log.Warnw("failed to load maze, using built-in maze", "path", path, "error", err)
		}
		return engine.NewGameState(), SourceBuiltin
	}

	logger.Log.Infow("maze loaded", "path", path, "rooms", len(state.Rooms))
	return state, path
}

// LoadMaze loads a catalog maze by name, with or without its extension
func (m *Manager) LoadMaze(name string) (*engine.MazeFile, error) {
	key := strings.TrimSuffix(name, filepath.Ext(name))

	m.mu.RLock()
	if maze, exists := m.mazes[key]; exists {
		m.mu.RUnlock()
		return maze, nil
	}
	m.mu.RUnlock()

	path, err := m.findMazeFile(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if maze, exists := m.mazes[key]; exists {
		return maze, nil
	}

	maze, err := engine.ReadMazeFile(path)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateRooms(maze.Rooms); err != nil {
		return nil, &engine.LoadError{Kind: engine.LoadErrInvalid, Path: path, Err: err}
	}

	m.mazes[key] = maze
	return maze, nil
}

// findMazeFile maps a catalog name to a file in the maze directory
func (m *Manager) findMazeFile(name string) (string, error) {
	if m.mazeDir == "" || name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrMazeNotFound, name)
	}

	candidates := []string{name}
	if !hasMazeExtension(name) {
		candidates = candidates[:0]
		for _, ext := range mazeExtensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, candidate := range candidates {
		path := filepath.Join(m.mazeDir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrMazeNotFound, name)
}

// ListMazes returns information about every valid maze in the maze directory
func (m *Manager) ListMazes() ([]*service.MazeInfo, error) {
	if m.mazeDir == "" {
		return []*service.MazeInfo{}, nil
	}

	entries, err := os.ReadDir(m.mazeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maze directory: %w", err)
	}

	mazes := []*service.MazeInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !hasMazeExtension(entry.Name()) {
			continue
		}

		maze, err := m.LoadMaze(entry.Name())
		if err != nil {
			logger.Log.Warnw("skipping maze", "file", entry.Name(), "error", err)
			continue
		}

		info := service.DescribeMaze(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), maze.Rooms)
		info.Filename = entry.Name()
		mazes = append(mazes, info)
	}

	sort.Slice(mazes, func(i, j int) bool { return mazes[i].Name < mazes[j].Name })
	return mazes, nil
}

// RefreshCache drops every cached maze so the next lookup rereads disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mazes = make(map[string]*engine.MazeFile)
}

func hasMazeExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range mazeExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
