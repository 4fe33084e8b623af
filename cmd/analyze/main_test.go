package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

func writeMaze(t *testing.T, dir, name string, rooms []engine.Room) string {
	t.Helper()
	data, err := engine.MarshalMaze(rooms, engine.FormatFromPath(name))
	if err != nil {
		t.Fatalf("Failed to marshal maze: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write maze: %v", err)
	}
	return path
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("default maze is clean", func(t *testing.T) {
		report := analyzeFile(writeMaze(t, dir, "default.json", engine.DefaultRooms()))
		if !report.Valid || len(report.Errors) != 0 || len(report.Warnings) != 0 {
			t.Errorf("Expected clean report, got %+v", report)
		}
		if report.Analysis.RoomCount != 3 {
			t.Errorf("Expected 3 rooms, got %d", report.Analysis.RoomCount)
		}
	})

	t.Run("errors", func(t *testing.T) {
		report := analyzeFile(writeMaze(t, dir, "broken.yaml", []engine.Room{
			{ID: "a", Exits: []engine.Exit{{Label: "x", Destination: "nowhere"}, {Label: "y", Destination: "gone"}}},
			{ID: "a", IsEnd: true},
		}))
		if report.Valid {
			t.Error("Expected invalid report")
		}
		// first validation error plus one line per dangling exit and duplicate
		if len(report.Errors) < 3 {
			t.Errorf("Expected every problem listed, got %v", report.Errors)
		}
	})

	t.Run("warnings", func(t *testing.T) {
		report := analyzeFile(writeMaze(t, dir, "warn.json", []engine.Room{
			{ID: "start", Exits: []engine.Exit{{Label: "down", Destination: "pit"}}},
			{ID: "pit"},
			{ID: "exit", IsEnd: true},
		}))
		if !report.Valid {
			t.Errorf("Expected valid report, got errors %v", report.Errors)
		}
		joined := strings.Join(report.Warnings, "\n")
		for _, want := range []string{
			"no end room is reachable",
			`room "pit" has no exits`,
			`room "exit" cannot be reached`,
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("Expected warning %q in %v", want, report.Warnings)
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		report := analyzeFile(filepath.Join(dir, "missing.json"))
		if report.Valid || len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "not found") {
			t.Errorf("Expected not found error, got %+v", report)
		}
	})
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeMaze(t, dir, "b.yml", engine.DefaultRooms())
	writeMaze(t, dir, "a.json", engine.DefaultRooms())
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "nested"), 0755)

	files, err := collectFiles([]string{dir})
	if err != nil {
		t.Fatalf("collectFiles failed: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.json" || filepath.Base(files[1]) != "b.yml" {
		t.Errorf("Unexpected files: %v", files)
	}

	if _, err := collectFiles([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestCountFailures(t *testing.T) {
	reports := []FileReport{
		{Valid: true},
		{Valid: true, Warnings: []string{"w"}},
		{Valid: false},
	}
	if got := countFailures(reports, false); got != 1 {
		t.Errorf("Expected 1 failure, got %d", got)
	}
	if got := countFailures(reports, true); got != 2 {
		t.Errorf("Expected 2 strict failures, got %d", got)
	}
}

func TestCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeMaze(t, dir, "good.json", engine.DefaultRooms())
	warn := writeMaze(t, dir, "warn.json", []engine.Room{{ID: "lonely"}})

	run := func(args ...string) (string, error) {
		cmd := newCommand()
		out := &bytes.Buffer{}
		cmd.Writer = out
		cmd.ErrWriter = out
		err := cmd.Run(context.Background(), append([]string{"analyze"}, args...))
		return out.String(), err
	}

	t.Run("text", func(t *testing.T) {
		out, err := run(good)
		if err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		if !strings.Contains(out, "VALID") || !strings.Contains(out, "rooms: 3") {
			t.Errorf("Unexpected output:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := run("--json", good)
		if err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		var reports []FileReport
		if err := json.Unmarshal([]byte(out), &reports); err != nil {
			t.Fatalf("Expected JSON output: %v\n%s", err, out)
		}
		if len(reports) != 1 || !reports[0].Valid {
			t.Errorf("Unexpected reports: %+v", reports)
		}
	})

	t.Run("warnings pass unless strict", func(t *testing.T) {
		if _, err := run(warn); err != nil {
			t.Errorf("Expected warnings to pass, got %v", err)
		}
		if _, err := run("--strict", warn); err == nil {
			t.Error("Expected strict mode to fail on warnings")
		}
	})
}
