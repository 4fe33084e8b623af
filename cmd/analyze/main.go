// Command analyze checks maze definition files. For each file it reports
// parse and validation errors (missing or duplicate room ids, exits pointing
// at unknown rooms) and warnings about the graph: dead ends, rooms that can
// never be reached from the start, and mazes whose end cannot be reached.
//
// Arguments may be files or directories; directories are scanned for
// *.json, *.yaml and *.yml files. The exit status is non-zero if any maze
// has errors, or warnings when --strict is set.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

// FileReport captures the outcome of checking a single file
type FileReport struct {
	File     string           `json:"file"`
	Valid    bool             `json:"valid"`
	Errors   []string         `json:"errors,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
	Analysis *engine.Analysis `json:"analysis,omitempty"`
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "check maze definition files for errors and unreachable rooms",
		ArgsUsage: "[file or directory ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print reports as JSON",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat warnings as errors",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				paths = []string{"mazes"}
			}

			files, err := collectFiles(paths)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no maze files found")
			}

			reports := make([]FileReport, 0, len(files))
			for _, file := range files {
				reports = append(reports, analyzeFile(file))
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(cmd.Root().Writer)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				printReports(cmd.Root().Writer, reports)
			}

			if failed := countFailures(reports, cmd.Bool("strict")); failed > 0 {
				return fmt.Errorf("%d of %d mazes failed", failed, len(reports))
			}
			return nil
		},
	}
}

// collectFiles expands directories into the maze files they contain
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("cannot list %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".json", ".yaml", ".yml":
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// analyzeFile loads one maze file and checks it
func analyzeFile(path string) FileReport {
	report := FileReport{File: path, Valid: true}

	maze, err := engine.ReadMazeFile(path)
	if err != nil {
		report.Valid = false
		report.Errors = append(report.Errors, err.Error())
		return report
	}

	if err := engine.ValidateRooms(maze.Rooms); err != nil {
		report.Valid = false
		report.Errors = append(report.Errors, err.Error())
	}

	a := engine.AnalyzeRooms(maze.Rooms)
	report.Analysis = a

	// ValidateRooms stops at the first problem; list the rest
	for _, id := range a.DuplicateIDs {
		report.Errors = appendUnique(report.Errors, fmt.Sprintf("duplicate room id %q", id))
	}
	for _, d := range a.DanglingExits {
		report.Errors = appendUnique(report.Errors,
			fmt.Sprintf("room %q exit %d leads to unknown room %q", d.RoomID, d.ExitIndex, d.Destination))
	}
	if len(report.Errors) > 0 {
		report.Valid = false
	}

	if a.RoomCount == 0 {
		return report
	}
	if len(a.EndRooms) == 0 {
		report.Warnings = append(report.Warnings, "maze has no end room")
	} else if !a.EndReachable {
		report.Warnings = append(report.Warnings, "no end room is reachable from the start room")
	}
	for _, id := range a.DeadEnds {
		report.Warnings = append(report.Warnings, fmt.Sprintf("room %q has no exits and is not an end room", id))
	}
	for _, id := range a.Unreachable {
		report.Warnings = append(report.Warnings, fmt.Sprintf("room %q cannot be reached from %q", id, a.StartRoom))
	}

	return report
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func countFailures(reports []FileReport, strict bool) int {
	failed := 0
	for _, r := range reports {
		if !r.Valid || (strict && len(r.Warnings) > 0) {
			failed++
		}
	}
	return failed
}

func printReports(w io.Writer, reports []FileReport) {
	for _, r := range reports {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), r.File)

		if r.Valid {
			fmt.Fprintln(w, "VALID")
		} else {
			fmt.Fprintln(w, "INVALID")
		}
		for _, e := range r.Errors {
			fmt.Fprintln(w, "  error: "+e)
		}
		for _, warning := range r.Warnings {
			fmt.Fprintln(w, "  warning: "+warning)
		}

		if a := r.Analysis; a != nil && a.RoomCount > 0 {
			fmt.Fprintf(w, "  rooms: %d, exits: %d, start: %s, end rooms: %s\n",
				a.RoomCount, a.ExitCount, a.StartRoom, strings.Join(a.EndRooms, ", "))
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
}
