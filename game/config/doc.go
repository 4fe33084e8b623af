// Package config decides which maze a game starts from and keeps a catalog
// of maze definition files.
//
// Startup resolution:
//
// Resolve is called once when a shell starts:
//   - an explicit path (flag, setting, or MAZEGAME_MAZE_PATH) is loaded if given
//   - otherwise maze.json next to the running executable is tried
//   - a missing default file falls back to the built-in maze silently
//   - any other failure is logged as a warning and falls back as well
//
// Startup never aborts because of a maze file.
//
// Catalog:
//
// When a maze directory is configured, every *.json, *.yaml and *.yml file
// in it is exposed by ListMazes and LoadMaze. Catalog mazes are validated
// and cached after the first read.
//
//	manager, err := config.NewManager("mazes")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state, source := manager.Resolve("")
//	mazes, err := manager.ListMazes()
package config
