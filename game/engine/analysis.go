package engine

// DanglingExit points at an exit whose destination is not a known room
type DanglingExit struct {
	RoomID      string `json:"room_id"`
	ExitIndex   int    `json:"exit_index"`
	Destination string `json:"destination"`
}

// Analysis summarizes the shape of a room graph
type Analysis struct {
	RoomCount     int            `json:"room_count"`
	ExitCount     int            `json:"exit_count"`
	StartRoom     string         `json:"start_room"`
	EndRooms      []string       `json:"end_rooms"`
	DeadEnds      []string       `json:"dead_ends,omitempty"`   // non-end rooms without exits
	Unreachable   []string       `json:"unreachable,omitempty"` // rooms never reachable from the start
	DuplicateIDs  []string       `json:"duplicate_ids,omitempty"`
	MissingIDs    int            `json:"missing_ids,omitempty"`
	DanglingExits []DanglingExit `json:"dangling_exits,omitempty"`
	EndReachable  bool           `json:"end_reachable"`
}

// AnalyzeRooms inspects a room graph the way the traversal would see it:
// room lookup is first-match, and only rooms reachable from the first room
// can ever become current.
func AnalyzeRooms(rooms []Room) *Analysis {
	a := &Analysis{
		RoomCount: len(rooms),
		EndRooms:  []string{},
	}
	if len(rooms) == 0 {
		return a
	}
	a.StartRoom = rooms[0].ID

	index := make(map[string]int, len(rooms))
	for i, room := range rooms {
		if room.ID == "" {
			a.MissingIDs++
		}
		if _, ok := index[room.ID]; ok {
			a.DuplicateIDs = append(a.DuplicateIDs, room.ID)
			continue
		}
		index[room.ID] = i
	}

	for _, room := range rooms {
		a.ExitCount += len(room.Exits)
		if room.IsEnd {
			a.EndRooms = append(a.EndRooms, room.ID)
		} else if len(room.Exits) == 0 {
			a.DeadEnds = append(a.DeadEnds, room.ID)
		}
		for j, exit := range room.Exits {
			if _, ok := index[exit.Destination]; !ok {
				a.DanglingExits = append(a.DanglingExits, DanglingExit{
					RoomID:      room.ID,
					ExitIndex:   j,
					Destination: exit.Destination,
				})
			}
		}
	}

	reached := reachableFrom(rooms, index, 0)
	for i, room := range rooms {
		if !reached[i] {
			a.Unreachable = append(a.Unreachable, room.ID)
			continue
		}
		if room.IsEnd {
			a.EndReachable = true
		}
	}

	return a
}

// reachableFrom marks every room index reachable from start by following exits
func reachableFrom(rooms []Room, index map[string]int, start int) []bool {
	reached := make([]bool, len(rooms))
	reached[start] = true
	queue := []int{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, exit := range rooms[current].Exits {
			next, ok := index[exit.Destination]
			if !ok || reached[next] {
				continue
			}
			reached[next] = true
			queue = append(queue, next)
		}
	}

	return reached
}

// HasProblems reports whether the analysis found anything that would make
// LoadFromFile reject the maze
func (a *Analysis) HasProblems() bool {
	return a.RoomCount == 0 || a.MissingIDs > 0 || len(a.DuplicateIDs) > 0 || len(a.DanglingExits) > 0
}
