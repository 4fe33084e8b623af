package engine

// DefaultRooms returns the built-in three-room maze. It is the fallback for
// a missing or broken maze file and the source of every restart.
func DefaultRooms() []Room {
	return []Room{
		{
			ID:          "start",
			Description: "You are in a small stone chamber with one door ahead.",
			Exits: []Exit{
				{Label: "Go through the door", Destination: "middle"},
			},
			IsEnd: false,
		},
		{
			ID:          "middle",
			Description: "You stand in a long hallway. There is a door behind and one ahead.",
			Exits: []Exit{
				{Label: "Go back", Destination: "start"},
				{Label: "Go forward", Destination: "end"},
			},
			IsEnd: false,
		},
		{
			ID:          "end",
			Description: "You find yourself in a bright room. This is the end of the maze!",
			Exits:       []Exit{},
			IsEnd:       true,
		},
	}
}
