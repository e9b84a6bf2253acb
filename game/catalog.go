// Package game implements the escape room core: the room catalog, the
// per-scope session store, and the progression engine. It knows nothing
// about Telegram; the bot package feeds it events and replays its replies.
package game

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

const (
	firstRoom = 1
	lastRoom  = 10
)

// Room is one stage of the main ten-room path. A nil Answers slice means the
// room has a dedicated validator (the room 4 sequence, the room 10 list)
// instead of literal matching. Image, when set, names the photo asset that
// accompanies the prompt.
type Room struct {
	Text    string   `yaml:"text"`
	Hints   []string `yaml:"hints"`
	Answers []string `yaml:"answers"`
	Item    string   `yaml:"item"`
	Image   string   `yaml:"image"`
	Success string   `yaml:"success"`
}

// Reward is granted once when an optional room is solved.
type Reward struct {
	FreeHints        int `yaml:"free_hints"`
	Jokers           int `yaml:"jokers"`
	RemovePenaltySec int `yaml:"remove_penalty_sec"`
}

// Optional is a detour room offered at a checkpoint. BackTo is the main room
// the player resumes at after solving it.
type Optional struct {
	Text    string   `yaml:"text"`
	Answers []string `yaml:"answers"`
	Reward  Reward   `yaml:"reward"`
	Success string   `yaml:"success"`
	BackTo  int      `yaml:"back_to"`
}

// Checkpoint maps a main room to the optional it unlocks and the room the
// player jumps to when skipping it.
type Checkpoint struct {
	Optional string `yaml:"optional"`
	NextRoom int    `yaml:"next_room"`
}

type catalog struct {
	Rooms       map[int]Room        `yaml:"rooms"`
	Optionals   map[string]Optional `yaml:"optionals"`
	Checkpoints map[int]Checkpoint  `yaml:"checkpoints"`
}

var gameCatalog catalog

func init() {
	if err := yaml.Unmarshal(catalogYAML, &gameCatalog); err != nil {
		panic(fmt.Sprintf("game: bad embedded catalog: %v", err))
	}
	if err := validateCatalog(gameCatalog); err != nil {
		panic(fmt.Sprintf("game: bad embedded catalog: %v", err))
	}
}

func validateCatalog(c catalog) error {
	for n := firstRoom; n <= lastRoom; n++ {
		if _, ok := c.Rooms[n]; !ok {
			return fmt.Errorf("missing room %d", n)
		}
	}
	for room, cp := range c.Checkpoints {
		if _, ok := c.Optionals[cp.Optional]; !ok {
			return fmt.Errorf("checkpoint at room %d references unknown optional %q", room, cp.Optional)
		}
		if cp.NextRoom < firstRoom || cp.NextRoom > lastRoom {
			return fmt.Errorf("checkpoint at room %d skips to invalid room %d", room, cp.NextRoom)
		}
	}
	for id, opt := range c.Optionals {
		if len(opt.Answers) == 0 {
			return fmt.Errorf("optional %s has no answers", id)
		}
		if opt.BackTo < firstRoom || opt.BackTo > lastRoom {
			return fmt.Errorf("optional %s returns to invalid room %d", id, opt.BackTo)
		}
	}
	return nil
}

func roomData(n int) Room { return gameCatalog.Rooms[n] }

func optionalData(id string) (Optional, bool) {
	opt, ok := gameCatalog.Optionals[id]
	return opt, ok
}

func checkpointAt(room int) (Checkpoint, bool) {
	cp, ok := gameCatalog.Checkpoints[room]
	return cp, ok
}
