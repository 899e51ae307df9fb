// Package skills implements skill levels and their experience curve.
package skills

import (
	"strings"

	"github.com/nathoo/shmoopland/engine/state"
)

// Skill names known to the game.
const (
	Magic       = "magic"
	Negotiation = "negotiation"
	Exploration = "exploration"
	Crafting    = "crafting"
	Lore        = "lore"
)

// Experience constants.
const (
	StartLevel     = 1
	StartThreshold = 100
	TrainAmount    = 10
	CraftAmount    = 5
)

var descriptions = map[string]string{
	Magic:       "The art of weaving spells and understanding magical forces.",
	Negotiation: "Talking your way into better deals and out of trouble.",
	Exploration: "Finding hidden paths and reading the land.",
	Crafting:    "Combining ingredients into something greater.",
	Lore:        "Knowledge of Shmoopland's history and legends.",
}

// Names returns every skill name in display order.
func Names() []string {
	return []string{Magic, Negotiation, Exploration, Crafting, Lore}
}

// Known reports whether name is a skill.
func Known(name string) bool {
	_, ok := descriptions[strings.ToLower(name)]
	return ok
}

// Describe returns the description of a skill.
func Describe(name string) string {
	return descriptions[strings.ToLower(name)]
}

// Initial returns the level a skill starts at.
func Initial() state.SkillLevel {
	return state.SkillLevel{Level: StartLevel, Next: StartThreshold}
}

// Get returns the player's level in a skill, defaulting to Initial.
func Get(w *state.World, name string) state.SkillLevel {
	if lvl, ok := w.Skills[name]; ok {
		return lvl
	}
	return Initial()
}

// AddExperience adds xp and applies every level-up it earns. Each level-up
// carries the surplus over and raises the threshold by half.
func AddExperience(lvl state.SkillLevel, xp int) (state.SkillLevel, bool) {
	if lvl.Level == 0 {
		lvl = Initial()
	}
	lvl.Experience += xp
	leveled := false
	for lvl.Next > 0 && lvl.Experience >= lvl.Next {
		lvl.Experience -= lvl.Next
		lvl.Level++
		lvl.Next = lvl.Next * 3 / 2
		leveled = true
	}
	return lvl, leveled
}
