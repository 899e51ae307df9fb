// Package types defines the shared data structures for the Shmoopland engine.
// This package contains only type definitions: no logic, no methods.
package types

// Verb is one member of the closed command vocabulary.
type Verb string

const (
	VerbUnknown   Verb = ""
	VerbLook      Verb = "look"
	VerbInventory Verb = "inventory"
	VerbTake      Verb = "take"
	VerbDrop      Verb = "drop"
	VerbGo        Verb = "go"
	VerbExamine   Verb = "examine"
	VerbCraft     Verb = "craft"
	VerbTalk      Verb = "talk"
	VerbQuests    Verb = "quests"
	VerbQuest     Verb = "quest"
	VerbSkills    Verb = "skills"
	VerbSkill     Verb = "skill"
	VerbTrain     Verb = "train"
	VerbRecipes   Verb = "recipes"
	VerbHelp      Verb = "help"
	VerbQuit      Verb = "quit"
)

// Intent is the parsed representation of a player command.
// A zero Verb means the input was not understood.
type Intent struct {
	Verb      Verb
	Object    string   // entity ID when resolved, otherwise the raw phrase
	Direction string   // for VerbGo
	Topic     string   // "talk to wizard about charm"
	Tokens    []string // normalized input tokens
	Guessed   bool     // verb came from the tagger fallback
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single command.
type Result struct {
	Intent  Intent
	Effects []Effect
	Events  []Event
	Output  []string
	Err     error // domain failure; nil on success
	Quit    bool  // the presentation surface should stop
}
