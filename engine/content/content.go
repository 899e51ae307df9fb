// Package content holds the immutable game definitions produced by the loader.
// A Store is read-only after load and safe to share between sessions.
package content

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Home values for items that do not start in a location.
const (
	Carried = "inventory" // starts in the player's inventory
	Nowhere = ""          // enters the world through crafting or rewards
)

// TextKind discriminates the two forms of Text.
type TextKind int

const (
	TextNone TextKind = iota
	TextStatic
	TextTemplate
)

// Text is either static prose or a reference to a template id.
type Text struct {
	Kind  TextKind
	Value string
}

// Static returns a Text holding literal prose.
func Static(s string) Text { return Text{Kind: TextStatic, Value: s} }

// TemplateRef returns a Text that resolves through the template renderer.
func TemplateRef(id string) Text { return Text{Kind: TextTemplate, Value: id} }

// IsZero reports whether no text was defined.
func (t Text) IsZero() bool { return t.Kind == TextNone }

// Game holds game metadata.
type Game struct {
	Title    string
	Author   string
	Version  string
	Start    string
	Intro    string
	Farewell string
}

// Location is a place the player can stand in.
type Location struct {
	ID          string
	Name        string
	Description Text
	Exits       map[string]string // direction → location id
}

// Item is a thing that can sit in a location or be carried.
type Item struct {
	ID          string
	Name        string
	Home        string // location id, Carried, or Nowhere
	Description Text
	Examine     Text // zero when the item has no dedicated examine text
	Takeable    bool
	Value       int // currency value, 0 when not tradeable
}

// NPC is a non-player character fixed to one location.
type NPC struct {
	ID        string
	Name      string
	Location  string
	Greetings []Text
	Topics    map[string]Text
}

// Recipe turns a set of carried ingredients into a new item.
type Recipe struct {
	ID          string
	Name        string
	Ingredients []string
	Location    string // empty means the recipe works anywhere
	Result      string
	Description string
}

// ObjectiveType names the event class an objective listens for.
type ObjectiveType string

const (
	ObjectiveVisit   ObjectiveType = "visit_location"
	ObjectiveCollect ObjectiveType = "collect_item"
	ObjectiveCraft   ObjectiveType = "craft_item"
	ObjectiveTalk    ObjectiveType = "talk_npc"
)

// Objective is one step of a quest.
type Objective struct {
	Type        ObjectiveType
	Target      string
	Description string
}

// Rewards are granted when a quest completes.
type Rewards struct {
	Items      []string
	Experience int
	Currency   int
}

// Quest is a sequence of objectives with rewards.
type Quest struct {
	ID            string
	Title         string
	Description   string
	Objectives    []Objective
	Rewards       Rewards
	Prerequisites []string
	Next          string
	AutoStart     bool
}

// Store is the fully indexed, validated content of one game.
type Store struct {
	Game      Game
	Locations map[string]Location
	Items     map[string]Item
	NPCs      map[string]NPC
	Quests    map[string]Quest
	Templates map[string]string
	Variables map[string][]string
	Currency  map[string]int

	// Recipes keeps declaration order; it is the crafting tie-break.
	Recipes []Recipe
}

// Location returns the location with the given id.
func (s *Store) Location(id string) (Location, bool) {
	l, ok := s.Locations[id]
	return l, ok
}

// Item returns the item with the given id.
func (s *Store) Item(id string) (Item, bool) {
	it, ok := s.Items[id]
	return it, ok
}

// NPC returns the NPC with the given id.
func (s *Store) NPC(id string) (NPC, bool) {
	n, ok := s.NPCs[id]
	return n, ok
}

// Quest returns the quest with the given id.
func (s *Store) Quest(id string) (Quest, bool) {
	q, ok := s.Quests[id]
	return q, ok
}

// Template returns the raw template text for id.
func (s *Store) Template(id string) (string, bool) {
	t, ok := s.Templates[id]
	return t, ok
}

// Recipe returns the recipe with the given id.
func (s *Store) Recipe(id string) (Recipe, bool) {
	for _, r := range s.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}

// ItemName returns the display name of an item, falling back to its id.
func (s *Store) ItemName(id string) string {
	if it, ok := s.Items[id]; ok && it.Name != "" {
		return it.Name
	}
	return DisplayName(id)
}

// NPCName returns the display name of an NPC, falling back to its id.
func (s *Store) NPCName(id string) string {
	if n, ok := s.NPCs[id]; ok && n.Name != "" {
		return n.Name
	}
	return DisplayName(id)
}

// LocationName returns the display name of a location, falling back to its id.
func (s *Store) LocationName(id string) string {
	if l, ok := s.Locations[id]; ok && l.Name != "" {
		return l.Name
	}
	return DisplayName(id)
}

// DisplayName turns an id such as "crystal_prism" into "Crystal Prism".
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// NPCsAt returns the ids of NPCs placed in a location, sorted.
func (s *Store) NPCsAt(locationID string) []string {
	var ids []string
	for id, n := range s.NPCs {
		if n.Location == locationID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// QuestIDs returns all quest ids, sorted.
func (s *Store) QuestIDs() []string {
	ids := make([]string, 0, len(s.Quests))
	for id := range s.Quests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
