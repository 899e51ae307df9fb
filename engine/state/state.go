// Package state manages the mutable per-session world state and the lookups
// that layer runtime overrides on top of content definitions.
package state

import (
	"sort"

	"github.com/nathoo/shmoopland/engine/content"
)

// Gone marks an item that left the world, e.g. a consumed ingredient.
const Gone = "gone"

// SkillLevel tracks progress in one skill.
type SkillLevel struct {
	Level      int `json:"level"`
	Experience int `json:"experience"`
	Next       int `json:"next"`
}

// QuestProgress tracks which objectives of an active quest are done.
type QuestProgress struct {
	Objectives []bool `json:"objectives"`
}

// World is the complete mutable state of one session.
type World struct {
	Location   string                    `json:"location"`
	Inventory  []string                  `json:"inventory"`
	Items      map[string]string         `json:"items"` // item id → location id, content.Carried, or Gone
	Visited    map[string]bool           `json:"visited"`
	Flags      map[string]bool           `json:"flags"`
	Active     map[string]*QuestProgress `json:"active_quests"`
	Completed  map[string]bool           `json:"completed_quests"`
	Skills     map[string]SkillLevel     `json:"skills"`
	Talks      map[string]int            `json:"talks"`
	Experience int                       `json:"experience"`
	Currency   int                       `json:"currency"`
	Turns      int                       `json:"turns"`
	RNGSeed    int64                     `json:"rng_seed"`
	RNGPos     int64                     `json:"rng_position"`
}

// New creates a fresh world from content defaults.
func New(store *content.Store) *World {
	w := &World{
		Location:  store.Game.Start,
		Inventory: []string{},
		Items:     map[string]string{},
		Visited:   map[string]bool{store.Game.Start: true},
		Flags:     map[string]bool{},
		Active:    map[string]*QuestProgress{},
		Completed: map[string]bool{},
		Skills:    map[string]SkillLevel{},
		Talks:     map[string]int{},
	}

	// Carried-at-start items go straight into the inventory, in id order.
	var carried []string
	for id, it := range store.Items {
		if it.Home == content.Carried {
			carried = append(carried, id)
		}
	}
	sort.Strings(carried)
	w.Inventory = append(w.Inventory, carried...)
	return w
}

// HasItem returns true if the player carries the item.
func HasItem(w *World, itemID string) bool {
	for _, id := range w.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// ItemLocation returns the effective location of an item: the runtime
// override when one exists, otherwise the content home. The result is a
// location id, content.Carried, content.Nowhere or Gone.
func ItemLocation(w *World, store *content.Store, itemID string) string {
	if loc, ok := w.Items[itemID]; ok {
		return loc
	}
	if it, ok := store.Items[itemID]; ok {
		return it.Home
	}
	return content.Nowhere
}

// ItemsAt returns the ids of all items lying in a location, sorted.
func ItemsAt(w *World, store *content.Store, locationID string) []string {
	var ids []string
	for id := range store.Items {
		if ItemLocation(w, store, id) == locationID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IsVisible reports whether an item is carried or lying at the player's location.
func IsVisible(w *World, store *content.Store, itemID string) bool {
	loc := ItemLocation(w, store, itemID)
	return loc == content.Carried || loc == w.Location
}

// InWorld reports whether the item currently exists in a location or the
// inventory.
func InWorld(w *World, store *content.Store, itemID string) bool {
	loc := ItemLocation(w, store, itemID)
	return loc != content.Nowhere && loc != Gone
}

// Exits returns the exits of the player's current location.
func Exits(w *World, store *content.Store) map[string]string {
	loc, ok := store.Location(w.Location)
	if !ok {
		return nil
	}
	return loc.Exits
}

// Wealth sums the currency value of everything carried.
func Wealth(w *World, store *content.Store) int {
	total := w.Currency
	for _, id := range w.Inventory {
		total += store.Currency[id]
	}
	return total
}

// Clone returns a deep copy of the world.
func Clone(w *World) *World {
	c := *w
	c.Inventory = append(make([]string, 0, len(w.Inventory)), w.Inventory...)
	c.Items = copyMap(w.Items)
	c.Visited = copyMap(w.Visited)
	c.Flags = copyMap(w.Flags)
	c.Completed = copyMap(w.Completed)
	c.Skills = copyMap(w.Skills)
	c.Talks = copyMap(w.Talks)
	c.Active = make(map[string]*QuestProgress, len(w.Active))
	for id, qp := range w.Active {
		c.Active[id] = &QuestProgress{Objectives: append(make([]bool, 0, len(qp.Objectives)), qp.Objectives...)}
	}
	return &c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
