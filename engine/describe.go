package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/crafting"
	"github.com/nathoo/shmoopland/engine/quest"
	"github.com/nathoo/shmoopland/engine/skills"
	"github.com/nathoo/shmoopland/engine/state"
)

const helpText = `Commands:
  look (l)                 describe where you are
  look at <thing>, x       examine something closely
  inventory (i)            list what you carry
  take <item>, get, grab   pick something up
  drop <item>              put something down
  go <direction>, n/s/e/w  move through an exit
  talk to <npc>            greet someone
  ask <npc> about <topic>  ask about a topic
  craft [item], use        combine ingredients you carry
  recipes                  list known recipes
  quests, quest <id>       review your quests
  skills, skill <name>     review your skills
  train <skill>            practice a skill
  help                     show this text
  quit                     leave Shmoopland`

// describeLocation produces the standard location description output.
func (e *Engine) describeLocation(locationID string) []string {
	loc, ok := e.Store.Location(locationID)
	if !ok {
		return []string{"You are somewhere unknown."}
	}

	name := e.Store.LocationName(locationID)
	output := []string{name}
	if desc := e.text(loc.Description, map[string]string{"location": name}); desc != "" {
		output = append(output, desc)
	}

	// Items lying here, in id order.
	if items := state.ItemsAt(e.World, e.Store, locationID); len(items) > 0 {
		names := make([]string, 0, len(items))
		for _, id := range items {
			names = append(names, e.Store.ItemName(id))
		}
		output = append(output, "You see: "+strings.Join(names, ", ")+".")
	}

	if npcs := e.Store.NPCsAt(locationID); len(npcs) > 0 {
		names := make([]string, 0, len(npcs))
		for _, id := range npcs {
			names = append(names, e.Store.NPCName(id))
		}
		output = append(output, "Also here: "+strings.Join(names, ", ")+".")
	}

	if len(loc.Exits) > 0 {
		dirs := make([]string, 0, len(loc.Exits))
		for dir := range loc.Exits {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)
		output = append(output, "Exits: "+strings.Join(dirs, ", ")+".")
	}

	return output
}

func (e *Engine) inventory() []string {
	inv := e.World.Inventory
	if len(inv) == 0 {
		return []string{"You are carrying nothing."}
	}
	names := make([]string, 0, len(inv))
	for _, id := range inv {
		name := e.Store.ItemName(id)
		if v := e.Store.Currency[id]; v > 0 {
			name = fmt.Sprintf("%s (worth %d)", name, v)
		}
		names = append(names, name)
	}
	out := []string{"You are carrying: " + strings.Join(names, ", ") + "."}
	if w := state.Wealth(e.World, e.Store); w > 0 {
		out = append(out, fmt.Sprintf("Total wealth: %d shmoopcoins.", w))
	}
	return out
}

func (e *Engine) questLog() []string {
	var out []string
	section := func(title string, status quest.Status) {
		ids := quest.ByStatus(e.Store, e.World, status)
		if len(ids) == 0 {
			return
		}
		out = append(out, title+":")
		for _, id := range ids {
			q := e.Store.Quests[id]
			line := "  " + questTitle(q)
			if status == quest.Active {
				done, total := quest.Progress(q, e.World)
				line += fmt.Sprintf(" (%d/%d)", done, total)
			}
			out = append(out, line)
		}
	}
	section("Active quests", quest.Active)
	section("Available quests", quest.Available)
	section("Completed quests", quest.Completed)
	if len(out) == 0 {
		return []string{"You have no quests."}
	}
	return out
}

func (e *Engine) questDetails(name string) ([]string, error) {
	q, ok := quest.Find(e.Store, name)
	if !ok {
		return nil, fail(ErrUnknownQuest, "You don't know of any quest called %s.", name)
	}
	return []string{quest.Describe(q, e.Store, e.World)}, nil
}

func (e *Engine) skillList() []string {
	out := []string{"Skills:"}
	for _, name := range skills.Names() {
		lvl := skills.Get(e.World, name)
		out = append(out, fmt.Sprintf("  %-12s level %d (%d/%d)", name, lvl.Level, lvl.Experience, lvl.Next))
	}
	if e.World.Experience > 0 {
		out = append(out, fmt.Sprintf("Total experience: %d.", e.World.Experience))
	}
	return out
}

func (e *Engine) skillDetails(name string) ([]string, error) {
	name = strings.ToLower(name)
	if !skills.Known(name) {
		return nil, fail(ErrUnknownSkill, "There is no skill called %s.", name)
	}
	lvl := skills.Get(e.World, name)
	return []string{
		fmt.Sprintf("%s: level %d, %d/%d experience to the next level.", content.DisplayName(name), lvl.Level, lvl.Experience, lvl.Next),
		skills.Describe(name),
	}, nil
}

func (e *Engine) recipeList() []string {
	if len(e.Store.Recipes) == 0 {
		return []string{"You don't know any recipes."}
	}
	out := []string{"Recipes:"}
	for _, r := range e.Store.Recipes {
		ings := make([]string, 0, len(r.Ingredients))
		for _, id := range r.Ingredients {
			ings = append(ings, e.Store.ItemName(id))
		}
		line := fmt.Sprintf("  %s: %s", recipeName(r), strings.Join(ings, " + "))
		if r.Location != "" {
			line += " (at the " + e.Store.LocationName(r.Location) + ")"
		}
		if crafting.Eligible(r, e.World.Inventory, e.World.Location) {
			line += " [ready]"
		}
		out = append(out, line)
	}
	return out
}

// recipeDetails describes every recipe the phrase names, by recipe, result
// or ingredient.
func (e *Engine) recipeDetails(phrase string) ([]string, error) {
	var out []string
	for _, r := range e.Store.Recipes {
		if !crafting.Mentions(r, e.Store.ItemName, phrase) {
			continue
		}
		ings := make([]string, 0, len(r.Ingredients))
		for _, id := range r.Ingredients {
			ings = append(ings, e.Store.ItemName(id))
		}
		out = append(out, recipeName(r)+":")
		if r.Description != "" {
			out = append(out, "  "+r.Description)
		}
		out = append(out,
			"  Ingredients: "+strings.Join(ings, ", "),
			"  Result: "+e.Store.ItemName(r.Result),
		)
		if r.Location != "" {
			out = append(out, "  Made at: "+e.Store.LocationName(r.Location))
		}
	}
	if len(out) == 0 {
		return nil, fail(ErrNoMatch, "You don't know a recipe for %s.", phrase)
	}
	return out, nil
}

func questTitle(q content.Quest) string {
	if q.Title != "" {
		return q.Title
	}
	return content.DisplayName(q.ID)
}
