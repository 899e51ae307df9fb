package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/render"
)

// callSiteNames are placeholders the engine always substitutes when it
// renders location, item and NPC text.
var callSiteNames = map[string]bool{
	"location": true,
	"item":     true,
	"npc":      true,
}

// validate checks the compiled store for referential integrity.
func validate(s *content.Store, files map[string]string) []Problem {
	v := &validator{store: s, files: files}

	if _, ok := s.Locations[s.Game.Start]; !ok {
		v.add(kindGame, "game.start", "start location %q is not defined", s.Game.Start)
	}

	for _, id := range sortedKeys(s.Locations) {
		loc := s.Locations[id]
		for _, dir := range sortedKeys(loc.Exits) {
			if _, ok := s.Locations[loc.Exits[dir]]; !ok {
				v.add(kindLocations, fmt.Sprintf("locations.%s.exits.%s", id, dir),
					"exit points to undefined location %q", loc.Exits[dir])
			}
		}
		v.text(kindLocations, fmt.Sprintf("locations.%s.template_refs.description", id), loc.Description)
	}

	for _, id := range sortedKeys(s.Items) {
		item := s.Items[id]
		if item.Home != content.Carried && item.Home != content.Nowhere {
			if _, ok := s.Locations[item.Home]; !ok {
				v.add(kindItems, fmt.Sprintf("items.%s.location", id), "undefined location %q", item.Home)
			}
		}
		v.text(kindItems, fmt.Sprintf("items.%s.template_refs.description", id), item.Description)
		v.text(kindItems, fmt.Sprintf("items.%s.template_refs.examine", id), item.Examine)
	}

	for _, id := range sortedKeys(s.Currency) {
		if _, ok := s.Items[id]; !ok {
			v.add(kindItems, "currency."+id, "currency value for undefined item")
		}
	}

	seen := map[string]bool{}
	for i, r := range s.Recipes {
		key := fmt.Sprintf("recipes.%d", i)
		if seen[r.ID] {
			v.add(kindItems, key+".id", "duplicate recipe id %q", r.ID)
		}
		seen[r.ID] = true
		for _, ing := range r.Ingredients {
			if _, ok := s.Items[ing]; !ok {
				v.add(kindItems, key+".ingredients", "undefined item %q", ing)
			}
		}
		if _, ok := s.Items[r.Result]; !ok {
			v.add(kindItems, key+".result", "undefined item %q", r.Result)
		}
		if r.Location != "" {
			if _, ok := s.Locations[r.Location]; !ok {
				v.add(kindItems, key+".location", "undefined location %q", r.Location)
			}
		}
	}

	for _, id := range sortedKeys(s.NPCs) {
		npc := s.NPCs[id]
		if _, ok := s.Locations[npc.Location]; !ok {
			v.add(kindNPCs, fmt.Sprintf("npcs.%s.location", id), "undefined location %q", npc.Location)
		}
		for _, g := range npc.Greetings {
			v.text(kindNPCs, fmt.Sprintf("npcs.%s.template_refs.greetings", id), g)
		}
		for _, topic := range sortedKeys(npc.Topics) {
			v.text(kindNPCs, fmt.Sprintf("npcs.%s.template_refs.topics.%s", id, topic), npc.Topics[topic])
		}
	}

	for _, id := range sortedKeys(s.Quests) {
		v.quest(s.Quests[id])
	}

	return v.problems
}

type validator struct {
	store    *content.Store
	files    map[string]string
	problems []Problem
}

func (v *validator) add(kind, key, format string, args ...any) {
	v.problems = append(v.problems, Problem{
		File:    v.files[kind],
		Key:     key,
		Message: fmt.Sprintf(format, args...),
	})
}

// text checks that a template reference names a defined template.
func (v *validator) text(kind, key string, t content.Text) {
	if t.Kind != content.TextTemplate {
		return
	}
	if _, ok := v.store.Templates[t.Value]; !ok {
		v.add(kind, key, "undefined template %q", t.Value)
	}
}

func (v *validator) quest(q content.Quest) {
	s := v.store
	prefix := "quests." + q.ID

	for i, obj := range q.Objectives {
		key := fmt.Sprintf("%s.objectives.%d.target", prefix, i)
		var ok bool
		switch obj.Type {
		case content.ObjectiveVisit:
			_, ok = s.Locations[obj.Target]
		case content.ObjectiveCollect, content.ObjectiveCraft:
			_, ok = s.Items[obj.Target]
		case content.ObjectiveTalk:
			_, ok = s.NPCs[obj.Target]
		default:
			v.add(kindQuests, fmt.Sprintf("%s.objectives.%d.type", prefix, i), "unknown objective type %q", obj.Type)
			continue
		}
		if !ok {
			v.add(kindQuests, key, "%s target %q is not defined", obj.Type, obj.Target)
		}
	}
	for _, item := range q.Rewards.Items {
		if _, ok := s.Items[item]; !ok {
			v.add(kindQuests, prefix+".rewards.items", "undefined item %q", item)
		}
	}
	for _, pre := range q.Prerequisites {
		if pre == q.ID {
			v.add(kindQuests, prefix+".prerequisites", "quest lists itself as a prerequisite")
		} else if _, ok := s.Quests[pre]; !ok {
			v.add(kindQuests, prefix+".prerequisites", "undefined quest %q", pre)
		}
	}
	if q.Next != "" {
		if _, ok := s.Quests[q.Next]; !ok {
			v.add(kindQuests, prefix+".next_quest", "undefined quest %q", q.Next)
		}
	}
}

// warnings reports content smells that do not stop the game from running:
// placeholders no variable can fill and templates nothing refers to.
func warnings(s *content.Store) []Problem {
	var out []Problem

	for _, id := range sortedKeys(s.Templates) {
		for _, name := range render.Placeholders(s.Templates[id]) {
			if _, ok := s.Variables[name]; ok || callSiteNames[name] {
				continue
			}
			out = append(out, Problem{
				File:    "templates",
				Key:     "templates." + id,
				Message: fmt.Sprintf("placeholder {%s} has no variable", name),
			})
		}
	}

	used := map[string]bool{}
	mark := func(t content.Text) {
		if t.Kind == content.TextTemplate {
			used[t.Value] = true
		}
	}
	for _, loc := range s.Locations {
		mark(loc.Description)
	}
	for _, item := range s.Items {
		mark(item.Description)
		mark(item.Examine)
	}
	for _, npc := range s.NPCs {
		for _, g := range npc.Greetings {
			mark(g)
		}
		for _, t := range npc.Topics {
			mark(t)
		}
	}
	var unused []string
	for id := range s.Templates {
		if !used[id] {
			unused = append(unused, id)
		}
	}
	sort.Strings(unused)
	for _, id := range unused {
		out = append(out, Problem{
			File:    "templates",
			Key:     "templates." + id,
			Message: "template is never referenced",
		})
	}
	return out
}
