// Package effects implements centralized world mutation via the Apply function.
// Every effect type is one atomic operation. No validation happens here: the
// executor checks every precondition before it hands effects over.
package effects

import (
	"fmt"

	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/skills"
	"github.com/nathoo/shmoopland/engine/state"
	"github.com/nathoo/shmoopland/types"
)

// Effect type names.
const (
	Say               = "say"
	MovePlayer        = "move_player"
	TakeItem          = "take_item"
	DropItem          = "drop_item"
	ConsumeItem       = "consume_item"
	GiveItem          = "give_item"
	SetFlag           = "set_flag"
	AddExperience     = "add_experience"
	AddCurrency       = "add_currency"
	AddSkillXP        = "add_skill_xp"
	RecordTalk        = "record_talk"
	StartQuest        = "start_quest"
	CompleteObjective = "complete_objective"
	CompleteQuest     = "complete_quest"
	EmitEvent         = "emit_event"
)

// Event type names.
const (
	EventRoomEntered    = "room_entered"
	EventItemTaken      = "item_taken"
	EventItemDropped    = "item_dropped"
	EventItemConsumed   = "item_consumed"
	EventItemReceived   = "item_received"
	EventItemCrafted    = "item_crafted"
	EventNPCTalked      = "npc_talked"
	EventQuestStarted   = "quest_started"
	EventQuestCompleted = "quest_completed"
	EventSkillLevelUp   = "skill_level_up"
	EventFlagChanged    = "flag_changed"
)

// New builds an effect from alternating key/value pairs.
func New(typ string, kv ...any) types.Effect {
	params := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			params[k] = kv[i+1]
		}
	}
	return types.Effect{Type: typ, Params: params}
}

// Apply applies a list of effects to the world, mutating it.
// Returns events emitted and output text collected.
func Apply(w *state.World, store *content.Store, effs []types.Effect) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	for _, eff := range effs {
		switch eff.Type {
		case Say:
			text, _ := eff.Params["text"].(string)
			output = append(output, text)

		case MovePlayer:
			loc, _ := eff.Params["location"].(string)
			first := !w.Visited[loc]
			w.Location = loc
			w.Visited[loc] = true
			events = append(events, types.Event{
				Type: EventRoomEntered,
				Data: map[string]any{"location": loc, "first": first},
			})

		case TakeItem:
			item, _ := eff.Params["item"].(string)
			carry(w, item)
			events = append(events, types.Event{
				Type: EventItemTaken,
				Data: map[string]any{"item": item},
			})

		case DropItem:
			item, _ := eff.Params["item"].(string)
			w.Inventory = removeFromSlice(w.Inventory, item)
			w.Items[item] = w.Location
			events = append(events, types.Event{
				Type: EventItemDropped,
				Data: map[string]any{"item": item, "location": w.Location},
			})

		case ConsumeItem:
			item, _ := eff.Params["item"].(string)
			w.Inventory = removeFromSlice(w.Inventory, item)
			w.Items[item] = state.Gone
			events = append(events, types.Event{
				Type: EventItemConsumed,
				Data: map[string]any{"item": item},
			})

		case GiveItem:
			item, _ := eff.Params["item"].(string)
			source, _ := eff.Params["source"].(string)
			carry(w, item)
			events = append(events, types.Event{
				Type: EventItemReceived,
				Data: map[string]any{"item": item, "source": source},
			})

		case SetFlag:
			flag, _ := eff.Params["flag"].(string)
			value, _ := eff.Params["value"].(bool)
			w.Flags[flag] = value
			events = append(events, types.Event{
				Type: EventFlagChanged,
				Data: map[string]any{"flag": flag, "value": value},
			})

		case AddExperience:
			w.Experience += toInt(eff.Params["amount"])

		case AddCurrency:
			w.Currency += toInt(eff.Params["amount"])

		case AddSkillXP:
			skill, _ := eff.Params["skill"].(string)
			amount := toInt(eff.Params["amount"])
			lvl, up := skills.AddExperience(skillLevel(w, skill), amount)
			w.Skills[skill] = lvl
			if up {
				events = append(events, types.Event{
					Type: EventSkillLevelUp,
					Data: map[string]any{"skill": skill, "level": lvl.Level},
				})
			}

		case RecordTalk:
			npc, _ := eff.Params["npc"].(string)
			w.Talks[npc]++
			events = append(events, types.Event{
				Type: EventNPCTalked,
				Data: map[string]any{"npc": npc},
			})

		case StartQuest:
			id, _ := eff.Params["quest"].(string)
			q, ok := store.Quest(id)
			if !ok || w.Active[id] != nil || w.Completed[id] {
				continue
			}
			w.Active[id] = &state.QuestProgress{Objectives: make([]bool, len(q.Objectives))}
			events = append(events, types.Event{
				Type: EventQuestStarted,
				Data: map[string]any{"quest": id},
			})

		case CompleteObjective:
			id, _ := eff.Params["quest"].(string)
			idx := toInt(eff.Params["index"])
			if qp := w.Active[id]; qp != nil && idx >= 0 && idx < len(qp.Objectives) {
				qp.Objectives[idx] = true
			}

		case CompleteQuest:
			id, _ := eff.Params["quest"].(string)
			delete(w.Active, id)
			w.Completed[id] = true
			events = append(events, types.Event{
				Type: EventQuestCompleted,
				Data: map[string]any{"quest": id},
			})

		case EmitEvent:
			name, _ := eff.Params["event"].(string)
			data := map[string]any{}
			for k, v := range eff.Params {
				if k != "event" {
					data[k] = v
				}
			}
			events = append(events, types.Event{Type: name, Data: data})

		default:
			output = append(output, fmt.Sprintf("[unknown effect %q]", eff.Type))
		}
	}

	return events, output
}

// carry moves an item into the inventory, wherever it was before.
func carry(w *state.World, item string) {
	if !state.HasItem(w, item) {
		w.Inventory = append(w.Inventory, item)
	}
	w.Items[item] = content.Carried
}

func skillLevel(w *state.World, skill string) state.SkillLevel {
	if lvl, ok := w.Skills[skill]; ok {
		return lvl
	}
	return skills.Initial()
}

func removeFromSlice(slice []string, item string) []string {
	out := slice[:0:0]
	for _, s := range slice {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
