// Package quest answers questions about quest availability and progress and
// builds the effects that start and reward quests. It never mutates state.
package quest

import (
	"fmt"
	"strings"

	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/effects"
	"github.com/nathoo/shmoopland/engine/state"
	"github.com/nathoo/shmoopland/types"
)

// Status is the lifecycle position of a quest for one player.
type Status string

const (
	Locked    Status = "locked"
	Available Status = "available"
	Active    Status = "active"
	Completed Status = "completed"
)

// StatusOf returns the status of quest q in world w.
func StatusOf(q content.Quest, w *state.World) Status {
	switch {
	case w.Completed[q.ID]:
		return Completed
	case w.Active[q.ID] != nil:
		return Active
	case PrerequisitesMet(q, w, ""):
		return Available
	default:
		return Locked
	}
}

// PrerequisitesMet reports whether every prerequisite of q is completed.
// justCompleted counts as completed even if w does not record it yet.
func PrerequisitesMet(q content.Quest, w *state.World, justCompleted string) bool {
	for _, p := range q.Prerequisites {
		if p != justCompleted && !w.Completed[p] {
			return false
		}
	}
	return true
}

// AutoStart returns start effects for every auto-start quest whose
// prerequisites are met, in id order.
func AutoStart(store *content.Store, w *state.World) []types.Effect {
	var effs []types.Effect
	for _, id := range store.QuestIDs() {
		q := store.Quests[id]
		if q.AutoStart && StatusOf(q, w) == Available {
			effs = append(effs, effects.New(effects.StartQuest, "quest", id))
		}
	}
	return effs
}

// ByStatus returns the ids of quests in the given status, sorted.
func ByStatus(store *content.Store, w *state.World, status Status) []string {
	var ids []string
	for _, id := range store.QuestIDs() {
		if StatusOf(store.Quests[id], w) == status {
			ids = append(ids, id)
		}
	}
	return ids
}

// Progress returns how many objectives of an active quest are done.
func Progress(q content.Quest, w *state.World) (done, total int) {
	total = len(q.Objectives)
	if w.Completed[q.ID] {
		return total, total
	}
	qp := w.Active[q.ID]
	if qp == nil {
		return 0, total
	}
	for _, ok := range qp.Objectives {
		if ok {
			done++
		}
	}
	return done, total
}

// Matches reports whether an event satisfies an objective.
func Matches(obj content.Objective, ev types.Event) bool {
	var key string
	switch obj.Type {
	case content.ObjectiveVisit:
		if ev.Type != effects.EventRoomEntered {
			return false
		}
		key = "location"
	case content.ObjectiveCollect:
		if ev.Type != effects.EventItemTaken && ev.Type != effects.EventItemReceived {
			return false
		}
		key = "item"
	case content.ObjectiveCraft:
		if ev.Type != effects.EventItemCrafted {
			return false
		}
		key = "item"
	case content.ObjectiveTalk:
		if ev.Type != effects.EventNPCTalked {
			return false
		}
		key = "npc"
	default:
		return false
	}
	target, _ := ev.Data[key].(string)
	return target == obj.Target
}

// Reward returns the effects that complete q and grant its rewards. The next
// quest in the chain is started when its prerequisites allow it.
func Reward(q content.Quest, store *content.Store, w *state.World) []types.Effect {
	effs := []types.Effect{
		effects.New(effects.CompleteQuest, "quest", q.ID),
		effects.New(effects.Say, "text", fmt.Sprintf("Quest complete: %s!", title(q))),
	}

	var names []string
	for _, item := range q.Rewards.Items {
		effs = append(effs, effects.New(effects.GiveItem, "item", item, "source", "quest"))
		names = append(names, store.ItemName(item))
	}
	if len(names) > 0 {
		effs = append(effs, effects.New(effects.Say, "text", "You receive: "+strings.Join(names, ", ")+"."))
	}
	if xp := q.Rewards.Experience; xp > 0 {
		effs = append(effs,
			effects.New(effects.AddExperience, "amount", xp),
			effects.New(effects.Say, "text", fmt.Sprintf("You gain %d experience.", xp)),
		)
	}
	if c := q.Rewards.Currency; c > 0 {
		effs = append(effs,
			effects.New(effects.AddCurrency, "amount", c),
			effects.New(effects.Say, "text", fmt.Sprintf("You gain %d shmoopcoins.", c)),
		)
	}

	if next, ok := store.Quest(q.Next); ok && !w.Completed[next.ID] && w.Active[next.ID] == nil &&
		PrerequisitesMet(next, w, q.ID) {
		effs = append(effs,
			effects.New(effects.StartQuest, "quest", next.ID),
			effects.New(effects.Say, "text", fmt.Sprintf("New quest: %s.", title(next))),
		)
	}
	return effs
}

// Describe renders the details of one quest.
func Describe(q content.Quest, store *content.Store, w *state.World) string {
	var b strings.Builder
	status := StatusOf(q, w)
	fmt.Fprintf(&b, "%s [%s]\n%s", title(q), status, q.Description)

	var done []bool
	if qp := w.Active[q.ID]; qp != nil {
		done = qp.Objectives
	}
	if len(q.Objectives) > 0 {
		b.WriteString("\nObjectives:")
		for i, obj := range q.Objectives {
			mark := " "
			if status == Completed || (i < len(done) && done[i]) {
				mark = "x"
			}
			fmt.Fprintf(&b, "\n  [%s] %s", mark, obj.Description)
		}
	}

	var rewards []string
	for _, item := range q.Rewards.Items {
		rewards = append(rewards, store.ItemName(item))
	}
	if q.Rewards.Experience > 0 {
		rewards = append(rewards, fmt.Sprintf("%d experience", q.Rewards.Experience))
	}
	if q.Rewards.Currency > 0 {
		rewards = append(rewards, fmt.Sprintf("%d shmoopcoins", q.Rewards.Currency))
	}
	if len(rewards) > 0 {
		b.WriteString("\nRewards: " + strings.Join(rewards, ", "))
	}
	return b.String()
}

// Find resolves a quest by id or case-insensitive title.
func Find(store *content.Store, name string) (content.Quest, bool) {
	if q, ok := store.Quest(name); ok {
		return q, true
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, id := range store.QuestIDs() {
		q := store.Quests[id]
		if strings.ToLower(q.Title) == name || strings.ReplaceAll(id, "_", " ") == name {
			return q, true
		}
	}
	return content.Quest{}, false
}

func title(q content.Quest) string {
	if q.Title != "" {
		return q.Title
	}
	return q.ID
}
