// Package events implements single-pass event dispatch to quest objectives.
// Dispatch produces additional effects but does not recurse: events raised by
// those effects are never dispatched again.
package events

import (
	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/effects"
	"github.com/nathoo/shmoopland/engine/quest"
	"github.com/nathoo/shmoopland/engine/state"
	"github.com/nathoo/shmoopland/types"
)

// Dispatch matches the emitted events against the objectives of every active
// quest, in quest id order. It returns objective completions, and for quests
// whose last objective completes, the completion and reward effects.
func Dispatch(evs []types.Event, w *state.World, store *content.Store) []types.Effect {
	var result []types.Effect

	for _, id := range store.QuestIDs() {
		qp := w.Active[id]
		if qp == nil {
			continue
		}
		q := store.Quests[id]

		// Work on a copy so that matches are tracked across events without
		// touching the world.
		done := append([]bool(nil), qp.Objectives...)
		changed := false
		for _, ev := range evs {
			for i, obj := range q.Objectives {
				if i >= len(done) || done[i] || !quest.Matches(obj, ev) {
					continue
				}
				done[i] = true
				changed = true
				result = append(result, effects.New(effects.CompleteObjective, "quest", id, "index", i))
			}
		}

		if changed && allDone(done) {
			result = append(result, quest.Reward(q, store, w)...)
		}
	}

	return result
}

func allDone(done []bool) bool {
	for _, ok := range done {
		if !ok {
			return false
		}
	}
	return true
}
