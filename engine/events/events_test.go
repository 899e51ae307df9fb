package events

import (
	"testing"

	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/effects"
	"github.com/nathoo/shmoopland/engine/state"
	"github.com/nathoo/shmoopland/types"
)

func testStore() *content.Store {
	return &content.Store{
		Game: content.Game{Start: "gate"},
		Locations: map[string]content.Location{
			"gate":   {ID: "gate"},
			"square": {ID: "square"},
		},
		Items: map[string]content.Item{
			"coin":  {ID: "coin", Name: "Magic Coin", Takeable: true},
			"prism": {ID: "prism", Name: "Crystal Prism", Home: "square", Takeable: true},
		},
		Quests: map[string]content.Quest{
			"welcome": {
				ID:    "welcome",
				Title: "Welcome",
				Objectives: []content.Objective{
					{Type: content.ObjectiveVisit, Target: "square"},
				},
				Rewards: content.Rewards{Items: []string{"coin"}, Experience: 10},
				Next:    "market",
			},
			"market": {
				ID:            "market",
				Title:         "Market Magic",
				Prerequisites: []string{"welcome"},
				Objectives: []content.Objective{
					{Type: content.ObjectiveCollect, Target: "prism"},
					{Type: content.ObjectiveTalk, Target: "merchant"},
				},
			},
		},
	}
}

func roomEntered(loc string) types.Event {
	return types.Event{Type: effects.EventRoomEntered, Data: map[string]any{"location": loc}}
}

func TestDispatch_CompletesQuestWithRewards(t *testing.T) {
	store := testStore()
	w := state.New(store)
	effects.Apply(w, store, []types.Effect{effects.New(effects.StartQuest, "quest", "welcome")})

	effs := Dispatch([]types.Event{roomEntered("square")}, w, store)
	if len(effs) == 0 || effs[0].Type != effects.CompleteObjective {
		t.Fatalf("expected complete_objective first, got %v", effs)
	}

	effects.Apply(w, store, effs)
	if !w.Completed["welcome"] {
		t.Error("welcome should be completed")
	}
	if !state.HasItem(w, "coin") {
		t.Error("reward coin should be carried")
	}
	if w.Experience != 10 {
		t.Errorf("Experience = %d, want 10", w.Experience)
	}
	if w.Active["market"] == nil {
		t.Error("next quest should have started")
	}
}

func TestDispatch_NoMatchNoEffects(t *testing.T) {
	store := testStore()
	w := state.New(store)
	effects.Apply(w, store, []types.Effect{effects.New(effects.StartQuest, "quest", "welcome")})

	if effs := Dispatch([]types.Event{roomEntered("gate")}, w, store); len(effs) != 0 {
		t.Errorf("expected no effects, got %v", effs)
	}
}

func TestDispatch_InactiveQuestIgnored(t *testing.T) {
	store := testStore()
	w := state.New(store)

	if effs := Dispatch([]types.Event{roomEntered("square")}, w, store); len(effs) != 0 {
		t.Errorf("expected no effects for inactive quest, got %v", effs)
	}
}

func TestDispatch_PartialProgress(t *testing.T) {
	store := testStore()
	w := state.New(store)
	w.Completed["welcome"] = true
	effects.Apply(w, store, []types.Effect{effects.New(effects.StartQuest, "quest", "market")})

	taken := types.Event{Type: effects.EventItemTaken, Data: map[string]any{"item": "prism"}}
	effs := Dispatch([]types.Event{taken}, w, store)
	if len(effs) != 1 {
		t.Fatalf("expected one objective, got %v", effs)
	}
	effects.Apply(w, store, effs)
	if w.Completed["market"] {
		t.Fatal("market should still be active")
	}

	talked := types.Event{Type: effects.EventNPCTalked, Data: map[string]any{"npc": "merchant"}}
	effects.Apply(w, store, Dispatch([]types.Event{talked}, w, store))
	if !w.Completed["market"] {
		t.Error("market should be completed")
	}
}

func TestDispatch_SinglePass(t *testing.T) {
	store := testStore()
	w := state.New(store)
	effects.Apply(w, store, []types.Effect{effects.New(effects.StartQuest, "quest", "welcome")})

	// Both objectives of the chained quest could be met by the same batch of
	// events, but the chained quest only starts as a result of this pass.
	evs := []types.Event{
		roomEntered("square"),
		{Type: effects.EventItemTaken, Data: map[string]any{"item": "prism"}},
	}
	effects.Apply(w, store, Dispatch(evs, w, store))

	if done := w.Active["market"].Objectives; done[0] {
		t.Error("events must not be dispatched to quests started in the same pass")
	}
}
