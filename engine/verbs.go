package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/crafting"
	"github.com/nathoo/shmoopland/engine/dialogue"
	"github.com/nathoo/shmoopland/engine/effects"
	"github.com/nathoo/shmoopland/engine/skills"
	"github.com/nathoo/shmoopland/engine/state"
	"github.com/nathoo/shmoopland/types"
)

func (e *Engine) take(itemID string) ([]types.Effect, []string, error) {
	if itemID == "" {
		return nil, nil, fail(ErrMissingObject, "Take what?")
	}
	item, ok := e.Store.Item(itemID)
	if !ok {
		return nil, nil, fail(ErrItemNotFound, "You don't see any %s here.", itemID)
	}
	name := e.Store.ItemName(itemID)
	if state.HasItem(e.World, itemID) {
		return nil, nil, fail(ErrAlreadyHeld, "You already have the %s.", name)
	}
	if state.ItemLocation(e.World, e.Store, itemID) != e.World.Location {
		return nil, nil, fail(ErrItemNotFound, "You don't see the %s here.", name)
	}
	if !item.Takeable {
		return nil, nil, fail(ErrItemNotFound, "The %s is part of the scenery. You can't take it.", name)
	}

	effs := []types.Effect{effects.New(effects.TakeItem, "item", itemID)}
	return effs, []string{fmt.Sprintf("You take the %s.", name)}, nil
}

func (e *Engine) drop(itemID string) ([]types.Effect, []string, error) {
	if itemID == "" {
		return nil, nil, fail(ErrMissingObject, "Drop what?")
	}
	if !state.HasItem(e.World, itemID) {
		return nil, nil, fail(ErrNotCarried, "You don't have the %s.", e.Store.ItemName(itemID))
	}
	effs := []types.Effect{effects.New(effects.DropItem, "item", itemID)}
	return effs, []string{fmt.Sprintf("You drop the %s.", e.Store.ItemName(itemID))}, nil
}

func (e *Engine) goDirection(direction string) ([]types.Effect, []string, error) {
	if direction == "" {
		return nil, nil, fail(ErrMissingObject, "Go where?")
	}
	target, ok := state.Exits(e.World, e.Store)[direction]
	if !ok {
		return nil, nil, fail(ErrNoSuchExit, "You can't go %s from here.", direction)
	}
	effs := []types.Effect{effects.New(effects.MovePlayer, "location", target)}
	return effs, e.describeLocation(target), nil
}

func (e *Engine) examine(objectID string) ([]string, error) {
	if objectID == "" {
		return nil, fail(ErrMissingObject, "Examine what?")
	}
	if item, ok := e.Store.Item(objectID); ok && state.IsVisible(e.World, e.Store, objectID) {
		name := e.Store.ItemName(objectID)
		subs := map[string]string{"item": name}
		if !item.Examine.IsZero() {
			return []string{e.text(item.Examine, subs)}, nil
		}
		if !item.Description.IsZero() {
			return []string{e.text(item.Description, subs)}, nil
		}
		return []string{fmt.Sprintf("You see nothing special about the %s.", name)}, nil
	}
	if npc, ok := e.Store.NPC(objectID); ok && npc.Location == e.World.Location {
		return []string{fmt.Sprintf("%s is here. Perhaps you should talk to them.", e.Store.NPCName(npc.ID))}, nil
	}
	return nil, fail(ErrItemNotFound, "You don't see any %s here.", e.Store.ItemName(objectID))
}

func (e *Engine) craft(trigger string) ([]types.Effect, []string, error) {
	r, err := crafting.Attempt(e.Store.Recipes, e.Store.ItemName, trigger, e.World.Inventory, e.World.Location)
	if err != nil {
		var ce *crafting.Error
		if !errors.As(err, &ce) {
			return nil, nil, err
		}
		switch ce.Kind {
		case crafting.ErrWrongLocation:
			return nil, nil, fail(ErrWrongLocation, "You have everything for the %s, but it can only be made at the %s.",
				recipeName(ce.Recipe), e.Store.LocationName(ce.Location))
		case crafting.ErrMissingIngredients:
			names := make([]string, 0, len(ce.Missing))
			for _, id := range ce.Missing {
				names = append(names, e.Store.ItemName(id))
			}
			return nil, nil, fail(ErrMissingIngredients, "To make the %s you still need: %s.",
				recipeName(ce.Recipe), strings.Join(names, ", "))
		default:
			if trigger == "" {
				return nil, nil, fail(ErrNoMatch, "Nothing you carry combines into anything here.")
			}
			return nil, nil, fail(ErrNoMatch, "You don't know how to make anything with the %s.", e.Store.ItemName(trigger))
		}
	}

	var effs []types.Effect
	for _, ing := range r.Ingredients {
		effs = append(effs, effects.New(effects.ConsumeItem, "item", ing))
	}
	effs = append(effs,
		effects.New(effects.GiveItem, "item", r.Result, "source", "craft"),
		effects.New(effects.EmitEvent, "event", effects.EventItemCrafted, "item", r.Result, "recipe", r.ID),
		effects.New(effects.AddSkillXP, "skill", skills.Crafting, "amount", skills.CraftAmount),
	)

	out := []string{}
	if r.Description != "" {
		out = append(out, r.Description)
	}
	out = append(out, fmt.Sprintf("You craft the %s.", e.Store.ItemName(r.Result)))
	return effs, out, nil
}

func (e *Engine) talk(npcID, topic string) ([]types.Effect, []string, error) {
	if npcID == "" {
		return nil, nil, fail(ErrMissingObject, "Talk to whom?")
	}
	npc, ok := e.Store.NPC(npcID)
	if !ok || npc.Location != e.World.Location {
		return nil, nil, fail(ErrNpcNotPresent, "There is no %s here to talk to.", e.Store.NPCName(npcID))
	}
	name := e.Store.NPCName(npc.ID)
	subs := map[string]string{"npc": name, "location": e.Store.LocationName(e.World.Location)}
	record := []types.Effect{effects.New(effects.RecordTalk, "npc", npcID)}

	if topic != "" {
		_, text, ok := dialogue.SelectTopic(npc, topic)
		if !ok {
			topics := dialogue.Topics(npc)
			if len(topics) == 0 {
				return nil, []string{fmt.Sprintf("%s has nothing to say about that.", name)}, nil
			}
			return nil, []string{fmt.Sprintf("%s has nothing to say about %s. You could ask about: %s.",
				name, topic, strings.Join(topics, ", "))}, nil
		}
		return record, []string{fmt.Sprintf("%s says: \"%s\"", name, e.text(text, subs))}, nil
	}

	greeting, ok := dialogue.Greeting(npc, e.World.Talks[npcID], e.RNG.Intn)
	if !ok {
		return record, []string{fmt.Sprintf("%s nods at you but says nothing.", name)}, nil
	}
	out := []string{fmt.Sprintf("%s says: \"%s\"", name, e.text(greeting, subs))}
	if topics := dialogue.Topics(npc); len(topics) > 0 {
		out = append(out, fmt.Sprintf("You could ask about: %s.", strings.Join(topics, ", ")))
	}
	return record, out, nil
}

func (e *Engine) train(name string) ([]types.Effect, []string, error) {
	if name == "" {
		return nil, nil, fail(ErrMissingObject, "Train what? Skills: %s.", strings.Join(skills.Names(), ", "))
	}
	name = strings.ToLower(name)
	if !skills.Known(name) {
		return nil, nil, fail(ErrUnknownSkill, "There is no skill called %s.", name)
	}
	effs := []types.Effect{effects.New(effects.AddSkillXP, "skill", name, "amount", skills.TrainAmount)}
	return effs, []string{fmt.Sprintf("You practice %s. (+%d experience)", name, skills.TrainAmount)}, nil
}

func recipeName(r content.Recipe) string {
	if r.Name != "" {
		return r.Name
	}
	return content.DisplayName(r.ID)
}
