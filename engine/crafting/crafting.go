// Package crafting matches held items against recipe definitions.
package crafting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/shmoopland/engine/content"
)

// Failure kinds, usable with errors.Is on a *Error.
var (
	ErrWrongLocation      = errors.New("wrong location")
	ErrMissingIngredients = errors.New("missing ingredients")
	ErrNoMatch            = errors.New("no matching recipe")
)

// Error describes why no recipe could fire.
type Error struct {
	Kind     error
	Recipe   content.Recipe // the closest candidate, zero for ErrNoMatch
	Missing  []string       // ingredient ids not carried, for ErrMissingIngredients
	Location string         // where the recipe works, for ErrWrongLocation
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrWrongLocation:
		return fmt.Sprintf("%s: %s must be made at %s", e.Kind, e.Recipe.ID, e.Location)
	case ErrMissingIngredients:
		return fmt.Sprintf("%s for %s: %s", e.Kind, e.Recipe.ID, strings.Join(e.Missing, ", "))
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error { return e.Kind }

// Attempt finds the recipe to fire. trigger narrows the candidates to recipes
// it names (recipe id or name, result id or name, or one ingredient id); an
// empty trigger considers every recipe. The first eligible candidate in
// declaration order wins.
func Attempt(recipes []content.Recipe, names func(id string) string, trigger string, inventory []string, location string) (content.Recipe, error) {
	held := make(map[string]bool, len(inventory))
	for _, id := range inventory {
		held[id] = true
	}

	var candidates []content.Recipe
	for _, r := range recipes {
		if trigger == "" || Mentions(r, names, trigger) {
			candidates = append(candidates, r)
		}
	}

	for _, r := range candidates {
		if locationOK(r, location) && len(missing(r, held)) == 0 {
			return r, nil
		}
	}

	// Nothing fired: report the most useful reason.
	for _, r := range candidates {
		if len(missing(r, held)) == 0 {
			return content.Recipe{}, &Error{Kind: ErrWrongLocation, Recipe: r, Location: r.Location}
		}
	}
	for _, r := range candidates {
		if locationOK(r, location) {
			return content.Recipe{}, &Error{Kind: ErrMissingIngredients, Recipe: r, Missing: missing(r, held)}
		}
	}
	return content.Recipe{}, &Error{Kind: ErrNoMatch}
}

// Mentions reports whether trigger names the recipe, its result, or one of its
// ingredients. names maps item ids to display names.
func Mentions(r content.Recipe, names func(id string) string, trigger string) bool {
	t := normalize(trigger)
	if t == normalize(r.ID) || t == normalize(r.Name) || t == normalize(r.Result) {
		return true
	}
	if names != nil && t == normalize(names(r.Result)) {
		return true
	}
	for _, ing := range r.Ingredients {
		if t == normalize(ing) || (names != nil && t == normalize(names(ing))) {
			return true
		}
	}
	return false
}

// Eligible reports whether r can fire with the held items at location.
func Eligible(r content.Recipe, inventory []string, location string) bool {
	held := make(map[string]bool, len(inventory))
	for _, id := range inventory {
		held[id] = true
	}
	return locationOK(r, location) && len(missing(r, held)) == 0
}

func locationOK(r content.Recipe, location string) bool {
	return r.Location == "" || r.Location == location
}

func missing(r content.Recipe, held map[string]bool) []string {
	var out []string
	for _, ing := range r.Ingredients {
		if !held[ing] {
			out = append(out, ing)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
}
