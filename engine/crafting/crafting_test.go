package crafting

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nathoo/shmoopland/engine/content"
)

func testRecipes() []content.Recipe {
	return []content.Recipe{
		{
			ID:          "magic_charm",
			Name:        "Magic Charm",
			Ingredients: []string{"crystal_prism", "singing_flower"},
			Location:    "wizard_tower",
			Result:      "enchanted_charm",
		},
		{
			ID:          "lucky_bracelet",
			Name:        "Lucky Bracelet",
			Ingredients: []string{"magic_coin", "silver_thread"},
			Result:      "lucky_bracelet",
		},
		{
			ID:          "prism_lantern",
			Name:        "Prism Lantern",
			Ingredients: []string{"crystal_prism", "old_lantern"},
			Location:    "wizard_tower",
			Result:      "prism_lantern",
		},
	}
}

func names(id string) string {
	return map[string]string{
		"crystal_prism":   "Crystal Prism",
		"singing_flower":  "Singing Flower",
		"enchanted_charm": "Enchanted Charm",
	}[id]
}

func TestAttempt_Success(t *testing.T) {
	r, err := Attempt(testRecipes(), names, "", []string{"singing_flower", "crystal_prism"}, "wizard_tower")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Result != "enchanted_charm" {
		t.Errorf("Result = %q, want enchanted_charm", r.Result)
	}
}

func TestAttempt_WrongLocation(t *testing.T) {
	_, err := Attempt(testRecipes(), names, "", []string{"crystal_prism", "singing_flower"}, "market")
	if !errors.Is(err, ErrWrongLocation) {
		t.Fatalf("expected ErrWrongLocation, got %v", err)
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Location != "wizard_tower" {
		t.Errorf("error = %+v", ce)
	}
}

func TestAttempt_MissingIngredients(t *testing.T) {
	_, err := Attempt(testRecipes(), names, "magic charm", []string{"crystal_prism"}, "wizard_tower")
	if !errors.Is(err, ErrMissingIngredients) {
		t.Fatalf("expected ErrMissingIngredients, got %v", err)
	}
	var ce *Error
	errors.As(err, &ce)
	if !reflect.DeepEqual(ce.Missing, []string{"singing_flower"}) {
		t.Errorf("Missing = %v", ce.Missing)
	}
}

func TestAttempt_NothingHeldAtLocation(t *testing.T) {
	_, err := Attempt(testRecipes(), names, "", nil, "wizard_tower")
	if !errors.Is(err, ErrMissingIngredients) {
		t.Fatalf("expected ErrMissingIngredients, got %v", err)
	}
}

func TestAttempt_NoMatch(t *testing.T) {
	_, err := Attempt(testRecipes(), names, "dragon egg", []string{"crystal_prism"}, "wizard_tower")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}

	_, err = Attempt(nil, names, "", []string{"crystal_prism"}, "wizard_tower")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch without recipes, got %v", err)
	}
}

func TestAttempt_DeclarationOrderWins(t *testing.T) {
	inv := []string{"crystal_prism", "singing_flower", "old_lantern"}
	r, err := Attempt(testRecipes(), names, "crystal prism", inv, "wizard_tower")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID != "magic_charm" {
		t.Errorf("ID = %q, want first declared magic_charm", r.ID)
	}

	r, err = Attempt(testRecipes(), names, "prism lantern", inv, "wizard_tower")
	if err != nil || r.ID != "prism_lantern" {
		t.Errorf("explicit trigger = %q, %v", r.ID, err)
	}
}

func TestAttempt_AnywhereRecipe(t *testing.T) {
	r, err := Attempt(testRecipes(), names, "", []string{"magic_coin", "silver_thread"}, "market")
	if err != nil || r.ID != "lucky_bracelet" {
		t.Errorf("Attempt = %q, %v", r.ID, err)
	}
}

func TestMentions(t *testing.T) {
	r := testRecipes()[0]
	for _, trig := range []string{"magic_charm", "Magic Charm", "enchanted charm", "Enchanted Charm", "crystal_prism", "singing flower"} {
		if !Mentions(r, names, trig) {
			t.Errorf("Mentions(%q) = false", trig)
		}
	}
	if Mentions(r, names, "lantern") {
		t.Error("lantern should not match magic_charm")
	}
}

func TestEligible(t *testing.T) {
	r := testRecipes()[0]
	if !Eligible(r, []string{"crystal_prism", "singing_flower"}, "wizard_tower") {
		t.Error("should be eligible")
	}
	if Eligible(r, []string{"crystal_prism", "singing_flower"}, "market") {
		t.Error("wrong location should not be eligible")
	}
	if Eligible(r, []string{"crystal_prism"}, "wizard_tower") {
		t.Error("missing ingredient should not be eligible")
	}
}
