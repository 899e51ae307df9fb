package content

import (
	"reflect"
	"testing"
)

func testStore() *Store {
	return &Store{
		Locations: map[string]Location{
			"wizard_tower": {ID: "wizard_tower", Name: "Wizard's Tower"},
			"market":       {ID: "market"},
		},
		Items: map[string]Item{
			"crystal_prism": {ID: "crystal_prism", Name: "Crystal Prism"},
			"odd_rock":      {ID: "odd_rock"},
		},
		NPCs: map[string]NPC{
			"wizard":   {ID: "wizard", Name: "Wizard Whimsy", Location: "wizard_tower"},
			"merchant": {ID: "merchant", Name: "Merchant Marvin", Location: "market"},
			"owl":      {ID: "owl", Location: "wizard_tower"},
		},
		Quests: map[string]Quest{
			"b_quest": {ID: "b_quest"},
			"a_quest": {ID: "a_quest"},
		},
		Recipes: []Recipe{
			{ID: "first", Result: "x"},
			{ID: "second", Result: "y"},
		},
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"crystal_prism", "Crystal Prism"},
		{"odd_rock", "Odd Rock"},
		{"market", "Market"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.id); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNames(t *testing.T) {
	s := testStore()
	if got := s.ItemName("crystal_prism"); got != "Crystal Prism" {
		t.Errorf("ItemName = %q", got)
	}
	if got := s.ItemName("odd_rock"); got != "Odd Rock" {
		t.Errorf("ItemName fallback = %q", got)
	}
	if got := s.LocationName("market"); got != "Market" {
		t.Errorf("LocationName fallback = %q", got)
	}
	if got := s.NPCName("owl"); got != "Owl" {
		t.Errorf("NPCName fallback = %q", got)
	}
}

func TestNPCsAt(t *testing.T) {
	got := testStore().NPCsAt("wizard_tower")
	want := []string{"owl", "wizard"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NPCsAt = %v, want %v", got, want)
	}
}

func TestQuestIDsSorted(t *testing.T) {
	got := testStore().QuestIDs()
	want := []string{"a_quest", "b_quest"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("QuestIDs = %v, want %v", got, want)
	}
}

func TestRecipeLookup(t *testing.T) {
	s := testStore()
	r, ok := s.Recipe("second")
	if !ok || r.Result != "y" {
		t.Errorf("Recipe(second) = %+v, %v", r, ok)
	}
	if _, ok := s.Recipe("third"); ok {
		t.Error("unknown recipe should not be found")
	}
}

func TestText(t *testing.T) {
	if !(Text{}).IsZero() {
		t.Error("zero Text should be zero")
	}
	if Static("x").IsZero() || TemplateRef("x").Kind != TextTemplate {
		t.Error("constructors set the wrong kind")
	}
}
