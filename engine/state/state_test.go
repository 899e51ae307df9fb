package state

import (
	"reflect"
	"testing"

	"github.com/nathoo/shmoopland/engine/content"
)

func testStore() *content.Store {
	return &content.Store{
		Game: content.Game{Title: "Test Game", Start: "square"},
		Locations: map[string]content.Location{
			"square": {ID: "square", Name: "Town Square", Exits: map[string]string{"north": "tower"}},
			"tower":  {ID: "tower", Name: "Tower", Exits: map[string]string{"south": "square"}},
		},
		Items: map[string]content.Item{
			"prism":  {ID: "prism", Name: "Crystal Prism", Home: "tower", Takeable: true},
			"coin":   {ID: "coin", Name: "Magic Coin", Home: content.Carried, Takeable: true},
			"map":    {ID: "map", Name: "Old Map", Home: content.Carried, Takeable: true},
			"sign":   {ID: "sign", Name: "Welcome Sign", Home: "square"},
			"charm":  {ID: "charm", Name: "Charm", Home: content.Nowhere, Takeable: true},
			"flower": {ID: "flower", Name: "Singing Flower", Home: "square", Takeable: true},
		},
		Currency: map[string]int{"coin": 5},
	}
}

func TestNew(t *testing.T) {
	w := New(testStore())

	if w.Location != "square" {
		t.Errorf("Location = %q, want %q", w.Location, "square")
	}
	if !w.Visited["square"] {
		t.Error("start location should be visited")
	}
	want := []string{"coin", "map"}
	if !reflect.DeepEqual(w.Inventory, want) {
		t.Errorf("Inventory = %v, want %v", w.Inventory, want)
	}
	if len(w.Items) != 0 {
		t.Errorf("fresh world should have no overrides, got %v", w.Items)
	}
}

func TestItemLocation(t *testing.T) {
	store := testStore()
	w := New(store)

	tests := []struct {
		item string
		want string
	}{
		{"prism", "tower"},
		{"coin", content.Carried},
		{"charm", content.Nowhere},
		{"missing", content.Nowhere},
	}
	for _, tt := range tests {
		if got := ItemLocation(w, store, tt.item); got != tt.want {
			t.Errorf("ItemLocation(%q) = %q, want %q", tt.item, got, tt.want)
		}
	}

	w.Items["prism"] = "square"
	if got := ItemLocation(w, store, "prism"); got != "square" {
		t.Errorf("override ignored: got %q", got)
	}
}

func TestItemsAt(t *testing.T) {
	store := testStore()
	w := New(store)

	got := ItemsAt(w, store, "square")
	want := []string{"flower", "sign"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt(square) = %v, want %v", got, want)
	}
}

func TestIsVisibleAndInWorld(t *testing.T) {
	store := testStore()
	w := New(store)

	if !IsVisible(w, store, "coin") {
		t.Error("carried coin should be visible")
	}
	if !IsVisible(w, store, "sign") {
		t.Error("sign in current location should be visible")
	}
	if IsVisible(w, store, "prism") {
		t.Error("prism in another location should not be visible")
	}
	if InWorld(w, store, "charm") {
		t.Error("uncrafted charm should not be in the world")
	}
	w.Items["flower"] = Gone
	if InWorld(w, store, "flower") {
		t.Error("consumed flower should not be in the world")
	}
}

func TestWealth(t *testing.T) {
	store := testStore()
	w := New(store)
	w.Currency = 3
	if got := Wealth(w, store); got != 8 {
		t.Errorf("Wealth = %d, want 8", got)
	}
}

func TestExits(t *testing.T) {
	store := testStore()
	w := New(store)
	if got := Exits(w, store); got["north"] != "tower" {
		t.Errorf("Exits = %v", got)
	}
	w.Location = "void"
	if got := Exits(w, store); got != nil {
		t.Errorf("Exits of unknown location = %v, want nil", got)
	}
}

func TestClone_Independent(t *testing.T) {
	w := New(testStore())
	w.Active["q"] = &QuestProgress{Objectives: []bool{false}}
	c := Clone(w)

	if !reflect.DeepEqual(w, c) {
		t.Fatal("clone should equal original")
	}

	c.Inventory = append(c.Inventory, "prism")
	c.Items["prism"] = content.Carried
	c.Active["q"].Objectives[0] = true
	c.Flags["x"] = true

	if HasItem(w, "prism") {
		t.Error("inventory aliasing")
	}
	if _, ok := w.Items["prism"]; ok {
		t.Error("items map aliasing")
	}
	if w.Active["q"].Objectives[0] {
		t.Error("quest progress aliasing")
	}
	if w.Flags["x"] {
		t.Error("flags aliasing")
	}
}
