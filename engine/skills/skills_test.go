package skills

import (
	"testing"

	"github.com/nathoo/shmoopland/engine/state"
)

func TestAddExperience(t *testing.T) {
	tests := []struct {
		name      string
		xp        int
		wantLevel int
		wantXP    int
		wantNext  int
		wantUp    bool
	}{
		{"below threshold", 10, 1, 10, 100, false},
		{"exact threshold", 100, 2, 0, 150, true},
		{"carry surplus", 130, 2, 30, 150, true},
		{"two levels", 260, 3, 10, 225, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, up := AddExperience(Initial(), tt.xp)
			if got.Level != tt.wantLevel || got.Experience != tt.wantXP || got.Next != tt.wantNext {
				t.Errorf("AddExperience(%d) = %+v, want level %d xp %d next %d",
					tt.xp, got, tt.wantLevel, tt.wantXP, tt.wantNext)
			}
			if up != tt.wantUp {
				t.Errorf("leveled = %v, want %v", up, tt.wantUp)
			}
		})
	}
}

func TestAddExperience_ZeroValueStartsAtInitial(t *testing.T) {
	got, _ := AddExperience(state.SkillLevel{}, 0)
	if got != Initial() {
		t.Errorf("got %+v, want %+v", got, Initial())
	}
	got, _ = AddExperience(got, TrainAmount)
	if got.Experience != TrainAmount {
		t.Errorf("experience = %d, want %d", got.Experience, TrainAmount)
	}
}

func TestKnown(t *testing.T) {
	for _, name := range Names() {
		if !Known(name) {
			t.Errorf("Known(%q) = false", name)
		}
		if Describe(name) == "" {
			t.Errorf("Describe(%q) is empty", name)
		}
	}
	if !Known("MAGIC") {
		t.Error("Known should ignore case")
	}
	if Known("juggling") {
		t.Error("juggling should not be a skill")
	}
}
