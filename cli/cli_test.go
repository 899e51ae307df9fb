package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/shmoopland/engine"
	"github.com/nathoo/shmoopland/engine/content"
)

// testStore returns minimal game content for CLI testing.
func testStore() *content.Store {
	return &content.Store{
		Game: content.Game{
			Title:    "Test Game",
			Start:    "hall",
			Intro:    "Welcome to the test.",
			Farewell: "See you soon.",
		},
		Locations: map[string]content.Location{
			"hall": {
				ID: "hall", Name: "Hall",
				Description: content.Static("A grand hall."),
				Exits:       map[string]string{"north": "garden"},
			},
			"garden": {
				ID: "garden", Name: "Garden",
				Description: content.Static("A peaceful garden."),
				Exits:       map[string]string{"south": "hall"},
			},
		},
		Items: map[string]content.Item{
			"key": {
				ID: "key", Name: "Rusty Key", Home: "hall",
				Description: content.Static("An old key."),
				Takeable:    true,
			},
		},
		NPCs:      map[string]content.NPC{},
		Quests:    map[string]content.Quest{},
		Templates: map[string]string{},
		Variables: map[string][]string{},
		Currency:  map[string]int{},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &CLI{
		Engine: engine.New(testStore()),
		In:     strings.NewReader(input),
		Out:    &out,
		Width:  DefaultWidth,
	}
	return c, &out
}

func TestCLI_IntroAndStartingLocation(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Welcome to the test.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "A grand hall.") {
		t.Error("expected starting location description in output")
	}
	if !strings.Contains(output, "See you soon.") {
		t.Error("expected farewell on /quit")
	}
}

func TestCLI_BasicGameplay(t *testing.T) {
	c, out := newTestCLI(t, "take key\ninventory\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "You take the Rusty Key.") {
		t.Errorf("expected take confirmation, got:\n%s", output)
	}
	if strings.Count(output, "Rusty Key") < 3 {
		t.Error("expected the key in the location listing, the take and the inventory")
	}
}

func TestCLI_Navigation(t *testing.T) {
	c, out := newTestCLI(t, "go north\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "A peaceful garden.") {
		t.Error("expected garden description after going north")
	}
}

func TestCLI_QuitVerbEndsRun(t *testing.T) {
	c, out := newTestCLI(t, "quit\nlook\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "See you soon.") {
		t.Error("expected farewell")
	}
	if strings.Count(output, "A grand hall.") != 1 {
		t.Error("commands after quit should not run")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/quit", "/state", "/trace", "inventory (i)", "craft"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/save\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command: /save") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ntake key\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace] Effects: 1") {
		t.Errorf("expected effect trace, got:\n%s", output)
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "go north\n/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Location: garden") {
		t.Error("expected location in state output")
	}
	if !strings.Contains(output, "Turn: 1") {
		t.Error("expected turn count in state output")
	}
}

func TestCLI_EmptyInputAndComments(t *testing.T) {
	c, out := newTestCLI(t, "\n\n# a comment\n/quit\n")
	c.Run()

	output := out.String()
	if strings.Contains(output, "don't understand") || strings.Contains(output, "a comment") {
		t.Error("empty and comment lines should be silently skipped")
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "look\n/quit\n")
	c.EchoInput = true
	c.Run()

	if !strings.Contains(out.String(), "> look\n") {
		t.Error("expected echoed input after the prompt")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "look\nagain\n/quit\n")
	c.Run()

	// Start + look + again.
	count := strings.Count(out.String(), "A grand hall.")
	if count < 3 {
		t.Errorf("expected 'A grand hall.' at least 3 times (start + look + again), got %d", count)
	}
}

func TestCLI_G_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "look\ng\n/quit\n")
	c.Run()

	count := strings.Count(out.String(), "A grand hall.")
	if count < 3 {
		t.Errorf("expected 'A grand hall.' at least 3 times, got %d", count)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_WrapsLongLines(t *testing.T) {
	var out bytes.Buffer
	c := &CLI{Out: &out, Width: 20}
	c.printLine("the quick brown fox jumps over the lazy dog")

	for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		if len(line) > 20 {
			t.Errorf("line %q exceeds wrap width", line)
		}
	}
}
