// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for plain-text play.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/shmoopland/engine"
	"github.com/nathoo/shmoopland/types"
)

// DefaultWidth is the wrap column for game prose.
const DefaultWidth = 78

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	Width     int    // wrap column; 0 disables wrapping
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
		Width:  DefaultWidth,
	}
}

// Run starts the game loop. It shows the intro and the starting location,
// then loops: prompt → input → dispatch → output. It returns when the player
// quits or input ends.
func (c *CLI) Run() {
	c.printResult(c.Engine.Start())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
		if result.Quit {
			return
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printLine(c.Engine.Execute(types.Intent{Verb: types.VerbQuit}).Output...)
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         exit the game",
		"  /help         show this help",
		"  /state        debug: dump current state",
		"  /trace        toggle debug trace output",
		"  again (g)     repeat your last command",
		"",
	}
	for _, line := range help {
		c.printLine(line)
	}
	c.printResult(c.Engine.Execute(types.Intent{Verb: types.VerbHelp}))
}

func (c *CLI) cmdState() {
	w := c.Engine.World
	c.printSystem(fmt.Sprintf("Turn: %d", w.Turns))
	c.printSystem(fmt.Sprintf("Location: %s", w.Location))
	c.printSystem(fmt.Sprintf("Inventory: %v", w.Inventory))
	c.printSystem(fmt.Sprintf("Experience: %d  Currency: %d", w.Experience, w.Currency))
	if len(w.Active) > 0 {
		c.printSystem(fmt.Sprintf("Active quests: %v", sortedKeys(w.Active)))
	}
	if len(w.Completed) > 0 {
		c.printSystem(fmt.Sprintf("Completed quests: %v", sortedKeys(w.Completed)))
	}
	if len(w.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", w.Flags))
	}
	c.printSystem(fmt.Sprintf("RNG: seed %d, position %d", w.RNGSeed, w.RNGPos))
}

func (c *CLI) printTrace(result types.Result) {
	c.printSystem(fmt.Sprintf("[trace] Intent: %s %q", result.Intent.Verb, result.Intent.Object))
	if result.Err != nil {
		c.printSystem(fmt.Sprintf("[trace] Error: %v", result.Err))
	}
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	c.printLine(result.Output...)
}

func (c *CLI) printLine(lines ...string) {
	for _, text := range lines {
		if c.Width > 0 {
			text = wordwrap.String(text, c.Width)
		}
		fmt.Fprintln(c.Out, text)
	}
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
