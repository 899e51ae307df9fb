package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("54")).
			Foreground(lipgloss.Color("225")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213"))

	styleLocationDesc = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleQuest = lipgloss.NewStyle().
			Foreground(lipgloss.Color("219")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindLocationDesc lineKind = iota
	kindYouSee
	kindExits
	kindDialogue
	kindQuest
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is. Failed commands
// are marked as errors by the caller.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You see:"), strings.HasPrefix(line, "Also here:"):
		return kindYouSee
	case strings.HasPrefix(line, "Exits:"):
		return kindExits
	case strings.HasPrefix(line, "Quest complete:"),
		strings.HasPrefix(line, "New quest:"),
		strings.HasPrefix(line, "You gain "):
		return kindQuest
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindLocationDesc
	}
}

// containsQuotedSpeech checks if a line contains NPC dialogue in double
// quotes.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '"' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// styledListing renders "You see: a, b." and "Also here: x." with the names
// bold.
func styledListing(line string) string {
	prefix, rest, ok := strings.Cut(line, ": ")
	if !ok {
		return styleLocationDesc.Render(line)
	}
	return styleLocationDesc.Render(prefix+": ") + styleYouSee.Render(rest)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
