package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/shmoopland/engine/state"
)

// renderStatusBar produces a full-width inverted status line showing the
// current location, exits, inventory, experience, coins and turn count.
func (m Model) renderStatusBar() string {
	w := m.engine.World
	store := m.engine.Store

	exits := state.Exits(w, store)
	dirs := make([]string, 0, len(exits))
	for dir := range exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	left := fmt.Sprintf(" %s | Exits: %s", store.LocationName(w.Location), strings.Join(dirs, ","))
	stats := fmt.Sprintf("XP:%d ¤%d T:%d ", w.Experience, w.Currency, w.Turns)
	right := stats

	// Show inventory items if they fit, otherwise just count.
	if len(w.Inventory) > 0 {
		names := make([]string, 0, len(w.Inventory))
		for _, id := range w.Inventory {
			names = append(names, store.ItemName(id))
		}
		candidate := fmt.Sprintf("Inv: %s | %s", strings.Join(names, ", "), stats)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | %s", len(w.Inventory), stats)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
