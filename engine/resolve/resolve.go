// Package resolve maps object phrases from parsed input to item and NPC IDs.
package resolve

import (
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes the things a phrase can name.
type Kind int

const (
	KindItem Kind = iota
	KindNPC
)

// Candidate is one nameable thing known to the resolver.
type Candidate struct {
	ID   string
	Name string
	Kind Kind
}

// Scope is a read-only snapshot of what the player can refer to, searched in
// order: inventory, current location, then everything in the game.
type Scope struct {
	Inventory []Candidate
	Here      []Candidate
	Global    []Candidate
}

// NotFoundError indicates no candidate matched a phrase.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// Match strength, strongest last.
const (
	noMatch = iota
	wordMatch
	idMatch
	exactName
)

// Resolve maps a phrase to a candidate ID. The first scope tier with any
// match wins; within a tier an exact name beats an ID match, which beats a
// single-word match, and equal matches resolve to the smallest ID.
func Resolve(scope Scope, phrase string) (string, error) {
	q := normalize(phrase)
	if q == "" {
		return "", &NotFoundError{Name: phrase}
	}
	for _, tier := range [][]Candidate{scope.Inventory, scope.Here, scope.Global} {
		if id, ok := best(tier, q); ok {
			return id, nil
		}
	}
	return "", &NotFoundError{Name: phrase}
}

// ResolveKind is Resolve restricted to one kind of candidate.
func ResolveKind(scope Scope, phrase string, kind Kind) (string, error) {
	return Resolve(Scope{
		Inventory: filter(scope.Inventory, kind),
		Here:      filter(scope.Here, kind),
		Global:    filter(scope.Global, kind),
	}, phrase)
}

func best(tier []Candidate, q string) (string, bool) {
	type hit struct {
		id   string
		rank int
	}
	var hits []hit
	for _, c := range tier {
		if r := rank(c, q); r != noMatch {
			hits = append(hits, hit{c.ID, r})
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank > hits[j].rank
		}
		return hits[i].id < hits[j].id
	})
	return hits[0].id, true
}

// rank scores how well a normalized phrase names a candidate.
func rank(c Candidate, q string) int {
	name := normalize(c.Name)
	if name != "" && name == q {
		return exactName
	}
	id := strings.ToLower(c.ID)
	if id == q || strings.ReplaceAll(q, " ", "_") == id {
		return idMatch
	}
	// Word-based partial match: "prism" matches "crystal prism".
	if !strings.Contains(q, " ") {
		for _, word := range strings.Fields(name) {
			if word == q {
				return wordMatch
			}
		}
	}
	return noMatch
}

func filter(cs []Candidate, kind Kind) []Candidate {
	var out []Candidate
	for _, c := range cs {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
