package loader

import (
	"fmt"
	"sort"
	"strings"
)

// Problem is one defect found in a content pack.
type Problem struct {
	File    string // content file, e.g. "items.json"
	Key     string // dotted path inside the file, e.g. "items.crystal_prism.location"
	Message string
}

func (p Problem) String() string {
	switch {
	case p.Key == "":
		return fmt.Sprintf("%s: %s", p.File, p.Message)
	default:
		return fmt.Sprintf("%s: %s: %s", p.File, p.Key, p.Message)
	}
}

// ContentLoadError lists every problem found while loading a pack.
type ContentLoadError struct {
	Problems []Problem
}

func (e *ContentLoadError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return fmt.Sprintf("content load failed with %d problem(s):\n  %s",
		len(e.Problems), strings.Join(lines, "\n  "))
}

func newLoadError(problems []Problem) *ContentLoadError {
	sorted := append([]Problem(nil), problems...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].Key < sorted[j].Key
	})
	return &ContentLoadError{Problems: sorted}
}
