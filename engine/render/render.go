// Package render substitutes variables into content templates.
//
// Placeholders use the {name} form. Doubled braces escape a literal brace.
// A placeholder with no value is left in the output unchanged so that content
// authors can spot the gap.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/shmoopland/engine/content"
)

// ErrUnknownTemplate is returned when a template id is not in the store.
var ErrUnknownTemplate = errors.New("unknown template")

// Chooser picks an index in [0, n) when a variable has several values.
type Chooser func(n int) int

// Renderer resolves templates and Text values against a content store.
type Renderer struct {
	store  *content.Store
	choose Chooser
}

// New creates a renderer. A nil chooser always picks the first value.
func New(store *content.Store, choose Chooser) *Renderer {
	return &Renderer{store: store, choose: choose}
}

// Render looks up the template id and fills its placeholders from the
// call-site substitutions, then from the global variables.
func (r *Renderer) Render(id string, subs map[string]string) (string, error) {
	tmpl, ok := r.store.Template(id)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownTemplate, id)
	}
	return Interpolate(tmpl, r.lookup(subs)), nil
}

// Text resolves a static or template Text. Static text is returned verbatim.
func (r *Renderer) Text(t content.Text, subs map[string]string) (string, error) {
	switch t.Kind {
	case content.TextTemplate:
		return r.Render(t.Value, subs)
	case content.TextStatic:
		return t.Value, nil
	default:
		return "", nil
	}
}

func (r *Renderer) lookup(subs map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if v, ok := subs[name]; ok {
			return v, true
		}
		values, ok := r.store.Variables[name]
		if !ok || len(values) == 0 {
			return "", false
		}
		if len(values) == 1 || r.choose == nil {
			return values[0], true
		}
		i := r.choose(len(values))
		if i < 0 || i >= len(values) {
			i = 0
		}
		return values[i], true
	}
}

// Interpolate replaces {name} placeholders using lookup. Unknown names are
// kept as written.
func Interpolate(text string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := placeholderEnd(text, i)
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			name := text[i+1 : end]
			if v, ok := lookup(name); ok {
				b.WriteString(v)
			} else {
				b.WriteString(text[i : end+1])
			}
			i = end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Placeholders returns the placeholder names in text, in order of appearance.
func Placeholders(text string) []string {
	var names []string
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '{' && i+1 < len(text) && text[i+1] == '{':
			i++
		case text[i] == '{':
			if end := placeholderEnd(text, i); end > 0 {
				names = append(names, text[i+1:end])
				i = end
			}
		}
	}
	return names
}

// HasPlaceholders reports whether any unresolved {name} marker remains.
func HasPlaceholders(text string) bool {
	return len(Placeholders(text)) > 0
}

// placeholderEnd returns the index of the closing brace of the placeholder
// opening at start, or -1 when the braces do not enclose a valid name.
func placeholderEnd(text string, start int) int {
	for j := start + 1; j < len(text); j++ {
		c := text[j]
		if c == '}' {
			if j == start+1 {
				return -1
			}
			return j
		}
		if !isNameByte(c) {
			return -1
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
