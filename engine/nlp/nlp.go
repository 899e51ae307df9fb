// Package nlp provides the part-of-speech tagging capability the parser falls
// back on when keyword matching cannot find a verb.
package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Token is one word of tagged input. Tag uses the Penn Treebank tag set
// (VB, VBP, NN, NNS, JJ, ...).
type Token struct {
	Text string
	Tag  string
}

// IsVerb reports whether the token was tagged as any verb form.
func (t Token) IsVerb() bool { return strings.HasPrefix(t.Tag, "VB") }

// IsNoun reports whether the token was tagged as a noun.
func (t Token) IsNoun() bool { return strings.HasPrefix(t.Tag, "NN") }

// IsAdjective reports whether the token was tagged as an adjective.
func (t Token) IsAdjective() bool { return strings.HasPrefix(t.Tag, "JJ") }

// Tagger tags a line of text.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

// TaggerFunc adapts a function to the Tagger interface.
type TaggerFunc func(text string) ([]Token, error)

// Tag calls f(text).
func (f TaggerFunc) Tag(text string) ([]Token, error) { return f(text) }

// ProseTagger tags text with the prose averaged-perceptron model. The model
// is read-only once built, so one tagger can serve concurrent sessions.
type ProseTagger struct {
	model *prose.Model
}

// NewProseTagger returns a tagger backed by prose. The model ships with the
// library and is loaded once here rather than per command.
func NewProseTagger() *ProseTagger {
	p := &ProseTagger{}
	if doc, err := prose.NewDocument("", proseOpts()...); err == nil {
		p.model = doc.Model
	}
	return p
}

// proseOpts disables named-entity extraction and sentence segmentation:
// commands are single short clauses.
func proseOpts() []prose.DocOpt {
	return []prose.DocOpt{
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	}
}

// Tag tokenizes and tags text.
func (p *ProseTagger) Tag(text string) ([]Token, error) {
	opts := proseOpts()
	if p.model != nil {
		opts = append(opts, prose.UsingModel(p.model))
	}
	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("tagging %q: %w", text, err)
	}
	toks := doc.Tokens()
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		out = append(out, Token{Text: strings.ToLower(t.Text), Tag: t.Tag})
	}
	return out, nil
}
