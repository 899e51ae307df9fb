package nlp

import (
	"errors"
	"testing"
)

func TestTokenClasses(t *testing.T) {
	tests := []struct {
		tok       Token
		verb      bool
		noun      bool
		adjective bool
	}{
		{Token{"grab", "VB"}, true, false, false},
		{Token{"grabs", "VBZ"}, true, false, false},
		{Token{"prism", "NN"}, false, true, false},
		{Token{"flowers", "NNS"}, false, true, false},
		{Token{"shiny", "JJ"}, false, false, true},
		{Token{"the", "DT"}, false, false, false},
	}
	for _, tt := range tests {
		if got := tt.tok.IsVerb(); got != tt.verb {
			t.Errorf("%v.IsVerb() = %v", tt.tok, got)
		}
		if got := tt.tok.IsNoun(); got != tt.noun {
			t.Errorf("%v.IsNoun() = %v", tt.tok, got)
		}
		if got := tt.tok.IsAdjective(); got != tt.adjective {
			t.Errorf("%v.IsAdjective() = %v", tt.tok, got)
		}
	}
}

func TestTaggerFunc(t *testing.T) {
	want := errors.New("offline")
	var tagger Tagger = TaggerFunc(func(string) ([]Token, error) { return nil, want })
	if _, err := tagger.Tag("anything"); !errors.Is(err, want) {
		t.Errorf("Tag error = %v, want %v", err, want)
	}
}

func TestProseTagger_TokensLowercased(t *testing.T) {
	toks, err := NewProseTagger().Tag("Snatch the Crystal Prism")
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %v", toks)
	}
	if toks[0].Text != "snatch" || toks[3].Text != "prism" {
		t.Errorf("tokens = %v", toks)
	}
	for _, tok := range toks {
		if tok.Tag == "" {
			t.Errorf("token %q has no tag", tok.Text)
		}
	}
}

func TestProseTagger_ReusesModel(t *testing.T) {
	p := NewProseTagger()
	if p.model == nil {
		t.Fatal("model not loaded at construction")
	}
	model := p.model
	for _, text := range []string{"please take the crystal prism", "snatch the prism", "xyzzy"} {
		toks, err := p.Tag(text)
		if err != nil {
			t.Fatalf("Tag(%q) failed: %v", text, err)
		}
		if len(toks) == 0 {
			t.Errorf("Tag(%q) returned no tokens", text)
		}
	}
	if p.model != model {
		t.Error("model was replaced between calls")
	}
}
