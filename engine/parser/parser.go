// Package parser converts command strings into Intent structs.
// Keyword matching comes first; a part-of-speech tagger is consulted only
// when no known verb is found.
package parser

import (
	"log/slog"
	"strings"

	"github.com/nathoo/shmoopland/engine/nlp"
	"github.com/nathoo/shmoopland/engine/resolve"
	"github.com/nathoo/shmoopland/types"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"u":  "up",
	"d":  "down",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true, "in": true, "out": true,
}

var vocabulary = map[string]types.Verb{
	"look":      types.VerbLook,
	"inventory": types.VerbInventory,
	"take":      types.VerbTake,
	"drop":      types.VerbDrop,
	"go":        types.VerbGo,
	"examine":   types.VerbExamine,
	"craft":     types.VerbCraft,
	"talk":      types.VerbTalk,
	"quests":    types.VerbQuests,
	"quest":     types.VerbQuest,
	"skills":    types.VerbSkills,
	"skill":     types.VerbSkill,
	"train":     types.VerbTrain,
	"recipes":   types.VerbRecipes,
	"help":      types.VerbHelp,
	"quit":      types.VerbQuit,
}

var verbAliases = map[string]string{
	// Look / Examine
	"l":        "look",
	"x":        "examine",
	"inspect":  "examine",
	"check":    "examine",
	"study":    "examine",
	"observe":  "examine",
	"describe": "examine",
	"read":     "examine",

	// Movement
	"walk":   "go",
	"run":    "go",
	"move":   "go",
	"head":   "go",
	"travel": "go",
	"enter":  "go",

	// Take / Drop
	"get":     "take",
	"grab":    "take",
	"carry":   "take",
	"discard": "drop",

	// Crafting
	"use":     "craft",
	"combine": "craft",
	"make":    "craft",
	"mix":     "craft",
	"brew":    "craft",
	"create":  "craft",

	// Talk / Dialogue
	"ask":      "talk",
	"speak":    "talk",
	"chat":     "talk",
	"converse": "talk",
	"greet":    "talk",

	// Progress
	"journal":  "quests",
	"recipe":   "recipes",
	"practice": "train",

	// Miscellaneous
	"inv":  "inventory",
	"i":    "inventory",
	"h":    "help",
	"?":    "help",
	"q":    "quit",
	"exit": "quit",
	"bye":  "quit",
}

// synonyms extends verbAliases for the tagger fallback only. These words are
// too loose to accept as a first word but are fine once tagged as verbs.
var synonyms = map[string]string{
	"snatch":   "take",
	"pluck":    "take",
	"collect":  "take",
	"acquire":  "take",
	"seize":    "take",
	"fetch":    "take",
	"obtain":   "take",
	"pick":     "take",
	"toss":     "drop",
	"leave":    "drop",
	"abandon":  "drop",
	"wander":   "go",
	"stroll":   "go",
	"venture":  "go",
	"journey":  "go",
	"view":     "examine",
	"peer":     "examine",
	"gaze":     "examine",
	"see":      "look",
	"chatter":  "talk",
	"forge":    "craft",
	"assemble": "craft",
	"build":    "craft",
	"enchant":  "craft",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "in": true, "from": true,
	"about": true, "into": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "some": true,
}

// Parser turns raw input into intents, resolving object phrases against a
// scope and falling back to a tagger for unknown verbs.
type Parser struct {
	tagger nlp.Tagger
	logger *slog.Logger
}

// New creates a parser. A nil tagger disables the fallback.
func New(tagger nlp.Tagger, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{tagger: tagger, logger: logger}
}

// Parse converts a raw command string into an Intent without a tagger or a
// resolution scope. Object phrases are returned as written.
func Parse(input string) types.Intent {
	return New(nil, nil).Parse(input, resolve.Scope{})
}

// Parse converts a raw command string into an Intent. Object phrases that
// resolve within scope are replaced by their IDs; the rest are kept verbatim.
func (p *Parser) Parse(input string, scope resolve.Scope) types.Intent {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(tokens) == 0 {
		return types.Intent{}
	}

	intent, ok := parseKeywords(tokens)
	if !ok {
		intent, ok = p.guess(input)
		if !ok {
			return types.Intent{Tokens: tokens}
		}
	}
	intent.Tokens = tokens

	switch intent.Verb {
	case types.VerbTake, types.VerbDrop, types.VerbCraft:
		intent.Object = resolveIn(scope, intent.Object, resolve.KindItem)
	case types.VerbExamine:
		intent.Object = resolveIn(scope, intent.Object, resolve.KindItem, resolve.KindNPC)
	case types.VerbTalk:
		intent.Object = resolveIn(scope, intent.Object, resolve.KindNPC)
	}
	return intent
}

// parseKeywords handles input whose first word (or phrase) is a known verb
// or a direction.
func parseKeywords(words []string) (types.Intent, bool) {
	// Direction shortcut: bare "n", "south", etc. → go <direction>
	if len(words) == 1 {
		if dir, ok := direction(words[0]); ok {
			return types.Intent{Verb: types.VerbGo, Direction: dir}, true
		}
	}

	words = expandMultiWordVerbs(words)

	name := words[0]
	if alias, ok := verbAliases[name]; ok {
		name = alias
	}
	verb, ok := vocabulary[name]
	if !ok {
		return types.Intent{}, false
	}
	return build(verb, stripArticles(words[1:])), true
}

// build assembles an intent for a known verb from the words after it.
func build(verb types.Verb, rest []string) types.Intent {
	intent := types.Intent{Verb: verb}

	switch verb {
	case types.VerbGo:
		phrase := strings.Join(rest, " ")
		if len(rest) > 0 && (rest[0] == "to" || rest[0] == "towards") {
			phrase = strings.Join(rest[1:], " ")
		}
		if dir, ok := direction(phrase); ok {
			phrase = dir
		}
		intent.Direction = phrase

	case types.VerbTalk:
		intent.Object, intent.Topic = splitOn(rest, "about")
		if intent.Object == "" {
			intent.Object, _ = splitOnPreposition(rest)
		}

	case types.VerbLook:
		// "look prism" is examine.
		if obj, _ := splitOnPreposition(rest); obj != "" {
			intent.Verb = types.VerbExamine
			intent.Object = obj
		}

	case types.VerbQuest:
		intent.Object = strings.Join(rest, " ")
		if intent.Object == "" {
			intent.Verb = types.VerbQuests
		}

	case types.VerbSkill:
		intent.Object = strings.Join(rest, " ")
		if intent.Object == "" {
			intent.Verb = types.VerbSkills
		}

	case types.VerbTrain:
		intent.Object = strings.Join(rest, " ")

	default:
		intent.Object, _ = splitOnPreposition(rest)
	}
	return intent
}

// guess asks the tagger for the most plausible verb/noun pair.
func (p *Parser) guess(input string) (types.Intent, bool) {
	if p.tagger == nil {
		return types.Intent{}, false
	}
	toks, err := p.tagger.Tag(input)
	if err != nil {
		p.logger.Warn("tagger failed", "input", input, "error", err)
		return types.Intent{}, false
	}

	// Prefer a token tagged as a verb; otherwise take any known word.
	at := -1
	var verb types.Verb
	for pass := 0; pass < 2 && at < 0; pass++ {
		for i, tok := range toks {
			if pass == 0 && !tok.IsVerb() {
				continue
			}
			if v, ok := fallbackVerb(tok.Text); ok {
				at, verb = i, v
				break
			}
		}
	}
	if at < 0 {
		return types.Intent{}, false
	}

	var object []string
	for _, tok := range toks[at+1:] {
		if articles[tok.Text] {
			continue
		}
		if tok.IsNoun() || tok.IsAdjective() || (verb == types.VerbGo && isDirectionWord(tok.Text)) {
			object = append(object, tok.Text)
		}
	}

	intent := build(verb, object)
	intent.Guessed = true
	p.logger.Debug("verb guessed by tagger", "input", input, "verb", string(verb), "object", intent.Object)
	return intent, true
}

func fallbackVerb(word string) (types.Verb, bool) {
	if alias, ok := synonyms[word]; ok {
		word = alias
	} else if alias, ok := verbAliases[word]; ok {
		word = alias
	}
	v, ok := vocabulary[word]
	if !ok || v == types.VerbQuit || v == types.VerbHelp {
		// Quitting on a guess would be unfriendly.
		return types.VerbUnknown, false
	}
	return v, true
}

// expandMultiWordVerbs handles "look at", "pick up", "talk to" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "in" || words[1] == "under" {
			return append([]string{"examine"}, words[2:]...)
		}
		if words[1] == "around" {
			return append([]string{"look"}, words[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{"take"}, words[2:]...)
		}
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "put", "set":
		if words[1] == "down" {
			return append([]string{"drop"}, words[2:]...)
		}
	case "list":
		if words[1] == "recipes" || words[1] == "quests" || words[1] == "skills" {
			return words[1:]
		}
	}

	return words
}

func direction(word string) (string, bool) {
	if dir, ok := directionExpansions[word]; ok {
		return dir, true
	}
	if directionNames[word] {
		return word, true
	}
	return "", false
}

func isDirectionWord(word string) bool {
	_, ok := direction(word)
	return ok
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after the remainder.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, rest string) {
	for i, w := range words {
		if prepositions[w] {
			return strings.Join(words[:i], " "), strings.Join(words[i+1:], " ")
		}
	}
	return strings.Join(words, " "), ""
}

// splitOn splits words on the first occurrence of sep.
func splitOn(words []string, sep string) (before, after string) {
	for i, w := range words {
		if w == sep {
			return strings.Join(words[:i], " "), strings.Join(words[i+1:], " ")
		}
	}
	return strings.Join(words, " "), ""
}

func resolveIn(scope resolve.Scope, phrase string, kinds ...resolve.Kind) string {
	if phrase == "" {
		return ""
	}
	for _, kind := range kinds {
		if id, err := resolve.ResolveKind(scope, phrase, kind); err == nil {
			return id
		}
	}
	return phrase
}
