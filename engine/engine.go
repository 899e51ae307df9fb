// Package engine provides the Step() orchestrator that wires together
// parsing, validation, effects, and quest events into a single turn.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/effects"
	"github.com/nathoo/shmoopland/engine/events"
	"github.com/nathoo/shmoopland/engine/nlp"
	"github.com/nathoo/shmoopland/engine/parser"
	"github.com/nathoo/shmoopland/engine/quest"
	"github.com/nathoo/shmoopland/engine/render"
	"github.com/nathoo/shmoopland/engine/resolve"
	"github.com/nathoo/shmoopland/engine/state"
	"github.com/nathoo/shmoopland/types"
)

// Engine holds the shared content and one session's mutable state.
type Engine struct {
	Store *content.Store
	World *state.World
	RNG   *RNG

	parser   *parser.Parser
	renderer *render.Renderer
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	seed   int64
	tagger nlp.Tagger
	logger *slog.Logger
}

// WithSeed fixes the RNG seed. The default seed is 1.
func WithSeed(seed int64) Option {
	return func(o *engineOptions) { o.seed = seed }
}

// WithTagger enables the part-of-speech fallback in the parser.
func WithTagger(t nlp.Tagger) Option {
	return func(o *engineOptions) { o.tagger = t }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// New creates a new engine with a fresh world.
func New(store *content.Store, opts ...Option) *Engine {
	o := engineOptions{seed: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	w := state.New(store)
	w.RNGSeed = o.seed
	e := &Engine{
		Store:  store,
		World:  w,
		RNG:    NewRNG(o.seed),
		parser: parser.New(o.tagger, o.logger),
		logger: o.logger,
	}
	e.renderer = render.New(store, func(n int) int { return e.RNG.Intn(n) })
	return e
}

// Start begins the session: it starts auto-start quests and returns the
// introduction and the first location description.
func (e *Engine) Start() types.Result {
	var result types.Result
	if e.Store.Game.Title != "" {
		result.Output = append(result.Output, e.Store.Game.Title)
	}
	if e.Store.Game.Intro != "" {
		result.Output = append(result.Output, e.Store.Game.Intro)
	}
	result.Output = append(result.Output, e.describeLocation(e.World.Location)...)

	if effs := quest.AutoStart(e.Store, e.World); len(effs) > 0 {
		evts, output := effects.Apply(e.World, e.Store, effs)
		result.Effects = effs
		result.Events = evts
		result.Output = append(result.Output, output...)
		for _, ev := range evts {
			if ev.Type == effects.EventQuestStarted {
				id, _ := ev.Data["quest"].(string)
				q, _ := e.Store.Quest(id)
				result.Output = append(result.Output, fmt.Sprintf("New quest: %s. (type 'quests' to review)", questTitle(q)))
			}
		}
	}
	e.World.RNGPos = e.RNG.Position()
	return result
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	intent := e.parser.Parse(input, e.Scope())
	e.logger.Debug("command parsed",
		"input", input,
		"verb", string(intent.Verb),
		"object", intent.Object,
		"guessed", intent.Guessed,
	)
	return e.Execute(intent)
}

// Execute validates an intent against the world, applies its effects and
// returns the narration. A failed command applies nothing.
func (e *Engine) Execute(intent types.Intent) types.Result {
	result := types.Result{Intent: intent}

	var (
		effs []types.Effect
		out  []string
		err  error
	)

	switch intent.Verb {
	case types.VerbLook:
		out = e.describeLocation(e.World.Location)
	case types.VerbInventory:
		out = e.inventory()
	case types.VerbTake:
		effs, out, err = e.take(intent.Object)
	case types.VerbDrop:
		effs, out, err = e.drop(intent.Object)
	case types.VerbGo:
		effs, out, err = e.goDirection(intent.Direction)
	case types.VerbExamine:
		out, err = e.examine(intent.Object)
	case types.VerbCraft:
		effs, out, err = e.craft(intent.Object)
	case types.VerbTalk:
		effs, out, err = e.talk(intent.Object, intent.Topic)
	case types.VerbQuests:
		out = e.questLog()
	case types.VerbQuest:
		out, err = e.questDetails(intent.Object)
	case types.VerbSkills:
		out = e.skillList()
	case types.VerbSkill:
		out, err = e.skillDetails(intent.Object)
	case types.VerbTrain:
		effs, out, err = e.train(intent.Object)
	case types.VerbRecipes:
		if intent.Object == "" {
			out = e.recipeList()
		} else {
			out, err = e.recipeDetails(intent.Object)
		}
	case types.VerbHelp:
		out = []string{helpText}
	case types.VerbQuit:
		result.Quit = true
		out = []string{e.farewell()}
	case types.VerbUnknown:
		err = e.unrecognized(intent)
	default:
		e.logger.Warn("verb has no handler", "verb", string(intent.Verb))
		err = e.unrecognized(intent)
	}

	if err != nil {
		result.Err = err
		var cerr *CommandError
		if errors.As(err, &cerr) {
			result.Output = []string{cerr.Message}
		} else {
			result.Output = []string{err.Error()}
		}
		return result
	}

	result.Output = out
	if len(effs) > 0 {
		e.commit(&result, effs)
	}
	e.World.RNGPos = e.RNG.Position()
	return result
}

// commit applies validated effects, dispatches the events they raise to the
// quest tracker once, and applies whatever the quests produce.
func (e *Engine) commit(result *types.Result, effs []types.Effect) {
	evts, output := effects.Apply(e.World, e.Store, effs)
	result.Effects = append(result.Effects, effs...)
	result.Events = append(result.Events, evts...)
	result.Output = append(result.Output, output...)

	// Single pass: events raised here are not dispatched again.
	if questEffs := events.Dispatch(evts, e.World, e.Store); len(questEffs) > 0 {
		evts2, output2 := effects.Apply(e.World, e.Store, questEffs)
		result.Effects = append(result.Effects, questEffs...)
		result.Events = append(result.Events, evts2...)
		result.Output = append(result.Output, output2...)
		evts = append(evts, evts2...)
	}

	for _, ev := range evts {
		if ev.Type == effects.EventSkillLevelUp {
			skill, _ := ev.Data["skill"].(string)
			result.Output = append(result.Output,
				fmt.Sprintf("Your %s skill is now level %v!", skill, ev.Data["level"]))
		}
	}

	e.World.Turns++
}

// Scope returns the resolution snapshot for the current world: carried
// items, then items and NPCs here, then everything in the game.
func (e *Engine) Scope() resolve.Scope {
	var scope resolve.Scope
	for _, id := range e.World.Inventory {
		scope.Inventory = append(scope.Inventory, e.itemCandidate(id))
	}
	for _, id := range state.ItemsAt(e.World, e.Store, e.World.Location) {
		scope.Here = append(scope.Here, e.itemCandidate(id))
	}
	for _, id := range e.Store.NPCsAt(e.World.Location) {
		scope.Here = append(scope.Here, e.npcCandidate(id))
	}
	for id := range e.Store.Items {
		scope.Global = append(scope.Global, e.itemCandidate(id))
	}
	for id := range e.Store.NPCs {
		scope.Global = append(scope.Global, e.npcCandidate(id))
	}
	return scope
}

func (e *Engine) itemCandidate(id string) resolve.Candidate {
	return resolve.Candidate{ID: id, Name: e.Store.ItemName(id), Kind: resolve.KindItem}
}

func (e *Engine) npcCandidate(id string) resolve.Candidate {
	return resolve.Candidate{ID: id, Name: e.Store.NPCName(id), Kind: resolve.KindNPC}
}

// text resolves static or template text. A missing template is shown as a
// visible marker rather than failing the command.
func (e *Engine) text(t content.Text, subs map[string]string) string {
	s, err := e.renderer.Text(t, subs)
	if err != nil {
		e.logger.Warn("template render failed", "template", t.Value, "error", err)
		return fmt.Sprintf("[missing template: %s]", t.Value)
	}
	return s
}

func (e *Engine) unrecognized(intent types.Intent) error {
	if len(intent.Tokens) == 0 {
		return fail(ErrUnrecognized, "What do you want to do?")
	}
	return fail(ErrUnrecognized, "I don't understand that. Type 'help' for a list of commands.")
}

func (e *Engine) farewell() string {
	if e.Store.Game.Farewell != "" {
		return e.Store.Game.Farewell
	}
	return "Thanks for playing!"
}
