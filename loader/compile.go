package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nathoo/shmoopland/engine/content"
)

// defaultStart is the start location when game metadata names none.
const defaultStart = "start"

// templateRefs names templates that replace static text.
type templateRefs struct {
	Description string            `json:"description"`
	Examine     string            `json:"examine"`
	Greetings   []string          `json:"greetings"`
	Topics      map[string]string `json:"topics"`
}

type rawGame struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Version  string `json:"version"`
	Start    string `json:"start"`
	Intro    string `json:"intro"`
	Farewell string `json:"farewell"`
}

type rawLocation struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	TemplateRefs templateRefs      `json:"template_refs"`
	Exits        map[string]string `json:"exits"`
	Items        []string          `json:"items"`
}

type rawItem struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Examine      string       `json:"examine"`
	Location     *string      `json:"location"`
	Takeable     *bool        `json:"takeable"`
	Value        *int         `json:"value"`
	TemplateRefs templateRefs `json:"template_refs"`
}

type rawRecipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Location    string   `json:"location"`
	Result      string   `json:"result"`
	Description string   `json:"description"`
}

type rawNPC struct {
	Name         string            `json:"name"`
	Location     string            `json:"location"`
	Greetings    []string          `json:"greetings"`
	Topics       map[string]string `json:"topics"`
	TemplateRefs templateRefs      `json:"template_refs"`
}

type rawObjective struct {
	Type        string `json:"type"`
	Target      string `json:"target"`
	Description string `json:"description"`
}

type rawRewards struct {
	Items      []string `json:"items"`
	Experience int      `json:"experience"`
	Currency   int      `json:"currency"`
}

type rawQuest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Objectives    []rawObjective `json:"objectives"`
	Rewards       rawRewards     `json:"rewards"`
	Prerequisites []string       `json:"prerequisites"`
	NextQuest     string         `json:"next_quest"`
	AutoStart     bool           `json:"auto_start"`
}

// pack is the decoded, not yet indexed content of every file.
type pack struct {
	Game      rawGame                `json:"game"`
	Locations map[string]rawLocation `json:"locations"`
	Items     map[string]rawItem     `json:"items"`
	Recipes   []rawRecipe            `json:"recipes"`
	Currency  map[string]int         `json:"currency"`
	NPCs      map[string]rawNPC      `json:"npcs"`
	Quests    map[string]rawQuest    `json:"quests"`
	Templates map[string]string      `json:"templates"`
	Variables map[string]any         `json:"variables"`
}

// compile decodes every document and builds the content store.
func compile(docs []document) (*content.Store, []Problem) {
	var (
		p        pack
		problems []Problem
	)
	files := fileNames(docs)
	for _, doc := range docs {
		dec := json.NewDecoder(bytes.NewReader(doc.data))
		if err := dec.Decode(&p); err != nil {
			problems = append(problems, Problem{File: doc.file, Message: fmt.Sprintf("decoding: %v", err)})
		}
	}

	store := &content.Store{
		Game:      compileGame(p.Game),
		Locations: map[string]content.Location{},
		Items:     map[string]content.Item{},
		NPCs:      map[string]content.NPC{},
		Quests:    map[string]content.Quest{},
		Templates: map[string]string{},
		Variables: map[string][]string{},
		Currency:  map[string]int{},
	}

	for id, raw := range p.Locations {
		store.Locations[id] = content.Location{
			ID:          id,
			Name:        raw.Name,
			Description: text(raw.Description, raw.TemplateRefs.Description),
			Exits:       raw.Exits,
		}
	}

	homes, homeProblems := locationHomes(p.Locations, files[kindLocations])
	problems = append(problems, homeProblems...)
	for _, itemID := range sortedKeys(homes) {
		if _, ok := p.Items[itemID]; !ok {
			problems = append(problems, Problem{
				File:    files[kindLocations],
				Key:     fmt.Sprintf("locations.%s.items", homes[itemID]),
				Message: fmt.Sprintf("undefined item %q", itemID),
			})
		}
	}

	for id, v := range p.Currency {
		store.Currency[id] = v
	}
	for _, id := range sortedKeys(p.Items) {
		raw := p.Items[id]
		item, prob := compileItem(id, raw, homes)
		if prob != nil {
			prob.File = files[kindItems]
			problems = append(problems, *prob)
		}
		if _, ok := store.Currency[id]; !ok && raw.Value != nil {
			store.Currency[id] = *raw.Value
		}
		item.Value = store.Currency[id]
		store.Items[id] = item
	}

	for _, raw := range p.Recipes {
		store.Recipes = append(store.Recipes, content.Recipe{
			ID:          raw.ID,
			Name:        raw.Name,
			Ingredients: raw.Ingredients,
			Location:    raw.Location,
			Result:      raw.Result,
			Description: raw.Description,
		})
	}

	for id, raw := range p.NPCs {
		store.NPCs[id] = compileNPC(id, raw)
	}

	for id, raw := range p.Quests {
		store.Quests[id] = compileQuest(id, raw)
	}

	for id, t := range p.Templates {
		store.Templates[id] = t
	}
	for name, v := range p.Variables {
		store.Variables[name] = variableValues(v)
	}

	return store, problems
}

func compileGame(raw rawGame) content.Game {
	g := content.Game{
		Title:    raw.Title,
		Author:   raw.Author,
		Version:  raw.Version,
		Start:    raw.Start,
		Intro:    raw.Intro,
		Farewell: raw.Farewell,
	}
	if g.Start == "" {
		g.Start = defaultStart
	}
	return g
}

// locationHomes maps item ids to the location whose items list names them.
func locationHomes(locs map[string]rawLocation, file string) (map[string]string, []Problem) {
	homes := map[string]string{}
	var problems []Problem
	for _, locID := range sortedKeys(locs) {
		for _, itemID := range locs[locID].Items {
			if prev, ok := homes[itemID]; ok {
				problems = append(problems, Problem{
					File:    file,
					Key:     fmt.Sprintf("locations.%s.items", locID),
					Message: fmt.Sprintf("item %q is already placed in %q", itemID, prev),
				})
				continue
			}
			homes[itemID] = locID
		}
	}
	return homes, problems
}

// compileItem resolves an item's home. An explicit location field wins over a
// location's items list; the two must agree when both are given.
func compileItem(id string, raw rawItem, homes map[string]string) (content.Item, *Problem) {
	item := content.Item{
		ID:          id,
		Name:        raw.Name,
		Description: text(raw.Description, raw.TemplateRefs.Description),
		Examine:     text(raw.Examine, raw.TemplateRefs.Examine),
		Takeable:    true,
	}
	if raw.Takeable != nil {
		item.Takeable = *raw.Takeable
	}

	listed, isListed := homes[id]
	switch {
	case raw.Location != nil:
		item.Home = *raw.Location
		if isListed && listed != item.Home {
			return item, &Problem{
				Key:     fmt.Sprintf("items.%s.location", id),
				Message: fmt.Sprintf("location %q disagrees with locations.%s.items", item.Home, listed),
			}
		}
	case isListed:
		item.Home = listed
	default:
		item.Home = content.Nowhere
	}
	return item, nil
}

func compileNPC(id string, raw rawNPC) content.NPC {
	npc := content.NPC{
		ID:       id,
		Name:     raw.Name,
		Location: raw.Location,
		Topics:   map[string]content.Text{},
	}
	for _, g := range raw.Greetings {
		npc.Greetings = append(npc.Greetings, content.Static(g))
	}
	for _, ref := range raw.TemplateRefs.Greetings {
		npc.Greetings = append(npc.Greetings, content.TemplateRef(ref))
	}
	for name, t := range raw.Topics {
		npc.Topics[name] = content.Static(t)
	}
	for name, ref := range raw.TemplateRefs.Topics {
		npc.Topics[name] = content.TemplateRef(ref)
	}
	return npc
}

func compileQuest(id string, raw rawQuest) content.Quest {
	q := content.Quest{
		ID:            id,
		Title:         raw.Title,
		Description:   raw.Description,
		Prerequisites: raw.Prerequisites,
		Next:          raw.NextQuest,
		AutoStart:     raw.AutoStart,
		Rewards: content.Rewards{
			Items:      raw.Rewards.Items,
			Experience: raw.Rewards.Experience,
			Currency:   raw.Rewards.Currency,
		},
	}
	for _, o := range raw.Objectives {
		q.Objectives = append(q.Objectives, content.Objective{
			Type:        content.ObjectiveType(o.Type),
			Target:      o.Target,
			Description: o.Description,
		})
	}
	return q
}

// text prefers a template reference over static prose.
func text(static, templateID string) content.Text {
	switch {
	case templateID != "":
		return content.TemplateRef(templateID)
	case static != "":
		return content.Static(static)
	default:
		return content.Text{}
	}
}

// variableValues accepts a single string or a list of strings.
func variableValues(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, x := range val {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
