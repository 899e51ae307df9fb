// Package loader reads a content pack into an immutable content.Store.
//
// A pack is a directory of JSON files (game.json, locations.json, items.json,
// npcs.json, quests.json, templates.json, variables.json), the same files as
// YAML, or a set of Lua data files. Every format is normalised to JSON,
// checked against the embedded schemas, compiled and cross-validated. All
// problems are collected and returned together in a ContentLoadError.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/nathoo/shmoopland/engine/content"
)

// Content file kinds, in load order.
const (
	kindGame      = "game"
	kindLocations = "locations"
	kindItems     = "items"
	kindNPCs      = "npcs"
	kindQuests    = "quests"
	kindTemplates = "templates"
	kindVariables = "variables"
)

var kinds = []string{kindGame, kindLocations, kindItems, kindNPCs, kindQuests, kindTemplates, kindVariables}

var requiredKinds = map[string]bool{kindGame: true, kindLocations: true, kindItems: true}

// document is one content file normalised to JSON.
type document struct {
	kind string
	file string
	data []byte
}

// Option configures a load.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for content warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Load reads the content pack in dir.
func Load(dir string, opts ...Option) (*content.Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), opts...)
}

// LoadFS reads a content pack from the root of fsys.
func LoadFS(fsys fs.FS, opts ...Option) (*content.Store, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	docs, problems, err := readPack(fsys)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, newLoadError(problems)
	}

	for _, doc := range docs {
		problems = append(problems, validateSchema(doc)...)
	}
	if len(problems) > 0 {
		return nil, newLoadError(problems)
	}

	store, problems := compile(docs)
	problems = append(problems, validate(store, fileNames(docs))...)
	if len(problems) > 0 {
		return nil, newLoadError(problems)
	}

	for _, w := range warnings(store) {
		o.logger.Warn("content warning", "key", w.Key, "warning", w.Message)
	}
	o.logger.Info("content loaded",
		"title", store.Game.Title,
		"locations", len(store.Locations),
		"items", len(store.Items),
		"npcs", len(store.NPCs),
		"quests", len(store.Quests),
		"recipes", len(store.Recipes),
	)
	return store, nil
}

// readPack discovers the pack format and returns its documents.
func readPack(fsys fs.FS) ([]document, []Problem, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("reading content directory: %w", err)
	}
	present := map[string]bool{}
	var luaFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		present[e.Name()] = true
		if strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}

	if findFile(present, kindGame) == "" && len(luaFiles) > 0 {
		docs, problems := readLua(fsys, sortedLuaFiles(luaFiles))
		return docs, problems, nil
	}

	var (
		docs     []document
		problems []Problem
	)
	for _, kind := range kinds {
		name := findFile(present, kind)
		if name == "" {
			if requiredKinds[kind] {
				problems = append(problems, Problem{File: kind + ".json", Message: "file is required"})
			}
			continue
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var data []byte
		switch path.Ext(name) {
		case ".json":
			data = raw
		default:
			data, err = yamlToJSON(raw)
		}
		if err != nil {
			problems = append(problems, Problem{File: name, Message: err.Error()})
			continue
		}
		docs = append(docs, document{kind: kind, file: name, data: data})
	}
	return docs, problems, nil
}

// findFile returns the file holding kind, preferring JSON over YAML.
func findFile(present map[string]bool, kind string) string {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if present[kind+ext] {
			return kind + ext
		}
	}
	return ""
}

// sortedLuaFiles orders Lua files with game.lua first, the rest alphabetically.
func sortedLuaFiles(files []string) []string {
	sorted := append([]string(nil), files...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i] == "game.lua" {
			return sorted[j] != "game.lua"
		}
		if sorted[j] == "game.lua" {
			return false
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func fileNames(docs []document) map[string]string {
	names := make(map[string]string, len(kinds))
	for _, kind := range kinds {
		names[kind] = kind + ".json"
	}
	for _, d := range docs {
		names[d.kind] = d.file
	}
	return names
}

// IsLoadError reports whether err is a content problem rather than an I/O failure.
func IsLoadError(err error) bool {
	var le *ContentLoadError
	return errors.As(err, &le)
}
