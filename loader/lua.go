package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"

	lua "github.com/yuin/gopher-lua"
)

// luaCollector accumulates definitions while Lua data files execute. Each
// constructor converts its table to plain Go values straight away, so no Lua
// value outlives the VM.
type luaCollector struct {
	file      string
	game      map[string]any
	sections  map[string]map[string]any // kind → id → definition
	recipes   []any
	templates map[string]any
	variables map[string]any
	currency  map[string]any
	sources   map[string]string // kind → first file that defined it
	problems  []Problem
}

func newLuaCollector() *luaCollector {
	return &luaCollector{
		sections:  map[string]map[string]any{},
		templates: map[string]any{},
		variables: map[string]any{},
		currency:  map[string]any{},
		sources:   map[string]string{},
	}
}

func (c *luaCollector) problem(key, format string, args ...any) {
	c.problems = append(c.problems, Problem{File: c.file, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (c *luaCollector) touch(kind string) {
	if _, ok := c.sources[kind]; !ok {
		c.sources[kind] = c.file
	}
}

// define records a curried constructor call such as Item "id" { ... }.
func (c *luaCollector) define(kind, id string, tbl *lua.LTable) {
	key := kind + "." + id
	v, err := tableToMap(tbl, key)
	if err != nil {
		c.problem(key, "%v", err)
		return
	}
	c.touch(kind)
	if kind == "recipes" {
		v["id"] = id
		c.recipes = append(c.recipes, v)
		return
	}
	sec := c.sections[kind]
	if sec == nil {
		sec = map[string]any{}
		c.sections[kind] = sec
	}
	if _, dup := sec[id]; dup {
		c.problem(key, "duplicate %s id %q", kind, id)
		return
	}
	sec[id] = v
}

// readLua executes the Lua data files in a sandboxed VM and turns what they
// define into documents. The VM is discarded afterwards.
func readLua(fsys fs.FS, files []string) ([]document, []Problem) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := newLuaCollector()
	registerAPI(L, coll)

	for _, name := range files {
		coll.file = name
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			coll.problem("", "reading: %v", err)
			continue
		}
		fn, err := L.Load(bytes.NewReader(src), name)
		if err != nil {
			coll.problem("", "%v", err)
			continue
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			coll.problem("", "%v", err)
		}
	}

	docs := coll.documents()
	return docs, coll.problems
}

// documents assembles the collected definitions into the JSON file layout.
func (c *luaCollector) documents() []document {
	if c.game == nil {
		c.file = "game.lua"
		c.problem("", "no Game { } definition found")
		return nil
	}

	items := map[string]any{"items": orEmpty(c.sections["items"])}
	if len(c.recipes) > 0 {
		items["recipes"] = c.recipes
	}
	if len(c.currency) > 0 {
		items["currency"] = c.currency
	}

	bodies := map[string]map[string]any{
		kindGame:      {"game": c.game},
		kindLocations: {"locations": orEmpty(c.sections[kindLocations])},
		kindItems:     items,
	}
	if sec, ok := c.sections[kindNPCs]; ok {
		bodies[kindNPCs] = map[string]any{"npcs": sec}
	}
	if sec, ok := c.sections[kindQuests]; ok {
		bodies[kindQuests] = map[string]any{"quests": sec}
	}
	if len(c.templates) > 0 {
		bodies[kindTemplates] = map[string]any{"templates": c.templates}
	}
	if len(c.variables) > 0 {
		bodies[kindVariables] = map[string]any{"variables": c.variables}
	}

	var docs []document
	for _, kind := range kinds {
		body, ok := bodies[kind]
		if !ok {
			continue
		}
		file := c.sources[kind]
		if file == "" {
			file = kind + ".lua"
		}
		data, err := json.Marshal(body)
		if err != nil {
			c.problems = append(c.problems, Problem{File: file, Message: err.Error()})
			continue
		}
		docs = append(docs, document{kind: kind, file: file, data: data})
	}
	return docs
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// registerAPI registers the data constructors as globals.
func registerAPI(L *lua.LState, coll *luaCollector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.game != nil {
			coll.problem("game", "Game { } defined more than once")
			return 0
		}
		v, err := tableToMap(tbl, "game")
		if err != nil {
			coll.problem("game", "%v", err)
			return 0
		}
		coll.touch(kindGame)
		coll.game = v
		return 0
	}))

	// Location "id" { ... }, Item "id" { ... } and so on: curried, so the
	// first call takes the id and returns a function that takes the table.
	curried := map[string]string{
		"Location": kindLocations,
		"Item":     kindItems,
		"NPC":      kindNPCs,
		"Quest":    kindQuests,
		"Recipe":   "recipes",
	}
	for global, kind := range curried {
		L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				coll.define(kind, id, L.CheckTable(1))
				return 0
			}))
			return 1
		}))
	}

	// Template("id", "text")
	L.SetGlobal("Template", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		coll.touch(kindTemplates)
		coll.templates[id] = L.CheckString(2)
		return 0
	}))

	// Variable("name", "value") or Variable("name", { "a", "b" })
	L.SetGlobal("Variable", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		v, err := toGoValue(L.Get(2), "variables."+name)
		if err != nil {
			coll.problem("variables."+name, "%v", err)
			return 0
		}
		coll.touch(kindVariables)
		coll.variables[name] = v
		return 0
	}))

	// Currency("item", value)
	L.SetGlobal("Currency", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		coll.touch(kindItems)
		coll.currency[item] = int(L.CheckNumber(2))
		return 0
	}))
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the data files.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring", "require",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// tableToMap converts a constructor table to a map.
func tableToMap(tbl *lua.LTable, key string) (map[string]any, error) {
	m := map[string]any{}
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		ks, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("%s: only named fields are allowed", key)
			return
		}
		gv, cerr := toGoValue(v, key+"."+string(ks))
		if cerr != nil {
			err = cerr
			return
		}
		if gv != nil {
			m[string(ks)] = gv
		}
	})
	return m, err
}

// toGoValue converts a Lua value to plain data. Content is data only, so
// functions and other runtime values are rejected. Empty tables become nil
// and are dropped by the caller.
func toGoValue(v lua.LValue, key string) (any, error) {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val), nil
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f), nil
		}
		return f, nil
	case *lua.LNilType:
		return nil, nil
	case lua.LString:
		return string(val), nil
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				gv, err := toGoValue(val.RawGetInt(i), fmt.Sprintf("%s.%d", key, i-1))
				if err != nil {
					return nil, err
				}
				arr = append(arr, gv)
			}
			return arr, nil
		}
		m, err := tableToMap(val, key)
		if err != nil || len(m) == 0 {
			return nil, err
		}
		return m, nil
	case *lua.LFunction:
		return nil, fmt.Errorf("%s: functions are not allowed in content", key)
	default:
		return nil, fmt.Errorf("%s: unsupported value of type %s", key, v.Type())
	}
}
