package loader

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBase = "https://schemas.shmoopland.dev/"

var compiledSchemas = sync.OnceValues(func() (map[string]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	for _, kind := range kinds {
		raw, err := schemaFS.ReadFile("schemas/" + kind + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("reading %s schema: %w", kind, err)
		}
		if err := c.AddResource(schemaBase+kind+".json", bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("adding %s schema: %w", kind, err)
		}
	}
	schemas := make(map[string]*jsonschema.Schema, len(kinds))
	for _, kind := range kinds {
		s, err := c.Compile(schemaBase + kind + ".json")
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", kind, err)
		}
		schemas[kind] = s
	}
	return schemas, nil
})

// validateSchema checks a document against the schema for its kind.
func validateSchema(doc document) []Problem {
	schemas, err := compiledSchemas()
	if err != nil {
		return []Problem{{File: doc.file, Message: err.Error()}}
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(doc.data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return []Problem{{File: doc.file, Message: fmt.Sprintf("invalid json: %v", err)}}
	}

	err = schemas[doc.kind].Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []Problem{{File: doc.file, Message: err.Error()}}
	}
	var problems []Problem
	for _, leaf := range leafCauses(ve) {
		problems = append(problems, Problem{
			File:    doc.file,
			Key:     pointerToKey(leaf.InstanceLocation),
			Message: leaf.Message,
		})
	}
	return problems
}

func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var leaves []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		leaves = append(leaves, leafCauses(c)...)
	}
	return leaves
}

// pointerToKey turns a JSON pointer such as /items/prism/name into items.prism.name.
func pointerToKey(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	ptr = strings.ReplaceAll(ptr, "/", ".")
	ptr = strings.ReplaceAll(ptr, "~1", "/")
	return strings.ReplaceAll(ptr, "~0", "~")
}
