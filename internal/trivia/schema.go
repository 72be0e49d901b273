package trivia

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema describing one endpoint's payload.
type Schema struct {
	Name       string
	Definition map[string]any
}

var questionsSchema = &Schema{
	Name: "questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"response_code": map[string]any{"type": "integer", "minimum": 0},
			"results": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category":       map[string]any{"type": "string"},
						"type":           map[string]any{"type": "string"},
						"difficulty":     map[string]any{"type": "string"},
						"question":       map[string]any{"type": "string"},
						"correct_answer": map[string]any{"type": "string"},
						"incorrect_answers": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"category", "difficulty", "question", "correct_answer", "incorrect_answers"},
				},
			},
		},
		"required": []any{"response_code"},
	},
}

var categoriesSchema = &Schema{
	Name: "categories",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"response_code": map[string]any{"type": "integer", "minimum": 0},
			"trivia_categories": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":   map[string]any{"type": "integer"},
						"name": map[string]any{"type": "string"},
					},
					"required": []any{"id", "name"},
				},
			},
		},
		"required": []any{"trivia_categories"},
	},
}

var tokenSchema = &Schema{
	Name: "token",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"response_code": map[string]any{"type": "integer", "minimum": 0},
			"token":         map[string]any{"type": "string"},
		},
		"required": []any{"response_code"},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validatePayload checks raw against schema and extracts the response
// code. A missing response_code (the categories endpoint omits it) counts
// as success. Returns *ErrInvalidResponse on failure.
func validatePayload(schema *Schema, raw []byte) (*Envelope, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}

	code, _ := peekResponseCode(raw)
	return &Envelope{ResponseCode: code, Body: raw}, nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
