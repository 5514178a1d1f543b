package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/invopop/jsonschema"
)

// Generator generates JSON Schema for a response type.
type Generator[T any] struct {
	reflector *jsonschema.Reflector
}

// NewGenerator creates a new schema generator.
func NewGenerator[T any]() *Generator[T] {
	return &Generator[T]{
		reflector: &jsonschema.Reflector{
			AllowAdditionalProperties:  false,
			RequiredFromJSONSchemaTags: true,
		},
	}
}

// Generate generates JSON Schema for the type.
func (g *Generator[T]) Generate() (*jsonschema.Schema, error) {
	var zero T
	return g.reflector.Reflect(zero), nil
}

// GenerateFlattened generates a flattened JSON Schema suitable for LLM APIs
// (OpenAI, Gemini, Claude, etc.) that require the root object definition
// at the top level instead of a $ref.
func (g *Generator[T]) GenerateFlattened() (map[string]any, error) {
	schema, err := g.Generate()
	if err != nil {
		return nil, err
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	// Without a $ref at root there is nothing to flatten.
	ref, hasRef := schemaMap["$ref"].(string)
	if !hasRef {
		return schemaMap, nil
	}

	defs, ok := schemaMap["$defs"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("$defs not found in schema")
	}

	if !strings.HasPrefix(ref, "#/$defs/") {
		return nil, fmt.Errorf("unexpected $ref format: %s", ref)
	}
	rootTypeName := ref[len("#/$defs/"):]

	rootDef, ok := defs[rootTypeName].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("root definition %s not found in $defs", rootTypeName)
	}

	result := make(map[string]any)
	maps.Copy(result, rootDef)

	// Keep $defs for the nested types the root definition still points at.
	if len(defs) > 1 {
		result["$defs"] = defs
	}

	return result, nil
}

// GenerateJSON generates JSON Schema as a JSON string.
func (g *Generator[T]) GenerateJSON() (string, error) {
	schema, err := g.Generate()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// EnvelopeSchema is a convenience wrapper generating the flattened schema of
// the structured response envelope.
func EnvelopeSchema() (map[string]any, error) {
	return NewGenerator[ResponseEnvelope]().GenerateFlattened()
}
