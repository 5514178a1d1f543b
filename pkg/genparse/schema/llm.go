package schema

// LLM schema transformation utilities for OpenAI and Gemini structured
// output. These functions adapt JSON schemas to provider-specific rules.

// TransformForOpenAI adapts a JSON schema for OpenAI's structured output
// requirements. OpenAI strict mode requires:
//   - type "object" at root level
//   - no $ref references (must be inlined)
//   - all properties must be in the required array
//   - additionalProperties must be false
func TransformForOpenAI(schema map[string]any) map[string]any {
	defs, _ := schema["$defs"].(map[string]any)
	resolved := resolveRefs(schema, defs)
	resolvedSchema, ok := resolved.(map[string]any)
	if !ok {
		resolvedSchema = schema
	}

	// All refs are inlined now.
	delete(resolvedSchema, "$defs")

	ensureAllPropertiesRequired(resolvedSchema)

	if _, hasType := resolvedSchema["type"]; !hasType {
		resolvedSchema["type"] = "object"
	}
	return resolvedSchema
}

// TransformForGemini adapts a JSON schema for Gemini's responseSchema
// field, which rejects $schema, $defs/$ref and additionalProperties.
func TransformForGemini(schema map[string]any) map[string]any {
	defs, _ := schema["$defs"].(map[string]any)
	resolved, ok := resolveRefs(schema, defs).(map[string]any)
	if !ok {
		resolved = schema
	}
	delete(resolved, "$defs")
	stripUnsupportedKeys(resolved)
	return resolved
}

var geminiUnsupportedKeys = []string{"$schema", "$id", "additionalProperties"}

func stripUnsupportedKeys(node any) {
	switch v := node.(type) {
	case map[string]any:
		for _, key := range geminiUnsupportedKeys {
			delete(v, key)
		}
		for _, val := range v {
			stripUnsupportedKeys(val)
		}
	case []any:
		for _, item := range v {
			stripUnsupportedKeys(item)
		}
	}
}

// resolveRefs recursively resolves all $ref references in a JSON schema by
// inlining definitions.
func resolveRefs(node any, defs map[string]any) any {
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			const prefix = "#/$defs/"
			if len(ref) > len(prefix) && ref[:len(prefix)] == prefix {
				defName := ref[len(prefix):]
				if def, ok := defs[defName].(map[string]any); ok {
					resolved := resolveRefs(deepCopyMap(def), defs)
					if resolvedMap, ok := resolved.(map[string]any); ok {
						// Keep sibling keys (description, title) from the
						// $ref object.
						for key, val := range v {
							if key != "$ref" {
								resolvedMap[key] = val
							}
						}
						return resolvedMap
					}
					return resolved
				}
			}
			// Unresolvable ref, return as-is.
			return v
		}

		result := make(map[string]any, len(v))
		for key, val := range v {
			if key == "$defs" {
				continue
			}
			result[key] = resolveRefs(val, defs)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = resolveRefs(item, defs)
		}
		return result

	default:
		return v
	}
}

// ensureAllPropertiesRequired recursively puts every object property in the
// required array, as OpenAI strict mode mandates.
func ensureAllPropertiesRequired(node any) {
	switch v := node.(type) {
	case map[string]any:
		if v["type"] == "object" {
			if props, ok := v["properties"].(map[string]any); ok {
				propNames := make([]string, 0, len(props))
				for name := range props {
					propNames = append(propNames, name)
				}
				v["required"] = propNames
				v["additionalProperties"] = false

				for _, propSchema := range props {
					ensureAllPropertiesRequired(propSchema)
				}
			}
		}

		for _, key := range []string{"anyOf", "oneOf", "allOf"} {
			if items, ok := v[key].([]any); ok {
				for _, item := range items {
					ensureAllPropertiesRequired(item)
				}
			}
		}

		if v["type"] == "array" {
			if items, ok := v["items"].(map[string]any); ok {
				ensureAllPropertiesRequired(items)
			}
		}

	case []any:
		for _, item := range v {
			ensureAllPropertiesRequired(item)
		}
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = deepCopyMap(vv)
		case []any:
			items := make([]any, len(vv))
			for i, item := range vv {
				if im, ok := item.(map[string]any); ok {
					items[i] = deepCopyMap(im)
				} else {
					items[i] = item
				}
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}
