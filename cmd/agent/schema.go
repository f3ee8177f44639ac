package main

import (
	"google.golang.org/genai"
)

// convertSchema maps the JSON schema of an MCP tool onto a Gemini schema.
// Unknown or missing types fall back to object.
func convertSchema(schema any) *genai.Schema {
	schemaMap, ok := schema.(map[string]any)
	if !ok {
		return &genai.Schema{Type: genai.TypeObject}
	}

	result := &genai.Schema{Type: schemaType(schemaMap["type"])}

	if desc, ok := schemaMap["description"].(string); ok {
		result.Description = desc
	}

	if required, ok := schemaMap["required"].([]any); ok {
		for _, req := range required {
			if s, ok := req.(string); ok {
				result.Required = append(result.Required, s)
			}
		}
	}

	if properties, ok := schemaMap["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(properties))
		for name, prop := range properties {
			result.Properties[name] = convertSchema(prop)
		}
	}

	if items, ok := schemaMap["items"]; ok {
		result.Items = convertSchema(items)
	}

	return result
}

// schemaType accepts "type" as a string or as a ["T", "null"] union
func schemaType(v any) genai.Type {
	switch t := v.(type) {
	case string:
		switch t {
		case "string":
			return genai.TypeString
		case "integer":
			return genai.TypeInteger
		case "number":
			return genai.TypeNumber
		case "boolean":
			return genai.TypeBoolean
		case "array":
			return genai.TypeArray
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "null" {
				return schemaType(s)
			}
		}
	}
	return genai.TypeObject
}
