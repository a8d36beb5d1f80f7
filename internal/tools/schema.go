package tools

import "sort"

// Schema is a JSON Schema document describing a tool's arguments.
type Schema map[string]any

// Property describes one argument.
type Property struct {
	Name        string
	Schema      Schema
	Required    bool
	Description string
}

// Object builds an object schema from props. Unknown arguments are rejected.
func Object(props ...Property) Schema {
	properties := map[string]any{}
	required := []string{}
	for _, p := range props {
		s := Schema{}
		for k, v := range p.Schema {
			s[k] = v
		}
		if p.Description != "" {
			s["description"] = p.Description
		}
		properties[p.Name] = s
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := Schema{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Str is a string argument.
func Str(name, description string) Property {
	return Property{Name: name, Schema: Schema{"type": "string"}, Description: description}
}

// Bool is a boolean argument with a default.
func Bool(name, description string, def bool) Property {
	return Property{Name: name, Schema: Schema{"type": "boolean", "default": def}, Description: description}
}

// Int is an integer argument with a default and an optional lower bound.
func Int(name, description string, def int, minimum *int) Property {
	s := Schema{"type": "integer", "default": def}
	if minimum != nil {
		s["minimum"] = *minimum
	}
	return Property{Name: name, Schema: s, Description: description}
}

// Strings is a list-of-strings argument.
func Strings(name, description string) Property {
	return Property{Name: name, Schema: Schema{"type": "array", "items": Schema{"type": "string"}}, Description: description}
}

// StringMap is a string-to-string object argument.
func StringMap(name, description string) Property {
	return Property{Name: name, Schema: Schema{"type": "object", "additionalProperties": Schema{"type": "string"}}, Description: description}
}

// Enum is a string argument restricted to values.
func Enum(name, description string, values ...string) Property {
	return Property{Name: name, Schema: Schema{"type": "string", "enum": values}, Description: description}
}

// Required marks p as required.
func Required(p Property) Property {
	p.Required = true
	return p
}

func intPtr(v int) *int { return &v }

// PropertyNames returns the declared argument names, sorted.
func (s Schema) PropertyNames() []string {
	props, _ := s["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// propertyType returns the JSON type of the named property, or "".
func (s Schema) propertyType(name string) string {
	props, _ := s["properties"].(map[string]any)
	prop, _ := props[name].(Schema)
	t, _ := prop["type"].(string)
	return t
}

// defaultOf returns the declared default of the named property.
func (s Schema) defaultOf(name string) (any, bool) {
	props, _ := s["properties"].(map[string]any)
	prop, _ := props[name].(Schema)
	v, ok := prop["default"]
	return v, ok
}
