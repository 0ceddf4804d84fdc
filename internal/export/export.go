// Package export renders a contract document back into an OpenAPI 3
// description, so a merged spec set can be shared as a single artifact.
package export

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/specmock/specmock/internal/contract"
)

// WriteYAML renders doc as OpenAPI 3 YAML.
func WriteYAML(w io.Writer, doc *contract.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(toOpenAPI(doc))
}

// WriteJSON renders doc as OpenAPI 3 JSON.
func WriteJSON(w io.Writer, doc *contract.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(toOpenAPI(doc))
}

func toOpenAPI(doc *contract.Document) map[string]any {
	out := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   orDefault(doc.Info.Title, "Merged API"),
			"version": orDefault(doc.Info.Version, "0.0.0"),
		},
	}
	if doc.Info.Description != "" {
		out["info"].(map[string]any)["description"] = doc.Info.Description
	}

	if len(doc.Servers) > 0 {
		servers := make([]any, 0, len(doc.Servers))
		for _, s := range doc.Servers {
			entry := map[string]any{"url": s.URL}
			if s.Description != "" {
				entry["description"] = s.Description
			}
			servers = append(servers, entry)
		}
		out["servers"] = servers
	}

	if len(doc.Tags) > 0 {
		tags := make([]any, 0, len(doc.Tags))
		for _, t := range doc.Tags {
			entry := map[string]any{"name": t.Name}
			if t.Description != "" {
				entry["description"] = t.Description
			}
			tags = append(tags, entry)
		}
		out["tags"] = tags
	}

	if len(doc.Security) > 0 {
		security := make([]any, 0, len(doc.Security))
		for _, req := range doc.Security {
			entry := map[string]any{}
			for name, scopes := range req {
				entry[name] = scopes
			}
			security = append(security, entry)
		}
		out["security"] = security
	}

	paths := map[string]any{}
	for _, entry := range doc.Paths {
		paths[entry.Template] = pathItem(entry)
	}
	out["paths"] = paths

	if comps := components(doc.Components); len(comps) > 0 {
		out["components"] = comps
	}
	return out
}

func components(c contract.Components) map[string]any {
	out := map[string]any{}
	if len(c.Schemas) > 0 {
		m := map[string]any{}
		for name, s := range c.Schemas {
			m[name] = schema(s)
		}
		out["schemas"] = m
	}
	if len(c.Responses) > 0 {
		m := map[string]any{}
		for name, r := range c.Responses {
			m[name] = response(r)
		}
		out["responses"] = m
	}
	if len(c.Parameters) > 0 {
		m := map[string]any{}
		for name, p := range c.Parameters {
			m[name] = parameters([]contract.Parameter{*p})[0]
		}
		out["parameters"] = m
	}
	if len(c.RequestBodies) > 0 {
		m := map[string]any{}
		for name, rb := range c.RequestBodies {
			entry := map[string]any{"content": content(rb.Content)}
			if rb.Required {
				entry["required"] = true
			}
			m[name] = entry
		}
		out["requestBodies"] = m
	}
	if len(c.SecuritySchemes) > 0 {
		m := map[string]any{}
		for name, ss := range c.SecuritySchemes {
			entry := map[string]any{"type": ss.Type}
			if ss.Scheme != "" {
				entry["scheme"] = ss.Scheme
			}
			if ss.In != "" {
				entry["in"] = ss.In
			}
			if ss.Name != "" {
				entry["name"] = ss.Name
			}
			m[name] = entry
		}
		out["securitySchemes"] = m
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func pathItem(entry *contract.PathEntry) map[string]any {
	item := map[string]any{}
	if len(entry.Parameters) > 0 {
		item["parameters"] = parameters(entry.Parameters)
	}
	for _, m := range entry.DeclaredMethods() {
		item[string(m)] = operation(entry.Operation(m))
	}
	return item
}

func operation(op *contract.Operation) map[string]any {
	out := map[string]any{}
	if op.Summary != "" {
		out["summary"] = op.Summary
	}
	if op.Description != "" {
		out["description"] = op.Description
	}
	if len(op.Tags) > 0 {
		out["tags"] = op.Tags
	}
	if len(op.Parameters) > 0 {
		out["parameters"] = parameters(op.Parameters)
	}
	if op.RequestBody != nil {
		rb := map[string]any{"content": content(op.RequestBody.Content)}
		if op.RequestBody.Required {
			rb["required"] = true
		}
		out["requestBody"] = rb
	}
	responses := map[string]any{}
	for _, re := range op.Responses {
		responses[re.Status] = response(re.Response)
	}
	out["responses"] = responses
	return out
}

func response(r *contract.Response) map[string]any {
	out := map[string]any{"description": r.Description}
	if len(r.Content) > 0 {
		out["content"] = content(r.Content)
	}
	return out
}

func content(media []contract.Media) map[string]any {
	out := map[string]any{}
	for _, m := range media {
		entry := map[string]any{}
		if m.Schema != nil {
			entry["schema"] = schema(m.Schema)
		}
		if m.Example != nil {
			entry["example"] = m.Example
		}
		out[m.Mime] = entry
	}
	return out
}

func parameters(params []contract.Parameter) []any {
	out := make([]any, 0, len(params))
	for _, p := range params {
		entry := map[string]any{"name": p.Name, "in": p.In}
		if p.Required {
			entry["required"] = true
		}
		if p.Schema != nil {
			entry["schema"] = schema(p.Schema)
		}
		out = append(out, entry)
	}
	return out
}

func schema(s *contract.Schema) map[string]any {
	if s == nil || s.Recursive {
		return map[string]any{}
	}
	out := map[string]any{}
	switch s.Kind {
	case contract.KindString:
		out["type"] = "string"
	case contract.KindNumber:
		out["type"] = "number"
	case contract.KindInteger:
		out["type"] = "integer"
	case contract.KindBoolean:
		out["type"] = "boolean"
	case contract.KindObject:
		out["type"] = "object"
	case contract.KindArray:
		out["type"] = "array"
	case contract.KindEnum:
		out["enum"] = s.Enum
	case contract.KindComposed:
		members := make([]any, 0, len(s.Members))
		for _, m := range s.Members {
			members = append(members, schema(m))
		}
		switch s.Compose {
		case contract.ComposeAllOf:
			out["allOf"] = members
		case contract.ComposeOneOf:
			out["oneOf"] = members
		case contract.ComposeAnyOf:
			out["anyOf"] = members
		}
	}
	if s.Format != "" {
		out["format"] = s.Format
	}
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	if s.Example != nil {
		out["example"] = s.Example
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	if s.MultipleOf != nil {
		out["multipleOf"] = *s.MultipleOf
	}
	if s.MinLength != nil {
		out["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if s.MinItems != nil {
		out["minItems"] = *s.MinItems
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if len(s.Properties) > 0 {
		props := map[string]any{}
		for name, prop := range s.Properties {
			props[name] = schema(prop)
		}
		out["properties"] = props
	}
	if s.AdditionalProperties != nil {
		out["additionalProperties"] = schema(s.AdditionalProperties)
	}
	if s.Items != nil {
		out["items"] = schema(s.Items)
	}
	return out
}
