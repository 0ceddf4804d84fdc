package contract

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Build converts a parsed OpenAPI v3 document into a Document. raw holds the
// original description bytes and is used to recover declaration order; it may
// be nil, in which case paths and responses fall back to sorted key order.
func Build(doc *openapi3.T, raw []byte) *Document {
	if doc == nil {
		return &Document{}
	}

	out := &Document{}
	if doc.Info != nil {
		out.Info = Info{
			Title:       strings.TrimSpace(doc.Info.Title),
			Version:     strings.TrimSpace(doc.Info.Version),
			Description: strings.TrimSpace(doc.Info.Description),
		}
	}

	for _, s := range doc.Servers {
		if s == nil {
			continue
		}
		out.Servers = append(out.Servers, Server{URL: s.URL, Description: s.Description})
	}
	for _, sec := range doc.Security {
		req := make(SecurityRequirement, len(sec))
		for name, scopes := range sec {
			req[name] = append([]string(nil), scopes...)
		}
		out.Security = append(out.Security, req)
	}
	for _, t := range doc.Tags {
		if t == nil {
			continue
		}
		out.Tags = append(out.Tags, Tag{Name: t.Name, Description: t.Description})
	}

	ord := declarationOrder(raw)
	b := &builder{visited: make(map[*openapi3.Schema]bool)}

	if doc.Paths != nil {
		pathMap := doc.Paths.Map()
		for _, template := range orderedKeys(keysOf(pathMap), ord.pathOrder()) {
			item := pathMap[template]
			if item == nil {
				continue
			}
			out.Paths = append(out.Paths, b.pathEntry(template, item, ord))
		}
	}

	out.Components = b.components(doc.Components)
	return out
}

func (o *declOrder) pathOrder() []string {
	if o == nil {
		return nil
	}
	return o.paths
}

// orderedKeys arranges present according to the declared order, appending any
// keys missing from it in sorted order.
func orderedKeys(present []string, declared []string) []string {
	set := make(map[string]bool, len(present))
	for _, k := range present {
		set[k] = true
	}
	out := make([]string, 0, len(present))
	seen := make(map[string]bool, len(present))
	for _, k := range declared {
		if set[k] && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(present))
	for _, k := range present {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func keysOf[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

type builder struct {
	visited map[*openapi3.Schema]bool
}

func (b *builder) pathEntry(template string, item *openapi3.PathItem, ord *declOrder) *PathEntry {
	entry := &PathEntry{
		Template:   template,
		Operations: make(map[HTTPMethod]*Operation),
	}
	for _, pref := range item.Parameters {
		if pm := b.parameter(pref); pm != nil {
			entry.Parameters = append(entry.Parameters, *pm)
		}
	}

	ops := []struct {
		m  HTTPMethod
		op *openapi3.Operation
	}{
		{GET, item.Get},
		{POST, item.Post},
		{PUT, item.Put},
		{DELETE, item.Delete},
		{PATCH, item.Patch},
		{HEAD, item.Head},
		{OPTIONS, item.Options},
		{TRACE, item.Trace},
	}
	for _, pair := range ops {
		if pair.op == nil {
			continue
		}
		entry.Operations[pair.m] = b.operation(pair.op, ord.responseOrder(template, pair.m))
	}
	return entry
}

func (b *builder) operation(op *openapi3.Operation, respOrder []string) *Operation {
	out := &Operation{
		Summary:     strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
	}
	for _, t := range op.Tags {
		if t = strings.TrimSpace(t); t != "" {
			out.Tags = append(out.Tags, t)
		}
	}
	for _, pref := range op.Parameters {
		if pm := b.parameter(pref); pm != nil {
			out.Parameters = append(out.Parameters, *pm)
		}
	}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		out.RequestBody = &RequestBody{
			Required: op.RequestBody.Value.Required,
			Content:  b.mediaList(op.RequestBody.Value.Content),
		}
	}
	if op.Responses != nil {
		respMap := op.Responses.Map()
		for _, status := range orderedKeys(keysOf(respMap), respOrder) {
			rref := respMap[status]
			if rref == nil || rref.Value == nil {
				continue
			}
			out.Responses = append(out.Responses, ResponseEntry{
				Status:   status,
				Response: b.response(rref.Value),
			})
		}
	}
	return out
}

func (b *builder) response(r *openapi3.Response) *Response {
	out := &Response{Content: b.mediaList(r.Content)}
	if r.Description != nil {
		out.Description = strings.TrimSpace(*r.Description)
	}
	return out
}

func (b *builder) parameter(pref *openapi3.ParameterRef) *Parameter {
	if pref == nil || pref.Value == nil {
		return nil
	}
	p := pref.Value
	return &Parameter{
		Name:     strings.TrimSpace(p.Name),
		In:       strings.TrimSpace(p.In),
		Required: p.Required,
		Schema:   b.schema(p.Schema),
	}
}

func (b *builder) mediaList(content openapi3.Content) []Media {
	if len(content) == 0 {
		return nil
	}
	mimes := keysOf(content)
	sort.Strings(mimes)
	out := make([]Media, 0, len(mimes))
	for _, mime := range mimes {
		mt := content[mime]
		if mt == nil {
			continue
		}
		var example any
		if mt.Example != nil {
			example = mt.Example
		} else if len(mt.Examples) > 0 {
			// Pick the first example deterministically by key.
			names := keysOf(mt.Examples)
			sort.Strings(names)
			if ref := mt.Examples[names[0]]; ref != nil && ref.Value != nil {
				example = ref.Value.Value
			}
		}
		out = append(out, Media{Mime: mime, Schema: b.schema(mt.Schema), Example: example})
	}
	return out
}

// schema converts one schema node, classifying it into a closed SchemaKind.
// Reference cycles are truncated with a Recursive marker.
func (b *builder) schema(ref *openapi3.SchemaRef) *Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	src := ref.Value
	if b.visited[src] {
		return &Schema{Recursive: true}
	}
	b.visited[src] = true
	defer delete(b.visited, src)

	out := &Schema{
		Format:  strings.TrimSpace(src.Format),
		Example: src.Example,
		Pattern: src.Pattern,
	}

	if src.MinLength > 0 {
		out.MinLength = intPtr(int(src.MinLength))
	}
	if src.MaxLength != nil {
		out.MaxLength = intPtr(int(*src.MaxLength))
	}
	out.Minimum = src.Min
	out.Maximum = src.Max
	out.MultipleOf = src.MultipleOf
	if src.MinItems > 0 {
		out.MinItems = intPtr(int(src.MinItems))
	}
	if src.MaxItems != nil {
		out.MaxItems = intPtr(int(*src.MaxItems))
	}
	out.Required = append([]string(nil), src.Required...)

	if len(src.Properties) > 0 {
		out.Properties = make(map[string]*Schema, len(src.Properties))
		for name, pref := range src.Properties {
			if ps := b.schema(pref); ps != nil {
				out.Properties[name] = ps
			}
		}
	}
	if src.AdditionalProperties.Schema != nil {
		out.AdditionalProperties = b.schema(src.AdditionalProperties.Schema)
	}
	if src.Items != nil {
		out.Items = b.schema(src.Items)
	}

	// Classification. Enum wins over everything; compositions next; the
	// explicit type last. Typeless schemas with properties act as objects.
	switch {
	case len(src.Enum) > 0:
		out.Kind = KindEnum
		out.Enum = append([]any(nil), src.Enum...)
	case len(src.AllOf) > 0:
		out.Kind = KindComposed
		out.Compose = ComposeAllOf
		out.Members = b.members(src.AllOf)
		if len(out.Properties) > 0 {
			// Inline properties beside allOf act as one more member.
			out.Members = append(out.Members, &Schema{Kind: KindObject, Properties: out.Properties, Required: out.Required})
			out.Properties = nil
		}
	case len(src.OneOf) > 0:
		out.Kind = KindComposed
		out.Compose = ComposeOneOf
		out.Members = b.members(src.OneOf)
	case len(src.AnyOf) > 0:
		out.Kind = KindComposed
		out.Compose = ComposeAnyOf
		out.Members = b.members(src.AnyOf)
	default:
		out.Kind = kindOfType(src.Type)
		if out.Kind == KindUnknown && len(out.Properties) > 0 {
			out.Kind = KindObject
		}
	}
	return out
}

func (b *builder) members(refs openapi3.SchemaRefs) []*Schema {
	out := make([]*Schema, 0, len(refs))
	for _, r := range refs {
		if s := b.schema(r); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func kindOfType(types *openapi3.Types) SchemaKind {
	if types == nil {
		return KindUnknown
	}
	switch {
	case types.Is(openapi3.TypeString):
		return KindString
	case types.Is(openapi3.TypeNumber):
		return KindNumber
	case types.Is(openapi3.TypeInteger):
		return KindInteger
	case types.Is(openapi3.TypeBoolean):
		return KindBoolean
	case types.Is(openapi3.TypeObject):
		return KindObject
	case types.Is(openapi3.TypeArray):
		return KindArray
	default:
		return KindUnknown
	}
}

func intPtr(v int) *int { return &v }

func (b *builder) components(c *openapi3.Components) Components {
	out := Components{}
	if c == nil {
		return out
	}
	if len(c.Schemas) > 0 {
		out.Schemas = make(map[string]*Schema, len(c.Schemas))
		for name, ref := range c.Schemas {
			if s := b.schema(ref); s != nil {
				out.Schemas[name] = s
			}
		}
	}
	if len(c.Responses) > 0 {
		out.Responses = make(map[string]*Response, len(c.Responses))
		for name, ref := range c.Responses {
			if ref != nil && ref.Value != nil {
				out.Responses[name] = b.response(ref.Value)
			}
		}
	}
	if len(c.Parameters) > 0 {
		out.Parameters = make(map[string]*Parameter, len(c.Parameters))
		for name, ref := range c.Parameters {
			if pm := b.parameter(ref); pm != nil {
				out.Parameters[name] = pm
			}
		}
	}
	if len(c.RequestBodies) > 0 {
		out.RequestBodies = make(map[string]*RequestBody, len(c.RequestBodies))
		for name, ref := range c.RequestBodies {
			if ref == nil || ref.Value == nil {
				continue
			}
			out.RequestBodies[name] = &RequestBody{
				Required: ref.Value.Required,
				Content:  b.mediaList(ref.Value.Content),
			}
		}
	}
	if len(c.SecuritySchemes) > 0 {
		out.SecuritySchemes = make(map[string]*SecurityScheme, len(c.SecuritySchemes))
		for name, ref := range c.SecuritySchemes {
			if ref == nil || ref.Value == nil {
				continue
			}
			out.SecuritySchemes[name] = &SecurityScheme{
				Type:   ref.Value.Type,
				Scheme: ref.Value.Scheme,
				In:     ref.Value.In,
				Name:   ref.Value.Name,
			}
		}
	}
	if len(c.Examples) > 0 {
		out.Examples = make(map[string]any, len(c.Examples))
		for name, ref := range c.Examples {
			if ref != nil && ref.Value != nil {
				out.Examples[name] = ref.Value.Value
			}
		}
	}
	if len(c.Callbacks) > 0 {
		out.Callbacks = make(map[string]any, len(c.Callbacks))
		for name, ref := range c.Callbacks {
			if ref != nil && ref.Value != nil {
				out.Callbacks[name] = ref.Value
			}
		}
	}
	if len(c.Links) > 0 {
		out.Links = make(map[string]any, len(c.Links))
		for name, ref := range c.Links {
			if ref != nil && ref.Value != nil {
				out.Links[name] = ref.Value
			}
		}
	}
	if len(c.Headers) > 0 {
		out.Headers = make(map[string]*Parameter, len(c.Headers))
		for name, ref := range c.Headers {
			if ref == nil || ref.Value == nil {
				continue
			}
			out.Headers[name] = &Parameter{
				Name:     name,
				In:       "header",
				Required: ref.Value.Required,
				Schema:   b.schema(ref.Value.Schema),
			}
		}
	}
	return out
}
