package contract

// Document graph shared by the router, generator, merger, and registry.
// Built once by the loader, then treated as read-only.

// HTTPMethod is a lower-case HTTP method name as declared in a contract.
type HTTPMethod string

const (
	GET     HTTPMethod = "get"
	POST    HTTPMethod = "post"
	PUT     HTTPMethod = "put"
	DELETE  HTTPMethod = "delete"
	PATCH   HTTPMethod = "patch"
	HEAD    HTTPMethod = "head"
	OPTIONS HTTPMethod = "options"
	TRACE   HTTPMethod = "trace"
)

// Methods lists all supported methods in canonical iteration order.
// Code that walks a PathEntry's operations must use this order so results
// stay stable across runs.
var Methods = []HTTPMethod{GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS, TRACE}

// Document is one parsed API description.
type Document struct {
	Info       Info
	Paths      []*PathEntry // declaration order; templates are unique
	Components Components
	Servers    []Server
	Security   []SecurityRequirement
	Tags       []Tag
}

// Info carries document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Server is one declared server entry.
type Server struct {
	URL         string
	Description string
}

// SecurityRequirement maps security scheme names to required scopes.
type SecurityRequirement map[string][]string

// Tag is a declared grouping tag.
type Tag struct {
	Name        string
	Description string
}

// PathEntry holds at most one operation per HTTP method under a path template.
// Templates always carry a leading slash; `{name}` marks a variable segment.
type PathEntry struct {
	Template   string
	Operations map[HTTPMethod]*Operation
	Parameters []Parameter // path-level, inherited by every operation
}

// Operation returns the operation declared for m, or nil.
func (p *PathEntry) Operation(m HTTPMethod) *Operation {
	if p == nil || p.Operations == nil {
		return nil
	}
	return p.Operations[m]
}

// DeclaredMethods lists the methods present on this entry in canonical order.
func (p *PathEntry) DeclaredMethods() []HTTPMethod {
	out := make([]HTTPMethod, 0, len(p.Operations))
	for _, m := range Methods {
		if _, ok := p.Operations[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Operation is one method handler declared under a path template.
type Operation struct {
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []ResponseEntry // declaration order
}

// Parameter is a declared request parameter.
type Parameter struct {
	Name     string
	In       string // path|query|header|cookie
	Required bool
	Schema   *Schema
}

// RequestBody is a declared request payload.
type RequestBody struct {
	Required bool
	Content  []Media
}

// ResponseEntry pairs a status key ("200", "404", "default", "2XX") with its
// response. Order of entries follows the declaration.
type ResponseEntry struct {
	Status   string
	Response *Response
}

// Response maps content types to schemas.
type Response struct {
	Description string
	Content     []Media
}

// Media is one content-type entry of a request or response body.
type Media struct {
	Mime    string
	Schema  *Schema
	Example any // literal example, overrides generation when set
}

// SchemaKind is the closed set of schema shapes the generator understands.
type SchemaKind int

const (
	KindUnknown SchemaKind = iota
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindObject
	KindArray
	KindComposed
	KindEnum
)

// ComposeMode distinguishes the composition flavors of a KindComposed schema.
type ComposeMode int

const (
	ComposeNone ComposeMode = iota
	ComposeAllOf
	ComposeOneOf
	ComposeAnyOf
)

// Schema is a recursive type/constraint declaration describing a value's shape.
// Exactly one Kind applies; composed schemas carry Members and a ComposeMode.
type Schema struct {
	Kind    SchemaKind
	Format  string
	Example any

	// string constraints
	Pattern   string
	MinLength *int
	MaxLength *int

	// numeric constraints
	Minimum    *float64
	Maximum    *float64
	MultipleOf *float64

	// object
	Properties           map[string]*Schema
	Required             []string
	AdditionalProperties *Schema

	// array
	Items    *Schema
	MinItems *int
	MaxItems *int

	// composition
	Compose ComposeMode
	Members []*Schema

	// enum
	Enum []any

	// Recursive marks a node truncated to break a reference cycle.
	// The generator yields nil for such nodes.
	Recursive bool
}

// Clone deep copies the document. Merging and copy-on-write registry snapshots
// rely on clones so a published document is never mutated in place.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Info:    d.Info,
		Servers: append([]Server(nil), d.Servers...),
		Tags:    append([]Tag(nil), d.Tags...),
	}
	for _, sec := range d.Security {
		cp := make(SecurityRequirement, len(sec))
		for k, v := range sec {
			cp[k] = append([]string(nil), v...)
		}
		out.Security = append(out.Security, cp)
	}
	for _, p := range d.Paths {
		out.Paths = append(out.Paths, p.clone())
	}
	out.Components = d.Components.clone()
	return out
}

// Clone deep copies a path entry.
func (p *PathEntry) Clone() *PathEntry { return p.clone() }

func (p *PathEntry) clone() *PathEntry {
	if p == nil {
		return nil
	}
	cp := &PathEntry{Template: p.Template}
	if p.Operations != nil {
		cp.Operations = make(map[HTTPMethod]*Operation, len(p.Operations))
		for m, op := range p.Operations {
			cp.Operations[m] = op.clone()
		}
	}
	for _, prm := range p.Parameters {
		cp.Parameters = append(cp.Parameters, prm.clone())
	}
	return cp
}

func (o *Operation) clone() *Operation {
	if o == nil {
		return nil
	}
	cp := &Operation{
		Summary:     o.Summary,
		Description: o.Description,
		Tags:        append([]string(nil), o.Tags...),
	}
	for _, prm := range o.Parameters {
		cp.Parameters = append(cp.Parameters, prm.clone())
	}
	if o.RequestBody != nil {
		rb := &RequestBody{Required: o.RequestBody.Required}
		for _, m := range o.RequestBody.Content {
			rb.Content = append(rb.Content, m.clone())
		}
		cp.RequestBody = rb
	}
	for _, re := range o.Responses {
		cp.Responses = append(cp.Responses, ResponseEntry{Status: re.Status, Response: re.Response.clone()})
	}
	return cp
}

func (r *Response) clone() *Response {
	if r == nil {
		return nil
	}
	cp := &Response{Description: r.Description}
	for _, m := range r.Content {
		cp.Content = append(cp.Content, m.clone())
	}
	return cp
}

func (m Media) clone() Media {
	return Media{Mime: m.Mime, Schema: m.Schema.clone(), Example: m.Example}
}

// Clone deep copies a parameter.
func (p Parameter) Clone() Parameter { return p.clone() }

func (p Parameter) clone() Parameter {
	return Parameter{Name: p.Name, In: p.In, Required: p.Required, Schema: p.Schema.clone()}
}

func (s *Schema) clone() *Schema {
	if s == nil {
		return nil
	}
	cp := *s
	cp.MinLength = clonePtr(s.MinLength)
	cp.MaxLength = clonePtr(s.MaxLength)
	cp.Minimum = clonePtr(s.Minimum)
	cp.Maximum = clonePtr(s.Maximum)
	cp.MultipleOf = clonePtr(s.MultipleOf)
	cp.MinItems = clonePtr(s.MinItems)
	cp.MaxItems = clonePtr(s.MaxItems)
	cp.Required = append([]string(nil), s.Required...)
	cp.Enum = append([]any(nil), s.Enum...)
	if s.Properties != nil {
		cp.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			cp.Properties[k] = v.clone()
		}
	}
	cp.Items = s.Items.clone()
	cp.AdditionalProperties = s.AdditionalProperties.clone()
	if s.Members != nil {
		cp.Members = make([]*Schema, len(s.Members))
		for i, m := range s.Members {
			cp.Members[i] = m.clone()
		}
	}
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Components holds named reusable pieces of a document, one map per category.
// Categories the engine does not interpret (examples, callbacks, links) are
// kept as opaque values so merging can still union them.
type Components struct {
	Schemas         map[string]*Schema
	Responses       map[string]*Response
	Parameters      map[string]*Parameter
	RequestBodies   map[string]*RequestBody
	SecuritySchemes map[string]*SecurityScheme
	Examples        map[string]any
	Callbacks       map[string]any
	Links           map[string]any
	Headers         map[string]*Parameter
}

// SecurityScheme is a declared security scheme.
type SecurityScheme struct {
	Type   string
	Scheme string
	In     string
	Name   string
}

// Len counts entries across all categories.
func (c Components) Len() int {
	return len(c.Schemas) + len(c.Responses) + len(c.Parameters) + len(c.RequestBodies) +
		len(c.SecuritySchemes) + len(c.Examples) + len(c.Callbacks) + len(c.Links) + len(c.Headers)
}

func (c Components) clone() Components {
	out := Components{}
	if c.Schemas != nil {
		out.Schemas = make(map[string]*Schema, len(c.Schemas))
		for k, v := range c.Schemas {
			out.Schemas[k] = v.clone()
		}
	}
	if c.Responses != nil {
		out.Responses = make(map[string]*Response, len(c.Responses))
		for k, v := range c.Responses {
			out.Responses[k] = v.clone()
		}
	}
	if c.Parameters != nil {
		out.Parameters = make(map[string]*Parameter, len(c.Parameters))
		for k, v := range c.Parameters {
			cp := v.clone()
			out.Parameters[k] = &cp
		}
	}
	if c.RequestBodies != nil {
		out.RequestBodies = make(map[string]*RequestBody, len(c.RequestBodies))
		for k, v := range c.RequestBodies {
			rb := &RequestBody{Required: v.Required}
			for _, m := range v.Content {
				rb.Content = append(rb.Content, m.clone())
			}
			out.RequestBodies[k] = rb
		}
	}
	if c.SecuritySchemes != nil {
		out.SecuritySchemes = make(map[string]*SecurityScheme, len(c.SecuritySchemes))
		for k, v := range c.SecuritySchemes {
			cp := *v
			out.SecuritySchemes[k] = &cp
		}
	}
	out.Examples = cloneAnyMap(c.Examples)
	out.Callbacks = cloneAnyMap(c.Callbacks)
	out.Links = cloneAnyMap(c.Links)
	if c.Headers != nil {
		out.Headers = make(map[string]*Parameter, len(c.Headers))
		for k, v := range c.Headers {
			cp := v.clone()
			out.Headers[k] = &cp
		}
	}
	return out
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// FindPath returns the entry whose template equals t, or nil.
func (d *Document) FindPath(t string) *PathEntry {
	for _, p := range d.Paths {
		if p.Template == t {
			return p
		}
	}
	return nil
}
