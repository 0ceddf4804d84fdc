package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmock/specmock/internal/contract"
)

func pathEntry(template string, methods ...contract.HTTPMethod) *contract.PathEntry {
	ops := make(map[contract.HTTPMethod]*contract.Operation, len(methods))
	for _, m := range methods {
		ops[m] = &contract.Operation{Summary: template + " " + string(m)}
	}
	return &contract.PathEntry{Template: template, Operations: ops}
}

func TestMerge_ZeroDocuments(t *testing.T) {
	unified, warnings := Merge(nil)
	require.NotNil(t, unified)
	assert.Empty(t, unified.Paths)
	assert.Len(t, warnings, 1)
}

func TestMerge_SingleDocumentIsDeepCopied(t *testing.T) {
	src := &contract.Document{
		Info:  contract.Info{Title: "users", Version: "1.0"},
		Paths: []*contract.PathEntry{pathEntry("/users", contract.GET)},
	}

	unified, warnings := Merge([]*contract.Document{src})
	assert.Empty(t, warnings)
	assert.Equal(t, src.Info, unified.Info)

	unified.Paths[0].Template = "/mutated"
	assert.Equal(t, "/users", src.Paths[0].Template)
}

func TestMerge_UnionsDisjointPaths(t *testing.T) {
	d1 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.GET)}}
	d2 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/orders", contract.GET)}}

	unified, warnings := Merge([]*contract.Document{d1, d2})
	assert.Empty(t, warnings)
	require.Len(t, unified.Paths, 2)
	assert.NotNil(t, unified.FindPath("/users"))
	assert.NotNil(t, unified.FindPath("/orders"))
}

func TestMerge_CollidingOperationKeepsFirstAndWarns(t *testing.T) {
	d1 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.GET)}}
	d2 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.GET)}}
	d1.Paths[0].Operations[contract.GET].Summary = "first"
	d2.Paths[0].Operations[contract.GET].Summary = "second"

	unified, warnings := Merge([]*contract.Document{d1, d2})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "/users")

	got := unified.FindPath("/users").Operation(contract.GET)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Summary)
}

func TestMerge_SamePathDifferentMethodsCombine(t *testing.T) {
	d1 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.GET)}}
	d2 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.POST)}}

	unified, warnings := Merge([]*contract.Document{d1, d2})
	assert.Empty(t, warnings)

	entry := unified.FindPath("/users")
	require.NotNil(t, entry)
	assert.Equal(t, []contract.HTTPMethod{contract.GET, contract.POST}, entry.DeclaredMethods())
}

func TestMerge_InfoFirstWins(t *testing.T) {
	d1 := &contract.Document{Info: contract.Info{Title: "first", Version: "1"}}
	d2 := &contract.Document{Info: contract.Info{Title: "second", Version: "2"}}

	unified, _ := Merge([]*contract.Document{d1, d2})
	assert.Equal(t, "first", unified.Info.Title)
}

func TestMerge_EmptyInfoFilledByLaterDocument(t *testing.T) {
	d1 := &contract.Document{}
	d2 := &contract.Document{Info: contract.Info{Title: "second"}}

	unified, _ := Merge([]*contract.Document{d1, d2})
	assert.Equal(t, "second", unified.Info.Title)
}

func TestMerge_SharedComponentLastWins(t *testing.T) {
	d1 := &contract.Document{Components: contract.Components{
		Schemas: map[string]*contract.Schema{"User": {Kind: contract.KindString}},
	}}
	d2 := &contract.Document{Components: contract.Components{
		Schemas: map[string]*contract.Schema{"User": {Kind: contract.KindObject}},
	}}

	unified, _ := Merge([]*contract.Document{d1, d2})
	require.Contains(t, unified.Components.Schemas, "User")
	assert.Equal(t, contract.KindObject, unified.Components.Schemas["User"].Kind)
}

func TestMerge_ComponentCategoriesUnion(t *testing.T) {
	d1 := &contract.Document{Components: contract.Components{
		Schemas:   map[string]*contract.Schema{"A": {Kind: contract.KindString}},
		Responses: map[string]*contract.Response{"NotFound": {Description: "missing"}},
	}}
	d2 := &contract.Document{Components: contract.Components{
		Schemas:    map[string]*contract.Schema{"B": {Kind: contract.KindInteger}},
		Parameters: map[string]*contract.Parameter{"limit": {Name: "limit", In: "query"}},
	}}

	unified, _ := Merge([]*contract.Document{d1, d2})
	assert.Len(t, unified.Components.Schemas, 2)
	assert.Contains(t, unified.Components.Responses, "NotFound")
	assert.Contains(t, unified.Components.Parameters, "limit")
}

func TestMerge_ServersTagsSecurityDeduplicated(t *testing.T) {
	d1 := &contract.Document{
		Servers:  []contract.Server{{URL: "https://api.example.com"}},
		Tags:     []contract.Tag{{Name: "users"}},
		Security: []contract.SecurityRequirement{{"apiKey": nil}},
	}
	d2 := &contract.Document{
		Servers: []contract.Server{
			{URL: "https://api.example.com"},
			{URL: "https://staging.example.com"},
		},
		Tags:     []contract.Tag{{Name: "users"}, {Name: "orders"}},
		Security: []contract.SecurityRequirement{{"apiKey": nil}, {"oauth": {"read"}}},
	}

	unified, _ := Merge([]*contract.Document{d1, d2})
	assert.Len(t, unified.Servers, 2)
	assert.Len(t, unified.Tags, 2)
	assert.Len(t, unified.Security, 2)
}

func TestMerge_PathParametersUnionedByNameAndLocation(t *testing.T) {
	d1 := &contract.Document{Paths: []*contract.PathEntry{{
		Template:   "/users/{id}",
		Operations: map[contract.HTTPMethod]*contract.Operation{contract.GET: {}},
		Parameters: []contract.Parameter{{Name: "id", In: "path", Required: true}},
	}}}
	d2 := &contract.Document{Paths: []*contract.PathEntry{{
		Template:   "/users/{id}",
		Operations: map[contract.HTTPMethod]*contract.Operation{contract.DELETE: {}},
		Parameters: []contract.Parameter{
			{Name: "id", In: "path", Required: true},
			{Name: "verbose", In: "query"},
		},
	}}}

	unified, _ := Merge([]*contract.Document{d1, d2})
	entry := unified.FindPath("/users/{id}")
	require.NotNil(t, entry)
	assert.Len(t, entry.Parameters, 2)
}

func TestMerge_InputsNotMutated(t *testing.T) {
	d1 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.GET)}}
	d2 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.POST)}}

	_, _ = Merge([]*contract.Document{d1, d2})
	assert.Len(t, d1.Paths[0].Operations, 1)
	assert.Len(t, d2.Paths[0].Operations, 1)
}

func TestMerge_NilDocumentSkipped(t *testing.T) {
	d1 := &contract.Document{Paths: []*contract.PathEntry{pathEntry("/users", contract.GET)}}

	unified, warnings := Merge([]*contract.Document{d1, nil})
	assert.Empty(t, warnings)
	assert.Len(t, unified.Paths, 1)
}
