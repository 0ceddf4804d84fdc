// Package merge folds several contract documents into one unified view.
//
// Precedence is asymmetric on purpose and matches the engine's registration
// semantics: paths and info keep the first registration (a later spec can
// never silently shadow an operation already being served), while named
// components take the last registration (shared schema names usually mean
// the later spec carries the fresher definition).
package merge

import (
	"fmt"

	"github.com/specmock/specmock/internal/contract"
)

// Merge folds docs left to right into a single document. The accumulator
// starts as a deep copy of the first document, so inputs are never mutated.
// Returned warnings are advisory; merging zero documents yields an empty
// document with a warning rather than an error.
func Merge(docs []*contract.Document) (*contract.Document, []string) {
	var warnings []string
	if len(docs) == 0 {
		warnings = append(warnings, "merge: no documents given, unified spec is empty")
		return &contract.Document{}, warnings
	}

	acc := docs[0].Clone()
	for _, doc := range docs[1:] {
		if doc == nil {
			continue
		}
		warnings = append(warnings, mergeInto(acc, doc)...)
	}
	return acc, warnings
}

func mergeInto(acc, in *contract.Document) []string {
	var warnings []string

	// Info: first-wins.
	if acc.Info == (contract.Info{}) {
		acc.Info = in.Info
	}

	// Paths: new templates verbatim; existing templates merge per method with
	// the accumulator's operation winning.
	for _, entry := range in.Paths {
		existing := acc.FindPath(entry.Template)
		if existing == nil {
			acc.Paths = append(acc.Paths, entry.Clone())
			continue
		}
		incoming := entry.Clone()
		for _, m := range contract.Methods {
			op := incoming.Operation(m)
			if op == nil {
				continue
			}
			if existing.Operation(m) != nil {
				warnings = append(warnings, fmt.Sprintf(
					"merge: %s %s already registered, keeping first definition", m, entry.Template))
				continue
			}
			if existing.Operations == nil {
				existing.Operations = make(map[contract.HTTPMethod]*contract.Operation)
			}
			existing.Operations[m] = op
		}
		// Path-level parameters: append unseen (name, location) pairs.
		for _, prm := range incoming.Parameters {
			if !hasParameter(existing.Parameters, prm) {
				existing.Parameters = append(existing.Parameters, prm.Clone())
			}
		}
	}

	mergeComponents(&acc.Components, in.Components)

	// Servers: append unseen URLs.
	for _, srv := range in.Servers {
		if !hasServer(acc.Servers, srv.URL) {
			acc.Servers = append(acc.Servers, srv)
		}
	}

	// Security: append requirements whose scheme-name set differs from all
	// existing ones.
	for _, req := range in.Security {
		if !hasSecurity(acc.Security, req) {
			acc.Security = append(acc.Security, cloneSecurity(req))
		}
	}

	// Tags: append unseen names.
	for _, tag := range in.Tags {
		if !hasTag(acc.Tags, tag.Name) {
			acc.Tags = append(acc.Tags, tag)
		}
	}

	return warnings
}

func hasParameter(list []contract.Parameter, p contract.Parameter) bool {
	for _, have := range list {
		if have.Name == p.Name && have.In == p.In {
			return true
		}
	}
	return false
}

func hasServer(list []contract.Server, url string) bool {
	for _, have := range list {
		if have.URL == url {
			return true
		}
	}
	return false
}

func hasTag(list []contract.Tag, name string) bool {
	for _, have := range list {
		if have.Name == name {
			return true
		}
	}
	return false
}

func cloneSecurity(req contract.SecurityRequirement) contract.SecurityRequirement {
	cp := make(contract.SecurityRequirement, len(req))
	for k, v := range req {
		cp[k] = append([]string(nil), v...)
	}
	return cp
}

// hasSecurity compares requirements by their scheme-name sets.
func hasSecurity(list []contract.SecurityRequirement, req contract.SecurityRequirement) bool {
	for _, have := range list {
		if sameNameSet(have, req) {
			return true
		}
	}
	return false
}

func sameNameSet(a, b contract.SecurityRequirement) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if _, ok := b[name]; !ok {
			return false
		}
	}
	return true
}

// mergeComponents unions every category; colliding keys take the incoming
// entry (last-wins).
func mergeComponents(acc *contract.Components, in contract.Components) {
	inCopy := (&contract.Document{Components: in}).Clone().Components

	for k, v := range inCopy.Schemas {
		if acc.Schemas == nil {
			acc.Schemas = map[string]*contract.Schema{}
		}
		acc.Schemas[k] = v
	}
	for k, v := range inCopy.Responses {
		if acc.Responses == nil {
			acc.Responses = map[string]*contract.Response{}
		}
		acc.Responses[k] = v
	}
	for k, v := range inCopy.Parameters {
		if acc.Parameters == nil {
			acc.Parameters = map[string]*contract.Parameter{}
		}
		acc.Parameters[k] = v
	}
	for k, v := range inCopy.RequestBodies {
		if acc.RequestBodies == nil {
			acc.RequestBodies = map[string]*contract.RequestBody{}
		}
		acc.RequestBodies[k] = v
	}
	for k, v := range inCopy.SecuritySchemes {
		if acc.SecuritySchemes == nil {
			acc.SecuritySchemes = map[string]*contract.SecurityScheme{}
		}
		acc.SecuritySchemes[k] = v
	}
	for k, v := range inCopy.Examples {
		if acc.Examples == nil {
			acc.Examples = map[string]any{}
		}
		acc.Examples[k] = v
	}
	for k, v := range inCopy.Callbacks {
		if acc.Callbacks == nil {
			acc.Callbacks = map[string]any{}
		}
		acc.Callbacks[k] = v
	}
	for k, v := range inCopy.Links {
		if acc.Links == nil {
			acc.Links = map[string]any{}
		}
		acc.Links[k] = v
	}
	for k, v := range inCopy.Headers {
		if acc.Headers == nil {
			acc.Headers = map[string]*contract.Parameter{}
		}
		acc.Headers[k] = v
	}
}
