// Package registry keeps the set of loaded contract documents. Reads vastly
// outnumber writes (one lookup per request versus rare reloads), so the whole
// set is published as an immutable snapshot behind an atomic pointer: readers
// never observe a partially populated document and writers never block reads.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/specmock/specmock/internal/contract"
)

// DefaultName is the registry key of the unified document built by merging
// every loaded spec.
const DefaultName = "default"

// NotFoundError reports a lookup for a spec name that is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("spec %q not found", e.Name) }

// ErrNoDefault reports that no default document has been configured.
var ErrNoDefault = fmt.Errorf("no default spec configured")

type snapshot struct {
	specs       map[string]*contract.Document
	order       []string // registration order
	defaultName string
}

// Registry is a named document store with atomically swappable snapshots.
// The zero value is not ready; use New.
type Registry struct {
	mu   sync.Mutex // serializes writers only
	snap atomic.Pointer[snapshot]
}

// New returns an empty registry.
func New() *Registry {
	r := &Registry{}
	r.snap.Store(&snapshot{specs: map[string]*contract.Document{}})
	return r
}

// Register inserts or replaces a document under name. The write is
// copy-on-write: a fresh snapshot is built and swapped in atomically.
func (r *Registry) Register(name string, doc *contract.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	next := &snapshot{
		specs:       make(map[string]*contract.Document, len(cur.specs)+1),
		order:       append([]string(nil), cur.order...),
		defaultName: cur.defaultName,
	}
	for k, v := range cur.specs {
		next.specs[k] = v
	}
	if _, exists := next.specs[name]; !exists {
		next.order = append(next.order, name)
	}
	next.specs[name] = doc
	r.snap.Store(next)
}

// SetDefault marks name as the default document. Unknown names yield
// *NotFoundError.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	if _, ok := cur.specs[name]; !ok {
		return &NotFoundError{Name: name}
	}
	next := *cur
	next.defaultName = name
	r.snap.Store(&next)
	return nil
}

// ReplaceAll swaps the entire document set in one publication. names gives
// the registration order; defaultName may be empty when no default applies.
// Used on reload so requests see either the old set or the new one, never a
// mix.
func (r *Registry) ReplaceAll(names []string, docs map[string]*contract.Document, defaultName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := &snapshot{
		specs:       make(map[string]*contract.Document, len(docs)),
		defaultName: defaultName,
	}
	for _, name := range names {
		if doc, ok := docs[name]; ok {
			next.specs[name] = doc
			next.order = append(next.order, name)
		}
	}
	r.snap.Store(next)
}

// Get returns the document registered under name.
func (r *Registry) Get(name string) (*contract.Document, error) {
	snap := r.snap.Load()
	doc, ok := snap.specs[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return doc, nil
}

// Default returns the configured default document, or ErrNoDefault.
func (r *Registry) Default() (*contract.Document, error) {
	snap := r.snap.Load()
	if snap.defaultName == "" {
		return nil, ErrNoDefault
	}
	doc, ok := snap.specs[snap.defaultName]
	if !ok {
		return nil, ErrNoDefault
	}
	return doc, nil
}

// Names lists registered spec names in registration order.
func (r *Registry) Names() []string {
	snap := r.snap.Load()
	return append([]string(nil), snap.order...)
}

// Info summarizes one loaded spec.
type Info struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Version   string `json:"version"`
	PathCount int    `json:"pathCount"`
}

// Infos summarizes every loaded spec in registration order.
func (r *Registry) Infos() []Info {
	snap := r.snap.Load()
	out := make([]Info, 0, len(snap.order))
	for _, name := range snap.order {
		doc := snap.specs[name]
		out = append(out, Info{
			Name:      name,
			Title:     doc.Info.Title,
			Version:   doc.Info.Version,
			PathCount: len(doc.Paths),
		})
	}
	return out
}

// Endpoint describes one path of a spec for administrative listings.
type Endpoint struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description,omitempty"`
}

// Endpoints lists the endpoints of the named spec in declaration order.
func (r *Registry) Endpoints(name string) ([]Endpoint, error) {
	doc, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	out := make([]Endpoint, 0, len(doc.Paths))
	for _, entry := range doc.Paths {
		ep := Endpoint{Path: entry.Template}
		for _, m := range entry.DeclaredMethods() {
			ep.Methods = append(ep.Methods, string(m))
			if ep.Description == "" {
				op := entry.Operation(m)
				if op.Summary != "" {
					ep.Description = op.Summary
				} else if op.Description != "" {
					ep.Description = op.Description
				}
			}
		}
		out = append(out, ep)
	}
	return out, nil
}
