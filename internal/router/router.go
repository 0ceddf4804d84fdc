// Package router resolves (method, path) pairs to operations declared in a
// contract document. Matching is pure and deterministic: declaration order
// decides between overlapping templates, first match wins.
package router

import (
	"fmt"
	"strings"

	"github.com/specmock/specmock/internal/contract"
)

// Match is a resolved route.
type Match struct {
	Entry      *contract.PathEntry
	Operation  *contract.Operation
	PathParams map[string]string // `{name}` segment values, empty for exact matches
}

// NotFoundError reports that no declared template matches the path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route for path %q", e.Path)
}

// MethodNotAllowedError reports a matching template without the requested
// method. Allowed lists the methods the entry does declare.
type MethodNotAllowedError struct {
	Path    string
	Method  contract.HTTPMethod
	Allowed []contract.HTTPMethod
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for path %q", strings.ToUpper(string(e.Method)), e.Path)
}

// Route resolves method and path against the document:
//  1. normalize the path to carry a single leading slash (templates always do)
//  2. exact template match
//  3. retry with a trailing slash appended when the path lacks one
//  4. scan templates in declaration order, each `{name}` placeholder matching
//     one non-slash segment; the first matching template wins
//
// A path with no matching template yields *NotFoundError; a matched template
// without the method yields *MethodNotAllowedError.
func Route(method, path string, doc *contract.Document) (*Match, error) {
	if doc == nil {
		return nil, &NotFoundError{Path: path}
	}
	m := contract.HTTPMethod(strings.ToLower(strings.TrimSpace(method)))
	path = normalizePath(path)

	if entry := doc.FindPath(path); entry != nil {
		return matchEntry(entry, m, path, nil)
	}
	if !strings.HasSuffix(path, "/") {
		if entry := doc.FindPath(path + "/"); entry != nil {
			return matchEntry(entry, m, path, nil)
		}
	}

	for _, entry := range doc.Paths {
		if params, ok := matchTemplate(entry.Template, path); ok {
			return matchEntry(entry, m, path, params)
		}
	}
	return nil, &NotFoundError{Path: path}
}

func matchEntry(entry *contract.PathEntry, m contract.HTTPMethod, path string, params map[string]string) (*Match, error) {
	op := entry.Operation(m)
	if op == nil {
		return nil, &MethodNotAllowedError{Path: path, Method: m, Allowed: entry.DeclaredMethods()}
	}
	if params == nil {
		params = map[string]string{}
	}
	return &Match{Entry: entry, Operation: op, PathParams: params}, nil
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// matchTemplate reports whether path matches the template when every `{name}`
// placeholder stands for exactly one non-slash segment, and returns the
// captured segment values.
func matchTemplate(template, path string) (map[string]string, bool) {
	if !strings.Contains(template, "{") {
		return nil, false
	}
	tparts := strings.Split(strings.Trim(template, "/"), "/")
	pparts := strings.Split(strings.Trim(path, "/"), "/")
	if len(tparts) != len(pparts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, tp := range tparts {
		if strings.HasPrefix(tp, "{") && strings.HasSuffix(tp, "}") {
			if pparts[i] == "" {
				return nil, false
			}
			params[tp[1:len(tp)-1]] = pparts[i]
			continue
		}
		if tp != pparts[i] {
			return nil, false
		}
	}
	return params, true
}
