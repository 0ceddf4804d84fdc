// Package responder picks which declared response a mocked operation
// answers with and synthesizes its body.
package responder

import (
	"strconv"
	"strings"

	"github.com/specmock/specmock/internal/contract"
	"github.com/specmock/specmock/internal/generator"
)

// NoResponseError reports an operation that declares no responses at all.
type NoResponseError struct{}

func (e *NoResponseError) Error() string { return "operation declares no responses" }

// Selected is the outcome of response selection. Status is the HTTP status
// derived from the key that was actually selected, never from whichever key
// happens to come first in the declaration.
type Selected struct {
	Key      string // declared key: "200", "default", "2XX", ...
	Status   int
	Response *contract.Response
}

// Select ranks an operation's declared responses: "200", then "201", then
// "default", then the first declared entry. Operations without responses
// yield *NoResponseError.
func Select(op *contract.Operation) (*Selected, error) {
	if op == nil || len(op.Responses) == 0 {
		return nil, &NoResponseError{}
	}
	for _, want := range []string{"200", "201", "default"} {
		for _, re := range op.Responses {
			if re.Status == want {
				return selected(re), nil
			}
		}
	}
	return selected(op.Responses[0]), nil
}

func selected(re contract.ResponseEntry) *Selected {
	return &Selected{Key: re.Status, Status: statusOf(re.Status), Response: re.Response}
}

// statusOf converts a declared response key to a concrete HTTP status.
// "default" answers 200; wildcard keys like "2XX" resolve their X digits
// to zero; anything unparseable falls back to 200.
func statusOf(key string) int {
	key = strings.TrimSpace(key)
	if strings.EqualFold(key, "default") {
		return 200
	}
	key = strings.ReplaceAll(strings.ToUpper(key), "X", "0")
	n, err := strconv.Atoi(key)
	if err != nil || n < 100 || n > 599 {
		return 200
	}
	return n
}

// Body is a synthesized response payload.
type Body struct {
	ContentType string
	Value       any // nil when the response declares no content
}

// BuildBody picks the media type to answer with (JSON preferred, else the
// first declared) and synthesizes a value for its schema. Literal examples
// take precedence when the generator config prefers them.
func BuildBody(sel *Selected, gen *generator.Generator) Body {
	if sel == nil || sel.Response == nil || len(sel.Response.Content) == 0 {
		return Body{}
	}
	media := pickMedia(sel.Response.Content)
	if gen.Config().PreferExamples && media.Example != nil {
		return Body{ContentType: media.Mime, Value: media.Example}
	}
	if media.Schema == nil {
		return Body{ContentType: media.Mime, Value: media.Example}
	}
	return Body{ContentType: media.Mime, Value: gen.Generate(media.Schema)}
}

func pickMedia(content []contract.Media) contract.Media {
	for _, m := range content {
		if m.Mime == "application/json" {
			return m
		}
	}
	for _, m := range content {
		if strings.Contains(m.Mime, "json") {
			return m
		}
	}
	return content[0]
}
