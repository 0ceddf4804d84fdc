package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/specmock/specmock/internal/contract"
)

func sample() *contract.Document {
	min := 1.0
	return &contract.Document{
		Info:    contract.Info{Title: "Sample", Version: "1.2"},
		Servers: []contract.Server{{URL: "https://api.example.com"}},
		Paths: []*contract.PathEntry{{
			Template: "/items/{id}",
			Parameters: []contract.Parameter{{
				Name: "id", In: "path", Required: true,
				Schema: &contract.Schema{Kind: contract.KindInteger, Minimum: &min},
			}},
			Operations: map[contract.HTTPMethod]*contract.Operation{
				contract.GET: {
					Summary: "Fetch one item",
					Responses: []contract.ResponseEntry{{
						Status: "200",
						Response: &contract.Response{
							Description: "ok",
							Content: []contract.Media{{
								Mime: "application/json",
								Schema: &contract.Schema{
									Kind: contract.KindObject,
									Properties: map[string]*contract.Schema{
										"id":    {Kind: contract.KindInteger},
										"state": {Kind: contract.KindEnum, Enum: []any{"new", "used"}},
									},
									Required: []string{"id"},
								},
							}},
						},
					}},
				},
			},
		}},
		Components: contract.Components{
			Schemas: map[string]*contract.Schema{
				"Item": {Kind: contract.KindObject, Properties: map[string]*contract.Schema{
					"name": {Kind: contract.KindString, Pattern: "^[a-z]+$"},
				}},
			},
		},
	}
}

func TestWriteYAMLRoundTripsThroughLoader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteYAML(&buf, sample()); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	doc, err := contract.LoadData(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("reload exported yaml: %v", err)
	}
	if doc.Info.Title != "Sample" {
		t.Fatalf("expected title Sample, got %q", doc.Info.Title)
	}
	entry := doc.FindPath("/items/{id}")
	if entry == nil {
		t.Fatal("missing exported path")
	}
	op := entry.Operation(contract.GET)
	if op == nil || op.Summary != "Fetch one item" {
		t.Fatalf("unexpected operation: %+v", op)
	}
	body := op.Responses[0].Response.Content[0].Schema
	if body.Kind != contract.KindObject {
		t.Fatalf("unexpected body kind %d", body.Kind)
	}
	if body.Properties["state"].Kind != contract.KindEnum {
		t.Fatal("enum property lost in export")
	}
	if doc.Components.Schemas["Item"].Properties["name"].Pattern != "^[a-z]+$" {
		t.Fatal("pattern constraint lost in export")
	}
}

func TestWriteJSONProducesValidOpenAPI(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, sample()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("parse exported json: %v", err)
	}
	if raw["openapi"] != "3.0.3" {
		t.Fatalf("unexpected version: %v", raw["openapi"])
	}
	if _, ok := raw["paths"].(map[string]any)["/items/{id}"]; !ok {
		t.Fatal("missing path in exported json")
	}
}

func TestWriteYAMLEmptyDocumentGetsDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteYAML(&buf, &contract.Document{}); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	doc, err := contract.LoadData(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("reload exported yaml: %v", err)
	}
	if doc.Info.Title != "Merged API" {
		t.Fatalf("expected placeholder title, got %q", doc.Info.Title)
	}
}
