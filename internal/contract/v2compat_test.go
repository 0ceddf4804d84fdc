package contract

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPreprocessV2MergesMultipleBodyParams(t *testing.T) {
	t.Parallel()

	raw := []byte(`
swagger: "2.0"
info: {title: Legacy, version: "1.0"}
paths:
  /things:
    post:
      parameters:
        - name: first
          in: body
          required: true
          schema: {type: string}
        - name: second
          in: body
          schema: {type: integer}
      responses:
        "200": {description: ok}
`)

	fixed, changed, err := preprocessV2ForCompatibility(raw)
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if !changed {
		t.Fatal("expected rewrite for multiple body params")
	}

	var doc map[string]any
	if err := yaml.Unmarshal(fixed, &doc); err != nil {
		t.Fatalf("parse rewritten yaml: %v", err)
	}
	op := doc["paths"].(map[string]any)["/things"].(map[string]any)["post"].(map[string]any)
	params := op["parameters"].([]any)
	if len(params) != 1 {
		t.Fatalf("expected a single merged body param, got %d", len(params))
	}
	body := params[0].(map[string]any)
	schema := body["schema"].(map[string]any)
	props := schema["properties"].(map[string]any)
	if _, ok := props["first"]; !ok {
		t.Fatal("merged schema missing property first")
	}
	if _, ok := props["second"]; !ok {
		t.Fatal("merged schema missing property second")
	}
	required := schema["required"].([]any)
	if len(required) != 1 || required[0] != "first" {
		t.Fatalf("unexpected required list: %v", required)
	}
}

func TestPreprocessV2ConvertsBodyBesideFormData(t *testing.T) {
	t.Parallel()

	raw := []byte(`
swagger: "2.0"
info: {title: Legacy, version: "1.0"}
paths:
  /upload:
    post:
      parameters:
        - name: file
          in: formData
          type: file
        - name: meta
          in: body
          schema: {type: string}
      responses:
        "200": {description: ok}
`)

	fixed, changed, err := preprocessV2ForCompatibility(raw)
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if !changed {
		t.Fatal("expected rewrite for mixed body and formData")
	}

	var doc map[string]any
	if err := yaml.Unmarshal(fixed, &doc); err != nil {
		t.Fatalf("parse rewritten yaml: %v", err)
	}
	op := doc["paths"].(map[string]any)["/upload"].(map[string]any)["post"].(map[string]any)
	for _, p := range op["parameters"].([]any) {
		pm := p.(map[string]any)
		if asString(pm["in"]) == "body" {
			t.Fatal("body param should have been converted to formData")
		}
	}
	if !containsString(op["consumes"].([]any), "multipart/form-data") {
		t.Fatalf("expected multipart/form-data consumes, got %v", op["consumes"])
	}
}

func TestPreprocessV2LeavesCompliantDocsUntouched(t *testing.T) {
	t.Parallel()

	raw := []byte(`
swagger: "2.0"
info: {title: Legacy, version: "1.0"}
paths:
  /pets:
    get:
      parameters:
        - name: limit
          in: query
          type: integer
      responses:
        "200": {description: ok}
`)

	fixed, changed, err := preprocessV2ForCompatibility(raw)
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	if changed {
		t.Fatal("expected no rewrite")
	}
	if string(fixed) != string(raw) {
		t.Fatal("bytes should be returned unmodified")
	}
}
