package contract

import (
	"testing"
)

func TestDeclarationOrder(t *testing.T) {
	t.Parallel()

	raw := []byte(`
openapi: 3.0.3
info: {title: x, version: "1"}
paths:
  /b:
    get:
      responses:
        "500": {description: broken}
        "200": {description: ok}
    post:
      responses:
        "201": {description: created}
  /a:
    get:
      responses:
        default: {description: anything}
`)

	ord := declarationOrder(raw)
	if ord == nil {
		t.Fatal("expected declaration order")
	}
	if len(ord.paths) != 2 || ord.paths[0] != "/b" || ord.paths[1] != "/a" {
		t.Fatalf("unexpected path order: %v", ord.paths)
	}

	got := ord.responseOrder("/b", GET)
	if len(got) != 2 || got[0] != "500" || got[1] != "200" {
		t.Fatalf("unexpected response order: %v", got)
	}
	got = ord.responseOrder("/b", POST)
	if len(got) != 1 || got[0] != "201" {
		t.Fatalf("unexpected response order: %v", got)
	}
	got = ord.responseOrder("/a", GET)
	if len(got) != 1 || got[0] != "default" {
		t.Fatalf("unexpected response order: %v", got)
	}
	if ord.responseOrder("/missing", GET) != nil {
		t.Fatal("expected nil order for unknown template")
	}
}

func TestDeclarationOrderJSONInput(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"openapi":"3.0.3","paths":{"/z":{"get":{"responses":{"200":{"description":"ok"}}}},"/y":{}}}`)
	ord := declarationOrder(raw)
	if ord == nil {
		t.Fatal("expected declaration order from JSON input")
	}
	if len(ord.paths) != 2 || ord.paths[0] != "/z" || ord.paths[1] != "/y" {
		t.Fatalf("unexpected path order: %v", ord.paths)
	}
}

func TestDeclarationOrderDegradesToNil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: nil},
		{name: "bogus yaml", raw: []byte(":\n  - [")},
		{name: "no paths", raw: []byte("openapi: 3.0.3\ninfo: {title: x}\n")},
		{name: "scalar paths", raw: []byte("paths: nope\n")},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if ord := declarationOrder(tc.raw); ord != nil {
				t.Fatalf("expected nil order, got %+v", ord)
			}
		})
	}
}

func TestOrderedKeysFallsBackToSorted(t *testing.T) {
	t.Parallel()

	got := orderedKeys([]string{"c", "a", "b"}, nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected order: %v", got)
	}

	got = orderedKeys([]string{"c", "a", "b"}, []string{"b", "x", "c"})
	if len(got) != 3 || got[0] != "b" || got[1] != "c" || got[2] != "a" {
		t.Fatalf("unexpected order: %v", got)
	}
}
