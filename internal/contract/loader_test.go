package contract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalV3 = `
openapi: 3.0.3
info:
  title: Minimal
  version: "1.0"
paths:
  /ping:
    get:
      responses:
        "200":
          description: pong
`

func TestLoadInputErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		code  ErrorCode
	}{
		{name: "empty input", input: "", code: InputError},
		{name: "whitespace input", input: "   ", code: InputError},
		{name: "file scheme blocked", input: "file:///etc/spec.yaml", code: InputError},
		{name: "unsupported scheme", input: "ftp://example.com/spec.yaml", code: InputError},
		{name: "missing file", input: filepath.Join(t.TempDir(), "nope.yaml"), code: InputError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(context.Background(), tc.input)
			if err == nil {
				t.Fatalf("expected error for input %q", tc.input)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %T: %v", err, err)
			}
			if le.Code != tc.code {
				t.Fatalf("expected code %s, got %s (%v)", tc.code, le.Code, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte(minimalV3), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Info.Title != "Minimal" {
		t.Fatalf("expected title Minimal, got %q", doc.Info.Title)
	}
	if len(doc.Paths) != 1 || doc.Paths[0].Template != "/ping" {
		t.Fatalf("unexpected paths: %+v", doc.Paths)
	}
}

func TestLoadFromURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(minimalV3))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/spec.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Info.Title != "Minimal" {
		t.Fatalf("expected title Minimal, got %q", doc.Info.Title)
	}
}

func TestLoadRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(minimalV3))
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL,
		WithMaxRetries(3), WithBackoffBase(time.Millisecond))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestLoadDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL,
		WithMaxRetries(3), WithBackoffBase(time.Millisecond))
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	var le *LoadError
	if !errors.As(err, &le) || le.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestLoadDataVersionDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "v3", data: minimalV3},
		{name: "no version key", data: "info:\n  title: x\n", wantErr: true},
		{name: "bogus yaml", data: ":\n  - [", wantErr: true},
		{name: "future version", data: "openapi: 4.0.0\ninfo: {title: x, version: '1'}\n", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadData(context.Background(), []byte(tc.data))
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("LoadData: %v", err)
			}
		})
	}
}

func TestLoadDataSwaggerV2Converted(t *testing.T) {
	t.Parallel()

	v2 := `
swagger: "2.0"
info:
  title: Legacy
  version: "1.0"
paths:
  /pets:
    get:
      produces: [application/json]
      responses:
        "200":
          description: ok
          schema:
            type: array
            items:
              type: string
`
	doc, err := LoadData(context.Background(), []byte(v2))
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	if doc.Info.Title != "Legacy" {
		t.Fatalf("expected title Legacy, got %q", doc.Info.Title)
	}
	entry := doc.FindPath("/pets")
	if entry == nil {
		t.Fatal("expected /pets path after conversion")
	}
	op := entry.Operation(GET)
	if op == nil || len(op.Responses) != 1 {
		t.Fatalf("unexpected operation: %+v", op)
	}
	if len(op.Responses[0].Response.Content) == 0 {
		t.Fatal("expected response content after conversion")
	}
	if got := op.Responses[0].Response.Content[0].Schema.Kind; got != KindArray {
		t.Fatalf("expected array schema, got kind %d", got)
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	le := &LoadError{Code: ParseError, Message: "wrapped", Cause: cause}
	if !errors.Is(le, cause) {
		t.Fatal("expected LoadError to unwrap to its cause")
	}
	if !strings.Contains(le.Error(), "wrapped") {
		t.Fatalf("unexpected message: %s", le.Error())
	}
}
