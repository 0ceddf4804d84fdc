package contract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	jsonyaml "github.com/oasdiff/yaml"
	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
	ConversionError ErrorCode = "ConversionError"
)

// LoadError is a structured loader error with an optional source location.
type LoadError struct {
	Code     ErrorCode
	Message  string
	Location string // file path or URL
	Cause    error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	// AllowFileRefs controls whether file-based external references may be
	// followed. Automatically allowed when the root input is a local file.
	AllowFileRefs bool
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithAllowFileRefs(allow bool) Option    { return func(s *Settings) { s.AllowFileRefs = allow } }

// Load reads, validates, and builds a Document from an OpenAPI v3 or Swagger
// v2 description. input may be a filesystem path or an http/https URL.
// file:// URLs are blocked.
//
// The raw bytes are retained during the build so path and response declaration
// order survive the unordered maps of the underlying parser.
func Load(ctx context.Context, input string, opts ...Option) (*Document, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &LoadError{Code: InputError, Message: "contract: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	u, uerr := url.Parse(input)
	isURL := uerr == nil && u.Scheme != "" && u.Host != ""

	var (
		raw      []byte
		location string
		rootFile bool
	)
	if isURL {
		scheme := strings.ToLower(u.Scheme)
		if scheme == "file" {
			return nil, &LoadError{Code: InputError, Message: "contract: file:// URLs are blocked", Location: input}
		}
		if scheme != "http" && scheme != "https" {
			return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("contract: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
		fetched, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, &LoadError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		raw, location = fetched, input
	} else {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, &LoadError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
		}
		raw, location, rootFile = data, abs, true
	}

	version, err := detectSpecVersion(raw)
	if err != nil {
		return nil, &LoadError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}

	var doc *openapi3.T
	switch version {
	case 3:
		loader := newLoader(settings, rootFile)
		if rootFile {
			doc, err = loader.LoadFromFile(location)
		} else {
			doc, err = loader.LoadFromURI(u)
		}
		if err != nil {
			return nil, mapValidateOrParseErr(err, location)
		}
	case 2:
		// Rewrite incompatible v2 constructs to improve conversion success.
		if fixed, changed, _ := preprocessV2ForCompatibility(raw); changed {
			raw = fixed
		}
		doc, err = convertV2ToV3(raw)
		if err != nil {
			return nil, &LoadError{Code: ConversionError, Message: fmt.Sprintf("convert v2 to v3: %v", err), Location: location, Cause: err}
		}
		loader := newLoader(settings, rootFile)
		if rerr := loader.ResolveRefsIn(doc, nil); rerr != nil {
			return nil, &LoadError{Code: ConversionError, Message: fmt.Sprintf("resolve refs: %v", rerr), Location: location, Cause: rerr}
		}
	default:
		return nil, &LoadError{Code: ParseError, Message: "contract: unknown or unsupported OpenAPI/Swagger version", Location: location}
	}

	if err := doc.Validate(ctx); err != nil {
		if !canProceedDespiteValidation(err) {
			return nil, mapValidateOrParseErr(err, location)
		}
		// proceed in permissive mode
	}

	return Build(doc, raw), nil
}

// LoadData builds a Document from in-memory description bytes.
func LoadData(ctx context.Context, data []byte) (*Document, error) {
	version, err := detectSpecVersion(data)
	if err != nil {
		return nil, &LoadError{Code: ParseError, Message: err.Error(), Cause: err}
	}

	var doc *openapi3.T
	switch version {
	case 3:
		loader := openapi3.NewLoader()
		doc, err = loader.LoadFromData(data)
		if err != nil {
			return nil, mapValidateOrParseErr(err, "")
		}
	case 2:
		if fixed, changed, _ := preprocessV2ForCompatibility(data); changed {
			data = fixed
		}
		doc, err = convertV2ToV3(data)
		if err != nil {
			return nil, &LoadError{Code: ConversionError, Message: fmt.Sprintf("convert v2 to v3: %v", err), Cause: err}
		}
	default:
		return nil, &LoadError{Code: ParseError, Message: "contract: unknown or unsupported OpenAPI/Swagger version"}
	}

	if err := doc.Validate(ctx); err != nil {
		if !canProceedDespiteValidation(err) {
			return nil, mapValidateOrParseErr(err, "")
		}
	}
	return Build(doc, data), nil
}

func newLoader(settings Settings, rootIsFile bool) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	client := &http.Client{Timeout: settings.HTTPTimeout}
	allowFile := settings.AllowFileRefs || rootIsFile
	loader.ReadFromURIFunc = func(l *openapi3.Loader, uri *url.URL) ([]byte, error) {
		switch strings.ToLower(uri.Scheme) {
		case "", "file":
			if !allowFile {
				return nil, fmt.Errorf("blocked file ref: %s", uri.String())
			}
			path := uri.Path
			if path == "" {
				path = uri.Opaque
			}
			return os.ReadFile(path)
		case "http", "https":
			req, err := http.NewRequest(http.MethodGet, uri.String(), nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, uri.String())
			}
			return io.ReadAll(resp.Body)
		default:
			return nil, fmt.Errorf("unsupported ref scheme: %s", uri.Scheme)
		}
	}
	return loader
}

// detectSpecVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else error.
func detectSpecVersion(data []byte) (int, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, fmt.Errorf("parse description: %w", err)
	}
	if v, ok := root["openapi"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
			return 3, nil
		}
	}
	if v, ok := root["swagger"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "2.") {
			return 2, nil
		}
	}
	return 0, fmt.Errorf("contract: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

func convertV2ToV3(data []byte) (*openapi3.T, error) {
	var v2 openapi2.T
	// openapi2 types only implement UnmarshalJSON; use the YAML-to-JSON
	// unmarshaler kin-openapi itself uses so nested refs decode correctly.
	if err := jsonyaml.Unmarshal(data, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode < 300 {
			defer resp.Body.Close()
			return io.ReadAll(resp.Body)
		}
		if err != nil {
			lastErr = err
		} else {
			defer resp.Body.Close()
			if resp.StatusCode >= 500 || resp.StatusCode == 429 {
				lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
			} else {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

func mapValidateOrParseErr(err error, location string) error {
	code := ValidationError
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "parse") || strings.Contains(lower, "invalid character") {
		code = ParseError
	}
	return &LoadError{Code: code, Message: err.Error(), Location: location, Cause: err}
}

// canProceedDespiteValidation returns true for validation errors where a
// best-effort build can still proceed (e.g., unresolved $ref entries).
func canProceedDespiteValidation(err error) bool {
	if err == nil {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref")
}
