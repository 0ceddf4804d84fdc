// Package engine is the transport collaborator around the mock core: it
// loads contract documents, keeps them in a registry, and serves synthetic
// responses over HTTP.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/specmock/specmock/internal/contract"
	"github.com/specmock/specmock/internal/generator"
	"github.com/specmock/specmock/internal/logging"
	"github.com/specmock/specmock/internal/merge"
	"github.com/specmock/specmock/internal/registry"
)

// Options configures a Server.
type Options struct {
	// Sources are contract description inputs (file paths or URLs), loaded
	// in order. Declaration order inside each document is preserved.
	Sources []string

	// DefaultSpec optionally names the source served when a request does not
	// select a spec. When empty, the merged union of all sources is the
	// default.
	DefaultSpec string

	// Generator tunes synthetic value generation.
	Generator generator.Config

	// Loader options are passed through to the contract loader.
	Loader []contract.Option

	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Server dispatches incoming requests against loaded contract documents.
type Server struct {
	reg  *registry.Registry
	gen  *generator.Generator
	opts Options
	log  *slog.Logger
}

// New creates a Server. Call Load before serving.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		reg:  registry.New(),
		gen:  generator.New(opts.Generator),
		opts: opts,
		log:  log,
	}
}

// Registry exposes the underlying spec registry for administrative queries.
func (s *Server) Registry() *registry.Registry { return s.reg }

// Load reads every configured source and publishes the resulting document
// set atomically. A source that fails to load is reported and skipped; the
// remaining documents still load. The merged union of all loaded documents
// is registered under registry.DefaultName and serves as the default unless
// Options.DefaultSpec overrides it.
func (s *Server) Load(ctx context.Context) error {
	names := make([]string, 0, len(s.opts.Sources))
	docs := make(map[string]*contract.Document, len(s.opts.Sources)+1)
	var ordered []*contract.Document

	for _, src := range s.opts.Sources {
		doc, err := contract.Load(ctx, src, s.opts.Loader...)
		if err != nil {
			s.log.Error("skipping spec that failed to load", "source", src, "error", err)
			continue
		}
		name := specName(src, docs)
		names = append(names, name)
		docs[name] = doc
		ordered = append(ordered, doc)
		s.log.Info("loaded spec", "name", name, "title", doc.Info.Title, "paths", len(doc.Paths))
	}

	unified, warnings := merge.Merge(ordered)
	for _, w := range warnings {
		s.log.Warn(w)
	}

	defaultName := registry.DefaultName
	if _, taken := docs[defaultName]; !taken {
		names = append(names, defaultName)
		docs[defaultName] = unified
	}
	if s.opts.DefaultSpec != "" {
		if _, ok := docs[s.opts.DefaultSpec]; !ok {
			return &registry.NotFoundError{Name: s.opts.DefaultSpec}
		}
		defaultName = s.opts.DefaultSpec
	}

	s.reg.ReplaceAll(names, docs, defaultName)
	s.log.Info("published spec set", "specs", len(names), "default", defaultName)
	return nil
}

// specName derives a registry name from a source path or URL, disambiguating
// duplicates with a numeric suffix.
func specName(src string, taken map[string]*contract.Document) string {
	base := filepath.Base(strings.TrimRight(src, "/"))
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." {
		base = "spec"
	}
	name := base
	for i := 2; ; i++ {
		if _, exists := taken[name]; !exists {
			return name
		}
		name = base + "-" + strconv.Itoa(i)
	}
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("mock server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
