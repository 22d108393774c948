package profile

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// ErrProfileNotFound reports that no document exists for a language id.
// The caller still receives a usable fallback profile.
var ErrProfileNotFound = errors.New("language profile not found")

// Registry resolves language ids to compiled profiles.
//
// Profiles come from <dir>/<id>.json when a directory is configured, then
// from the embedded built-in set. Compiled profiles are cached by id;
// repeated Load calls return the cached value. A load problem is reported
// once, on the call that did the work; the substituted fallback profile is
// cached like any other.
type Registry struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	cache *gocache.Cache
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDir adds an on-disk profile directory searched before the built-ins.
func WithDir(dir string) RegistryOption {
	return func(r *Registry) { r.dir = dir }
}

// WithLogger sets the logger used for load warnings.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a registry over the embedded built-in profiles.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load resolves and compiles the profile for a language id.
//
// The returned profile is always usable. When the document is missing or
// structurally invalid, Load returns the fallback plain profile together
// with a non-nil error describing the problem; the error is a warning, not
// a failure, and editing continues unhighlighted.
func (r *Registry) Load(languageID string) (*Profile, error) {
	id := strings.ToLower(languageID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache.Get(id); ok {
		return cached.(*Profile), nil
	}

	prof, err := r.loadLocked(id)
	r.cache.Set(id, prof, gocache.NoExpiration)
	return prof, err
}

// Reload drops the cached profile for a language id and loads it again.
func (r *Registry) Reload(languageID string) (*Profile, error) {
	id := strings.ToLower(languageID)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(id)
	prof, err := r.loadLocked(id)
	r.cache.Set(id, prof, gocache.NoExpiration)
	return prof, err
}

func (r *Registry) loadLocked(id string) (*Profile, error) {
	data, err := r.readDocument(id)
	if err != nil {
		r.logger.Warn("profile not found, using plain fallback", "language", id)
		return Fallback(id), fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}

	prof, err := Parse(data)
	if err != nil {
		r.logger.Warn("profile failed structural check, using plain fallback",
			"language", id, "error", err)
		return Fallback(id), fmt.Errorf("profile %q: %w", id, err)
	}
	for _, w := range prof.Warnings {
		r.logger.Warn("profile load warning", "language", id, "warning", w)
	}
	return prof, nil
}

func (r *Registry) readDocument(id string) ([]byte, error) {
	if r.dir != "" {
		data, err := os.ReadFile(filepath.Join(r.dir, id+".json"))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return builtinFS.ReadFile("builtin/" + id + ".json")
}

// Languages returns the sorted ids of every loadable profile document.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)

	entries, err := builtinFS.ReadDir("builtin")
	if err == nil {
		for _, e := range entries {
			seen[strings.TrimSuffix(e.Name(), ".json")] = true
		}
	}
	if r.dir != "" {
		disk, err := os.ReadDir(r.dir)
		if err == nil {
			for _, e := range disk {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
					seen[strings.TrimSuffix(e.Name(), ".json")] = true
				}
			}
		}
	}

	langs := make([]string, 0, len(seen))
	for id := range seen {
		langs = append(langs, id)
	}
	sort.Strings(langs)
	return langs
}
