// Package engine orchestrates per-buffer analysis across two tiers: a
// synchronous foreground path (tokens and indent decisions for visible
// lines) and a debounced, cancellable background path (definitions,
// symbols, and the completion index over the full buffer).
package engine

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/langkit/internal/extract"
	"github.com/dshills/langkit/internal/indent"
	"github.com/dshills/langkit/internal/profile"
	"github.com/dshills/langkit/internal/token"
)

// DefaultDebounce is the quiet period after the last edit before a
// background pass runs.
const DefaultDebounce = 300 * time.Millisecond

// bufferMap is a mutex-guarded id-to-buffer table. A plain map under a
// RWMutex beats sync.Map here: the set of open buffers is small and
// mutations (open/close) are rare next to lookups.
type bufferMap struct {
	mu sync.RWMutex
	m  map[string]*buffer
}

func (bm *bufferMap) store(id string, b *buffer) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.m == nil {
		bm.m = make(map[string]*buffer)
	}
	bm.m[id] = b
}

func (bm *bufferMap) load(id string) (*buffer, bool) {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	b, ok := bm.m[id]
	return b, ok
}

func (bm *bufferMap) delete(id string) (*buffer, bool) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	b, ok := bm.m[id]
	if ok {
		delete(bm.m, id)
	}
	return b, ok
}

var (
	// ErrUnknownBuffer reports an id with no open buffer.
	ErrUnknownBuffer = errors.New("unknown buffer")

	// ErrLineOutOfRange reports a line index outside the buffer.
	ErrLineOutOfRange = errors.New("line index out of range")
)

// Options configures an Engine.
type Options struct {
	// Debounce is the background-pass quiet period. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// Logger receives load warnings and background-pass diagnostics.
	// Nil means discard.
	Logger *slog.Logger
}

// Engine owns all open buffers and their derived analysis state.
//
// Buffers are fully independent: analyses of different buffers may run
// concurrently, while per-buffer state is serialized by that buffer alone.
// Profiles are immutable after load and shared freely.
type Engine struct {
	registry *profile.Registry
	logger   *slog.Logger
	debounce time.Duration

	buffers bufferMap
}

// New creates an engine over the given profile registry.
func New(registry *profile.Registry, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Engine{
		registry: registry,
		logger:   logger,
		debounce: debounce,
	}
}

// OpenBuffer registers a buffer with the given language and initial text
// and returns its id. The first background pass is scheduled immediately.
//
// A missing or invalid profile is not an error here: the registry
// substitutes the plain fallback and the warning has already been logged.
func (e *Engine) OpenBuffer(languageID, text string) string {
	prof, err := e.registry.Load(languageID)
	if err != nil {
		e.logger.Warn("buffer opened with fallback profile",
			"language", languageID, "error", err)
	}

	id := uuid.NewString()
	buf := newBuffer(id, prof, text, e.logger)
	buf.debounce = newDebouncer(e.debounce, buf.runBackground)
	e.buffers.store(id, buf)

	buf.scheduleBackground(true)
	return id
}

// CloseBuffer discards a buffer and all derived state, cancelling any
// in-flight background pass.
func (e *Engine) CloseBuffer(id string) {
	if buf, ok := e.buffers.delete(id); ok {
		buf.close()
	}
}

// SetText replaces a buffer's content after an edit. Cached line analysis
// is invalidated from the edited line forward and a background pass is
// (re)scheduled after the debounce window.
func (e *Engine) SetText(id, text string, fromLine int) error {
	buf, ok := e.buffers.load(id)
	if !ok {
		return ErrUnknownBuffer
	}
	buf.setText(text, fromLine)
	buf.scheduleBackground(true)
	return nil
}

// Notify invalidates cached analysis from the edited line forward without
// changing the text the engine holds, for hosts that mutate lines in
// place. A background pass is rescheduled.
func (e *Engine) Notify(id string, fromLine int) error {
	buf, ok := e.buffers.load(id)
	if !ok {
		return ErrUnknownBuffer
	}
	buf.invalidateFrom(fromLine)
	buf.scheduleBackground(true)
	return nil
}

// TokensForLine returns the classified tokens for one line. This is the
// foreground path: work is bounded by the requested line, so callers that
// ask only for the visible range stay within an input-frame budget.
func (e *Engine) TokensForLine(id string, line int) ([]token.Token, error) {
	buf, ok := e.buffers.load(id)
	if !ok {
		return nil, ErrUnknownBuffer
	}
	return buf.tokensForLine(line)
}

// IndentDecisionForLine returns the indent decision a line implies for the
// line that follows it.
func (e *Engine) IndentDecisionForLine(id string, line int) (indent.Decision, error) {
	buf, ok := e.buffers.load(id)
	if !ok {
		return indent.None, ErrUnknownBuffer
	}
	return buf.indentDecisionForLine(line)
}

// DefinitionsSnapshot returns the definitions published by the most recent
// completed background pass.
func (e *Engine) DefinitionsSnapshot(id string) ([]extract.Definition, error) {
	buf, ok := e.buffers.load(id)
	if !ok {
		return nil, ErrUnknownBuffer
	}
	return buf.definitionsSnapshot(), nil
}

// SymbolsSnapshot returns the symbols published by the most recent
// completed background pass.
func (e *Engine) SymbolsSnapshot(id string) ([]extract.Symbol, error) {
	buf, ok := e.buffers.load(id)
	if !ok {
		return nil, ErrUnknownBuffer
	}
	return buf.symbolsSnapshot(), nil
}

// CurrentSuggestions returns the ranked completion candidates for a typed
// prefix from the most recent completed background pass.
func (e *Engine) CurrentSuggestions(id, typedPrefix string) ([]string, error) {
	buf, ok := e.buffers.load(id)
	if !ok {
		return nil, ErrUnknownBuffer
	}
	return buf.suggestions(typedPrefix), nil
}

// Flush forces any pending background pass to run now and waits for the
// result to publish. Intended for one-shot hosts (the CLI) and tests;
// interactive hosts rely on the debounce window instead.
func (e *Engine) Flush(id string) error {
	buf, ok := e.buffers.load(id)
	if !ok {
		return ErrUnknownBuffer
	}
	buf.scheduleBackground(false)
	buf.wg.Wait()
	return nil
}
