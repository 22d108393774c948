package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dshills/langkit/internal/extract"
	"github.com/dshills/langkit/internal/indent"
	"github.com/dshills/langkit/internal/profile"
	"github.com/dshills/langkit/internal/suggest"
	"github.com/dshills/langkit/internal/token"
)

// lineResult is one slot of the per-buffer analysis arena: the tokens of a
// line plus the scan state at its end, which seeds the next line.
type lineResult struct {
	tokens   []token.Token
	endState token.ScanState
	valid    bool
}

// buffer holds all per-buffer derived state. It is exclusively owned by
// its Engine entry; the mutex orders foreground calls against background
// publishes, never two passes of the same buffer.
type buffer struct {
	id      string
	profile *profile.Profile
	logger  *slog.Logger

	mu    sync.Mutex
	lines []string

	// arena caches per-line results, invalidated from the edited line
	// forward so incremental re-analysis never rescans the whole buffer.
	arena []lineResult

	// Background pass state: a pass publishes only if its generation is
	// still current when it finishes (last-writer-wins). closed stops a
	// straggling debounce callback from starting a pass after close; the
	// wg.Add in runBackground happens under mu so close and Flush never
	// race a Wait against a concurrent Add.
	generation uint64
	closed     bool
	cancel     context.CancelFunc
	debounce   *debouncer
	wg         sync.WaitGroup

	// Published background results.
	defs    []extract.Definition
	symbols []extract.Symbol
	index   *suggest.Index
}

func newBuffer(id string, prof *profile.Profile, text string, logger *slog.Logger) *buffer {
	b := &buffer{
		id:      id,
		profile: prof,
		logger:  logger,
		lines:   strings.Split(text, "\n"),
	}
	b.arena = make([]lineResult, len(b.lines))
	return b
}

// setText replaces the buffer content and invalidates cached analysis from
// the edited line forward.
func (b *buffer) setText(text string, fromLine int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = strings.Split(text, "\n")

	arena := make([]lineResult, len(b.lines))
	for i := 0; i < fromLine && i < len(arena) && i < len(b.arena); i++ {
		arena[i] = b.arena[i]
	}
	b.arena = arena
}

// invalidateFrom drops cached line results from the given line forward.
func (b *buffer) invalidateFrom(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if line < 0 {
		line = 0
	}
	for i := line; i < len(b.arena); i++ {
		b.arena[i] = lineResult{}
	}
}

// tokensForLine returns the cached tokens for a line, computing any invalid
// lines between the last valid result and the requested one. Work is
// bounded by the requested line, so viewport-sized requests stay cheap.
func (b *buffer) tokensForLine(line int) ([]token.Token, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if line < 0 || line >= len(b.lines) {
		return nil, ErrLineOutOfRange
	}
	b.ensureLocked(line)
	return b.arena[line].tokens, nil
}

// indentDecisionForLine evaluates the indent triggers for a line.
func (b *buffer) indentDecisionForLine(line int) (indent.Decision, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if line < 0 || line >= len(b.lines) {
		return indent.None, ErrLineOutOfRange
	}
	return indent.Evaluate(b.lines[line], b.profile), nil
}

// ensureLocked fills arena slots up to and including the requested line.
// Invalidation always extends to the end of the buffer, so every valid
// slot's end state is still correct to seed from.
func (b *buffer) ensureLocked(line int) {
	state := token.StateNormal
	for i := 0; i <= line; i++ {
		if b.arena[i].valid {
			state = b.arena[i].endState
			continue
		}
		tokens, next := token.Tokenize(b.lines[i], state, b.profile)
		b.arena[i] = lineResult{tokens: tokens, endState: next, valid: true}
		state = next
	}
}

// scheduleBackground debounces a full-buffer background pass.
func (b *buffer) scheduleBackground(delay bool) {
	if delay {
		b.debounce.Call()
		return
	}
	b.debounce.Flush()
}

// runBackground cancels any in-flight pass and starts a new one over a
// snapshot of the current text. The pass publishes nothing if it has been
// superseded by the time it finishes.
func (b *buffer) runBackground() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.generation++
	gen := b.generation
	text := strings.Join(b.lines, "\n")
	prof := b.profile
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		defer cancel()
		b.analyze(ctx, gen, text, prof)
	}()
}

// analyze is one background pass. It checks for cancellation between
// stages and re-checks its generation under the lock before publishing.
func (b *buffer) analyze(ctx context.Context, gen uint64, text string, prof *profile.Profile) {
	defs := extract.Definitions(text, prof)
	if ctx.Err() != nil {
		return
	}
	symbols := extract.MergeSymbols(extract.Symbols(text, prof), extract.Parameters(defs))
	if ctx.Err() != nil {
		return
	}
	index := suggest.Build(prof, symbols)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		// Superseded; a cancelled pass never publishes partial results.
		return
	}
	b.defs = defs
	b.symbols = symbols
	b.index = index
	b.logger.Debug("background pass published",
		"buffer", b.id,
		"definitions", len(defs),
		"symbols", len(symbols),
		"candidates", index.Len())
}

// definitionsSnapshot returns a copy of the last published definitions.
func (b *buffer) definitionsSnapshot() []extract.Definition {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]extract.Definition, len(b.defs))
	copy(out, b.defs)
	return out
}

// symbolsSnapshot returns a copy of the last published symbols.
func (b *buffer) symbolsSnapshot() []extract.Symbol {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]extract.Symbol, len(b.symbols))
	copy(out, b.symbols)
	return out
}

// suggestions queries the last published index. Before the first pass
// publishes, the profile's static candidates are served so the popup is
// never empty while the extractors warm up.
func (b *buffer) suggestions(prefix string) []string {
	b.mu.Lock()
	index := b.index
	prof := b.profile
	b.mu.Unlock()

	if index == nil {
		index = suggest.Build(prof, nil)
	}
	return index.Query(prefix)
}

// close cancels background work and waits for any in-flight pass. Once
// closed, a debounce callback that slipped past cancellation starts
// nothing.
func (b *buffer) close() {
	b.debounce.Cancel()
	b.mu.Lock()
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
	b.generation++ // ensure an in-flight pass cannot publish
	b.mu.Unlock()
	b.wg.Wait()
}
