// Package suggest builds and queries the ranked completion index merging a
// profile's static suggestion categories with dynamically extracted
// symbols.
package suggest

import (
	"strings"

	"github.com/dshills/langkit/internal/extract"
	"github.com/dshills/langkit/internal/profile"
)

// entry is one completion candidate with its rank inputs.
type entry struct {
	text string

	// static marks profile-declared literals; they outrank extracted
	// symbols within the same case-match rank.
	static bool

	// category is the static category name, empty for symbols.
	category string
}

// Index is an immutable ranked completion candidate list. It is rebuilt,
// never patched: a background pass replaces the whole index at once.
type Index struct {
	entries []entry
}

// Build creates an index from a profile's static suggestion categories and
// the symbols of the latest extraction pass. Statics keep declaration
// order, symbols keep first-seen order, and a symbol whose name collides
// with a static literal collapses into the static entry.
func Build(p *profile.Profile, symbols []extract.Symbol) *Index {
	seen := make(map[string]bool)
	ix := &Index{}

	for _, cat := range p.Suggestions {
		for _, item := range cat.Items {
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			ix.entries = append(ix.entries, entry{text: item, static: true, category: cat.Name})
		}
	}
	for _, sym := range symbols {
		if sym.Name == "" || seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true
		ix.entries = append(ix.entries, entry{text: sym.Name})
	}
	return ix
}

// Len returns the number of candidates in the index.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Query returns candidates matching the typed prefix, ranked:
//
//  1. exact case-sensitive prefix matches before case-insensitive-only
//     matches,
//  2. static entries before extracted symbols within the same case rank,
//  3. remaining ties in first-seen order.
//
// An empty prefix returns every candidate in rank order.
func (ix *Index) Query(prefix string) []string {
	return ix.query(prefix, nil)
}

// QueryExcluding is Query with the named static categories removed, so a
// caller can drop, say, operator literals from a popup.
func (ix *Index) QueryExcluding(prefix string, exclude ...string) []string {
	if len(exclude) == 0 {
		return ix.query(prefix, nil)
	}
	drop := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		drop[name] = true
	}
	return ix.query(prefix, drop)
}

func (ix *Index) query(prefix string, drop map[string]bool) []string {
	lower := strings.ToLower(prefix)

	// Entries are stored statics-first in first-seen order, so filtering
	// into case buckets preserves ranks 2 and 3 for free.
	var exact, folded []string
	for _, e := range ix.entries {
		if e.static && drop != nil && drop[e.category] {
			continue
		}
		switch {
		case strings.HasPrefix(e.text, prefix):
			exact = append(exact, e.text)
		case prefix != "" && strings.HasPrefix(strings.ToLower(e.text), lower):
			folded = append(folded, e.text)
		}
	}
	return append(exact, folded...)
}
