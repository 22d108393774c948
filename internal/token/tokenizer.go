package token

import (
	"sort"
	"strings"

	"github.com/dshills/langkit/internal/profile"
)

// Tokenize classifies one line under the given scan state and profile.
//
// Categories are tried in declared priority order; each category claims all
// matches of its pattern that fall entirely inside still-unclaimed spans,
// and later categories can never reclaim a claimed span. Whatever remains
// unclaimed is filled with plain tokens, so the result always partitions
// [0, len(line)).
//
// Block comments run through the priority scan: an incoming
// StateBlockComment forces everything up to and including the end marker
// into the comment category before any pattern is tried, and an
// unterminated start marker flips the returned state to StateBlockComment
// for the following lines. Tokenize never mutates shared state; calling it
// twice with the same inputs yields identical output.
func Tokenize(line string, st ScanState, p *profile.Profile) ([]Token, ScanState) {
	claimed := make([]bool, len(line))
	tokens := make([]Token, 0, 8)
	next := StateNormal
	if st == StateSignature {
		// Signature continuation classifies like normal text; the state
		// itself belongs to the definition extractor.
		next = StateSignature
	}

	// Resume an open block comment from the previous line.
	scanFrom := 0
	if st == StateBlockComment {
		end := len(line)
		terminated := false
		if p.BlockEnd != "" {
			if idx := strings.Index(line, p.BlockEnd); idx >= 0 {
				end = idx + len(p.BlockEnd)
				terminated = true
			}
		}
		if end > 0 {
			tokens = append(tokens, Token{
				Category: profile.CommentCategory,
				Start:    0,
				End:      end,
				Text:     line[:end],
			})
			mark(claimed, 0, end)
		}
		if !terminated {
			return tokens, StateBlockComment
		}
		scanFrom = end
	}

	// Claim block comments opened (and possibly closed) on this line.
	if p.BlockStart != "" && p.BlockEnd != "" {
		pos := scanFrom
		for {
			rel := strings.Index(line[pos:], p.BlockStart)
			if rel < 0 {
				break
			}
			start := pos + rel
			after := start + len(p.BlockStart)
			relEnd := strings.Index(line[after:], p.BlockEnd)
			if relEnd < 0 {
				tokens = append(tokens, Token{
					Category: profile.CommentCategory,
					Start:    start,
					End:      len(line),
					Text:     line[start:],
				})
				mark(claimed, start, len(line))
				next = StateBlockComment
				break
			}
			end := after + relEnd + len(p.BlockEnd)
			tokens = append(tokens, Token{
				Category: profile.CommentCategory,
				Start:    start,
				End:      end,
				Text:     line[start:end],
			})
			mark(claimed, start, end)
			pos = end
		}
	}

	// Priority scan: each category matches only inside unclaimed gaps.
	for _, rule := range p.Categories {
		for _, gap := range gaps(claimed) {
			segment := line[gap[0]:gap[1]]
			for _, m := range rule.Pattern.FindAllStringIndex(segment, -1) {
				s, e := gap[0]+m[0], gap[0]+m[1]
				if e == s {
					continue
				}
				tokens = append(tokens, Token{
					Category: rule.Category,
					Start:    s,
					End:      e,
					Text:     line[s:e],
				})
				mark(claimed, s, e)
			}
		}
	}

	// Fill whatever is left with plain tokens.
	for _, gap := range gaps(claimed) {
		tokens = append(tokens, Token{
			Category: profile.PlainCategory,
			Start:    gap[0],
			End:      gap[1],
			Text:     line[gap[0]:gap[1]],
		})
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Start < tokens[j].Start
	})
	return tokens, next
}

// mark claims the half-open range [start, end).
func mark(claimed []bool, start, end int) {
	if start < 0 {
		start = 0
	}
	for i := start; i < end && i < len(claimed); i++ {
		claimed[i] = true
	}
}

// gaps returns the maximal unclaimed half-open ranges, in order.
func gaps(claimed []bool) [][2]int {
	var out [][2]int
	i := 0
	for i < len(claimed) {
		if claimed[i] {
			i++
			continue
		}
		start := i
		for i < len(claimed) && !claimed[i] {
			i++
		}
		out = append(out, [2]int{start, i})
	}
	return out
}
