// Package token classifies line text into ordered, non-overlapping syntax
// tokens using a language profile's category priorities.
//
// Tokenization is line-oriented with an explicit ScanState carried from the
// end of one line into the start of the next, so multi-line constructs
// (block comments, multi-line signatures) survive line boundaries without
// rescanning the buffer.
package token

// ScanState is the multi-line scanner mode at a line boundary. It is owned
// by exactly one buffer and never shared.
type ScanState uint8

const (
	// StateNormal means no multi-line construct is open.
	StateNormal ScanState = iota

	// StateBlockComment means a block comment opened on an earlier line
	// is still unterminated.
	StateBlockComment

	// StateSignature means a definition signature with an unmatched
	// opening parenthesis continues onto the next line. It is produced
	// and consumed by the definition extractor; token classification
	// treats it like StateNormal.
	StateSignature
)

// String returns the state name.
func (s ScanState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateBlockComment:
		return "block-comment"
	case StateSignature:
		return "signature"
	default:
		return "unknown"
	}
}

// Token is a classified span of a line. Offsets are line-relative bytes,
// half-open. The tokens returned for a line are sorted, non-overlapping,
// and jointly cover the entire line.
type Token struct {
	// Category is the profile-declared category label, or
	// profile.PlainCategory for unclaimed spans.
	Category string

	Start int
	End   int

	// Text is the matched slice of the line.
	Text string
}

// Len returns the token's byte length.
func (t Token) Len() int {
	return t.End - t.Start
}

// Contains reports whether the column falls inside the token.
func (t Token) Contains(col int) bool {
	return col >= t.Start && col < t.End
}
