// Package indent evaluates a profile's indent and dedent trigger patterns
// against a line to drive auto-indent behavior.
package indent

import (
	"regexp"
	"strings"

	"github.com/dshills/langkit/internal/profile"
)

// Decision is the indentation effect a line has on the line that
// textually follows it.
type Decision int

const (
	// None leaves the following line at the current level.
	None Decision = iota

	// Increase indents the following line by one unit.
	Increase

	// Decrease dedents the following line by one unit.
	Decrease
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "none"
	}
}

// Evaluate computes the indent decision a line implies for the line that
// follows it. The line is whitespace-trimmed before the trigger patterns
// are tried in declared order.
//
// A line can close one block and open another ("} else {"): when both
// trigger classes match, the dedent applies to the line itself (see
// ClosesBlock) while the following line is still indented, so Evaluate
// reports Increase.
func Evaluate(line string, p *profile.Profile) Decision {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return None
	}
	if anyMatch(p.IndentTriggers, trimmed) {
		return Increase
	}
	if anyMatch(p.DedentTriggers, trimmed) {
		return Decrease
	}
	return None
}

// ClosesBlock reports whether the line's own indentation should drop by one
// unit, independent of the effect on the following line.
func ClosesBlock(line string, p *profile.Profile) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return anyMatch(p.DedentTriggers, trimmed)
}

func anyMatch(triggers []*regexp.Regexp, line string) bool {
	for _, re := range triggers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
