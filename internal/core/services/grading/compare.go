package grading

import "gitlab.com/judge-session.net/internal/domain"

// Compare gives the verdict for one executed case. Only trailing whitespace
// and trailing blank lines are forgiven.
func Compare(expected, actual string) domain.Verdict {
	if Normalize(expected) == Normalize(actual) {
		return domain.VerdictPassed
	}
	return domain.VerdictFailed
}
