package verification

import (
	"context"

	"gitlab.com/judge-session.net/internal/domain"
)

// Key identifies the question+tag pair a verification is looked up for
type Key struct {
	Subject      string
	QuestionType domain.QuestionType
	QuestionID   string
	Tag          string
}

// ITracker looks up whether an identity already verified a question
type ITracker interface {
	// Fetch returns the verification for key. On failure the returned
	// verification is the unverified zero value.
	Fetch(ctx context.Context, identity string, key Key) (domain.Verification, error)

	// Forget drops the cached entry for key
	Forget(identity string, key Key)
}
