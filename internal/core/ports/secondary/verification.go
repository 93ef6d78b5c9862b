package secondary

import (
	"context"

	"gitlab.com/judge-session.net/internal/domain"
)

// VerificationQuery selects all verification records of an identity for a
// subject and question type
type VerificationQuery struct {
	Identity     string
	Subject      string
	QuestionType domain.QuestionType
}

type VerificationStore interface {
	// ListVerifications retrieves verification records, filtering is left to the caller
	ListVerifications(ctx context.Context, query VerificationQuery) ([]domain.VerificationRecord, error)
}
