package secondary

import (
	"context"

	"gitlab.com/judge-session.net/internal/domain"
)

type CodeExecutor interface {
	// Execute runs the payload's source against its test cases and returns
	// one raw result per executed case. Status fields are advisory only.
	Execute(ctx context.Context, payload *domain.SubmissionPayload) ([]domain.ExecutionResult, error)
}
