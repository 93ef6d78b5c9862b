package secondary

import (
	"context"

	"gitlab.com/judge-session.net/internal/domain"
)

// QuestionQuery selects a single question
type QuestionQuery struct {
	Subject      string
	QuestionID   string
	QuestionType domain.QuestionType
}

type QuestionStore interface {
	// FetchQuestions returns zero or one question matching the query
	FetchQuestions(ctx context.Context, identity string, query QuestionQuery) ([]*domain.Question, error)

	// SaveQuestion persists a committed question
	SaveQuestion(ctx context.Context, identity string, question *domain.Question) error
}
