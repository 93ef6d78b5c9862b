// Package mocks holds testify mocks of the secondary ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/domain"
)

var (
	_ secondary.QuestionStore     = (*QuestionStore)(nil)
	_ secondary.VerificationStore = (*VerificationStore)(nil)
	_ secondary.CodeExecutor      = (*CodeExecutor)(nil)
)

type QuestionStore struct {
	mock.Mock
}

func (m *QuestionStore) FetchQuestions(ctx context.Context, identity string, query secondary.QuestionQuery) ([]*domain.Question, error) {
	args := m.Called(ctx, identity, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *QuestionStore) SaveQuestion(ctx context.Context, identity string, question *domain.Question) error {
	args := m.Called(ctx, identity, question)
	return args.Error(0)
}

type VerificationStore struct {
	mock.Mock
}

func (m *VerificationStore) ListVerifications(ctx context.Context, query secondary.VerificationQuery) ([]domain.VerificationRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VerificationRecord), args.Error(1)
}

type CodeExecutor struct {
	mock.Mock
}

func (m *CodeExecutor) Execute(ctx context.Context, payload *domain.SubmissionPayload) ([]domain.ExecutionResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExecutionResult), args.Error(1)
}
