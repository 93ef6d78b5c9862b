package registry

import (
	"github.com/google/uuid"

	"gitlab.com/judge-session.net/internal/core/services/session"
	"gitlab.com/judge-session.net/internal/domain"
)

// IRegistry keeps the live judging sessions of every identity
type IRegistry interface {
	Create(identity string, refs []domain.QuestionRef) (uuid.UUID, session.INavigator, error)
	Get(identity string, id uuid.UUID) (session.INavigator, error)
	Delete(identity string, id uuid.UUID) error
	Len() int
}

// NavigatorFactory builds the navigator of a new session
type NavigatorFactory func(identity string, refs []domain.QuestionRef) (session.INavigator, error)
