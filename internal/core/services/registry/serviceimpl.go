package registry

import (
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/services/session"
	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

var _ IRegistry = (*Registry)(nil)

type entry struct {
	identity  string
	navigator session.INavigator
}

// Registry holds at most maxLive sessions; the least recently used one is
// dropped when a new session does not fit.
type Registry struct {
	sessions *lru.Cache[uuid.UUID, entry]
	factory  NavigatorFactory
	logger   primary.Logger
}

func NewRegistry(maxLive int, factory NavigatorFactory, logger primary.Logger) (*Registry, error) {
	sessions, err := lru.NewWithEvict[uuid.UUID, entry](maxLive, func(id uuid.UUID, _ entry) {
		logger.Info("Session evicted", "sessionId", id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session registry: %w", err)
	}
	return &Registry{
		sessions: sessions,
		factory:  factory,
		logger:   logger,
	}, nil
}

func (r *Registry) Create(identity string, refs []domain.QuestionRef) (uuid.UUID, session.INavigator, error) {
	nav, err := r.factory(identity, refs)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id := uuid.New()
	r.sessions.Add(id, entry{identity: identity, navigator: nav})
	r.logger.Info("Session created", "sessionId", id, "questions", len(refs))
	return id, nav, nil
}

// Get returns the session only to the identity that created it
func (r *Registry) Get(identity string, id uuid.UUID) (session.INavigator, error) {
	e, ok := r.sessions.Get(id)
	if !ok {
		return nil, errs.SessionNotFound
	}
	if subtle.ConstantTimeCompare([]byte(e.identity), []byte(identity)) != 1 {
		return nil, errs.SessionForbidden
	}
	return e.navigator, nil
}

func (r *Registry) Delete(identity string, id uuid.UUID) error {
	if _, err := r.Get(identity, id); err != nil {
		return err
	}
	r.sessions.Remove(id)
	return nil
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}
