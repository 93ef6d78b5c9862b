package registry

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/judge-session.net/internal/adapter/logging"
	"gitlab.com/judge-session.net/internal/core/services/session"
	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

var refs = []domain.QuestionRef{{Subject: "python", QuestionID: "q-1"}}

func factory(identity string, refs []domain.QuestionRef) (session.INavigator, error) {
	return session.NewNavigator(identity, refs, session.Dependencies{})
}

func newRegistry(t *testing.T, max int) *Registry {
	t.Helper()
	r, err := NewRegistry(max, factory, logging.NewNopLogger())
	require.NoError(t, err)
	return r
}

func TestCreateAndGet(t *testing.T) {
	r := newRegistry(t, 4)

	id, nav, err := r.Create("alice", refs)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := r.Get("alice", id)
	require.NoError(t, err)
	assert.Same(t, nav, got)
	assert.Equal(t, "alice", got.Identity())
}

func TestOwnership(t *testing.T) {
	r := newRegistry(t, 4)
	id, _, err := r.Create("alice", refs)
	require.NoError(t, err)

	_, err = r.Get("bob", id)
	assert.ErrorIs(t, err, errs.SessionForbidden)
	assert.ErrorIs(t, r.Delete("bob", id), errs.SessionForbidden)

	_, err = r.Get("alice", uuid.New())
	assert.ErrorIs(t, err, errs.SessionNotFound)

	require.NoError(t, r.Delete("alice", id))
	_, err = r.Get("alice", id)
	assert.ErrorIs(t, err, errs.SessionNotFound)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	r := newRegistry(t, 2)

	first, _, err := r.Create("alice", refs)
	require.NoError(t, err)
	second, _, err := r.Create("alice", refs)
	require.NoError(t, err)

	// touch the first so the second becomes the oldest
	_, err = r.Get("alice", first)
	require.NoError(t, err)

	_, _, err = r.Create("alice", refs)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	_, err = r.Get("alice", first)
	assert.NoError(t, err)
	_, err = r.Get("alice", second)
	assert.ErrorIs(t, err, errs.SessionNotFound)
}

func TestCreateFailure(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewRegistry(2, func(string, []domain.QuestionRef) (session.INavigator, error) {
		return nil, boom
	}, logging.NewNopLogger())
	require.NoError(t, err)

	_, _, err = r.Create("alice", refs)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.Len())
}

func TestNewRegistryRejectsZeroSize(t *testing.T) {
	_, err := NewRegistry(0, factory, logging.NewNopLogger())
	assert.Error(t, err)
}
