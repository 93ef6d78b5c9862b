package verification

import (
	"context"
	"fmt"
	"sync"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

var _ ITracker = (*Tracker)(nil)

type cacheKey struct {
	identity string
	key      Key
}

// Tracker implements ITracker on top of a VerificationStore
type Tracker struct {
	store  secondary.VerificationStore
	logger primary.Logger

	mu    sync.Mutex
	cache map[cacheKey]domain.Verification
}

// NewTracker creates a new verification tracker
func NewTracker(store secondary.VerificationStore, logger primary.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
		cache:  make(map[cacheKey]domain.Verification),
	}
}

// Fetch looks up the verification for key, caching successful lookups
func (t *Tracker) Fetch(ctx context.Context, identity string, key Key) (domain.Verification, error) {
	ck := cacheKey{identity: identity, key: key}

	t.mu.Lock()
	if v, ok := t.cache[ck]; ok {
		t.mu.Unlock()
		return v, nil
	}
	t.mu.Unlock()

	t.logger.Debug("Fetching verification",
		"subject", key.Subject,
		"questionId", key.QuestionID,
		"tag", key.Tag)

	records, err := t.store.ListVerifications(ctx, secondary.VerificationQuery{
		Identity:     identity,
		Subject:      key.Subject,
		QuestionType: key.QuestionType,
	})
	if err != nil {
		t.logger.Warn("Failed to fetch verification", "questionId", key.QuestionID, "error", err)
		return domain.Verification{}, fmt.Errorf("%w: fetch verification: %w", errs.ErrNetwork, err)
	}

	v := Match(records, key.QuestionID, key.Tag)

	t.mu.Lock()
	t.cache[ck] = v
	t.mu.Unlock()

	return v, nil
}

// Forget drops the cached entry for key
func (t *Tracker) Forget(identity string, key Key) {
	t.mu.Lock()
	delete(t.cache, cacheKey{identity: identity, key: key})
	t.mu.Unlock()
}

// Match picks the first verified record for questionID and tag
func Match(records []domain.VerificationRecord, questionID, tag string) domain.Verification {
	for _, r := range records {
		if r.Verified && r.QuestionID == questionID && r.Tag == tag {
			return domain.Verification{Verified: true, SourceCode: r.SourceCode}
		}
	}
	return domain.Verification{}
}
