package verificationcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/domain"
)

var _ secondary.VerificationStore = (*VerificationCache)(nil)

const (
	verificationKeyPrefix = "verification:"
	defaultExpiration     = 2 * time.Minute
)

// VerificationCache keeps verification listings in Redis in front of another
// VerificationStore. Redis failures are logged and the call goes straight to
// the underlying store.
type VerificationCache struct {
	next        secondary.VerificationStore
	redisClient *redis.Client
	expiration  time.Duration
	logger      primary.Logger
}

// NewVerificationCache creates a cache in front of next
func NewVerificationCache(next secondary.VerificationStore, redisClient *redis.Client, expiration time.Duration, logger primary.Logger) *VerificationCache {
	if expiration <= 0 {
		expiration = defaultExpiration
	}
	return &VerificationCache{
		next:        next,
		redisClient: redisClient,
		expiration:  expiration,
		logger:      logger,
	}
}

func (c *VerificationCache) ListVerifications(ctx context.Context, query secondary.VerificationQuery) ([]domain.VerificationRecord, error) {
	key := cacheKey(query)

	records, err := c.get(ctx, key)
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Verification cache unavailable", "error", err)
	}

	records, err = c.next.ListVerifications(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, key, records); err != nil {
		c.logger.Warn("Failed to cache verifications", "error", err)
	}
	return records, nil
}

func (c *VerificationCache) get(ctx context.Context, key string) ([]domain.VerificationRecord, error) {
	data, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var records []domain.VerificationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verifications: %w", err)
	}
	return records, nil
}

func (c *VerificationCache) set(ctx context.Context, key string, records []domain.VerificationRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal verifications: %w", err)
	}
	if err := c.redisClient.Set(ctx, key, data, c.expiration).Err(); err != nil {
		return fmt.Errorf("failed to save verifications: %w", err)
	}
	return nil
}

// cacheKey never embeds the raw identity token
func cacheKey(query secondary.VerificationQuery) string {
	sum := sha256.Sum256([]byte(query.Identity))
	return fmt.Sprintf("%s%s:%s:%s", verificationKeyPrefix, hex.EncodeToString(sum[:]), query.Subject, query.QuestionType)
}
