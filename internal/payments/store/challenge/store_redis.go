package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	id "railhub/pkg/domain"
)

var _ ports.ChallengeStore = (*RedisStore)(nil)

const keyPrefix = "sca:challenge:"

// completeScript atomically marks a pending challenge completed. KEYS[1] is
// the challenge key, ARGV[1] the updated JSON document. Returns 1 when this
// call won the transition, 0 when the challenge is gone or already done.
var completeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return 0
end
local doc = cjson.decode(raw)
if doc.completed then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1], "KEEPTTL")
return 1
`)

// RedisStore persists challenges in Redis with a TTL matching the challenge
// expiry, so expired challenges disappear on their own.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func challengeKey(challengeID id.ChallengeID) string {
	return keyPrefix + challengeID.String()
}

// Create stores the challenge with a TTL equal to its remaining lifetime.
func (s *RedisStore) Create(ctx context.Context, ch *models.Challenge) error {
	ttl := time.Until(ch.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("challenge %s already expired", ch.ID)
	}
	raw, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	if err := s.client.Set(ctx, challengeKey(ch.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

// Get returns the challenge, or (nil, nil) when absent or expired away.
func (s *RedisStore) Get(ctx context.Context, challengeID id.ChallengeID) (*models.Challenge, error) {
	raw, err := s.client.Get(ctx, challengeKey(challengeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	var ch models.Challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &ch, nil
}

// CompleteIfPending runs the Lua transition so that exactly one concurrent
// caller observes pending and flips it.
func (s *RedisStore) CompleteIfPending(ctx context.Context, challengeID id.ChallengeID, now time.Time) (*models.Challenge, bool, error) {
	ch, err := s.Get(ctx, challengeID)
	if err != nil {
		return nil, false, err
	}
	if ch == nil {
		return nil, false, nil
	}
	if ch.Completed || ch.Expired(now) {
		return ch, false, nil
	}

	updated := *ch
	updated.Completed = true
	raw, err := json.Marshal(&updated)
	if err != nil {
		return nil, false, fmt.Errorf("marshal challenge: %w", err)
	}

	won, err := completeScript.Run(ctx, s.client, []string{challengeKey(challengeID)}, raw).Int()
	if err != nil {
		return nil, false, fmt.Errorf("complete challenge: %w", err)
	}
	if won != 1 {
		current, err := s.Get(ctx, challengeID)
		if err != nil || current == nil {
			return ch, false, err
		}
		return current, false, nil
	}
	return &updated, true, nil
}
