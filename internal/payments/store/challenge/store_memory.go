// Package challenge provides the SCA challenge stores. The in-memory store
// serves single-instance deployments and tests; RedisStore is the
// multi-instance implementation.
package challenge

import (
	"context"
	"sync"
	"time"

	"railhub/internal/payments/models"
	"railhub/internal/payments/ports"
	id "railhub/pkg/domain"
)

var _ ports.ChallengeStore = (*InMemoryStore)(nil)

// InMemoryStore keeps challenges in a mutex-guarded map. Expired entries
// stay until Purge runs; reads treat them as unusable either way.
type InMemoryStore struct {
	mu         sync.RWMutex
	challenges map[id.ChallengeID]*models.Challenge
}

// NewInMemoryStore creates an empty in-memory challenge store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		challenges: make(map[id.ChallengeID]*models.Challenge),
	}
}

// Create persists a copy of the challenge.
func (s *InMemoryStore) Create(_ context.Context, ch *models.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *ch
	s.challenges[ch.ID] = &clone
	return nil
}

// Get returns a copy of the challenge, or (nil, nil) when absent.
func (s *InMemoryStore) Get(_ context.Context, challengeID id.ChallengeID) (*models.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.challenges[challengeID]
	if !ok {
		return nil, nil
	}
	clone := *ch
	return &clone, nil
}

// CompleteIfPending transitions the challenge to completed exactly once.
// The check and the write share one critical section, so concurrent callers
// can never both win.
func (s *InMemoryStore) CompleteIfPending(_ context.Context, challengeID id.ChallengeID, now time.Time) (*models.Challenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[challengeID]
	if !ok || ch.Completed || ch.Expired(now) {
		if !ok {
			return nil, false, nil
		}
		clone := *ch
		return &clone, false, nil
	}

	ch.Completed = true
	clone := *ch
	return &clone, true, nil
}

// Purge removes expired challenges. Called periodically by the host; the
// store itself never schedules work.
func (s *InMemoryStore) Purge(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for challengeID, ch := range s.challenges {
		if ch.Expired(now) {
			delete(s.challenges, challengeID)
			removed++
		}
	}
	return removed
}
