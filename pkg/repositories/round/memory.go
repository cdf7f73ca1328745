package round

import (
	"context"
	"sync"
	"time"

	"github.com/driftgames/arcade/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	mu     sync.RWMutex
	rounds []*entities.RoundResult
}

// NewMemoryRepository creates a new in-memory round repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveRound records one settled round
func (r *MemoryRepository) SaveRound(ctx context.Context, result *entities.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}

	resCopy := *result
	r.rounds = append(r.rounds, &resCopy)
	return nil
}

// GetRounds retrieves the most recent rounds for a game
func (r *MemoryRepository) GetRounds(ctx context.Context, game string, limit int) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.RoundResult, 0, limit)
	for i := len(r.rounds) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		if game != "" && r.rounds[i].Game != game {
			continue
		}
		resCopy := *r.rounds[i]
		result = append(result, &resCopy)
	}
	return result, nil
}
