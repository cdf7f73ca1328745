package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/driftgames/arcade/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	mu           sync.RWMutex
	transactions []*entities.Transaction
}

// NewMemoryRepository creates a new in-memory ledger repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// AddTransaction records a new transaction
func (r *MemoryRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	// Copy to prevent later mutation by the caller.
	txCopy := *transaction
	r.transactions = append(r.transactions, &txCopy)
	return nil
}

// GetTransactions retrieves the most recent transactions, newest first
func (r *MemoryRepository) GetTransactions(ctx context.Context, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.transactions)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]*entities.Transaction, 0, n)
	for i := len(r.transactions) - 1; i >= 0 && len(result) < n; i-- {
		txCopy := *r.transactions[i]
		result = append(result, &txCopy)
	}
	return result, nil
}
