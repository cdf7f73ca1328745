package ledger

import (
	"context"

	"github.com/driftgames/arcade/pkg/entities"
)

// Repository defines the interface for wallet transaction history
type Repository interface {
	// AddTransaction records a new transaction
	AddTransaction(ctx context.Context, transaction *entities.Transaction) error

	// GetTransactions retrieves the most recent transactions, newest first
	GetTransactions(ctx context.Context, limit int) ([]*entities.Transaction, error)
}
