package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftgames/arcade/pkg/entities"
)

func TestGetTransactionsNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()

	for i := 0; i < 5; i++ {
		err := repo.AddTransaction(context.Background(), &entities.Transaction{
			Type:        entities.TransactionTypeCredit,
			Amount:      int64(i + 1),
			Description: fmt.Sprintf("credit %d", i+1),
		})
		require.NoError(t, err)
	}

	txs, err := repo.GetTransactions(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, int64(5), txs[0].Amount)
	assert.Equal(t, int64(4), txs[1].Amount)
	assert.Equal(t, int64(3), txs[2].Amount)
}

func TestGetTransactionsWithoutLimitReturnsAll(t *testing.T) {
	repo := NewMemoryRepository()

	for i := 0; i < 3; i++ {
		err := repo.AddTransaction(context.Background(), &entities.Transaction{
			Type:   entities.TransactionTypeDebit,
			Amount: -1,
		})
		require.NoError(t, err)
	}

	txs, err := repo.GetTransactions(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, txs, 3)
}

func TestAddTransactionFillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepository()

	tx := &entities.Transaction{Type: entities.TransactionTypeCredit, Amount: 10}
	require.NoError(t, repo.AddTransaction(context.Background(), tx))

	txs, err := repo.GetTransactions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.NotEmpty(t, txs[0].ID)
	assert.False(t, txs[0].Timestamp.IsZero())
}
