package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/driftgames/arcade/pkg/entities"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const createTransactionsTableSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		amount INTEGER NOT NULL,
		type TEXT NOT NULL,
		description TEXT,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		balance_after INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp DESC)`

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite ledger repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec(createTransactionsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating transactions table: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// AddTransaction records a new transaction
func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, type, description, timestamp, balance_after)
		VALUES (?, ?, ?, ?, ?, ?)`,
		transaction.ID,
		transaction.Amount,
		string(transaction.Type),
		transaction.Description,
		transaction.Timestamp.Format(time.RFC3339),
		transaction.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("error inserting transaction: %w", err)
	}
	return nil
}

// GetTransactions retrieves the most recent transactions
func (r *SQLiteRepository) GetTransactions(ctx context.Context, limit int) ([]*entities.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, type, description, timestamp, balance_after
		FROM transactions ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var result []*entities.Transaction
	for rows.Next() {
		var tx entities.Transaction
		var txType, timestamp string
		if err := rows.Scan(&tx.ID, &tx.Amount, &txType, &tx.Description, &timestamp, &tx.BalanceAfter); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		tx.Type = entities.TransactionType(txType)
		if parsed, err := time.Parse(time.RFC3339, timestamp); err == nil {
			tx.Timestamp = parsed
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
