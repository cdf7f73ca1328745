package entities

import "time"

// TransactionType represents the type of wallet transaction
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeReset  TransactionType = "RESET"
)

// Transaction represents a single wallet mutation. The ledger is an
// append-only history; the wallet balance itself lives in the key-value
// store.
type Transaction struct {
	ID           string          `json:"id"`             // Unique identifier
	Amount       int64           `json:"amount"`         // Positive for credits, negative for debits
	Type         TransactionType `json:"type"`           // Type of transaction
	Description  string          `json:"description"`    // Human-readable description
	Timestamp    time.Time       `json:"timestamp"`      // When the transaction occurred
	BalanceAfter int64           `json:"balance_after"`  // Balance after this transaction
}
