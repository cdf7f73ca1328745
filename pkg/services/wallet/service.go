package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/driftgames/arcade/pkg/entities"
	ledgerRepo "github.com/driftgames/arcade/pkg/repositories/ledger"
	"github.com/driftgames/arcade/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBalance is the balance a fresh wallet starts with.
const DefaultBalance int64 = 100

// Observer is notified synchronously after every balance change. The
// new balance has already been persisted when an observer runs.
type Observer func(balance int64)

// Service is the single source of truth for the player's balance. All
// games mutate the balance through Credit and Spend; nothing assigns it
// directly, which is what keeps the non-negativity invariant in one
// place.
type Service struct {
	store  storage.Store
	ledger ledgerRepo.Repository
	log    *zap.Logger

	mu        sync.Mutex
	balance   int64
	observers []Observer
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithLedger records every mutation in a transaction history.
func WithLedger(repo ledgerRepo.Repository) Option {
	return func(s *Service) { s.ledger = repo }
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New creates a wallet backed by the store, loading the persisted
// balance or starting from DefaultBalance.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.balance = storage.GetJSON(store, storage.KeyWallet, DefaultBalance)
	if s.balance < 0 {
		// A corrupt negative balance is repaired on load, never observed.
		s.balance = 0
		s.persistLocked()
	}
	return s
}

// Balance returns the current balance. Never negative.
func (s *Service) Balance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// CanSpend reports whether amount is affordable. Negative amounts are
// never spendable.
func (s *Service) CanSpend(amount int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return amount >= 0 && amount <= s.balance
}

// Credit adds amount to the balance and returns the new balance. A
// negative amount contributes nothing rather than failing.
func (s *Service) Credit(amount int64) int64 {
	if amount < 0 {
		amount = 0
	}

	s.mu.Lock()
	s.balance += amount
	s.persistLocked()
	s.recordLocked(amount, entities.TransactionTypeCredit, "credit")
	balance, observers := s.balance, s.snapshotObserversLocked()
	s.mu.Unlock()

	notify(observers, balance)
	return balance
}

// Spend removes amount from the balance. It either fully succeeds or
// leaves the balance untouched and returns false; there is no partial
// debit and the balance never goes negative.
func (s *Service) Spend(amount int64) bool {
	s.mu.Lock()
	if amount < 0 || amount > s.balance {
		s.mu.Unlock()
		return false
	}
	s.balance -= amount
	s.persistLocked()
	s.recordLocked(-amount, entities.TransactionTypeDebit, "debit")
	balance, observers := s.balance, s.snapshotObserversLocked()
	s.mu.Unlock()

	notify(observers, balance)
	return true
}

// Reset restores the wallet to DefaultBalance. Explicit user action only.
func (s *Service) Reset() int64 {
	s.mu.Lock()
	s.balance = DefaultBalance
	s.persistLocked()
	s.recordLocked(0, entities.TransactionTypeReset, "wallet reset")
	balance, observers := s.balance, s.snapshotObserversLocked()
	s.mu.Unlock()

	notify(observers, balance)
	return balance
}

// Subscribe registers an observer for balance changes.
func (s *Service) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// persistLocked clamps and writes the balance. Persistence happens
// before any observer sees the new value.
func (s *Service) persistLocked() {
	if s.balance < 0 {
		s.balance = 0
	}
	if err := storage.SetJSON(s.store, storage.KeyWallet, s.balance); err != nil {
		// Storage failures degrade to a stale persisted value; the
		// in-memory balance stays authoritative for this process.
		s.log.Warn("failed to persist wallet balance", zap.Error(err))
	}
}

func (s *Service) recordLocked(amount int64, txType entities.TransactionType, description string) {
	if s.ledger == nil {
		return
	}
	tx := &entities.Transaction{
		ID:           uuid.New().String(),
		Amount:       amount,
		Type:         txType,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: s.balance,
	}
	if err := s.ledger.AddTransaction(context.Background(), tx); err != nil {
		s.log.Warn("failed to record wallet transaction", zap.Error(err))
	}
}

func (s *Service) snapshotObserversLocked() []Observer {
	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

func notify(observers []Observer, balance int64) {
	for _, fn := range observers {
		fn(balance)
	}
}
