// Package ledger holds the authoritative in-memory set of a user's transactions.
//
// The Store is only mutated through ReplaceAll, Append and RemoveByID so that
// every change can be followed by a full re-aggregation.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
)

// Store keeps transactions in insertion order. It is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll swaps the whole sequence for the given one.
// The store is left untouched if any record is not transaction-shaped.
func (s *Store) ReplaceAll(transactions []domain.Transaction) error {
	if transactions == nil {
		return &domain.MalformedDataError{Reason: "expected a list of transactions"}
	}
	for i, tx := range transactions {
		if err := checkShape(tx); err != nil {
			return &domain.MalformedDataError{Reason: fmt.Sprintf("record %d: %s", i, err)}
		}
	}

	next := make([]domain.Transaction, len(transactions))
	copy(next, transactions)

	s.mu.Lock()
	s.transactions = next
	s.mu.Unlock()
	return nil
}

// Append adds one confirmed transaction to the end of the sequence
func (s *Store) Append(tx domain.Transaction) error {
	if err := checkShape(tx); err != nil {
		return &domain.MalformedDataError{Reason: err.Error()}
	}

	s.mu.Lock()
	s.transactions = append(s.transactions, tx)
	s.mu.Unlock()
	return nil
}

// RemoveByID removes the transaction with the given id.
// It reports whether anything was removed; an absent id is not an error.
func (s *Store) RemoveByID(id domain.TransactionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.transactions {
		if tx.ID == id {
			next := make([]domain.Transaction, 0, len(s.transactions)-1)
			next = append(next, s.transactions[:i]...)
			next = append(next, s.transactions[i+1:]...)
			s.transactions = next
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current sequence
func (s *Store) Snapshot() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Len returns the number of held transactions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}

func checkShape(tx domain.Transaction) error {
	if strings.TrimSpace(tx.ID.String()) == "" {
		return errors.New("missing id")
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("transaction %s: amount must be greater than zero", tx.ID)
	}
	if !tx.Type.Valid() {
		return fmt.Errorf("transaction %s: unknown type %q", tx.ID, tx.Type)
	}
	if strings.TrimSpace(tx.Date) == "" {
		return fmt.Errorf("transaction %s: missing date", tx.ID)
	}
	return nil
}
