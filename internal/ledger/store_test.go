package ledger

import (
	"errors"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id string, amount string, txType domain.TransactionType, date string) domain.Transaction {
	return domain.Transaction{
		ID:     domain.TransactionID(id),
		Text:   "entry " + id,
		Amount: decimal.RequireFromString(amount),
		Type:   txType,
		Date:   date,
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(tx("old", "1", domain.TransactionTypeIncome, "2024-01-01")))

	err := s.ReplaceAll([]domain.Transaction{
		tx("2", "10", domain.TransactionTypeExpense, "2024-02-01"),
		tx("1", "20", domain.TransactionTypeIncome, "2024-01-01"),
	})
	require.NoError(t, err)

	got := s.Snapshot()
	require.Len(t, got, 2)
	// insertion order is preserved, not date order
	assert.Equal(t, domain.TransactionID("2"), got[0].ID)
	assert.Equal(t, domain.TransactionID("1"), got[1].ID)
}

func TestStore_ReplaceAllEmptyList(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(tx("1", "1", domain.TransactionTypeIncome, "2024-01-01")))

	require.NoError(t, s.ReplaceAll([]domain.Transaction{}))
	assert.Equal(t, 0, s.Len())
}

func TestStore_ReplaceAllRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload []domain.Transaction
	}{
		{"nil payload", nil},
		{"missing id", []domain.Transaction{tx("", "1", domain.TransactionTypeIncome, "2024-01-01")}},
		{"zero amount", []domain.Transaction{tx("1", "0", domain.TransactionTypeIncome, "2024-01-01")}},
		{"negative amount", []domain.Transaction{tx("1", "-3", domain.TransactionTypeExpense, "2024-01-01")}},
		{"unknown type", []domain.Transaction{tx("1", "1", "Transfer", "2024-01-01")}},
		{"missing date", []domain.Transaction{tx("1", "1", domain.TransactionTypeIncome, " ")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			original := tx("keep", "5", domain.TransactionTypeIncome, "2024-03-01")
			require.NoError(t, s.Append(original))

			err := s.ReplaceAll(tt.payload)

			var malformed *domain.MalformedDataError
			require.True(t, errors.As(err, &malformed), "expected MalformedDataError, got %v", err)
			assert.Equal(t, []domain.Transaction{original}, s.Snapshot())
		})
	}
}

func TestStore_AcceptsUnparseableDate(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Append(tx("1", "5", domain.TransactionTypeIncome, "not-a-date")))
	assert.Equal(t, 1, s.Len())
}

func TestStore_RemoveByID(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.ReplaceAll([]domain.Transaction{
		tx("1", "1", domain.TransactionTypeIncome, "2024-01-01"),
		tx("2", "2", domain.TransactionTypeExpense, "2024-01-02"),
		tx("3", "3", domain.TransactionTypeIncome, "2024-01-03"),
	}))

	assert.True(t, s.RemoveByID("2"))

	got := s.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, domain.TransactionID("1"), got[0].ID)
	assert.Equal(t, domain.TransactionID("3"), got[1].ID)
}

func TestStore_RemoveByIDAbsentIsNoOp(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(tx("1", "1", domain.TransactionTypeIncome, "2024-01-01")))
	before := s.Snapshot()

	assert.False(t, s.RemoveByID("missing"))
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(tx("1", "1", domain.TransactionTypeIncome, "2024-01-01")))

	snap := s.Snapshot()
	snap[0].Text = "mutated"

	assert.Equal(t, "entry 1", s.Snapshot()[0].Text)
}
