package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// TransactionID is the opaque identifier assigned by the remote API.
// Numeric IDs are written as JSON numbers, anything else as a string.
type TransactionID string

// NewTransactionID converts a database serial into a TransactionID
func NewTransactionID(id int32) TransactionID {
	return TransactionID(strconv.FormatInt(int64(id), 10))
}

// Int32 returns the numeric form of the ID, if it has one
func (id TransactionID) Int32() (int32, bool) {
	v, err := strconv.ParseInt(string(id), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

func (id TransactionID) String() string {
	return string(id)
}

// MarshalJSON implements json.Marshaler
func (id TransactionID) MarshalJSON() ([]byte, error) {
	if _, ok := id.Int32(); ok {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler
func (id *TransactionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TransactionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("transaction id must be a number or a string")
	}
	*id = TransactionID(n.String())
	return nil
}

// Transaction is a single dated income or expense entry.
// Date is kept as the calendar date string the API returned so that an
// entry with an unparseable date can still be listed.
type Transaction struct {
	ID        TransactionID   `json:"id"`
	UserID    uuid.UUID       `json:"-"`
	Text      string          `json:"text"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"-"`
}

// Draft is unvalidated user input for a new transaction
type Draft struct {
	Text   string
	Amount string
	Type   string
	Date   string
}

// NewTransactionInput is a Draft that passed validation
type NewTransactionInput struct {
	Text   string
	Amount decimal.Decimal
	Type   TransactionType
	Date   time.Time
}

// Validate checks the draft and returns the parsed input.
// The returned error is always a *ValidationError naming the first bad field.
func (d Draft) Validate() (NewTransactionInput, error) {
	amountStr := strings.TrimSpace(d.Amount)
	if amountStr == "" {
		return NewTransactionInput{}, NewValidationError("amount", "amount is required")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return NewTransactionInput{}, NewValidationError("amount", "must be a valid number")
	}
	if !amount.IsPositive() {
		return NewTransactionInput{}, NewValidationError("amount", ErrInvalidAmount.Error())
	}

	dateStr := strings.TrimSpace(d.Date)
	if dateStr == "" {
		return NewTransactionInput{}, NewValidationError("date", "date is required")
	}
	date, err := util.ParseDate(dateStr)
	if err != nil {
		return NewTransactionInput{}, NewValidationError("date", ErrInvalidDate.Error())
	}

	txType := TransactionType(strings.TrimSpace(d.Type))
	if txType == "" {
		return NewTransactionInput{}, NewValidationError("type", "type is required")
	}
	if !txType.Valid() {
		return NewTransactionInput{}, NewValidationError("type", ErrInvalidTransactionType.Error())
	}

	if len(d.Text) > MaxTransactionTextLength {
		return NewTransactionInput{}, NewValidationError("text", ErrTextTooLong.Error())
	}

	return NewTransactionInput{
		Text:   d.Text,
		Amount: amount,
		Type:   txType,
		Date:   date,
	}, nil
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByUser(userID uuid.UUID) ([]*Transaction, error)
	Delete(userID uuid.UUID, id int32) error
}
