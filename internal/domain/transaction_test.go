package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionTypeValid(t *testing.T) {
	tests := []struct {
		txType   TransactionType
		expected bool
	}{
		{TransactionTypeIncome, true},
		{TransactionTypeExpense, true},
		{"income", false},
		{"Transfer", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.txType.Valid(); got != tt.expected {
			t.Errorf("TransactionType(%q).Valid() = %v, want %v", tt.txType, got, tt.expected)
		}
	}
}

func TestDraftValidate_Success(t *testing.T) {
	draft := Draft{Text: "Salary", Amount: " 5000.50 ", Type: "Income", Date: "2024-01-15"}

	input, err := draft.Validate()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !input.Amount.Equal(decimal.RequireFromString("5000.50")) {
		t.Errorf("Expected amount 5000.50, got %s", input.Amount)
	}
	if input.Type != TransactionTypeIncome {
		t.Errorf("Expected type Income, got %s", input.Type)
	}
	if !input.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date 2024-01-15, got %v", input.Date)
	}
}

func TestDraftValidate_EmptyTextAllowed(t *testing.T) {
	draft := Draft{Text: "", Amount: "10", Type: "Expense", Date: "2024-01-15"}

	if _, err := draft.Validate(); err != nil {
		t.Fatalf("Expected empty text to be accepted, got %v", err)
	}
}

func TestDraftValidate_Failures(t *testing.T) {
	valid := Draft{Text: "x", Amount: "10", Type: "Expense", Date: "2024-01-15"}

	tests := []struct {
		name  string
		draft func() Draft
		field string
	}{
		{"negative amount", func() Draft { d := valid; d.Amount = "-5"; return d }, "amount"},
		{"zero amount", func() Draft { d := valid; d.Amount = "0"; return d }, "amount"},
		{"empty amount", func() Draft { d := valid; d.Amount = "  "; return d }, "amount"},
		{"non numeric amount", func() Draft { d := valid; d.Amount = "abc"; return d }, "amount"},
		{"missing date", func() Draft { d := valid; d.Date = ""; return d }, "date"},
		{"invalid date", func() Draft { d := valid; d.Date = "2024-02-30"; return d }, "date"},
		{"missing type", func() Draft { d := valid; d.Type = ""; return d }, "type"},
		{"unknown type", func() Draft { d := valid; d.Type = "Transfer"; return d }, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft().Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, vErr.Field)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("Expected error to match ErrInvalidInput")
			}
		})
	}
}

func TestTransactionID_JSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TransactionID
	}{
		{"number", `7`, "7"},
		{"string", `"abc-1"`, "abc-1"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id TransactionID
			if err := json.Unmarshal([]byte(tt.input), &id); err != nil {
				t.Fatalf("Unmarshal(%s) unexpected error: %v", tt.input, err)
			}
			if id != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, id, tt.want)
			}
		})
	}

	var id TransactionID
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Error("Expected error for boolean id")
	}

	numeric, _ := json.Marshal(NewTransactionID(42))
	if string(numeric) != `42` {
		t.Errorf("Expected numeric id to marshal as 42, got %s", numeric)
	}
	opaque, _ := json.Marshal(TransactionID("tx_9"))
	if string(opaque) != `"tx_9"` {
		t.Errorf("Expected opaque id to marshal as string, got %s", opaque)
	}
}

func TestTransactionDecodesOriginalPayload(t *testing.T) {
	payload := `{"id": 3, "text": "Rent", "amount": 1200.5, "type": "Expense", "date": "2024-01-20"}`

	var tx Transaction
	if err := json.Unmarshal([]byte(payload), &tx); err != nil {
		t.Fatalf("Unmarshal unexpected error: %v", err)
	}
	if tx.ID != "3" || tx.Text != "Rent" || tx.Type != TransactionTypeExpense || tx.Date != "2024-01-20" {
		t.Errorf("Unexpected transaction: %+v", tx)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("1200.5")) {
		t.Errorf("Expected amount 1200.5, got %s", tx.Amount)
	}
}
