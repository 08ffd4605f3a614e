package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthKey identifies a calendar month in the Gregorian calendar
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the month key containing t, evaluated in UTC
func MonthKeyOf(t time.Time) MonthKey {
	t = t.UTC()
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Start returns midnight UTC on the first day of the month
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether k is an earlier month than other
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Label is the display form, e.g. "January 2024"
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String(), k.Year)
}

// String is the sortable form, e.g. "2024-01"
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// MonthlyBucket holds income and expense sums for one calendar month.
// It is derived from the ledger and never persisted.
type MonthlyBucket struct {
	Key     MonthKey        `json:"-"`
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// LedgerTotals are the column sums over all buckets
type LedgerTotals struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// Summary is the derived view of a ledger snapshot
type Summary struct {
	Buckets []MonthlyBucket `json:"buckets"`
	Totals  LedgerTotals    `json:"totals"`
}

// Ledger is a read-only snapshot handed to presentation collaborators
type Ledger struct {
	Transactions []Transaction   `json:"transactions"`
	Buckets      []MonthlyBucket `json:"buckets"`
	Totals       LedgerTotals    `json:"totals"`
}
