package service

import (
	"sort"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/shopspring/decimal"
)

// Aggregate derives chronologically ordered monthly buckets and running totals
// from a ledger snapshot. It is pure: the same input always yields the same output.
//
// Transactions whose date cannot be parsed are skipped here but stay in the ledger.
func Aggregate(transactions []domain.Transaction) domain.Summary {
	byMonth := make(map[domain.MonthKey]*domain.MonthlyBucket)

	for _, tx := range transactions {
		date, err := util.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		key := domain.MonthKeyOf(date)

		bucket, ok := byMonth[key]
		if !ok {
			bucket = &domain.MonthlyBucket{
				Key:     key,
				Month:   key.Label(),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			byMonth[key] = bucket
		}

		switch tx.Type {
		case domain.TransactionTypeIncome:
			bucket.Income = bucket.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			bucket.Expense = bucket.Expense.Add(tx.Amount)
		}
	}

	buckets := make([]domain.MonthlyBucket, 0, len(byMonth))
	for _, bucket := range byMonth {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key.Before(buckets[j].Key)
	})

	totals := domain.LedgerTotals{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, bucket := range buckets {
		totals.TotalIncome = totals.TotalIncome.Add(bucket.Income)
		totals.TotalExpense = totals.TotalExpense.Add(bucket.Expense)
	}
	totals.Balance = totals.TotalIncome.Sub(totals.TotalExpense)

	return domain.Summary{Buckets: buckets, Totals: totals}
}
