package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, user_id, text, amount, type, date, created_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction and returns it with its assigned ID
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	date, err := util.ParseDate(transaction.Date)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, text, amount, type, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+transactionColumns,
		uuidToPg(transaction.UserID), transaction.Text, amount, string(transaction.Type), dateToPg(date))

	return scanTransaction(row)
}

// GetByUser retrieves every transaction of a user ordered by ID
func (r *TransactionRepository) GetByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY id`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a transaction owned by userID
func (r *TransactionRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		id, uuidToPg(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id        int32
		userID    pgtype.UUID
		text      string
		amount    pgtype.Numeric
		txType    string
		date      pgtype.Date
		createdAt time.Time
	)
	if err := row.Scan(&id, &userID, &text, &amount, &txType, &date, &createdAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return &domain.Transaction{
		ID:        domain.NewTransactionID(id),
		UserID:    pgToUUID(userID),
		Text:      text,
		Amount:    pgNumericToDecimal(amount),
		Type:      domain.TransactionType(txType),
		Date:      util.FormatDate(date.Time),
		CreatedAt: createdAt,
	}, nil
}
