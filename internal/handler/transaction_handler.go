package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TransactionHandler handles ledger transaction requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// FlexibleAmount accepts a JSON number or a numeric string
type FlexibleAmount string

// UnmarshalJSON implements json.Unmarshaler
func (a *FlexibleAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = FlexibleAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("amount must be a number")
	}
	*a = FlexibleAmount(n.String())
	return nil
}

// CreateTransactionRequest is the body of POST /api/transactions.
// Pointers tell a missing field apart from an empty one.
type CreateTransactionRequest struct {
	Text   *string         `json:"text"`
	Amount *FlexibleAmount `json:"amount"`
	Type   *string         `json:"type"`
	Date   *string         `json:"date"`
}

// CreateTransactionResponse is returned after a successful create
type CreateTransactionResponse struct {
	Message     string              `json:"message"`
	Transaction *domain.Transaction `json:"transaction"`
}

// GetTransactions godoc
// @Summary List transactions
// @Description List the caller's transactions in insertion order
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Transaction
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transactions, err := h.transactionService.GetTransactions(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}

	return c.JSON(http.StatusOK, transactions)
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Amount may be sent as a JSON number or a numeric string
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} CreateTransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid data format", []ValidationError{
			{Field: "amount", Message: "Amount must be a valid number"},
		})
	}

	var missing []ValidationError
	if req.Text == nil {
		missing = append(missing, ValidationError{Field: "text", Message: "Field is required"})
	}
	if req.Amount == nil {
		missing = append(missing, ValidationError{Field: "amount", Message: "Field is required"})
	}
	if req.Type == nil {
		missing = append(missing, ValidationError{Field: "type", Message: "Field is required"})
	}
	if req.Date == nil {
		missing = append(missing, ValidationError{Field: "date", Message: "Field is required"})
	}
	if len(missing) > 0 {
		fields := make([]string, len(missing))
		for i, m := range missing {
			fields[i] = m.Field
		}
		return NewValidationError(c, fmt.Sprintf("Missing required fields: %s", joinFields(fields)), missing)
	}

	transaction, err := h.transactionService.CreateTransaction(userID, domain.Draft{
		Text:   *req.Text,
		Amount: string(*req.Amount),
		Type:   *req.Type,
		Date:   *req.Date,
	})
	if err != nil {
		var validation *domain.ValidationError
		if errors.As(err, &validation) {
			return NewValidationError(c, validation.Reason, []ValidationError{
				{Field: validation.Field, Message: validation.Reason},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "An error occurred while adding the transaction")
	}

	return c.JSON(http.StatusCreated, CreateTransactionResponse{
		Message:     "Transaction added successfully",
		Transaction: transaction,
	})
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int64("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "An error occurred while deleting the transaction")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

func joinFields(fields []string) string {
	var buf bytes.Buffer
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f)
	}
	return buf.String()
}

func sortValidationErrors(errs []ValidationError) {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
}
