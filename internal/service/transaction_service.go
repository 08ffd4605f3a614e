package service

import (
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TransactionService handles the server side of the ledger
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the publisher for realtime change events
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// GetTransactions returns every transaction of a user in creation order
func (s *TransactionService) GetTransactions(userID uuid.UUID) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByUser(userID)
}

// CreateTransaction validates the draft with the same rules as the client and
// stores it for userID
func (s *TransactionService) CreateTransaction(userID uuid.UUID, draft domain.Draft) (*domain.Transaction, error) {
	input, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(&domain.Transaction{
		UserID: userID,
		Text:   input.Text,
		Amount: input.Amount,
		Type:   input.Type,
		Date:   util.FormatDate(input.Date),
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("transaction_id", created.ID.String()).
		Msg("Transaction created")
	s.publishEvent(userID, websocket.TransactionCreated(created))
	return created, nil
}

// DeleteTransaction removes one of the user's transactions.
// A transaction owned by someone else is reported as not found.
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id int32) error {
	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("transaction_id", id).
		Msg("Transaction deleted")
	s.publishEvent(userID, websocket.TransactionDeleted(map[string]interface{}{
		"id": domain.NewTransactionID(id),
	}))
	return nil
}
