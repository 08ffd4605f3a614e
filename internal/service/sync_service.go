package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/ledger"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/remote"
	"github.com/rs/zerolog/log"
)

// RemoteLedger is the remote API collaborator that owns persistence
type RemoteLedger interface {
	ListTransactions(ctx context.Context, token string) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, token string, input domain.NewTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, token string, id domain.TransactionID) error
}

// TokenGuard supplies the credential for remote calls
type TokenGuard interface {
	CurrentToken() (string, bool)
	Invalidate()
}

// ChangeStream delivers remote change notifications
type ChangeStream interface {
	Subscribe(ctx context.Context, token string) (<-chan remote.Event, error)
}

// SyncService mediates every read and write against the remote ledger and
// keeps the derived monthly summary consistent with the local store.
//
// The store is only updated after the remote side confirmed an operation,
// and the summary is fully recomputed after every store change.
type SyncService struct {
	remote RemoteLedger
	guard  TokenGuard
	store  *ledger.Store

	mu      sync.RWMutex
	summary domain.Summary
}

// NewSyncService creates a new SyncService over the given store
func NewSyncService(remote RemoteLedger, guard TokenGuard, store *ledger.Store) *SyncService {
	s := &SyncService{
		remote: remote,
		guard:  guard,
		store:  store,
	}
	s.recompute()
	return s
}

// Load replaces the local ledger with the remote one.
// On any failure other than an authentication rejection the ledger is reset
// to empty before the error is returned.
func (s *SyncService) Load(ctx context.Context) error {
	token, err := s.token()
	if err != nil {
		return err
	}

	transactions, err := s.remote.ListTransactions(ctx, token)
	if err == nil {
		err = s.store.ReplaceAll(transactions)
	}
	if err != nil {
		if s.isAuthFailure(err) {
			log.Warn().Str("operation", "load").Msg("Session rejected by ledger service")
			return domain.ErrUnauthenticated
		}
		s.resetToEmpty()
		log.Warn().Err(err).Str("operation", "load").Msg("Ledger load failed, local ledger reset")
		return asSyncError(err)
	}

	s.recompute()
	log.Debug().Str("operation", "load").Int("count", len(transactions)).Msg("Ledger loaded")
	return nil
}

// Create validates the draft locally, submits it, then reloads the ledger so
// the store reflects server truth including the assigned id.
func (s *SyncService) Create(ctx context.Context, draft domain.Draft) (*domain.Transaction, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	input, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	created, err := s.remote.CreateTransaction(ctx, token, input)
	if err != nil {
		if s.isAuthFailure(err) {
			log.Warn().Str("operation", "create").Msg("Session rejected by ledger service")
			return nil, domain.ErrUnauthenticated
		}
		log.Warn().Err(err).Str("operation", "create").Msg("Transaction create failed")
		return nil, asSyncError(err)
	}

	if created != nil {
		log.Debug().Str("operation", "create").Str("transaction_id", created.ID.String()).Msg("Transaction created")
	}

	if err := s.Load(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Delete removes a transaction remotely and then locally.
// Confirming the deletion with the user is the caller's job.
func (s *SyncService) Delete(ctx context.Context, id domain.TransactionID) error {
	if strings.TrimSpace(id.String()) == "" {
		return domain.NewValidationError("id", "transaction id is required")
	}

	token, err := s.token()
	if err != nil {
		return err
	}

	if err := s.remote.DeleteTransaction(ctx, token, id); err != nil {
		if s.isAuthFailure(err) {
			log.Warn().Str("operation", "delete").Msg("Session rejected by ledger service")
			return domain.ErrUnauthenticated
		}
		log.Warn().Err(err).Str("operation", "delete").Str("transaction_id", id.String()).Msg("Transaction delete failed")
		return asSyncError(err)
	}

	s.store.RemoveByID(id)
	s.recompute()
	log.Debug().Str("operation", "delete").Str("transaction_id", id.String()).Msg("Transaction deleted")
	return nil
}

// Watch reloads the ledger whenever the remote side reports a change and
// hands each fresh snapshot to onChange. It returns nil when ctx is done and
// domain.ErrUnauthenticated as soon as the session is rejected.
func (s *SyncService) Watch(ctx context.Context, stream ChangeStream, onChange func(domain.Ledger)) error {
	token, err := s.token()
	if err != nil {
		return err
	}

	events, err := stream.Subscribe(ctx, token)
	if err != nil {
		if s.isAuthFailure(err) {
			return domain.ErrUnauthenticated
		}
		return asSyncError(err)
	}

	for event := range events {
		log.Debug().Str("operation", "watch").Str("event_type", event.Type).Msg("Change received")

		if err := s.Load(ctx); err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Str("operation", "watch").Msg("Reload after change failed")
		}
		if onChange != nil {
			onChange(s.Snapshot())
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	return &domain.SyncError{Message: "the change stream was closed by the ledger service"}
}

// Snapshot returns a copy of the ledger and its derived summary
func (s *SyncService) Snapshot() domain.Ledger {
	transactions := s.store.Snapshot()
	summary := s.Summary()
	return domain.Ledger{
		Transactions: transactions,
		Buckets:      summary.Buckets,
		Totals:       summary.Totals,
	}
}

// Summary returns a copy of the current monthly buckets and totals
func (s *SyncService) Summary() domain.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make([]domain.MonthlyBucket, len(s.summary.Buckets))
	copy(buckets, s.summary.Buckets)
	return domain.Summary{Buckets: buckets, Totals: s.summary.Totals}
}

func (s *SyncService) token() (string, error) {
	token, ok := s.guard.CurrentToken()
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

// isAuthFailure invalidates the held token when the server rejected it
func (s *SyncService) isAuthFailure(err error) bool {
	if !errors.Is(err, domain.ErrUnauthenticated) {
		return false
	}
	s.guard.Invalidate()
	return true
}

func (s *SyncService) resetToEmpty() {
	// an empty non-nil slice always passes shape checks
	_ = s.store.ReplaceAll([]domain.Transaction{})
	s.recompute()
}

func (s *SyncService) recompute() {
	summary := Aggregate(s.store.Snapshot())

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
}

// asSyncError keeps taxonomy errors as they are and wraps anything else
func asSyncError(err error) error {
	var syncErr *domain.SyncError
	var malformed *domain.MalformedDataError
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &syncErr), errors.As(err, &malformed), errors.As(err, &validation):
		return err
	}
	return &domain.SyncError{Err: err}
}
