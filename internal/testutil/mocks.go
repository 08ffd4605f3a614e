package testutil

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	mu      sync.Mutex
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User

	// Err, when set, is returned by every method
	Err error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if user, ok := m.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create stores a user, assigning an ID when missing
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if _, exists := m.ByEmail[strings.ToLower(user.Email)]; exists {
		return nil, domain.ErrAlreadyExists
	}

	created := *user
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	m.ByID[created.ID] = &created
	m.ByEmail[strings.ToLower(created.Email)] = &created
	return &created, nil
}

// AddUser adds a user directly to the mock
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ByID[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[int32]*domain.Transaction
	nextID       int32

	// Err, when set, is returned by every method
	Err error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		nextID:       1,
	}
}

// Create stores a transaction and assigns the next serial ID
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	created := *transaction
	id := m.nextID
	m.nextID++
	created.ID = domain.NewTransactionID(id)
	created.CreatedAt = time.Now()
	m.Transactions[id] = &created
	return &created, nil
}

// GetByUser returns the user's transactions ordered by ID
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	ids := make([]int32, 0, len(m.Transactions))
	for id, tx := range m.Transactions {
		if tx.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*domain.Transaction, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.Transactions[id])
	}
	return result, nil
}

// Delete removes a transaction owned by userID
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// AddTransaction adds a transaction directly to the mock under id
func (m *MockTransactionRepository) AddTransaction(id int32, transaction *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction.ID = domain.NewTransactionID(id)
	m.Transactions[id] = transaction
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

// PublishedEvent is one call recorded by MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish implements websocket.EventPublisher
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{UserID: userID, Event: event})
}

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}
