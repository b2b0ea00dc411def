package repository

import (
	"context"
	"sync"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

// MemoryStore is a process-local RemoteStore for development and tests.
// Documents are kept encoded so callers never share slices with the store.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, userID string, data *models.AppData) error {
	b, err := Encode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[DocumentKey(userID)] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*models.AppData, error) {
	s.mu.Lock()
	b, ok := s.docs[DocumentKey(userID)]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoData
	}
	return Decode(b)
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.docs, DocumentKey(userID))
	s.mu.Unlock()
	return nil
}

// Has reports whether a document exists for the user
func (s *MemoryStore) Has(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[DocumentKey(userID)]
	return ok
}

// MemoryUserStore keeps accounts in process memory for the memory backend
type MemoryUserStore struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

// NewMemoryUserStore creates an empty account store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: make(map[string]models.User)}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return ErrDuplicate
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.byEmail[user.Email] = *user
	return nil
}

func (s *MemoryUserStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, u := range s.byEmail {
		if u.ID == id {
			delete(s.byEmail, email)
			return nil
		}
	}
	return ErrNotFound
}
