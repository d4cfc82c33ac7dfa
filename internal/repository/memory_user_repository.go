package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/invoicepal/invoicepal-api/internal/domain"
)

// MemoryUserRepository is an in-memory UserRepository for development
// and tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// CreateUser stores a new user and assigns its id
func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("email %s is already registered", user.Email)
	}

	user.ID = uuid.NewString()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetUserByID retrieves a user by its id
func (r *MemoryUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, including the password hash
func (r *MemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}
