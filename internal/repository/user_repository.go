package repository

import (
	"context"

	"github.com/invoicepal/invoicepal-api/internal/domain"
)

// UserRepository defines the interface for user account storage
type UserRepository interface {
	// CreateUser stores a new user and assigns its id
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByID retrieves a user by its id
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email, including the password hash
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
