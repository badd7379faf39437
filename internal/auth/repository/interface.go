package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a stored account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Phone        *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserReader is the read side other domains may depend on.
type UserReader interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
}

// AuthRepository defines the interface for authentication data operations.
type AuthRepository interface {
	UserReader
	CreateUser(ctx context.Context, email, name, passwordHash string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name *string, phone *string) (User, error)
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)
