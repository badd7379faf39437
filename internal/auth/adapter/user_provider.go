// Package adapter provides implementations of external interfaces that other domains need.
// The auth domain satisfies consumer-defined interfaces here so that bookings and
// notification never import auth internals.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"stayfinder_backend/internal/auth"
	"stayfinder_backend/internal/auth/repository"
)

// UserProviderAdapter implements auth.UserProvider on top of the user store.
type UserProviderAdapter struct {
	repo repository.UserReader
}

func NewUserProviderAdapter(repo repository.UserReader) *UserProviderAdapter {
	return &UserProviderAdapter{repo: repo}
}

// GetUserByID implements auth.UserProvider.
func (a *UserProviderAdapter) GetUserByID(ctx context.Context, userID uuid.UUID) (auth.Profile, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		return auth.Profile{}, err
	}

	return auth.Profile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

var _ auth.UserProvider = (*UserProviderAdapter)(nil)
