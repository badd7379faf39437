package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder_backend/internal/auth/repository"
	"stayfinder_backend/internal/events"
	"stayfinder_backend/platform/apperr"
	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/phone"
)

type memUsers struct {
	byID map[uuid.UUID]repository.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uuid.UUID]repository.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, email, name, hash string) (repository.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return repository.User{}, apperr.Conflict("User already exists")
		}
	}
	u := repository.User{ID: uuid.New(), Email: email, Name: name, PasswordHash: hash, CreatedAt: time.Now()}
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id uuid.UUID, name, phoneNumber *string) (repository.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	if name != nil {
		u.Name = *name
	}
	if phoneNumber != nil {
		u.Phone = phoneNumber
	}
	m.byID[id] = u
	return u, nil
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

type collectBus struct {
	published []events.Event
}

func (b *collectBus) Publish(_ context.Context, e events.Event) { b.published = append(b.published, e) }
func (b *collectBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *collectBus) Subscribe(string, events.Handler) {}

func newService(bus events.Bus) (*Service, *memUsers) {
	users := newMemUsers()
	return New(users, testConfig{}, phone.NewNormalizer("IN"), bus, logger.Discard()), users
}

func TestRegisterThenLogin(t *testing.T) {
	bus := &collectBus{}
	svc, _ := newService(bus)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", " Asha@Example.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	require.Len(t, bus.published, 1)
	registered, ok := bus.published[0].(events.UserRegistered)
	require.True(t, ok)
	assert.Equal(t, user.ID, registered.UserID)

	token, loggedIn, err := svc.Login(ctx, "asha@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	subject, err := httpkit.ParseAccessToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Asha Again", "ASHA@example.com", "correct-horse")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	svc, _ := newService(nil)

	_, err := svc.Register(context.Background(), "Asha", "asha@example.com", strings.Repeat("x", 80))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestLoginFailuresAreUnauthorized(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "asha@example.com", "wrong-horse")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestUpdateProfileNormalizesPhone(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	user, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse")
	require.NoError(t, err)

	number := "098765 43210"
	updated, err := svc.UpdateProfile(ctx, user.ID, nil, &number)
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+919876543210", *updated.Phone)
	assert.Equal(t, "Asha", updated.Name)

	blank := "  "
	_, err = svc.UpdateProfile(ctx, user.ID, &blank, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
