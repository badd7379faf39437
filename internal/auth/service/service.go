package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stayfinder_backend/internal/auth/password"
	"stayfinder_backend/internal/auth/repository"
	"stayfinder_backend/internal/events"
	"stayfinder_backend/platform/apperr"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/httpkit"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/phone"
	"stayfinder_backend/platform/sanitize"
)

const msgInvalidCredentials = "Invalid credentials"

// Config is the slice of configuration the auth service reads.
type Config interface {
	config.AuthServiceConfig
}

type Service struct {
	repo   repository.AuthRepository
	cfg    Config
	phones *phone.Normalizer
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time
}

func New(repo repository.AuthRepository, cfg Config, phones *phone.Normalizer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, phones: phones, bus: bus, log: log, now: time.Now}
}

// Register creates an account and announces it on the bus.
func (s *Service) Register(ctx context.Context, name, email, plainPassword string) (repository.User, error) {
	email = normalizeEmail(email)
	name = sanitize.Text(name)
	if name == "" {
		return repository.User{}, apperr.Validation("name is required")
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		if err == password.ErrTooLong {
			return repository.User{}, apperr.Validation("password is too long")
		}
		return repository.User{}, err
	}

	user, err := s.repo.CreateUser(ctx, email, name, hash)
	if err != nil {
		s.log.AuthEvent("register", email, false, err.Error())
		return repository.User{}, err
	}
	s.log.AuthEvent("register", email, true, "")

	if s.bus != nil {
		s.bus.Publish(ctx, events.UserRegistered{
			BaseEvent: events.NewBaseEvent(),
			UserID:    user.ID,
			Email:     user.Email,
			Name:      user.Name,
		})
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (string, repository.User, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return "", repository.User{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return "", repository.User{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "password mismatch")
		return "", repository.User{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.signJWT(user.ID, httpkit.AccessTokenType, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return "", repository.User{}, err
	}
	s.log.AuthEvent("login", email, true, "")
	return token, user, nil
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateProfile changes the name and phone; nil fields are left alone.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, name, phoneNumber *string) (repository.User, error) {
	name = sanitize.TextPtr(name)
	if name != nil && *name == "" {
		return repository.User{}, apperr.Validation("name must not be empty")
	}
	if phoneNumber != nil {
		normalized := s.phones.E164(*phoneNumber)
		phoneNumber = &normalized
	}
	return s.repo.UpdateProfile(ctx, userID, name, phoneNumber)
}

func (s *Service) signJWT(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": tokenType,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
