package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// DefaultTTL is how long a login token stays valid unless configured
// otherwise.
const DefaultTTL = 7 * 24 * time.Hour

const tokenBytes = 32

// ErrBadCredentials is returned for an unknown login or wrong password.
// The two cases are deliberately indistinguishable.
var ErrBadCredentials = errors.New("invalid login or password")

// TokenStore persists login tokens. *storage.DB satisfies it.
type TokenStore interface {
	GetProfileByLogin(ctx context.Context, login string) (models.Profile, error)
	InsertAuthSession(ctx context.Context, token string, profileID uuid.UUID, expiresAt time.Time) error
	GetAuthSession(ctx context.Context, token string) (models.Profile, error)
	DeleteAuthSession(ctx context.Context, token string) error
}

// Service issues and validates opaque login tokens.
type Service struct {
	store TokenStore
	ttl   time.Duration

	// RandTokenFunc is injectable so tests get deterministic tokens.
	RandTokenFunc func() (string, error)
}

func NewService(store TokenStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:         store,
		ttl:           ttl,
		RandTokenFunc: randomToken,
	}
}

// Login verifies the password and issues a fresh token.
func (s *Service) Login(ctx context.Context, login, password string) (string, models.Profile, error) {
	profile, err := s.store.GetProfileByLogin(ctx, login)
	if err != nil {
		return "", models.Profile{}, ErrBadCredentials
	}
	if !CheckPassword(password, profile.PasswordHash) {
		return "", models.Profile{}, ErrBadCredentials
	}

	token, err := s.RandTokenFunc()
	if err != nil {
		return "", models.Profile{}, fmt.Errorf("generating token: %w", err)
	}
	if err := s.store.InsertAuthSession(ctx, token, profile.ID, time.Now().Add(s.ttl)); err != nil {
		return "", models.Profile{}, fmt.Errorf("storing token: %w", err)
	}
	return token, profile, nil
}

// IssueToken mints a token for an already-verified identity (the Tailscale
// path, where the tailnet did the authenticating).
func (s *Service) IssueToken(ctx context.Context, profileID uuid.UUID) (string, error) {
	token, err := s.RandTokenFunc()
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	if err := s.store.InsertAuthSession(ctx, token, profileID, time.Now().Add(s.ttl)); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a token to its profile. Expired or unknown tokens
// fail with the store's not-found error.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Profile, error) {
	return s.store.GetAuthSession(ctx, token)
}

// Logout invalidates a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteAuthSession(ctx, token)
}

// HashPassword bcrypt-hashes a password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether a password matches its stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func randomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
