package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/models"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// Repository is the storage the auth service needs
type Repository interface {
	database.UserRepository
}

// Session is the result of a successful sign-in
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Service defines account and token operations
type Service interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	LookupUser(ctx context.Context, email string) (*models.User, error)
}

// Options configures the auth service
type Options struct {
	Tokens     *Tokens
	Revocation RevocationStore // defaults to an in-memory store
	BcryptCost int             // defaults to bcrypt.DefaultCost
}

type service struct {
	repo       Repository
	tokens     *Tokens
	revocation RevocationStore
	cost       int
}

// NewService creates a new auth service
func NewService(repo Repository, opts Options) Service {
	if opts.Revocation == nil {
		opts.Revocation = NewMemoryRevocationStore()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &service{
		repo:       repo,
		tokens:     opts.Tokens,
		revocation: opts.Revocation,
		cost:       opts.BcryptCost,
	}
}

// SignUp registers an account and seeds its default pipeline
func (s *service) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUserWithColumns(ctx, email, string(hash), models.DefaultColumnNames)
	if errors.Is(err, database.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		slog.Error("failed to create user", "email", email, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// SignIn checks the credentials and issues a token
func (s *service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

// SignOut revokes a token for the rest of its lifetime
func (s *service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return err
	}
	if claims.TokenID == "" {
		return fmt.Errorf("%w: token has no id", ErrInvalidToken)
	}
	return s.revocation.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

// Verify returns the user id a valid, unrevoked token was issued for
func (s *service) Verify(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	if claims.TokenID != "" {
		revoked, err := s.revocation.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return "", err
		}
		if revoked {
			return "", ErrTokenRevoked
		}
	}
	return claims.UserID, nil
}

// CurrentUser loads the account behind a verified user id
func (s *service) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// LookupUser finds an account by email, for operators acting on a user's
// behalf without a token
func (s *service) LookupUser(ctx context.Context, email string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
