package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"speech-coach/internal/auth"
	"speech-coach/internal/domain"
	"speech-coach/internal/repository"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// Unknown email and wrong password collapse into it so callers cannot
	// probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering or updating to an email that is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when a user id does not resolve to an existing account.
	ErrUserNotFound = errors.New("user not found")
	// ErrRefreshTokenInvalid means the presented refresh token has no live row in the store.
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")
	// ErrRefreshTokenExpired means the stored row outlived the freshness window and was removed.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// TokenPair bundles the two credentials handed to a client on login or registration.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService owns the account and session lifecycle: registration, login
// with refresh-token reuse, logout, profile updates and account deletion
// with its cascade.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, TokenPair, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	RefreshAccess(ctx context.Context, userID int64) (string, error)
	ValidateRefresh(ctx context.Context, userID int64, token string) error
	Logout(ctx context.Context, userID int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, userID int64, name, email, password string) (*domain.User, error)
	UpdateProfileImage(ctx context.Context, userID int64, imageKey string) (*domain.User, string, error)
	Delete(ctx context.Context, userID int64) error
}

type userService struct {
	users     repository.UserRepository
	tokens    repository.RefreshTokenRepository
	history   repository.HistoryRepository
	codec     *auth.Codec
	freshness time.Duration
}

func NewUserService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	history repository.HistoryRepository,
	codec *auth.Codec,
	freshness time.Duration,
) UserService {
	if freshness <= 0 {
		freshness = time.Hour
	}
	return &userService{
		users:     users,
		tokens:    tokens,
		history:   history,
		codec:     codec,
		freshness: freshness,
	}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*domain.User, TokenPair, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(password) < 8 {
		return nil, TokenPair{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenPair{}, ErrEmailTaken
		}
		return nil, TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return sanitizeUser(user), pair, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	refreshToken, err := s.currentRefreshToken(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	accessToken, err := s.codec.IssueAccess(user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// currentRefreshToken applies the reuse policy: a stored token younger than
// the freshness window is handed back unchanged, anything else triggers an
// atomic rotation. Reuse caps refresh churn at one token per window per user.
func (s *userService) currentRefreshToken(ctx context.Context, userID int64) (string, error) {
	existing, err := s.tokens.LatestByUser(ctx, userID)
	if err == nil && existing.Age(time.Now().UTC()) <= s.freshness {
		return existing.Token, nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	refreshToken, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Replace(ctx, userID, refreshToken); err != nil {
		return "", err
	}
	return refreshToken, nil
}

func (s *userService) issuePair(ctx context.Context, userID int64) (TokenPair, error) {
	accessToken, err := s.codec.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Replace(ctx, userID, refreshToken); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) RefreshAccess(ctx context.Context, userID int64) (string, error) {
	return s.codec.IssueAccess(userID)
}

// ValidateRefresh backs the stateful gate: the token must have a live row
// scoped to the claimed user, and a row past the freshness window is
// removed on the spot before the request is rejected.
func (s *userService) ValidateRefresh(ctx context.Context, userID int64, token string) error {
	stored, err := s.tokens.FindByUserAndToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRefreshTokenInvalid
		}
		return err
	}

	if stored.Age(time.Now().UTC()) > s.freshness {
		if err := s.tokens.Delete(ctx, stored.Token); err != nil {
			return err
		}
		return ErrRefreshTokenExpired
	}
	return nil
}

func (s *userService) Logout(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.tokens.DeleteByUser(ctx, userID)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Update(ctx context.Context, userID int64, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Name = name
	user.Email = email
	if password != "" {
		if len(password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// UpdateProfileImage records the new stored object key and returns the key it
// replaced so the caller can remove the orphaned object.
func (s *userService) UpdateProfileImage(ctx context.Context, userID int64, imageKey string) (*domain.User, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	previous := user.ProfileImage
	if err := s.users.UpdateProfileImage(ctx, userID, imageKey); err != nil {
		return nil, "", err
	}
	user.ProfileImage = imageKey
	return sanitizeUser(user), previous, nil
}

// Delete cascades in dependency order: refresh tokens, then history, then
// the user row itself.
func (s *userService) Delete(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.history.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
