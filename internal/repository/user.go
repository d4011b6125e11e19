package repository

import (
	"context"

	"speech-coach/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateProfileImage(ctx context.Context, id int64, imageKey string) error
	Delete(ctx context.Context, id int64) error
}
