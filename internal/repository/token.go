package repository

import (
	"context"
	"time"

	"speech-coach/internal/domain"
)

// RefreshTokenRepository persists refresh-token rows. Rotation must be
// atomic: Replace deletes every row owned by the user and inserts the new
// one inside a single transaction.
type RefreshTokenRepository interface {
	Init(ctx context.Context) error
	Replace(ctx context.Context, userID int64, token string) error
	LatestByUser(ctx context.Context, userID int64) (*domain.RefreshToken, error)
	FindByUserAndToken(ctx context.Context, userID int64, token string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
