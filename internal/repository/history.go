package repository

import (
	"context"

	"speech-coach/internal/domain"
)

// HistoryRepository persists per-user practice history. Every read and delete
// is scoped to the owning user id.
type HistoryRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, history *domain.History) (int64, error)
	GetForUser(ctx context.Context, userID, id int64) (*domain.History, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.History, error)
	LatestByUserAndAudio(ctx context.Context, userID int64, audioKey string) (*domain.History, error)
	Update(ctx context.Context, history *domain.History) error
	DeleteForUser(ctx context.Context, userID, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}
