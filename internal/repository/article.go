package repository

import (
	"context"

	"speech-coach/internal/domain"
)

// ArticleRepository defines persistence operations for Article entities.
type ArticleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, article *domain.Article) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
}
