package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"speech-coach/internal/domain"
	"speech-coach/internal/repository"
)

const createArticlesTable = `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	article_url TEXT NOT NULL DEFAULT '',
	image_key TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createArticlesTable); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}
	return nil
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) (int64, error) {
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO articles (title, content, article_url, image_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		article.Title,
		article.Content,
		article.ArticleURL,
		article.ImageKey,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("article last insert id: %w", err)
	}
	article.ID = id
	return id, nil
}

func (r *ArticleRepository) Get(ctx context.Context, id int64) (*domain.Article, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, content, article_url, image_key, created_at, updated_at
FROM articles
WHERE id = ?`,
		id,
	)

	var article domain.Article
	if err := scanArticle(row.Scan, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, content, article_url, image_key, created_at, updated_at
FROM articles
ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := scanArticle(rows.Scan, &article); err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	article.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE articles
SET title = ?, content = ?, article_url = ?, image_key = ?, updated_at = ?
WHERE id = ?`,
		article.Title,
		article.Content,
		article.ArticleURL,
		article.ImageKey,
		article.UpdatedAt,
		article.ID,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return requireAffected(res, "article")
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return requireAffected(res, "article")
}

func scanArticle(scan func(dest ...any) error, article *domain.Article) error {
	if err := scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.ArticleURL,
		&article.ImageKey,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("article: %w", repository.ErrNotFound)
		}
		return fmt.Errorf("scan article: %w", err)
	}
	return nil
}
