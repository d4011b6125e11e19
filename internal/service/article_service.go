package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"speech-coach/internal/domain"
	"speech-coach/internal/repository"
)

// ErrArticleNotFound is returned when an article id does not resolve.
var ErrArticleNotFound = errors.New("article not found")

// ArticleService coordinates article CRUD backed by the article repository.
type ArticleService interface {
	Create(ctx context.Context, title, content, articleURL, imageKey string) (*domain.Article, error)
	Get(ctx context.Context, id int64) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	Update(ctx context.Context, id int64, title, content, articleURL, newImageKey string) (*domain.Article, string, error)
	Delete(ctx context.Context, id int64) (string, error)
}

type articleService struct {
	articles repository.ArticleRepository
}

func NewArticleService(articles repository.ArticleRepository) ArticleService {
	return &articleService{articles: articles}
}

func (s *articleService) Create(ctx context.Context, title, content, articleURL, imageKey string) (*domain.Article, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if imageKey == "" {
		return nil, fmt.Errorf("%w: image file is required", ErrValidation)
	}

	article := &domain.Article{
		Title:      title,
		Content:    content,
		ArticleURL: articleURL,
		ImageKey:   imageKey,
	}
	if _, err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Get(ctx context.Context, id int64) (*domain.Article, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

func (s *articleService) List(ctx context.Context) ([]domain.Article, error) {
	return s.articles.List(ctx)
}

// Update overwrites the article fields. When a new image key is supplied the
// previous key is returned so the caller can delete the replaced object.
func (s *articleService) Update(ctx context.Context, id int64, title, content, articleURL, newImageKey string) (*domain.Article, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, "", fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	article, err := s.articles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrArticleNotFound
		}
		return nil, "", err
	}

	var replaced string
	if newImageKey != "" && newImageKey != article.ImageKey {
		replaced = article.ImageKey
		article.ImageKey = newImageKey
	}

	article.Title = title
	article.Content = content
	if articleURL != "" {
		article.ArticleURL = articleURL
	}

	if err := s.articles.Update(ctx, article); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrArticleNotFound
		}
		return nil, "", err
	}
	return article, replaced, nil
}

// Delete removes the row and returns the stored image key for cleanup.
func (s *articleService) Delete(ctx context.Context, id int64) (string, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrArticleNotFound
		}
		return "", err
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrArticleNotFound
		}
		return "", err
	}
	return article.ImageKey, nil
}
