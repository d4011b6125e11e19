package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"speech-coach/internal/domain"
	"speech-coach/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Init(context.Context) error { return nil }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
	}
	r.seq++
	user.ID = r.seq
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return fmt.Errorf("update user: %w", repository.ErrDuplicate)
		}
	}
	*stored = *user
	return nil
}

func (r *fakeUserRepo) UpdateProfileImage(_ context.Context, id int64, imageKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	user.ProfileImage = imageKey
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

type fakeTokenRepo struct {
	mu   sync.Mutex
	seq  int64
	rows []domain.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{}
}

func (r *fakeTokenRepo) Init(context.Context) error { return nil }

func (r *fakeTokenRepo) Replace(_ context.Context, userID int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	r.seq++
	r.rows = append(r.rows, domain.RefreshToken{
		ID:        r.seq,
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *fakeTokenRepo) LatestByUser(_ context.Context, userID int64) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.RefreshToken
	for i := range r.rows {
		row := r.rows[i]
		if row.UserID != userID {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			clone := row
			latest = &clone
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("refresh token: %w", repository.ErrNotFound)
	}
	return latest, nil
}

func (r *fakeTokenRepo) FindByUserAndToken(_ context.Context, userID int64, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.Token == token {
			clone := row
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("refresh token: %w", repository.ErrNotFound)
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.Token != token {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeTokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeTokenRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return purged, nil
}

// age rewinds a stored token's creation time so tests can cross the
// freshness window without sleeping.
func (r *fakeTokenRepo) age(token string, by time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].Token == token {
			r.rows[i].CreatedAt = r.rows[i].CreatedAt.Add(-by)
		}
	}
}

func (r *fakeTokenRepo) count(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows {
		if row.UserID == userID {
			n++
		}
	}
	return n
}

type fakeHistoryRepo struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]*domain.History
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{rows: make(map[int64]*domain.History)}
}

func (r *fakeHistoryRepo) Init(context.Context) error { return nil }

func (r *fakeHistoryRepo) Create(_ context.Context, history *domain.History) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	history.ID = r.seq
	now := time.Now().UTC()
	history.CreatedAt = now
	history.UpdatedAt = now
	clone := *history
	r.rows[history.ID] = &clone
	return history.ID, nil
}

func (r *fakeHistoryRepo) GetForUser(_ context.Context, userID, id int64) (*domain.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	history, ok := r.rows[id]
	if !ok || history.UserID != userID {
		return nil, fmt.Errorf("history: %w", repository.ErrNotFound)
	}
	clone := *history
	return &clone, nil
}

func (r *fakeHistoryRepo) ListByUser(_ context.Context, userID int64) ([]domain.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []domain.History
	for _, history := range r.rows {
		if history.UserID == userID {
			items = append(items, *history)
		}
	}
	return items, nil
}

func (r *fakeHistoryRepo) LatestByUserAndAudio(_ context.Context, userID int64, audioKey string) (*domain.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.History
	for _, history := range r.rows {
		if history.UserID != userID || history.AudioKey != audioKey {
			continue
		}
		if latest == nil || history.CreatedAt.After(latest.CreatedAt) {
			clone := *history
			latest = &clone
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("history: %w", repository.ErrNotFound)
	}
	return latest, nil
}

func (r *fakeHistoryRepo) Update(_ context.Context, history *domain.History) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[history.ID]
	if !ok || stored.UserID != history.UserID {
		return fmt.Errorf("history: %w", repository.ErrNotFound)
	}
	*stored = *history
	return nil
}

func (r *fakeHistoryRepo) DeleteForUser(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	history, ok := r.rows[id]
	if !ok || history.UserID != userID {
		return fmt.Errorf("history: %w", repository.ErrNotFound)
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeHistoryRepo) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, history := range r.rows {
		if history.UserID == userID {
			delete(r.rows, id)
		}
	}
	return nil
}

type fakeArticleRepo struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]*domain.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{rows: make(map[int64]*domain.Article)}
}

func (r *fakeArticleRepo) Init(context.Context) error { return nil }

func (r *fakeArticleRepo) Create(_ context.Context, article *domain.Article) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	article.ID = r.seq
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now
	clone := *article
	r.rows[article.ID] = &clone
	return article.ID, nil
}

func (r *fakeArticleRepo) Get(_ context.Context, id int64) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("article: %w", repository.ErrNotFound)
	}
	clone := *article
	return &clone, nil
}

func (r *fakeArticleRepo) List(_ context.Context) ([]domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var articles []domain.Article
	for _, article := range r.rows {
		articles = append(articles, *article)
	}
	return articles, nil
}

func (r *fakeArticleRepo) Update(_ context.Context, article *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[article.ID]
	if !ok {
		return fmt.Errorf("article: %w", repository.ErrNotFound)
	}
	*stored = *article
	return nil
}

func (r *fakeArticleRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("article: %w", repository.ErrNotFound)
	}
	delete(r.rows, id)
	return nil
}
