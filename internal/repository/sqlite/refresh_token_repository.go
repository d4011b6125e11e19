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

const createRefreshTokensTable = `
CREATE TABLE IF NOT EXISTS refresh_tokens (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id);
`

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) repository.RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRefreshTokensTable); err != nil {
		return fmt.Errorf("create refresh_tokens table: %w", err)
	}
	return nil
}

// Replace rotates the user's session: every existing row is removed and the
// new token inserted in one transaction, so concurrent logins cannot leave
// two live rows behind.
func (r *RefreshTokenRepository) Replace(ctx context.Context, userID int64, token string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin refresh token rotation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete old refresh tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO refresh_tokens (user_id, token, created_at)
VALUES (?, ?, ?)`,
		userID,
		token,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit refresh token rotation: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) LatestByUser(ctx context.Context, userID int64) (*domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, token, created_at
FROM refresh_tokens
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`,
		userID,
	)
	return scanRefreshToken(row)
}

func (r *RefreshTokenRepository) FindByUserAndToken(ctx context.Context, userID int64, token string) (*domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, token, created_at
FROM refresh_tokens
WHERE user_id = ? AND token = ?`,
		userID,
		token,
	)
	return scanRefreshToken(row)
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete refresh tokens for user: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired refresh tokens rows affected: %w", err)
	}
	return purged, nil
}

func scanRefreshToken(row *sql.Row) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	if err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}
	return &token, nil
}
