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

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	audio_key TEXT NOT NULL,
	original_paragraph TEXT NOT NULL,
	corrected_paragraph TEXT NOT NULL DEFAULT '',
	grammar_analysis TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id);
`

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Create(ctx context.Context, history *domain.History) (int64, error) {
	now := time.Now().UTC()
	history.CreatedAt = now
	history.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO history (user_id, audio_key, original_paragraph, corrected_paragraph, grammar_analysis, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		history.UserID,
		history.AudioKey,
		history.OriginalParagraph,
		history.CorrectedParagraph,
		history.GrammarAnalysis,
		history.CreatedAt,
		history.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history last insert id: %w", err)
	}
	history.ID = id
	return id, nil
}

func (r *HistoryRepository) GetForUser(ctx context.Context, userID, id int64) (*domain.History, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, audio_key, original_paragraph, corrected_paragraph, grammar_analysis, created_at, updated_at
FROM history
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)

	var history domain.History
	if err := scanHistory(row.Scan, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID int64) ([]domain.History, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, audio_key, original_paragraph, corrected_paragraph, grammar_analysis, created_at, updated_at
FROM history
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var items []domain.History
	for rows.Next() {
		var history domain.History
		if err := scanHistory(rows.Scan, &history); err != nil {
			return nil, err
		}
		items = append(items, history)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return items, nil
}

func (r *HistoryRepository) LatestByUserAndAudio(ctx context.Context, userID int64, audioKey string) (*domain.History, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, audio_key, original_paragraph, corrected_paragraph, grammar_analysis, created_at, updated_at
FROM history
WHERE user_id = ? AND audio_key = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`,
		userID,
		audioKey,
	)

	var history domain.History
	if err := scanHistory(row.Scan, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *HistoryRepository) Update(ctx context.Context, history *domain.History) error {
	history.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE history
SET corrected_paragraph = ?, grammar_analysis = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		history.CorrectedParagraph,
		history.GrammarAnalysis,
		history.UpdatedAt,
		history.ID,
		history.UserID,
	)
	if err != nil {
		return fmt.Errorf("update history: %w", err)
	}
	return requireAffected(res, "history")
}

func (r *HistoryRepository) DeleteForUser(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return requireAffected(res, "history")
}

func (r *HistoryRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete history for user: %w", err)
	}
	return nil
}

func scanHistory(scan func(dest ...any) error, history *domain.History) error {
	if err := scan(
		&history.ID,
		&history.UserID,
		&history.AudioKey,
		&history.OriginalParagraph,
		&history.CorrectedParagraph,
		&history.GrammarAnalysis,
		&history.CreatedAt,
		&history.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("history: %w", repository.ErrNotFound)
		}
		return fmt.Errorf("scan history: %w", err)
	}
	return nil
}
