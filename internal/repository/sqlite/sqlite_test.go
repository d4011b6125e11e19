package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"speech-coach/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()
	users := NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	id, err := users.Create(context.Background(), &domain.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}
