package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"speech-coach/internal/domain"
	"speech-coach/internal/repository"
)

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, users.Init(ctx))

	user := &domain.User{Name: "Ada", Email: "ada@x.com", PasswordHash: "hash"}
	id, err := users.Create(ctx, user)
	require.NoError(t, err)
	require.NotZero(t, id)
	require.False(t, user.CreatedAt.IsZero())

	got, err := users.GetByEmail(ctx, "ada@x.com")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "hash", got.PasswordHash)

	got, err = users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Ada", got.Name)

	_, err = users.GetByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = users.GetByID(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got.Name = "Ada L."
	got.Email = "ada@y.com"
	require.NoError(t, users.Update(ctx, got))
	updated, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Ada L.", updated.Name)
	require.Equal(t, "ada@y.com", updated.Email)

	require.NoError(t, users.UpdateProfileImage(ctx, id, "uploads/face.png"))
	updated, err = users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "uploads/face.png", updated.ProfileImage)

	require.NoError(t, users.Delete(ctx, id))
	require.ErrorIs(t, users.Delete(ctx, id), repository.ErrNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, users.Init(ctx))

	_, err := users.Create(ctx, &domain.User{Name: "Ada", Email: "ada@x.com", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Name: "Other Ada", Email: "ada@x.com", PasswordHash: "hash2"})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	bobID, err := users.Create(ctx, &domain.User{Name: "Bob", Email: "bob@x.com", PasswordHash: "hash"})
	require.NoError(t, err)

	bob, err := users.GetByID(ctx, bobID)
	require.NoError(t, err)
	bob.Email = "ada@x.com"
	require.ErrorIs(t, users.Update(ctx, bob), repository.ErrDuplicate)
}
