package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArticleCRUD(t *testing.T) {
	svc := NewArticleService(newFakeArticleRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "content", "", "uploads/img.png")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, "Title", "content", "", "")
	require.ErrorIs(t, err, ErrValidation)

	article, err := svc.Create(ctx, "Title", "Some content", "https://example.com", "uploads/img.png")
	require.NoError(t, err)
	require.NotZero(t, article.ID)

	got, err := svc.Get(ctx, article.ID)
	require.NoError(t, err)
	require.Equal(t, "Title", got.Title)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, replaced, err := svc.Update(ctx, article.ID, "New title", "New content", "", "uploads/img2.png")
	require.NoError(t, err)
	require.Equal(t, "New title", updated.Title)
	require.Equal(t, "uploads/img.png", replaced, "old image key is handed back for cleanup")
	require.Equal(t, "https://example.com", updated.ArticleURL, "empty url keeps the old value")

	// No new image: nothing to replace.
	_, replaced, err = svc.Update(ctx, article.ID, "New title", "New content", "", "")
	require.NoError(t, err)
	require.Empty(t, replaced)

	imageKey, err := svc.Delete(ctx, article.ID)
	require.NoError(t, err)
	require.Equal(t, "uploads/img2.png", imageKey)

	_, err = svc.Get(ctx, article.ID)
	require.ErrorIs(t, err, ErrArticleNotFound)
	_, err = svc.Delete(ctx, article.ID)
	require.ErrorIs(t, err, ErrArticleNotFound)
}
