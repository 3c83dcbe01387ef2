package repository_test

import (
	"context"
	"testing"

	"anoa.com/bloggerplatform/internal/entity"
	"anoa.com/bloggerplatform/internal/modules/post/repository"
	"anoa.com/bloggerplatform/internal/testutil"
	"anoa.com/bloggerplatform/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	p := &entity.Post{BlogID: uuid.New(), BlogName: "b", Title: "t", Content: "c"}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, entity.LikesCounters{}, got.LikesCounters)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
