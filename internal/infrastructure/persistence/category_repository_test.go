package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailscan/backend/internal/domain/catalog"
	"github.com/retailscan/backend/internal/domain/feed"
	"github.com/retailscan/backend/internal/domain/shared"
)

func TestGormCategoryRepository_SaveAndFind(t *testing.T) {
	db := setupCatalogTestDB(t)
	pub := &recordingPublisher{}
	repo := NewGormCategoryRepository(db, pub)
	ctx := context.Background()

	category, err := catalog.NewCategory("Dairy", "Milk and cheese")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, category))

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dairy", found.Name)

	require.Len(t, pub.categories, 1)
	assert.Equal(t, feed.ChangeInsert, pub.categories[0].Type)
}

func TestGormCategoryRepository_FindAllOrdered(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormCategoryRepository(db, nil)
	ctx := context.Background()

	for _, name := range []string{"Snacks", "Beverages", "Dairy"} {
		category, err := catalog.NewCategory(name, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, category))
	}

	found, err := repo.FindAllOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "Beverages", found[0].Name)
	assert.Equal(t, "Dairy", found[1].Name)
	assert.Equal(t, "Snacks", found[2].Name)
}

func TestGormCategoryRepository_DeleteEmitsChange(t *testing.T) {
	db := setupCatalogTestDB(t)
	pub := &recordingPublisher{}
	repo := NewGormCategoryRepository(db, pub)
	ctx := context.Background()

	category, err := catalog.NewCategory("Dairy", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, category))

	require.NoError(t, repo.Delete(ctx, category.ID))

	_, err = repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.Len(t, pub.categories, 2)
	assert.Equal(t, feed.ChangeDelete, pub.categories[1].Type)
	require.NotNil(t, pub.categories[1].Old)
	assert.Equal(t, "Dairy", pub.categories[1].Old.Name)
}

func TestGormCategoryRepository_DeleteMissing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormCategoryRepository(db, nil)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
