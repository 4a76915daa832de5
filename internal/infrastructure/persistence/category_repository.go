package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailscan/backend/internal/domain/catalog"
	"github.com/retailscan/backend/internal/domain/feed"
	"github.com/retailscan/backend/internal/domain/shared"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db        *gorm.DB
	publisher feed.Publisher
}

// NewGormCategoryRepository creates a new GormCategoryRepository.
// The publisher may be nil, in which case no change events are emitted.
func NewGormCategoryRepository(db *gorm.DB, publisher feed.Publisher) *GormCategoryRepository {
	return &GormCategoryRepository{db: db, publisher: publisher}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllOrdered returns all categories ordered alphabetically by name
func (r *GormCategoryRepository) FindAllOrdered(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category and emits the matching change event
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	old, err := r.FindByID(ctx, category.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return err
	}

	if r.publisher != nil {
		if old == nil {
			r.publisher.PublishCategory(feed.CategoryChange{Type: feed.ChangeInsert, New: category})
		} else {
			r.publisher.PublishCategory(feed.CategoryChange{Type: feed.ChangeUpdate, New: category, Old: old})
		}
	}
	return nil
}

// Delete deletes a category and emits a delete change event
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	old, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	if r.publisher != nil {
		r.publisher.PublishCategory(feed.CategoryChange{Type: feed.ChangeDelete, Old: old})
	}
	return nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
