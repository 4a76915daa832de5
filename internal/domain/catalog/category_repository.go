package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindAllOrdered returns all categories ordered alphabetically by name.
	// The stable ordering makes category matching reproducible.
	FindAllOrdered(ctx context.Context) ([]Category, error)

	// Save persists a category (insert or update)
	Save(ctx context.Context, category *Category) error

	// Delete removes a category
	Delete(ctx context.Context, id uuid.UUID) error
}
