package repository

import (
	"context"

	"product-needs/internal/model"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// Save inserts the product when it has no id and updates it otherwise.
	// The returned product carries the id assigned by the database.
	Save(ctx context.Context, product *model.Product) (*model.Product, error)

	// FindAll retrieves every product ordered by id.
	FindAll(ctx context.Context) ([]model.Product, error)

	// FindByID retrieves a single product by its id.
	// Returns nil, nil when no product has that id.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// DeleteByID removes the product. Deleting a missing product is a no-op.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int64, error)
}

// NeedRepository defines the interface for need data access operations.
type NeedRepository interface {
	// Save inserts the need when it has no id and updates it otherwise.
	Save(ctx context.Context, need *model.Need) (*model.Need, error)

	// FindAll retrieves one page of needs, each with its product loaded.
	FindAll(ctx context.Context, pageable model.Pageable) (*model.Page[model.Need], error)

	// FindByID retrieves a single need with its product loaded.
	// Returns nil, nil when no need has that id.
	FindByID(ctx context.Context, id int64) (*model.Need, error)

	// DeleteByID removes the need. Deleting a missing need is a no-op.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of stored needs.
	Count(ctx context.Context) (int64, error)
}
