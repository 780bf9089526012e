package service

import (
	"context"
	"errors"

	"product-needs/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// Save creates or updates a product.
	Save(ctx context.Context, product *model.Product) (*model.Product, error)

	// FindAll retrieves every product.
	FindAll(ctx context.Context) ([]model.Product, error)

	// FindOne retrieves a product by id.
	// Returns model.ErrProductNotFound when it does not exist.
	FindOne(ctx context.Context, id int64) (*model.Product, error)

	// Delete removes a product by id.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int64, error)
}

// NeedService defines operations for need management.
type NeedService interface {
	// Save creates or updates a need.
	Save(ctx context.Context, need *model.Need) (*model.Need, error)

	// FindAll retrieves one page of needs.
	FindAll(ctx context.Context, pageable model.Pageable) (*model.Page[model.Need], error)

	// FindOne retrieves a need by id, with its product.
	// Returns model.ErrNeedNotFound when it does not exist.
	FindOne(ctx context.Context, id int64) (*model.Need, error)

	// Delete removes a need by id.
	Delete(ctx context.Context, id int64) error
}

// isDomainError reports whether err carries a domain error, which is an
// expected outcome rather than a failure worth an error log.
func isDomainError(err error) bool {
	var domainErr *model.DomainError
	return errors.As(err, &domainErr)
}
