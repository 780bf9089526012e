package seed

import (
	"context"

	"product-needs/internal/model"
)

// Loader reads a gzipped product catalogue.
type Loader interface {
	// Load reads the catalogue at path and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// ProductSaver is the subset of the product service the importer needs.
type ProductSaver interface {
	Save(ctx context.Context, product *model.Product) (*model.Product, error)
	Count(ctx context.Context) (int64, error)
}
