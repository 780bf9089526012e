package service

import (
	"context"
	"fmt"

	"product-needs/internal/cache"
	"product-needs/internal/database"
	"product-needs/internal/model"
	"product-needs/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	tx          database.Transactor
	cache       entityCache
	loads       singleflight.Group
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	tx database.Transactor,
	store cache.Store,
	logger zerolog.Logger,
) ProductService {
	logger = logger.With().Str("service", "product").Logger()
	return &productService{
		productRepo: productRepo,
		tx:          tx,
		cache:       newEntityCache(store, logger),
		logger:      logger,
	}
}

// Save creates or updates a product and evicts its cache entry.
func (s *productService) Save(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product == nil {
		return nil, model.ErrNilEntity
	}

	s.logger.Debug().Str("product", product.String()).Msg("request to save product")

	var saved *model.Product
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.productRepo.Save(ctx, product)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error().Err(err).Str("product", product.String()).Msg("failed to save product")
		}
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	// The next read repopulates the entry from the committed row.
	s.cache.evict(ctx, cache.ProductKey(*saved.ID))

	return saved, nil
}

// FindAll retrieves every product.
func (s *productService) FindAll(ctx context.Context) ([]model.Product, error) {
	s.logger.Debug().Msg("request to get all products")

	var products []model.Product
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.productRepo.FindAll(ctx)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// FindOne retrieves a product by id, reading through the cache.
func (s *productService) FindOne(ctx context.Context, id int64) (*model.Product, error) {
	s.logger.Debug().Int64("product_id", id).Msg("request to get product")

	key := cache.ProductKey(id)

	var cached model.Product
	if s.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	v, err, _ := s.loads.Do(key, func() (any, error) {
		// Shared by all waiting callers; outlives any one of them.
		ctx := context.WithoutCancel(ctx)
		var product *model.Product
		err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
			var err error
			product, err = s.productRepo.FindByID(ctx, id)
			return err
		})
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, model.ErrProductNotFound
		}

		s.cache.set(ctx, key, product)
		return product, nil
	})
	if err != nil {
		if isDomainError(err) {
			s.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	// Callers sharing a load each get their own copy.
	product := *v.(*model.Product)
	return &product, nil
}

// Delete removes a product by id and evicts it from the cache.
func (s *productService) Delete(ctx context.Context, id int64) error {
	s.logger.Debug().Int64("product_id", id).Msg("request to delete product")

	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		return s.productRepo.DeleteByID(ctx, id)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.cache.evict(ctx, cache.ProductKey(id))

	return nil
}

// Count returns the number of stored products.
func (s *productService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		count, err = s.productRepo.Count(ctx)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
