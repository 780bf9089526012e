package service

import (
	"context"
	"errors"
	"fmt"

	"product-needs/internal/cache"
	"product-needs/internal/database"
	"product-needs/internal/model"
	"product-needs/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// cachedNeed is the cached form of a need. The product is kept by id and
// resolved through the product cache so product updates are never stale here.
type cachedNeed struct {
	ID        int64   `json:"id"`
	Priority  *string `json:"priority"`
	ProductID *int64  `json:"productId"`
}

func newCachedNeed(n *model.Need) cachedNeed {
	return cachedNeed{ID: *n.ID, Priority: n.Priority, ProductID: n.ProductID()}
}

// needService implements NeedService.
type needService struct {
	needRepo repository.NeedRepository
	products ProductService
	tx       database.Transactor
	cache    entityCache
	loads    singleflight.Group
	logger   zerolog.Logger
}

// NewNeedService creates a new need service.
func NewNeedService(
	needRepo repository.NeedRepository,
	products ProductService,
	tx database.Transactor,
	store cache.Store,
	logger zerolog.Logger,
) NeedService {
	logger = logger.With().Str("service", "need").Logger()
	return &needService{
		needRepo: needRepo,
		products: products,
		tx:       tx,
		cache:    newEntityCache(store, logger),
		logger:   logger,
	}
}

// Save creates or updates a need and evicts its cache entry.
func (s *needService) Save(ctx context.Context, need *model.Need) (*model.Need, error) {
	if need == nil {
		return nil, model.ErrNilEntity
	}

	s.logger.Debug().Str("need", need.String()).Msg("request to save need")

	var saved *model.Need
	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.needRepo.Save(ctx, need)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error().Err(err).Str("need", need.String()).Msg("failed to save need")
		}
		return nil, fmt.Errorf("failed to save need: %w", err)
	}

	s.cache.evict(ctx, cache.NeedKey(*saved.ID))

	return saved, nil
}

// FindAll retrieves one page of needs.
func (s *needService) FindAll(ctx context.Context, pageable model.Pageable) (*model.Page[model.Need], error) {
	s.logger.Debug().
		Int("page", pageable.Page).
		Int("size", pageable.Size).
		Msg("request to get a page of needs")

	var page *model.Page[model.Need]
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.needRepo.FindAll(ctx, pageable)
		return err
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error().Err(err).Msg("failed to get needs")
		}
		return nil, fmt.Errorf("failed to get needs: %w", err)
	}

	return page, nil
}

// FindOne retrieves a need by id, reading through the cache.
func (s *needService) FindOne(ctx context.Context, id int64) (*model.Need, error) {
	s.logger.Debug().Int64("need_id", id).Msg("request to get need")

	key := cache.NeedKey(id)

	var cached cachedNeed
	if s.cache.get(ctx, key, &cached) {
		need, err := s.resolve(ctx, cached)
		if err == nil {
			return need, nil
		}
		s.logger.Debug().Err(err).Int64("need_id", id).Msg("cached need could not be resolved")
		s.cache.evict(ctx, key)
	}

	v, err, _ := s.loads.Do(key, func() (any, error) {
		// Shared by all waiting callers; outlives any one of them.
		ctx := context.WithoutCancel(ctx)
		var need *model.Need
		err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
			var err error
			need, err = s.needRepo.FindByID(ctx, id)
			return err
		})
		if err != nil {
			return nil, err
		}
		if need == nil {
			return nil, model.ErrNeedNotFound
		}

		s.cache.set(ctx, key, newCachedNeed(need))
		if need.Product != nil {
			s.cache.set(ctx, cache.ProductKey(*need.Product.ID), need.Product)
		}
		return need, nil
	})
	if err != nil {
		if isDomainError(err) {
			s.logger.Debug().Int64("need_id", id).Msg("need not found")
			return nil, err
		}
		s.logger.Error().Err(err).Int64("need_id", id).Msg("failed to get need by ID")
		return nil, fmt.Errorf("failed to get need: %w", err)
	}

	need := *v.(*model.Need)
	if need.Product != nil {
		product := *need.Product
		need.Product = &product
	}
	return &need, nil
}

// resolve rebuilds a need from its cached form.
func (s *needService) resolve(ctx context.Context, cached cachedNeed) (*model.Need, error) {
	need := &model.Need{ID: &cached.ID, Priority: cached.Priority}
	if cached.ProductID == nil {
		return need, nil
	}

	product, err := s.products.FindOne(ctx, *cached.ProductID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, fmt.Errorf("product %d of cached need vanished: %w", *cached.ProductID, err)
		}
		return nil, err
	}
	need.Product = product
	return need, nil
}

// Delete removes a need by id and evicts it from the cache.
func (s *needService) Delete(ctx context.Context, id int64) error {
	s.logger.Debug().Int64("need_id", id).Msg("request to delete need")

	err := s.tx.ReadWrite(ctx, func(ctx context.Context) error {
		return s.needRepo.DeleteByID(ctx, id)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("need_id", id).Msg("failed to delete need")
		return fmt.Errorf("failed to delete need: %w", err)
	}

	s.cache.evict(ctx, cache.NeedKey(id))

	return nil
}
