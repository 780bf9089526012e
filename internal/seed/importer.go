package seed

import (
	"context"
	"fmt"

	"product-needs/internal/database"
	"product-needs/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Importer fills an empty product catalogue from seed files.
type Importer struct {
	loader   Loader
	products ProductSaver
	tx       database.Transactor
	logger   zerolog.Logger
}

// NewImporter creates a new catalogue importer. Saves made through products
// must join the transaction tx places in the context.
func NewImporter(loader Loader, products ProductSaver, tx database.Transactor, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:   loader,
		products: products,
		tx:       tx,
		logger:   logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import loads every file concurrently and saves their products in file
// order, skipping codes already seen in an earlier file. All saves run in one
// transaction, so a failure leaves the catalogue empty and the next run
// retries the whole import. Nothing is imported when the catalogue already
// has products. It returns the number of products saved.
func (i *Importer) Import(ctx context.Context, files []string) (int, error) {
	existing, err := i.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		i.logger.Info().Int64("existing", existing).Msg("catalogue not empty, skipping seed import")
		return 0, nil
	}

	catalogues := make([][]model.Product, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for idx, path := range files {
		g.Go(func() error {
			products, err := i.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load seed file %s: %w", path, err)
			}
			catalogues[idx] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		i.logger.Error().Err(err).Msg("seed import aborted")
		return 0, err
	}

	seen := newCodeSet(1024)
	loaded, saved := 0, 0
	err = i.tx.ReadWrite(ctx, func(ctx context.Context) error {
		for idx, products := range catalogues {
			for _, p := range products {
				loaded++
				if !seen.Add(*p.Code) {
					continue
				}
				if _, err := i.products.Save(ctx, &p); err != nil {
					return fmt.Errorf("failed to save product %s from %s: %w", *p.Code, files[idx], err)
				}
				saved++
			}
		}
		return nil
	})
	if err != nil {
		i.logger.Error().Err(err).Int("rolled_back", saved).Msg("seed import rolled back")
		return 0, err
	}

	i.logger.Info().
		Int("files", len(files)).
		Int("products_loaded", loaded).
		Int("distinct_codes", seen.Size()).
		Int("products_saved", saved).
		Msg("seed import complete")

	return saved, nil
}
