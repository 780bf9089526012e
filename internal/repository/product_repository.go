package repository

import (
	"context"
	"errors"
	"fmt"

	"product-needs/internal/database"
	"product-needs/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Save inserts the product when it has no id and updates it otherwise.
func (r *productRepository) Save(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product == nil {
		return nil, model.ErrNilEntity
	}

	db := database.Conn(ctx, r.pool)
	args := []any{product.Code, product.Description, product.Priority, product.Colour}

	if product.ID == nil {
		var id int64
		if err := db.QueryRow(ctx, productTable.insertSQL(), args...).Scan(&id); err != nil {
			return nil, r.writeError(err, product, "failed to insert product")
		}
		product.ID = &id

		r.logger.Debug().Int64("product_id", id).Msg("product inserted")
		return product, nil
	}

	tag, err := db.Exec(ctx, productTable.updateSQL(), append(args, *product.ID)...)
	if err != nil {
		return nil, r.writeError(err, product, "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("product_id", *product.ID).Msg("product to update not found")
		return nil, model.ErrProductNotFound
	}

	r.logger.Debug().Int64("product_id", *product.ID).Msg("product updated")
	return product, nil
}

func (r *productRepository) writeError(err error, product *model.Product, msg string) error {
	if pgErrorCode(err) == pgUniqueViolation {
		r.logger.Debug().Err(err).Str("code", fmtCode(product.Code)).Msg("product code already exists")
		return model.ErrProductCodeExists
	}
	r.logger.Error().Err(err).Str("product", product.String()).Msg(msg)
	return fmt.Errorf("%s: %w", msg, err)
}

// FindAll retrieves every product ordered by id.
func (r *productRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		productTable.selectList(""), productTable.Name, productTable.Key)

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.Priority, &p.Colour); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product by its id.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := database.Conn(ctx, r.pool).QueryRow(ctx, productTable.selectByKeySQL(), id).
		Scan(&p.ID, &p.Code, &p.Description, &p.Priority, &p.Colour)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// DeleteByID removes the product. Deleting a missing product is a no-op.
func (r *productRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, productTable.deleteByKeySQL(), id)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			r.logger.Debug().Err(err).Int64("product_id", id).Msg("product still referenced by needs")
			return model.ErrProductReferenced
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	r.logger.Debug().
		Int64("product_id", id).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("product deleted")

	return nil
}

// Count returns the number of stored products.
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, productTable.countSQL()).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func fmtCode(code *string) string {
	if code == nil {
		return ""
	}
	return *code
}
