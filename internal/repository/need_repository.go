package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"product-needs/internal/database"
	"product-needs/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// needSortColumns maps the sortable need properties to their columns.
var needSortColumns = map[string]string{
	"id":       "n.id",
	"priority": "n.priority",
}

// needRepository implements the NeedRepository interface using PostgreSQL.
type needRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewNeedRepository creates a new PostgreSQL-backed need repository.
func NewNeedRepository(pool *pgxpool.Pool, logger zerolog.Logger) NeedRepository {
	return &needRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "need").Logger(),
	}
}

// needSelect selects a need with its product joined in.
func needSelect() string {
	return fmt.Sprintf("SELECT %s, %s FROM %s n LEFT JOIN %s p ON p.%s = n.product_id",
		needTable.selectList("n"), productTable.selectList("p"),
		needTable.Name, productTable.Name, productTable.Key)
}

func scanNeed(row pgx.Row) (*model.Need, error) {
	var (
		n         model.Need
		productID *int64
		p         model.Product
	)
	if err := row.Scan(&n.ID, &n.Priority, new(*int64),
		&productID, &p.Code, &p.Description, &p.Priority, &p.Colour); err != nil {
		return nil, err
	}
	if productID != nil {
		p.ID = productID
		n.Product = &p
	}
	return &n, nil
}

// Save inserts the need when it has no id and updates it otherwise.
func (r *needRepository) Save(ctx context.Context, need *model.Need) (*model.Need, error) {
	if need == nil {
		return nil, model.ErrNilEntity
	}

	db := database.Conn(ctx, r.pool)
	args := []any{need.Priority, need.ProductID()}

	if need.ID == nil {
		var id int64
		if err := db.QueryRow(ctx, needTable.insertSQL(), args...).Scan(&id); err != nil {
			return nil, r.writeError(err, need, "failed to insert need")
		}
		need.ID = &id

		r.logger.Debug().Int64("need_id", id).Msg("need inserted")
		return need, nil
	}

	tag, err := db.Exec(ctx, needTable.updateSQL(), append(args, *need.ID)...)
	if err != nil {
		return nil, r.writeError(err, need, "failed to update need")
	}
	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("need_id", *need.ID).Msg("need to update not found")
		return nil, model.ErrNeedNotFound
	}

	r.logger.Debug().Int64("need_id", *need.ID).Msg("need updated")
	return need, nil
}

func (r *needRepository) writeError(err error, need *model.Need, msg string) error {
	if pgErrorCode(err) == pgForeignKeyViolation {
		r.logger.Debug().Err(err).Str("need", need.String()).Msg("referenced product does not exist")
		return model.ErrNeedProductNotFound
	}
	r.logger.Error().Err(err).Str("need", need.String()).Msg(msg)
	return fmt.Errorf("%s: %w", msg, err)
}

// orderBy builds the ORDER BY clause for pageable, rejecting unknown properties.
// Rows are always tie-broken by id so pages are stable.
func orderBy(pageable model.Pageable) (string, error) {
	terms := make([]string, 0, len(pageable.Sort)+1)
	byID := false
	for _, s := range pageable.Sort {
		col, ok := needSortColumns[s.Property]
		if !ok {
			return "", model.ErrInvalidSort
		}
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
		byID = byID || s.Property == "id"
	}
	if !byID {
		terms = append(terms, "n.id ASC")
	}
	return "ORDER BY " + strings.Join(terms, ", "), nil
}

// FindAll retrieves one page of needs, each with its product loaded.
func (r *needRepository) FindAll(ctx context.Context, pageable model.Pageable) (*model.Page[model.Need], error) {
	order, err := orderBy(pageable)
	if err != nil {
		r.logger.Debug().Interface("sort", pageable.Sort).Msg("unsupported sort property")
		return nil, err
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	page := &model.Page[model.Need]{Content: []model.Need{}, Total: total, Pageable: pageable}
	if total == 0 || int64(pageable.Offset()) >= total {
		return page, nil
	}

	query := fmt.Sprintf("%s %s LIMIT $1 OFFSET $2", needSelect(), order)
	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, pageable.Size, pageable.Offset())
	if err != nil {
		r.logger.Error().Err(err).
			Int("page", pageable.Page).
			Int("size", pageable.Size).
			Msg("failed to query needs")
		return nil, fmt.Errorf("failed to query needs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNeed(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan need row")
			return nil, fmt.Errorf("failed to scan need: %w", err)
		}
		page.Content = append(page.Content, *n)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating need rows")
		return nil, fmt.Errorf("error iterating needs: %w", err)
	}

	return page, nil
}

// FindByID retrieves a single need with its product loaded.
func (r *needRepository) FindByID(ctx context.Context, id int64) (*model.Need, error) {
	query := needSelect() + " WHERE n.id = $1"

	n, err := scanNeed(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("need_id", id).Msg("need not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("need_id", id).Msg("failed to query need")
		return nil, fmt.Errorf("failed to query need: %w", err)
	}

	return n, nil
}

// DeleteByID removes the need. Deleting a missing need is a no-op.
func (r *needRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, needTable.deleteByKeySQL(), id)
	if err != nil {
		r.logger.Error().Err(err).Int64("need_id", id).Msg("failed to delete need")
		return fmt.Errorf("failed to delete need: %w", err)
	}

	r.logger.Debug().
		Int64("need_id", id).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("need deleted")

	return nil
}

// Count returns the number of stored needs.
func (r *needRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, needTable.countSQL()).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count needs")
		return 0, fmt.Errorf("failed to count needs: %w", err)
	}
	return count, nil
}
