package repository

import (
	"context"
	"testing"
	"time"

	"product-needs/internal/migration"
	"product-needs/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a migrated PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, migration.Run(pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func int64Ptr(v int64) *int64    { return &v }
func int32Ptr(v int32) *int32    { return &v }
func stringPtr(v string) *string { return &v }

// seedProducts inserts test products and returns them with their ids.
func seedProducts(t *testing.T, repo ProductRepository, codes ...string) []*model.Product {
	ctx := context.Background()

	products := make([]*model.Product, 0, len(codes))
	for i, code := range codes {
		p, err := repo.Save(ctx, &model.Product{
			Code:        stringPtr(code),
			Description: stringPtr("description " + code),
			Priority:    int32Ptr(int32(i + 1)),
			Colour:      stringPtr("red"),
		})
		require.NoError(t, err)
		products = append(products, p)
	}
	return products
}

func TestProductRepository_SaveInsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	product := &model.Product{
		Code:        stringPtr("AAAAAAAAAA"),
		Description: stringPtr("AAAAAAAAAA"),
		Priority:    int32Ptr(1),
		Colour:      stringPtr("AAAAAAAAAA"),
	}

	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)
	require.NotNil(t, saved.ID)

	found, err := repo.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "AAAAAAAAAA", *found.Code)
	assert.Equal(t, "AAAAAAAAAA", *found.Description)
	assert.Equal(t, int32(1), *found.Priority)
	assert.Equal(t, "AAAAAAAAAA", *found.Colour)
}

func TestProductRepository_SaveUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	existing := seedProducts(t, repo, "AAAAAAAAAA")[0]

	tests := []struct {
		name        string
		product     *model.Product
		expectedErr error
	}{
		{
			name: "Existing product",
			product: &model.Product{
				ID:          existing.ID,
				Code:        stringPtr("BBBBBBBBBB"),
				Description: stringPtr("BBBBBBBBBB"),
				Priority:    int32Ptr(2),
				Colour:      stringPtr("BBBBBBBBBB"),
			},
		},
		{
			name:        "Unknown id",
			product:     &model.Product{ID: int64Ptr(999999), Code: stringPtr("CCCCCCCCCC")},
			expectedErr: model.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := repo.Save(ctx, tt.product)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, saved)
				return
			}

			require.NoError(t, err)
			found, err := repo.FindByID(ctx, *tt.product.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, *tt.product.Code, *found.Code)
			assert.Equal(t, *tt.product.Priority, *found.Priority)
		})
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProductRepository_SaveDuplicateCode(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	seedProducts(t, repo, "AAAAAAAAAA")

	saved, err := repo.Save(ctx, &model.Product{Code: stringPtr("AAAAAAAAAA")})

	assert.ErrorIs(t, err, model.ErrProductCodeExists)
	assert.Nil(t, saved)
}

func TestProductRepository_SaveNilCode(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	saved, err := repo.Save(context.Background(), &model.Product{})

	require.Error(t, err)
	assert.Nil(t, saved)
}

func TestProductRepository_FindAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	seedProducts(t, repo, "C", "A", "B")

	products, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)

	// Ordered by id, i.e. insertion order.
	for i := 1; i < len(products); i++ {
		assert.Less(t, *products[i-1].ID, *products[i].ID)
	}
	assert.Equal(t, "C", *products[0].Code)
}

func TestProductRepository_FindByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	existing := seedProducts(t, repo, "AAAAAAAAAA")[0]

	tests := []struct {
		name      string
		id        int64
		expectNil bool
	}{
		{name: "Product exists", id: *existing.ID},
		{name: "Product does not exist", id: 999999, expectNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := repo.FindByID(context.Background(), tt.id)

			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, product)
				return
			}
			require.NotNil(t, product)
			assert.True(t, existing.Equal(product))
		})
	}
}

func TestProductRepository_DeleteByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	products := seedProducts(t, repo, "A", "B")

	require.NoError(t, repo.DeleteByID(ctx, *products[0].ID))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByID(ctx, *products[0].ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Missing ids are a no-op.
	require.NoError(t, repo.DeleteByID(ctx, 999999))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProductRepository_DeleteReferenced(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	products := NewProductRepository(pool, zerolog.Nop())
	needs := NewNeedRepository(pool, zerolog.Nop())
	ctx := context.Background()

	product := seedProducts(t, products, "A")[0]
	_, err := needs.Save(ctx, &model.Need{Priority: stringPtr("high"), Product: product})
	require.NoError(t, err)

	err = products.DeleteByID(ctx, *product.ID)
	assert.ErrorIs(t, err, model.ErrProductReferenced)
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	seedProducts(t, repo, "A")

	// Close the pool to simulate database errors
	pool.Close()

	ctx := context.Background()

	t.Run("Save with closed pool", func(t *testing.T) {
		product, err := repo.Save(ctx, &model.Product{Code: stringPtr("B")})
		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("FindAll with closed pool", func(t *testing.T) {
		products, err := repo.FindAll(ctx)
		require.Error(t, err)
		assert.Nil(t, products)
	})

	t.Run("FindByID with closed pool", func(t *testing.T) {
		product, err := repo.FindByID(ctx, 1)
		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("DeleteByID with closed pool", func(t *testing.T) {
		require.Error(t, repo.DeleteByID(ctx, 1))
	})

	t.Run("Count with closed pool", func(t *testing.T) {
		_, err := repo.Count(ctx)
		require.Error(t, err)
	})
}
