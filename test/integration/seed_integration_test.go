package integration

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"product-needs/internal/cache"
	"product-needs/internal/database"
	"product-needs/internal/repository"
	"product-needs/internal/seed"
	"product-needs/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogue(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "product.csv.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	for _, line := range lines {
		_, err := gzipWriter.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gzipWriter.Close())

	return path
}

func TestSeedImport_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	txManager := database.NewTxManager(testDB.Pool, logger)
	products := service.NewProductService(
		repository.NewProductRepository(testDB.Pool, logger),
		txManager,
		cache.NopStore{},
		logger,
	)
	importer := seed.NewImporter(seed.NewFileLoader(logger), products, txManager, logger)

	file := writeCatalogue(t,
		"id;code;description;priority;colour",
		"1;AAAAAAAAAA;first;1;red",
		"2;BBBBBBBBBB;second;2;blue",
		"3;CCCCCCCCCC;;;",
	)

	t.Run("failed import keeps nothing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		broken := writeCatalogue(t,
			"id;code;description;priority;colour",
			"1;AAAAAAAAAA;first;1;red",
			"2;"+strings.Repeat("X", 256)+";too long;2;blue",
		)

		imported, err := importer.Import(ctx, []string{broken})

		require.Error(t, err)
		assert.Equal(t, 0, imported)
		assert.Equal(t, int64(0), CountRows(t, testDB.Pool, "product"))
	})

	t.Run("imports into an empty catalogue", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		imported, err := importer.Import(ctx, []string{file})

		require.NoError(t, err)
		assert.Equal(t, 3, imported)
		assert.Equal(t, int64(3), CountRows(t, testDB.Pool, "product"))

		all, err := products.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "AAAAAAAAAA", *all[0].Code)
		assert.Nil(t, all[2].Priority)
	})

	t.Run("second import is a no-op", func(t *testing.T) {
		imported, err := importer.Import(ctx, []string{file})

		require.NoError(t, err)
		assert.Equal(t, 0, imported)
		assert.Equal(t, int64(3), CountRows(t, testDB.Pool, "product"))
	})
}
