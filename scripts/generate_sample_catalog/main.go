package main

import (
	"compress/gzip"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"product-needs/internal/randutil"
)

var colours = []string{"red", "green", "blue", "black", "white", "orange"}

// generateSampleCatalog writes a gzipped ';' separated product catalogue
// that the seed importer reads on startup when SEED_ENABLED=true.
func main() {
	out := flag.String("out", "data/seed/product.csv.gz", "output file")
	count := flag.Int("n", 10, "number of products")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := createCatalogFile(*out, *count); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d products\n", *out, *count)
}

func createCatalogFile(filePath string, count int) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	w.Comma = ';'

	if err := w.Write([]string{"id", "code", "description", "priority", "colour"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 1; i <= count; i++ {
		code, err := randutil.GenerateActivationKey()
		if err != nil {
			return fmt.Errorf("failed to generate code: %w", err)
		}
		record := []string{
			strconv.Itoa(i),
			code,
			fmt.Sprintf("Sample product %d", i),
			strconv.Itoa(rand.IntN(10)),
			colours[rand.IntN(len(colours))],
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write product: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
