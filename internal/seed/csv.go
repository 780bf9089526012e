package seed

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"product-needs/internal/model"
)

// Catalogue files are ';' separated with the columns below and an optional
// header row.
const (
	fieldSeparator = ';'
	fieldCount     = 5
)

// readCatalogue decompresses r and parses every product row. Rows without a
// code are rejected, and codes repeated within the file are dropped.
func readCatalogue(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	reader := csv.NewReader(gzipReader)
	reader.Comma = fieldSeparator
	reader.FieldsPerRecord = fieldCount
	reader.ReuseRecord = true

	var products []model.Product
	seen := newCodeSet(1024)

	for line := 1; ; line++ {
		if line%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "id") {
			continue
		}

		p, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !seen.Add(*p.Code) {
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

// parseProduct maps id;code;description;priority;colour onto a product.
// The id column is ignored; ids are assigned on insert.
func parseProduct(record []string) (model.Product, error) {
	code := strings.TrimSpace(record[1])
	if code == "" {
		return model.Product{}, model.ErrProductCodeRequired
	}

	p := model.Product{
		Code:        &code,
		Description: optional(record[2]),
		Colour:      optional(record[4]),
	}

	if v := strings.TrimSpace(record[3]); v != "" {
		priority, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return model.Product{}, fmt.Errorf("invalid priority %q: %w", v, err)
		}
		pr := int32(priority)
		p.Priority = &pr
	}

	return p, nil
}

func optional(field string) *string {
	v := strings.TrimSpace(field)
	if v == "" {
		return nil
	}
	return &v
}
