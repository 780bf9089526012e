package main

import (
	"context"
	"fmt"
	"os"

	"product-needs/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// Connects with the DB_* settings and reports the schema version.
func main() {
	_ = godotenv.Load()
	dbConfig := config.LoadDatabase()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbConfig.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	var (
		version int64
		dirty   bool
	)
	err = conn.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if err != nil {
		fmt.Printf("No migrations applied yet (%v)\n", err)
		return
	}

	fmt.Printf("Schema version: %d (dirty=%t)\n", version, dirty)
}
