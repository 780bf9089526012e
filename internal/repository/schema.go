package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Column describes one column of a mapped table.
type Column struct {
	Name       string
	Nullable   bool
	Unique     bool
	References string // "table(column)" for foreign keys
}

// Table describes how an entity is laid out in the database.
// The migrations create exactly these columns.
type Table struct {
	Name    string
	Key     string
	Columns []Column
}

var productTable = Table{
	Name: "product",
	Key:  "id",
	Columns: []Column{
		{Name: "code", Unique: true},
		{Name: "description", Nullable: true},
		{Name: "priority", Nullable: true},
		{Name: "colour", Nullable: true},
	},
}

var needTable = Table{
	Name: "need",
	Key:  "id",
	Columns: []Column{
		{Name: "priority", Nullable: true},
		{Name: "product_id", Nullable: true, References: "product(id)"},
	},
}

// Tables returns the schema definitions of every mapped entity.
func Tables() []Table {
	return []Table{productTable, needTable}
}

// Column returns the column with the given name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// columnNames returns the non-key column names, optionally qualified by alias.
func (t Table) columnNames(alias string) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if alias != "" {
			names[i] = alias + "." + c.Name
		} else {
			names[i] = c.Name
		}
	}
	return names
}

// selectList returns "key, col1, col2..." optionally qualified by alias.
func (t Table) selectList(alias string) string {
	key := t.Key
	if alias != "" {
		key = alias + "." + key
	}
	return strings.Join(append([]string{key}, t.columnNames(alias)...), ", ")
}

func (t Table) insertSQL() string {
	placeholders := make([]string, len(t.Columns))
	for i := range t.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Name, strings.Join(t.columnNames(""), ", "), strings.Join(placeholders, ", "), t.Key)
}

// updateSQL binds the columns first and the key last.
func (t Table) updateSQL() string {
	sets := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		sets[i] = fmt.Sprintf("%s = $%d", c.Name, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		t.Name, strings.Join(sets, ", "), t.Key, len(t.Columns)+1)
}

func (t Table) selectByKeySQL() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", t.selectList(""), t.Name, t.Key)
}

func (t Table) deleteByKeySQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.Name, t.Key)
}

func (t Table) countSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", t.Name)
}

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgErrorCode returns the SQLSTATE of err when it comes from PostgreSQL.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
