// Package database exports result tables into PostGIS.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/pkg/errors"

	"github.com/osmtools/osmquery/table"
)

type PostGIS struct {
	db     *sql.DB
	schema string
}

// Connect opens a connection with lib/pq connection parameters, e.g.
// "host=localhost dbname=osm sslmode=disable".
func Connect(params string, schema string) (*PostGIS, error) {
	if schema == "" {
		schema = "public"
	}
	db, err := sql.Open("postgres", params)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}
	return &PostGIS{db: db, schema: schema}, nil
}

func (pg *PostGIS) Close() error {
	return pg.db.Close()
}

// Import creates the destination table and inserts all rows of the
// result table in a single transaction.
func (pg *PostGIS) Import(name string, t *table.Table) error {
	srid := sridFromCRS(t.CRS)

	if _, err := pg.db.Exec(createTableSQL(pg.schema, name, t)); err != nil {
		return errors.Wrapf(err, "creating table %q", name)
	}

	tx, err := pg.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertSQL(pg.schema, name, t, srid))
	if err != nil {
		return errors.Wrapf(err, "preparing insert for %q", name)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		values, err := rowValues(t, &row)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(values...); err != nil {
			return errors.Wrapf(err, "inserting element %d/%s", row.ID, row.OSMType)
		}
	}
	return tx.Commit()
}

func sridFromCRS(crs string) int {
	if i := strings.LastIndex(crs, ":"); i >= 0 {
		if srid, err := strconv.Atoi(crs[i+1:]); err == nil {
			return srid
		}
	}
	return 4326
}

func createTableSQL(schema, name string, t *table.Table) string {
	cols := []string{
		"id BIGINT",
		"osm_type VARCHAR",
		"geometry GEOMETRY",
		"tags JSONB",
	}
	for _, col := range t.TagColumns {
		cols = append(cols, fmt.Sprintf("%q TEXT", col))
	}
	cols = append(cols,
		"version INT",
		"timestamp TIMESTAMPTZ",
		"changeset BIGINT",
	)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q.%q (\n\t%s\n)",
		schema, name, strings.Join(cols, ",\n\t"))
}

func insertSQL(schema, name string, t *table.Table, srid int) string {
	cols := []string{"id", "osm_type", "geometry", "tags"}
	vars := []string{"$1", "$2", fmt.Sprintf("ST_GeomFromWKB($3, %d)", srid), "$4"}
	n := 5
	for _, col := range t.TagColumns {
		cols = append(cols, fmt.Sprintf("%q", col))
		vars = append(vars, fmt.Sprintf("$%d", n))
		n++
	}
	for _, col := range []string{"version", "timestamp", "changeset"} {
		cols = append(cols, col)
		vars = append(vars, fmt.Sprintf("$%d", n))
		n++
	}
	return fmt.Sprintf("INSERT INTO %q.%q (%s) VALUES (%s)",
		schema, name, strings.Join(cols, ", "), strings.Join(vars, ", "))
}

func rowValues(t *table.Table, row *table.Row) ([]interface{}, error) {
	geometry, err := wkb.Marshal(row.Geometry)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding geometry of element %d/%s", row.ID, row.OSMType)
	}
	tags, err := json.Marshal(row.Tags)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, 0, len(t.TagColumns)+7)
	values = append(values, row.ID, row.OSMType, geometry, tags)
	for _, col := range t.TagColumns {
		values = append(values, row.Columns[col])
	}
	return append(values, row.Version, row.Timestamp, row.Changeset), nil
}
