package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ethical-pricing/models"
	"ethical-pricing/utils"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore serves the historical dataset from table price_records and keeps
// the assessment history in table assessments.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to PostgreSQL, retrying the initial ping, applies pending
// schema migrations and returns a ready-to-use store.
func NewPostgresStore(dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func migrateUp(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

type priceRow struct {
	Category  sql.NullString `db:"item_category"`
	ItemName  sql.NullString `db:"item_name"`
	City      sql.NullString `db:"city"`
	BasePrice sql.NullString `db:"base_price"`
}

// Load reads every stored record. NULL columns come back as empty strings so the
// cleaner can drop them.
func (ps *PostgresStore) Load(ctx context.Context) ([]*models.RawRecord, error) {
	var rows []priceRow
	err := ps.db.SelectContext(ctx, &rows, `
		SELECT item_category, item_name, city, base_price::text AS base_price
		FROM price_records
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load records: %w", err)
	}

	out := make([]*models.RawRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, &models.RawRecord{
			Category:  r.Category.String,
			ItemName:  r.ItemName.String,
			City:      r.City.String,
			BasePrice: r.BasePrice.String,
		})
	}
	return out, nil
}

// Write replaces the stored dataset with records inside one transaction.
func (ps *PostgresStore) Write(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM price_records"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 500
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := insertBatch(ctx, tx, records[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sqlx.Tx, batch []models.Record) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*4)

	for idx, r := range batch {
		base := idx * 4
		valueStrings = append(valueStrings,
			"($"+strconv.Itoa(base+1)+",$"+strconv.Itoa(base+2)+",$"+strconv.Itoa(base+3)+",$"+strconv.Itoa(base+4)+")")
		valueArgs = append(valueArgs, r.Category, r.ItemName, r.City, r.BasePrice)
	}

	query := `INSERT INTO price_records (item_category, item_name, city, base_price) VALUES ` +
		strings.Join(valueStrings, ",")
	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Append(ctx context.Context, e *models.HistoryEntry) error {
	_, err := ps.db.NamedExecContext(ctx, `
		INSERT INTO assessments (id, created_at, item_category, item_name, city, predicted_price, label, error)
		VALUES (:id, :created_at, :item_category, :item_name, :city, :predicted_price, :label, :error)
	`, e)
	if err != nil {
		return fmt.Errorf("postgres: append history: %w", err)
	}
	return nil
}

func (ps *PostgresStore) List(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	query, args := listHistoryQuery(limit)
	var entries []*models.HistoryEntry
	if err := ps.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("postgres: list history: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// listHistoryQuery selects the newest limit entries by insertion sequence; List
// reverses them back into append order. created_at is caller-supplied and may tie.
func listHistoryQuery(limit int) (string, []interface{}) {
	query := `
		SELECT id, created_at, item_category, item_name, city, predicted_price, label, error
		FROM assessments
		ORDER BY seq DESC`
	if limit > 0 {
		return query + " LIMIT $1", []interface{}{limit}
	}
	return query, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

var (
	_ DatasetSource = (*PostgresStore)(nil)
	_ RecordWriter  = (*PostgresStore)(nil)
	_ HistoryLog    = (*PostgresStore)(nil)
	_ DatasetSource = (*CSVSource)(nil)
	_ HistoryLog    = (*CSVHistory)(nil)
)
