package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/config"
)

// Postgres is the Store backend over a single content_items wide table:
// key columns for range queries plus a JSONB blob holding the full item.
// Secondary-ordering queries run against the gsi1pk/gsi1sk columns with
// keyset pagination, mirroring the contract's LastEvaluatedKey semantics.
type Postgres struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPostgres opens a pooled connection and verifies it with a ping.
func NewPostgres(cfg *config.StoreConfig, log zerolog.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{
		db:  db,
		log: log.With().Str("component", "postgres").Logger(),
	}

	p.log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Database connection established")

	return p, nil
}

// Close closes the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// RunMigrations executes all pending migrations using golang-migrate
func (p *Postgres) RunMigrations(migrationsPath string) error {
	p.log.Info().Str("path", migrationsPath).Msg("Running database migrations")

	driver, err := postgres.WithInstance(p.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	p.log.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Migrations completed")

	return nil
}

// PutItem upserts the item under its pk/sk pair. The full item is stored as
// JSONB; the key columns exist only to drive range queries.
func (p *Postgres) PutItem(ctx context.Context, table string, item Item) error {
	pk, _ := item[AttrPK].(string)
	sk, _ := item[AttrSK].(string)
	gsi1pk, _ := item[AttrGSI1PK].(string)
	gsi1sk, _ := item[AttrGSI1SK].(string)

	attrs, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshalling item attrs: %w", err)
	}

	query := `
		INSERT INTO content_items (tbl, pk, sk, gsi1pk, gsi1sk, attrs)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tbl, pk, sk) DO UPDATE
		SET gsi1pk = EXCLUDED.gsi1pk, gsi1sk = EXCLUDED.gsi1sk, attrs = EXCLUDED.attrs
	`
	if _, err := p.db.ExecContext(ctx, query, table, pk, sk, gsi1pk, gsi1sk, attrs); err != nil {
		return fmt.Errorf("inserting content item: %w", err)
	}
	return nil
}

// Query returns one page of items in sort-key order. The window is cut by
// fetching Limit+1 rows; the equality filter is applied to the page
// afterwards so filtered pages keep the same pagination window as
// unfiltered ones.
func (p *Postgres) Query(ctx context.Context, q Query) (*Result, error) {
	pkCol, skCol := keyAttrs(q.Index)

	dir := "DESC"
	cmp := "<"
	if q.ScanForward {
		dir = "ASC"
		cmp = ">"
	}

	sqlQuery := fmt.Sprintf(
		`SELECT pk, sk, COALESCE(gsi1pk, ''), COALESCE(gsi1sk, ''), attrs
		 FROM content_items WHERE tbl = $1 AND %s = $2`,
		pkCol,
	)
	args := []any{q.Table, q.Partition}

	if q.SortPrefix != "" {
		// Sort prefixes are fixed key-scheme tokens with no LIKE
		// metacharacters, so no escaping is needed.
		args = append(args, q.SortPrefix+"%")
		sqlQuery += fmt.Sprintf(` AND %s LIKE $%d`, skCol, len(args))
	}

	if start := q.ExclusiveStartKey; start != nil {
		if q.Index == IndexGSI1 {
			// Keyset resume over the (gsi1sk, sk) tuple; sk breaks
			// same-sort-value ties the way the index stores them.
			args = append(args, start[skCol], start[AttrSK])
			sqlQuery += fmt.Sprintf(` AND (%s, sk) %s ($%d, $%d)`, skCol, cmp, len(args)-1, len(args))
		} else {
			args = append(args, start[skCol])
			sqlQuery += fmt.Sprintf(` AND sk %s $%d`, cmp, len(args))
		}
	}

	if q.Index == IndexGSI1 {
		sqlQuery += fmt.Sprintf(` ORDER BY %s %s, sk %s`, skCol, dir, dir)
	} else {
		sqlQuery += fmt.Sprintf(` ORDER BY sk %s`, dir)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit+1)
		sqlQuery += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := p.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content items: %w", err)
	}
	defer rows.Close()

	type row struct {
		pk, sk, gsi1pk, gsi1sk string
		item                   Item
	}
	var fetched []row
	for rows.Next() {
		var r row
		var attrs []byte
		if err := rows.Scan(&r.pk, &r.sk, &r.gsi1pk, &r.gsi1sk, &attrs); err != nil {
			return nil, fmt.Errorf("scanning content item: %w", err)
		}
		if err := json.Unmarshal(attrs, &r.item); err != nil {
			return nil, fmt.Errorf("unmarshalling item attrs: %w", err)
		}
		fetched = append(fetched, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	if q.Limit > 0 && len(fetched) > q.Limit {
		fetched = fetched[:q.Limit]
		last := fetched[len(fetched)-1]
		key := Key{AttrPK: last.pk, AttrSK: last.sk}
		if q.Index == IndexGSI1 {
			key[AttrGSI1PK] = last.gsi1pk
			key[AttrGSI1SK] = last.gsi1sk
		}
		result.LastEvaluatedKey = key
	}

	for _, r := range fetched {
		if q.FilterField != "" {
			v, _ := r.item[q.FilterField].(string)
			if v != q.FilterValue {
				continue
			}
		}
		result.Items = append(result.Items, r.item)
	}
	return result, nil
}
