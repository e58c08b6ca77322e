package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-geoform/pkg/address"
	"github.com/goliatone/go-geoform/pkg/address/memory"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Open connects a pool to dsn and checks the connection.
func Open(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// Store serves address metadata from PostgreSQL.
type Store struct {
	db DB
}

// New wraps db. It does not create the schema; call Migrate for that.
func New(db DB) *Store {
	return &Store{db: db}
}

// Repositories exposes the store through the address repository interfaces.
func (s *Store) Repositories() address.Repositories {
	return address.Repositories{
		Countries:    CountryRepository{db: s.db},
		Formats:      FormatRepository{db: s.db},
		Subdivisions: SubdivisionRepository{db: s.db},
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS countries (
	code     TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS address_formats (
	country_code             TEXT PRIMARY KEY,
	subdivision_depth        INTEGER NOT NULL DEFAULT 0,
	used_fields              TEXT[] NOT NULL DEFAULT '{}',
	administrative_area_type TEXT NOT NULL DEFAULT '',
	locality_type            TEXT NOT NULL DEFAULT '',
	dependent_locality_type  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS subdivisions (
	parents  TEXT[] NOT NULL,
	code     TEXT NOT NULL,
	name     TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (parents, code)
);
`

// Migrate creates the address tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// Seed upserts every row of ds in a single transaction.
func (s *Store) Seed(ctx context.Context, ds memory.Dataset) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for idx, country := range ds.Countries {
		batch.Queue(`
			INSERT INTO countries (code, name, position) VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, position = EXCLUDED.position`,
			country.Code, country.Name, idx)
	}
	for code, format := range ds.Formats {
		batch.Queue(`
			INSERT INTO address_formats (
				country_code, subdivision_depth, used_fields,
				administrative_area_type, locality_type, dependent_locality_type
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (country_code) DO UPDATE SET
				subdivision_depth = EXCLUDED.subdivision_depth,
				used_fields = EXCLUDED.used_fields,
				administrative_area_type = EXCLUDED.administrative_area_type,
				locality_type = EXCLUDED.locality_type,
				dependent_locality_type = EXCLUDED.dependent_locality_type`,
			code, format.SubdivisionDepth, fieldNames(format.UsedFields),
			format.AdministrativeAreaType, format.LocalityType, format.DependentLocalityType)
	}
	for _, row := range subdivisionRows(ds) {
		batch.Queue(`
			INSERT INTO subdivisions (parents, code, name, position) VALUES ($1, $2, $3, $4)
			ON CONFLICT (parents, code) DO UPDATE SET name = EXCLUDED.name, position = EXCLUDED.position`,
			row.Parents, row.Code, row.Name, row.Position)
	}

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: seed: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit seed: %w", err)
	}
	return nil
}

// CountryRepository lists countries ordered by their seeded position.
type CountryRepository struct{ db DB }

func (r CountryRepository) List(ctx context.Context) ([]address.Country, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name FROM countries ORDER BY position, code`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query countries: %w", err)
	}
	defer rows.Close()

	var countries []address.Country
	for rows.Next() {
		var country address.Country
		if err := rows.Scan(&country.Code, &country.Name); err != nil {
			return nil, fmt.Errorf("postgres: scan country: %w", err)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate countries: %w", err)
	}
	return countries, nil
}

// FormatRepository loads formats, falling back to the generic row and then to
// an empty depth 0 format.
type FormatRepository struct{ db DB }

const formatQuery = `
	SELECT subdivision_depth, used_fields, administrative_area_type, locality_type, dependent_locality_type
	FROM address_formats
	WHERE country_code = $1`

func (r FormatRepository) Get(ctx context.Context, countryCode string) (address.Format, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	format, err := r.load(ctx, countryCode)
	if errors.Is(err, pgx.ErrNoRows) {
		format, err = r.load(ctx, memory.GenericFormatCode)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return address.Format{CountryCode: countryCode}, nil
	}
	if err != nil {
		return address.Format{}, fmt.Errorf("postgres: query address format %q: %w", countryCode, err)
	}
	format.CountryCode = countryCode
	return format, nil
}

func (r FormatRepository) load(ctx context.Context, code string) (address.Format, error) {
	var (
		format address.Format
		used   []string
	)
	err := r.db.QueryRow(ctx, formatQuery, code).Scan(
		&format.SubdivisionDepth,
		&used,
		&format.AdministrativeAreaType,
		&format.LocalityType,
		&format.DependentLocalityType,
	)
	if err != nil {
		return address.Format{}, err
	}
	for _, name := range used {
		format.UsedFields = append(format.UsedFields, address.Field(name))
	}
	return format, nil
}

// SubdivisionRepository lists subdivisions by parent chain.
type SubdivisionRepository struct{ db DB }

func (r SubdivisionRepository) List(ctx context.Context, parents []string) ([]address.Subdivision, error) {
	rows, err := r.db.Query(ctx,
		`SELECT code, name FROM subdivisions WHERE parents = $1::text[] ORDER BY position, code`,
		address.CleanParents(parents))
	if err != nil {
		return nil, fmt.Errorf("postgres: query subdivisions: %w", err)
	}
	defer rows.Close()

	var list []address.Subdivision
	for rows.Next() {
		var item address.Subdivision
		if err := rows.Scan(&item.Code, &item.Name); err != nil {
			return nil, fmt.Errorf("postgres: scan subdivision: %w", err)
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate subdivisions: %w", err)
	}
	return list, nil
}

type subdivisionRow struct {
	Parents  []string
	Code     string
	Name     string
	Position int
}

// subdivisionRows flattens the dataset lists into table rows. Parent chains
// are stored exactly as listed.
func subdivisionRows(ds memory.Dataset) []subdivisionRow {
	var rows []subdivisionRow
	for _, list := range ds.Subdivisions {
		parents := address.CleanParents(list.Parents)
		if len(parents) == 0 {
			continue
		}
		for idx, item := range list.Items {
			rows = append(rows, subdivisionRow{Parents: parents, Code: item.Code, Name: item.Name, Position: idx})
		}
	}
	return rows
}

func fieldNames(fields []address.Field) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, string(field))
	}
	return out
}
