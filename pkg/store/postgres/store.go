// Package postgres implements emporia.Store over a pgx connection pool.
//
// The schema in schema.go is the source of truth for the emporia table;
// EnsureSchema applies it idempotently at startup. Query errors are mapped
// to structured errors in pgerr.go so the HTTP layer can translate them
// without importing driver types.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wattline/emporia/pkg/emporia"
)

// recordColumns is the select and scan order shared by every query that
// returns records.
const recordColumns = "id, instant, scale, device_gid, channel_num, name, usage, unit, percentage, create_date, update_date"

const createSQL = `INSERT INTO emporia
	(instant, scale, device_gid, channel_num, name, usage, unit, percentage, create_date, update_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	RETURNING ` + recordColumns

const replaceSQL = `UPDATE emporia
	SET instant = $2, scale = $3, device_gid = $4, channel_num = $5,
		name = $6, usage = $7, unit = $8, percentage = $9, update_date = now()
	WHERE id = $1
	RETURNING ` + recordColumns

// COALESCE keeps the stored value for every absent (NULL) argument, so a
// patch is a single atomic statement with no read-modify-write race.
const patchSQL = `UPDATE emporia
	SET instant     = COALESCE($2, instant),
		scale       = COALESCE($3, scale),
		device_gid  = COALESCE($4, device_gid),
		channel_num = COALESCE($5, channel_num),
		name        = COALESCE($6, name),
		usage       = COALESCE($7, usage),
		unit        = COALESCE($8, unit),
		percentage  = COALESCE($9, percentage),
		update_date = now()
	WHERE id = $1
	RETURNING ` + recordColumns

// Store is the pgx-backed emporia.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ emporia.Store = (*Store)(nil)

// New wraps an established pool. The caller owns the pool's lifecycle;
// use Close to release it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

func scanRecord(row pgx.Row) (emporia.Record, error) {
	var rec emporia.Record
	err := row.Scan(
		&rec.ID,
		&rec.Instant,
		&rec.Scale,
		&rec.DeviceGid,
		&rec.ChannelNum,
		&rec.Name,
		&rec.Usage,
		&rec.Unit,
		&rec.Percentage,
		&rec.CreateDate,
		&rec.UpdateDate,
	)
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]emporia.Record, error) {
	defer rows.Close()

	out := make([]emporia.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context) (_ []emporia.Record, err error) {
	start := time.Now()
	defer func() { observeOp("list", start, err) }()

	rows, err := s.pool.Query(ctx, "SELECT "+recordColumns+" FROM emporia ORDER BY id ASC")
	if err != nil {
		return nil, mapError("list records", err)
	}
	out, err := collectRecords(rows)
	if err != nil {
		return nil, mapError("list records", err)
	}
	return out, nil
}

func (s *Store) ListPage(ctx context.Context, page, limit int) (_ []emporia.Record, err error) {
	start := time.Now()
	defer func() { observeOp("list", start, err) }()

	rows, err := s.pool.Query(ctx,
		"SELECT "+recordColumns+" FROM emporia ORDER BY id ASC LIMIT $1 OFFSET $2",
		limit, (page-1)*limit)
	if err != nil {
		return nil, mapError("list records", err)
	}
	out, err := collectRecords(rows)
	if err != nil {
		return nil, mapError("list records", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (_ emporia.Record, err error) {
	start := time.Now()
	defer func() { observeOp("get", start, err) }()

	row := s.pool.QueryRow(ctx, "SELECT "+recordColumns+" FROM emporia WHERE id = $1", id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return emporia.Record{}, emporia.ErrNotFound
	}
	if err != nil {
		return emporia.Record{}, mapError("get record", err)
	}
	return rec, nil
}

func (s *Store) Create(ctx context.Context, rec emporia.Record) (_ emporia.Record, err error) {
	start := time.Now()
	defer func() { observeOp("create", start, err) }()

	row := s.pool.QueryRow(ctx, createSQL,
		rec.Instant, rec.Scale, rec.DeviceGid, rec.ChannelNum,
		rec.Name, rec.Usage, rec.Unit, rec.Percentage)
	created, err := scanRecord(row)
	if err != nil {
		return emporia.Record{}, mapError("create record", err)
	}
	return created, nil
}

func (s *Store) Replace(ctx context.Context, id int64, rec emporia.Record) (_ emporia.Record, err error) {
	start := time.Now()
	defer func() { observeOp("replace", start, err) }()

	row := s.pool.QueryRow(ctx, replaceSQL,
		id, rec.Instant, rec.Scale, rec.DeviceGid, rec.ChannelNum,
		rec.Name, rec.Usage, rec.Unit, rec.Percentage)
	updated, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return emporia.Record{}, emporia.ErrNotFound
	}
	if err != nil {
		return emporia.Record{}, mapError("replace record", err)
	}
	return updated, nil
}

func (s *Store) Patch(ctx context.Context, id int64, in emporia.RecordInput) (_ emporia.Record, err error) {
	start := time.Now()
	defer func() { observeOp("patch", start, err) }()

	row := s.pool.QueryRow(ctx, patchSQL,
		id, in.Instant, in.Scale, in.DeviceGid, in.ChannelNum,
		in.Name, in.Usage, in.Unit, in.Percentage)
	updated, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return emporia.Record{}, emporia.ErrNotFound
	}
	if err != nil {
		return emporia.Record{}, mapError("patch record", err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observeOp("delete", start, err) }()

	tag, err := s.pool.Exec(ctx, "DELETE FROM emporia WHERE id = $1", id)
	if err != nil {
		return mapError("delete record", err)
	}
	if tag.RowsAffected() == 0 {
		return emporia.ErrNotFound
	}
	return nil
}

func (s *Store) Search(ctx context.Context, q emporia.SearchQuery) (_ []emporia.Record, err error) {
	start := time.Now()
	defer func() { observeOp("search", start, err) }()

	sql, args := buildSearchQuery(q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("search records", err)
	}
	out, err := collectRecords(rows)
	if err != nil {
		return nil, mapError("search records", err)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return mapError("ping database", err)
	}
	return nil
}

// buildSearchQuery compiles the present filters to a WHERE clause with
// positional arguments. An empty query selects everything. The id
// tiebreak keeps ordering stable for records sharing an instant.
func buildSearchQuery(q emporia.SearchQuery) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT " + recordColumns + " FROM emporia")

	add := func(expr string, v any) {
		if len(args) == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, v)
		fmt.Fprintf(&sb, expr, len(args))
	}

	if q.Scale != nil {
		add("scale = $%d", *q.Scale)
	}
	if q.DeviceGid != nil {
		add("device_gid = $%d", *q.DeviceGid)
	}
	if q.ChannelNum != nil {
		add("channel_num = $%d", *q.ChannelNum)
	}
	if q.Name != nil {
		add("name = $%d", *q.Name)
	}
	if q.Unit != nil {
		add("unit = $%d", *q.Unit)
	}
	if q.StartDate != nil {
		add("instant >= $%d", *q.StartDate)
	}
	if q.EndDate != nil {
		add("instant <= $%d", *q.EndDate)
	}

	sb.WriteString(" ORDER BY instant ASC, id ASC")
	return sb.String(), args
}
