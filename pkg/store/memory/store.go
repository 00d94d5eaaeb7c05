// Package memory provides an in-memory implementation of emporia.Store.
// It backs handler tests and the dependency-free development mode
// (`emporiad --store memory`); production deployments use pkg/store/postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wattline/emporia/pkg/emporia"
)

// Store is an in-memory emporia.Store. It is safe for concurrent use.
//
// Identifiers are assigned from a monotonically increasing counter and are
// never reused after deletion, matching the BIGSERIAL behavior of the
// PostgreSQL store. Record has no reference fields, so plain value copies
// keep callers isolated from the map contents.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]emporia.Record
	now    func() time.Time
}

var _ emporia.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTimeSource overrides the clock used for record timestamps.
// Tests use it to make create/update dates deterministic.
func WithTimeSource(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		nextID: 1,
		byID:   make(map[int64]emporia.Record),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]emporia.Record, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]emporia.Record, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListPage(ctx context.Context, page, limit int) ([]emporia.Record, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	if offset >= len(all) {
		return []emporia.Record{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) Get(ctx context.Context, id int64) (emporia.Record, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return emporia.Record{}, emporia.ErrNotFound
	}
	return rec, nil
}

func (s *Store) Create(ctx context.Context, rec emporia.Record) (emporia.Record, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec.ID = s.nextID
	rec.CreateDate = now
	rec.UpdateDate = now
	s.nextID++
	s.byID[rec.ID] = rec
	return rec, nil
}

func (s *Store) Replace(ctx context.Context, id int64, rec emporia.Record) (emporia.Record, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[id]
	if !ok {
		return emporia.Record{}, emporia.ErrNotFound
	}

	rec.ID = existing.ID
	rec.CreateDate = existing.CreateDate
	rec.UpdateDate = s.now()
	s.byID[id] = rec
	return rec, nil
}

func (s *Store) Patch(ctx context.Context, id int64, in emporia.RecordInput) (emporia.Record, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[id]
	if !ok {
		return emporia.Record{}, emporia.ErrNotFound
	}

	in.ApplyTo(&existing)
	existing.UpdateDate = s.now()
	s.byID[id] = existing
	return existing, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return emporia.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *Store) Search(ctx context.Context, q emporia.SearchQuery) ([]emporia.Record, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]emporia.Record, 0)
	for _, rec := range s.byID {
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Instant.Equal(out[j].Instant) {
			return out[i].Instant.Before(out[j].Instant)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
