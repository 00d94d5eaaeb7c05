package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wattline/emporia/pkg/emporia"
)

func ptr[T any](v T) *T {
	return &v
}

func testRecord(name string, instant time.Time) emporia.Record {
	return emporia.Record{
		Instant:    instant,
		Scale:      "1D",
		DeviceGid:  138435,
		ChannelNum: "1,2,3",
		Name:       name,
		Usage:      38.4,
		Unit:       "KilowattHours",
		Percentage: 100.0,
	}
}

func TestStore_CreateAssignsSequentialIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	instant := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)

	for want := int64(1); want <= 3; want++ {
		created, err := s.Create(ctx, testRecord("m", instant))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.ID != want {
			t.Fatalf("expected id %d, got %d", want, created.ID)
		}
	}

	// Deleted ids are never reused.
	if err := s.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	created, err := s.Create(ctx, testRecord("m", instant))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 4 {
		t.Fatalf("expected id 4 after delete, got %d", created.ID)
	}
}

func TestStore_CreateSetsTimestamps(t *testing.T) {
	now := time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)
	s := New(WithTimeSource(func() time.Time { return now }))

	created, err := s.Create(context.Background(), testRecord("m", now))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !created.CreateDate.Equal(now) {
		t.Errorf("CreateDate = %v, want %v", created.CreateDate, now)
	}
	if !created.UpdateDate.Equal(now) {
		t.Errorf("UpdateDate = %v, want %v", created.UpdateDate, now)
	}
}

func TestStore_GetRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	instant := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)

	created, err := s.Create(ctx, testRecord("Electricity Monitor", instant))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != created {
		t.Fatalf("Get = %+v, want %+v", got, created)
	}

	if _, err := s.Get(ctx, 999); !errors.Is(err, emporia.ErrNotFound) {
		t.Fatalf("Get(999) err = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	s := New()
	ctx := context.Background()
	instant := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)

	empty, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := s.Create(ctx, testRecord("m", instant)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != n {
		t.Fatalf("expected %d records, got %d", n, len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("list not ordered by id: %d before %d", all[i-1].ID, all[i].ID)
		}
	}
}

func TestStore_ListPage(t *testing.T) {
	s := New()
	ctx := context.Background()
	instant := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := s.Create(ctx, testRecord("m", instant)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		name    string
		page    int
		limit   int
		wantIDs []int64
	}{
		{"first page", 1, 2, []int64{1, 2}},
		{"second page", 2, 2, []int64{3, 4}},
		{"short last page", 3, 2, []int64{5}},
		{"page past the end", 4, 2, []int64{}},
		{"single page covering all", 1, 100, []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListPage(ctx, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("ListPage: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d records, got %d", len(tt.wantIDs), len(got))
			}
			for i, rec := range got {
				if rec.ID != tt.wantIDs[i] {
					t.Fatalf("expected ids %v, got record %d at index %d", tt.wantIDs, rec.ID, i)
				}
			}
		})
	}
}

func TestStore_Replace(t *testing.T) {
	created := time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)
	now := created
	s := New(WithTimeSource(func() time.Time { return now }))
	ctx := context.Background()

	orig, err := s.Create(ctx, testRecord("Electricity Monitor", created))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now = now.Add(time.Minute)
	replacement := testRecord("Main Panel", created.Add(time.Hour))
	replacement.Usage = 52.1

	got, err := s.Replace(ctx, orig.ID, replacement)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if got.ID != orig.ID {
		t.Errorf("id changed: %d -> %d", orig.ID, got.ID)
	}
	if got.Name != "Main Panel" || got.Usage != 52.1 {
		t.Errorf("fields not replaced: %+v", got)
	}
	if !got.CreateDate.Equal(orig.CreateDate) {
		t.Errorf("CreateDate changed: %v -> %v", orig.CreateDate, got.CreateDate)
	}
	if !got.UpdateDate.After(orig.UpdateDate) {
		t.Errorf("UpdateDate not bumped: %v", got.UpdateDate)
	}
}

func TestStore_ReplaceMissingDoesNotCreate(t *testing.T) {
	s := New()
	ctx := context.Background()
	instant := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)

	_, err := s.Replace(ctx, 42, testRecord("m", instant))
	if !errors.Is(err, emporia.ErrNotFound) {
		t.Fatalf("Replace err = %v, want ErrNotFound", err)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("replace of missing id must not create records, got %d", len(all))
	}
}

func TestStore_Patch(t *testing.T) {
	start := time.Date(2025, 9, 10, 8, 0, 0, 0, time.UTC)
	now := start
	s := New(WithTimeSource(func() time.Time { return now }))
	ctx := context.Background()

	orig, err := s.Create(ctx, testRecord("Electricity Monitor", start))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now = now.Add(time.Minute)
	got, err := s.Patch(ctx, orig.ID, emporia.RecordInput{Name: ptr("Main Panel")})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	if got.Name != "Main Panel" {
		t.Errorf("Name = %q, want %q", got.Name, "Main Panel")
	}
	if got.Usage != orig.Usage || got.Unit != orig.Unit || !got.Instant.Equal(orig.Instant) {
		t.Errorf("unspecified fields must be preserved: %+v", got)
	}
	if !got.CreateDate.Equal(orig.CreateDate) {
		t.Errorf("CreateDate changed: %v -> %v", orig.CreateDate, got.CreateDate)
	}
	if !got.UpdateDate.After(orig.UpdateDate) {
		t.Errorf("UpdateDate not bumped: %v", got.UpdateDate)
	}

	// An empty patch is a no-op that still bumps the update date.
	now = now.Add(time.Minute)
	again, err := s.Patch(ctx, orig.ID, emporia.RecordInput{})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if again.Name != "Main Panel" {
		t.Errorf("empty patch changed fields: %+v", again)
	}
	if !again.UpdateDate.After(got.UpdateDate) {
		t.Errorf("empty patch must still bump UpdateDate")
	}

	if _, err := s.Patch(ctx, 999, emporia.RecordInput{}); !errors.Is(err, emporia.ErrNotFound) {
		t.Fatalf("Patch(999) err = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := New()
	ctx := context.Background()
	instant := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)

	created, err := s.Create(ctx, testRecord("m", instant))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Get(ctx, created.ID); !errors.Is(err, emporia.ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}

	if err := s.Delete(ctx, created.ID); !errors.Is(err, emporia.ErrNotFound) {
		t.Fatalf("second Delete err = %v, want ErrNotFound", err)
	}
}

func TestStore_Search(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Created out of instant order on purpose.
	later := testRecord("Electricity Monitor", time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC))
	earlier := testRecord("Electricity Monitor", time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC))
	other := testRecord("Water Heater", time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC))
	other.DeviceGid = 99

	for _, rec := range []emporia.Record{later, earlier, other} {
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	t.Run("empty query returns all ordered by instant", func(t *testing.T) {
		got, err := s.Search(ctx, emporia.SearchQuery{})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 records, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].Instant.After(got[i].Instant) {
				t.Fatalf("results not ordered by instant: %v before %v", got[i-1].Instant, got[i].Instant)
			}
		}
	})

	t.Run("equality filter", func(t *testing.T) {
		got, err := s.Search(ctx, emporia.SearchQuery{Name: ptr("Electricity Monitor")})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
	})

	t.Run("date range filter", func(t *testing.T) {
		got, err := s.Search(ctx, emporia.SearchQuery{
			StartDate: ptr(time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)),
			EndDate:   ptr(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)),
		})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Water Heater" {
			t.Fatalf("expected only the 2025-09-10 record, got %+v", got)
		}
	})

	t.Run("no matches returns empty non-nil slice", func(t *testing.T) {
		got, err := s.Search(ctx, emporia.SearchQuery{DeviceGid: ptr(int64(123456))})
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})
}

func TestStore_Ping(t *testing.T) {
	s := New()

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Ping(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestStore_ConcurrentCreates(t *testing.T) {
	s := New()
	ctx := context.Background()
	instant := time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC)

	const workers, perWorker = 10, 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := s.Create(ctx, testRecord("m", instant)); err != nil {
					t.Errorf("Create: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != workers*perWorker {
		t.Fatalf("expected %d records, got %d", workers*perWorker, len(all))
	}

	seen := make(map[int64]bool, len(all))
	for _, rec := range all {
		if seen[rec.ID] {
			t.Fatalf("duplicate id %d", rec.ID)
		}
		seen[rec.ID] = true
	}
}
