package mapping

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "mappings.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteLookupMiss(t *testing.T) {
	s := openTestDB(t)
	_, err := s.Lookup(context.Background(), "unit=ea")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLitePutVersions(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	key := "width=200|height=50|material=galv|unit=ea"

	if _, err := s.Put(ctx, key, "p1", "auto", 0.92); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, err := s.Put(ctx, key, "p2", "manual", 1.0)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if rec.Version != 2 {
		t.Fatalf("version = %d, want 2", rec.Version)
	}

	cur, err := s.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if cur.PriceItemID != "p2" {
		t.Fatalf("current points to %s, want p2", cur.PriceItemID)
	}

	hist, err := s.History(ctx, key)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("history = %d, want 2", len(hist))
	}
	if hist[0].ValidTo == nil || hist[1].ValidTo != nil {
		t.Fatalf("validity intervals wrong: %+v", hist)
	}
}

func TestSQLiteKeysIndependent(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "angle=45|unit=ea", "p1", "auto", 0.9); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(ctx, "angle=90|unit=ea", "p2", "auto", 0.9); err != nil {
		t.Fatalf("put: %v", err)
	}

	a, err := s.Lookup(ctx, "angle=45|unit=ea")
	if err != nil || a.PriceItemID != "p1" {
		t.Fatalf("lookup 45: %+v %v", a, err)
	}
	b, err := s.Lookup(ctx, "angle=90|unit=ea")
	if err != nil || b.PriceItemID != "p2" {
		t.Fatalf("lookup 90: %+v %v", b, err)
	}
}

func TestSQLiteConcurrentPut(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	key := "material=ss|unit=ea"

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Put(ctx, key, fmt.Sprintf("p%d", i), "auto", 0.9)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// часть писателей может упереться в ErrConflict — это легальный исход;
	// повреждённой истории быть не должно
	ok := 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok == 0 {
		t.Fatal("no writer succeeded")
	}

	hist, err := s.History(ctx, key)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	open := 0
	seen := map[int64]bool{}
	for _, r := range hist {
		if r.Current() {
			open++
		}
		if seen[r.Version] {
			t.Fatalf("duplicate version %d", r.Version)
		}
		seen[r.Version] = true
	}
	if open != 1 {
		t.Fatalf("open records = %d, want exactly 1", open)
	}
	if len(hist) != ok {
		t.Fatalf("history = %d records, want %d (one per successful put)", len(hist), ok)
	}
}
