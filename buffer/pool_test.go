package buffer

import (
	"path/filepath"
	"testing"

	"github.com/mlopezgez/matidb/disk"
	"github.com/mlopezgez/matidb/page"
)

func newTestPool(t *testing.T, capacity int) (*Pool, *disk.Manager) {
	t.Helper()
	dm, err := disk.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("disk.Open: %v", err)
	}
	t.Cleanup(func() { dm.Close() })
	return New(dm, capacity), dm
}

func TestCreatePageThenFetch(t *testing.T) {
	pool, _ := newTestPool(t, 4)

	id, pg, err := pool.CreatePage()
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	pg.Data[0] = 7

	got, err := pool.FetchPage(id)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if got.Data[0] != 7 {
		t.Fatalf("Data[0] = %d, want 7", got.Data[0])
	}
}

func TestSharedHandleAliasing(t *testing.T) {
	pool, _ := newTestPool(t, 4)

	id, _, err := pool.CreatePage()
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	h1, err := pool.FetchPage(id)
	if err != nil {
		t.Fatalf("FetchPage h1: %v", err)
	}
	h2, err := pool.FetchPage(id)
	if err != nil {
		t.Fatalf("FetchPage h2: %v", err)
	}

	h1.Data[10] = 99
	if h2.Data[10] != 99 {
		t.Fatal("mutation through one handle not visible through the other")
	}
}

func TestEvictionWritesBackAndReloads(t *testing.T) {
	pool, _ := newTestPool(t, 2)

	id0, pg0, err := pool.CreatePage()
	if err != nil {
		t.Fatalf("CreatePage 0: %v", err)
	}
	pg0.Data[0] = 1

	id1, pg1, err := pool.CreatePage()
	if err != nil {
		t.Fatalf("CreatePage 1: %v", err)
	}
	pg1.Data[0] = 2

	if _, err := pool.FetchPage(id0); err != nil {
		t.Fatalf("touch id0: %v", err)
	}

	id2, pg2, err := pool.CreatePage()
	if err != nil {
		t.Fatalf("CreatePage 2: %v", err)
	}
	pg2.Data[0] = 3

	got1, err := pool.FetchPage(id1)
	if err != nil {
		t.Fatalf("FetchPage id1 after eviction: %v", err)
	}
	if got1.Data[0] != 2 {
		t.Fatalf("reloaded id1 Data[0] = %d, want 2", got1.Data[0])
	}

	got0, err := pool.FetchPage(id0)
	if err != nil {
		t.Fatalf("FetchPage id0: %v", err)
	}
	if got0.Data[0] != 1 {
		t.Fatalf("id0 Data[0] = %d, want 1", got0.Data[0])
	}
	_ = id2
}

func TestFlushAllPersistsToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	dm, err := disk.Open(path)
	if err != nil {
		t.Fatalf("disk.Open: %v", err)
	}
	pool := New(dm, 4)

	id, pg, err := pool.CreatePage()
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	pg.Data[0] = 55

	if err := pool.FlushAll(); err != nil {
		t.Fatalf("FlushAll: %v", err)
	}

	direct, err := dm.ReadPage(id)
	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if direct.Data[0] != 55 {
		t.Fatalf("Data[0] = %d, want 55", direct.Data[0])
	}
}

func TestFetchMissingPageErrors(t *testing.T) {
	pool, _ := newTestPool(t, 4)
	if _, err := pool.FetchPage(page.ID(99)); err == nil {
		t.Fatal("expected error fetching a page that was never created")
	}
}
