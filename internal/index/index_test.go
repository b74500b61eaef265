package index

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestInsertGet(t *testing.T) {
	x := New()
	id := uuid.New()
	x.Insert(id, 42)
	got, ok := x.Get(id)
	if !ok || got != 42 {
		t.Fatalf("Get(%v) = (%d, %v), want (42, true)", id, got, ok)
	}
	if _, ok := x.Get(uuid.New()); ok {
		t.Fatal("Get on absent id reported present")
	}
}

func TestInsertReplacesOffset(t *testing.T) {
	x := New()
	id := uuid.New()
	x.Insert(id, 1)
	x.Insert(id, 2)
	got, _ := x.Get(id)
	if got != 2 {
		t.Fatalf("replace-insert kept stale offset: got %d", got)
	}
	if x.Len() != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", x.Len())
	}
}

func TestRangeOrderedAndHalfOpen(t *testing.T) {
	x := New()
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
	}
	for i, id := range ids {
		x.Insert(id, uint64(i))
	}

	lo, hi := minMax(ids)
	got := x.Range(lo, hi)
	// hi itself is excluded by the half-open range contract.
	for _, pair := range got {
		if pair.ID == hi {
			t.Fatalf("Range included its own end bound %v", hi)
		}
	}
	for i := 1; i < len(got); i++ {
		if !less(entry{id: got[i-1].ID}, entry{id: got[i].ID}) {
			t.Fatalf("Range not in ascending order: %v then %v", got[i-1].ID, got[i].ID)
		}
	}
}

func minMax(ids []uuid.UUID) (uuid.UUID, uuid.UUID) {
	lo, hi := ids[0], ids[0]
	for _, id := range ids[1:] {
		if less(entry{id: id}, entry{id: lo}) {
			lo = id
		}
		if less(entry{id: hi}, entry{id: id}) {
			hi = id
		}
	}
	return lo, hi
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	x := New()
	for i := 0; i < 10; i++ {
		x.Insert(uuid.New(), uint64(i*8))
	}
	path := filepath.Join(t.TempDir(), "accounts.idx")
	if err := x.Persist(path); err != nil {
		t.Fatalf("persist: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != x.Len() {
		t.Fatalf("loaded %d entries, want %d", loaded.Len(), x.Len())
	}
	var mismatch bool
	x.tree.Ascend(func(e entry) bool {
		got, ok := loaded.Get(e.id)
		if !ok || got != e.offset {
			mismatch = true
			return false
		}
		return true
	})
	if mismatch {
		t.Fatal("loaded index does not match persisted entries")
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	x, err := Load(filepath.Join(t.TempDir(), "does-not-exist.idx"))
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if x.Len() != 0 {
		t.Fatalf("expected empty index, got %d entries", x.Len())
	}
}
