// Package index is the persistent secondary index: an ordered
// UUID→offset map, one per record family, serialized as a flat run of
// fixed 24-byte entries. It is a direct port of the original Rust
// BTreeIndex (BTreeMap<Uuid, u64>) onto google/btree's generic BTreeG,
// Go's stdlib having no ordered map of its own.
package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/weresobayes/zentrydb/internal/kinderr"
)

const entrySize = 16 + 8 // uuid bytes + little-endian u64 offset

type entry struct {
	id     uuid.UUID
	offset uint64
}

func less(a, b entry) bool {
	return bytes.Compare(a.id[:], b.id[:]) < 0
}

// Index is an ordered UUID→offset map, authoritative for lookup speed
// but never for existence: a returned offset may point at a tombstoned
// or historical record, which callers must still verify on read.
type Index struct {
	tree *btree.BTreeG[entry]
}

// New returns an empty Index.
func New() *Index {
	return &Index{tree: btree.NewG(32, less)}
}

// Insert records id at offset, replacing any prior offset for id.
func (x *Index) Insert(id uuid.UUID, offset uint64) {
	x.tree.ReplaceOrInsert(entry{id: id, offset: offset})
}

// Get returns id's offset and whether it is present.
func (x *Index) Get(id uuid.UUID) (uint64, bool) {
	e, ok := x.tree.Get(entry{id: id})
	if !ok {
		return 0, false
	}
	return e.offset, true
}

// Len returns the number of entries.
func (x *Index) Len() int { return x.tree.Len() }

// Range returns every (id, offset) pair with start <= id < end, in
// ascending lexicographic order over the UUID bytes.
func (x *Index) Range(start, end uuid.UUID) []struct {
	ID     uuid.UUID
	Offset uint64
} {
	var out []struct {
		ID     uuid.UUID
		Offset uint64
	}
	x.tree.AscendRange(entry{id: start}, entry{id: end}, func(e entry) bool {
		out = append(out, struct {
			ID     uuid.UUID
			Offset uint64
		}{ID: e.id, Offset: e.offset})
		return true
	})
	return out
}

// Persist rewrites path entirely from the current in-memory state, as
// a flat concatenation of 24-byte entries in ascending key order.
func (x *Index) Persist(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return kinderr.Wrap(kinderr.Io, "create index file "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var buf [entrySize]byte
	var walkErr error
	x.tree.Ascend(func(e entry) bool {
		copy(buf[0:16], e.id[:])
		binary.LittleEndian.PutUint64(buf[16:24], e.offset)
		if _, err := w.Write(buf[:]); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		return kinderr.Wrap(kinderr.Io, "write index entry", walkErr)
	}
	if err := w.Flush(); err != nil {
		return kinderr.Wrap(kinderr.Io, "flush index file "+path, err)
	}
	return nil
}

// Load reads path (if present) and rebuilds an Index from its flat
// entries. A missing file yields an empty Index, matching first-run
// bootstrap before any persist_indexes has run.
func Load(path string) (*Index, error) {
	x := New()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return x, nil
	}
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Io, "open index file "+path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var buf [entrySize]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				// Trailing partial entry: the same tolerant-recovery
				// posture as the record files — stop, keep what loaded.
				break
			}
			return nil, kinderr.Wrap(kinderr.Io, "read index file "+path, err)
		}
		id, err := uuid.FromBytes(buf[0:16])
		if err != nil {
			break
		}
		offset := binary.LittleEndian.Uint64(buf[16:24])
		x.Insert(id, offset)
	}
	return x, nil
}
