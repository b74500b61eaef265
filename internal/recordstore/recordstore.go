// Package recordstore implements the append-only, tombstoned file
// format shared by all five record families: a one-byte liveness tag
// ahead of every record's codec-encoded payload. It generalizes
// solidcoredata/dca's ts.Writer ("writer always ends at EOF") to a
// positioned read/write pair over *os.File, since ts.Writer never
// needed random access back into its own stream.
package recordstore

import (
	"bufio"
	"io"
	"os"

	"github.com/weresobayes/zentrydb/internal/kinderr"
)

const (
	liveByte = 0x01
	deadByte = 0x00
)

// EncodeFunc writes one record's payload (liveness byte excluded).
type EncodeFunc[T any] func(io.Writer, T) error

// DecodeFunc reads one record's payload (liveness byte excluded).
type DecodeFunc[T any] func(io.Reader) (T, error)

// SkipFunc advances past one record's payload without materializing it.
type SkipFunc func(io.Reader) error

// IdentityFunc reports whether a and b are the same record by its
// identity field, per spec: Systems by id, ConversionGraphs by graph,
// Accounts/Transactions/Entries by their explicit UUID.
type IdentityFunc[T any] func(a, b T) bool

// Store is a single record family's append-only file: one liveness
// byte followed by a codec payload, repeated back-to-back.
type Store[T any] struct {
	file *os.File
	w    *bufio.Writer
	size int64 // tracked end-of-file offset; this process is the sole writer

	encode   EncodeFunc[T]
	decode   DecodeFunc[T]
	skip     SkipFunc
	identity IdentityFunc[T]
}

// Open opens (creating if absent) the file at path as a Store. The
// descriptor's cursor is placed at end of file and only ever moved back
// there, so Write calls always land at the true end of file; ReadAt and
// WriteAt are positioned calls that never move that cursor. (O_APPEND
// is not used: os.File.WriteAt refuses files opened with it, and
// Tombstone needs WriteAt.)
func Open[T any](path string, encode EncodeFunc[T], decode DecodeFunc[T], skip SkipFunc, identity IdentityFunc[T]) (*Store[T], error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, kinderr.Wrap(kinderr.Io, "open record file "+path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, kinderr.Wrap(kinderr.Io, "stat record file "+path, err)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, kinderr.Wrap(kinderr.Io, "seek to end of record file "+path, err)
	}
	return &Store[T]{
		file:     f,
		w:        bufio.NewWriter(f),
		size:     info.Size(),
		encode:   encode,
		decode:   decode,
		skip:     skip,
		identity: identity,
	}, nil
}

// Close flushes and releases the underlying file handle.
func (s *Store[T]) Close() error {
	if err := s.w.Flush(); err != nil {
		return kinderr.Wrap(kinderr.Io, "flush on close", err)
	}
	return s.file.Close()
}

// Append writes record, returning the offset of its liveness byte.
// That offset is the record's permanent identifier within the file.
func (s *Store[T]) Append(record T) (int64, error) {
	return s.appendWith(s.encode, record)
}

// AppendEncoded appends record using encode instead of the Store's
// default encoder. The conversion-graph store needs this: its default
// encoder always tags a record active ('C'), but the archive protocol
// also writes historical ('H') records to the same file.
func (s *Store[T]) AppendEncoded(encode EncodeFunc[T], record T) (int64, error) {
	return s.appendWith(encode, record)
}

func (s *Store[T]) appendWith(encode EncodeFunc[T], record T) (int64, error) {
	offset := s.size
	if err := s.w.WriteByte(liveByte); err != nil {
		return 0, kinderr.Wrap(kinderr.Io, "write liveness byte", err)
	}
	if err := encode(s.w, record); err != nil {
		return 0, kinderr.Wrap(kinderr.Io, "encode record", err)
	}
	// The buffered writer is flushed on every append rather than only at
	// shutdown: reads go straight to the file via ReadAt/WriteAt and must
	// see bytes the same process just wrote. This costs a syscall per
	// append, never an fsync — the OS page cache, not our buffer, is
	// what process exit ultimately relies on to persist the bytes.
	if err := s.w.Flush(); err != nil {
		return 0, kinderr.Wrap(kinderr.Io, "flush after append", err)
	}
	newSize, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, kinderr.Wrap(kinderr.Io, "seek to end after append", err)
	}
	s.size = newSize
	return offset, nil
}

// sectionAt returns a reader bounded to [offset, size) along with a
// byte counter so callers can learn how much of a record was consumed.
func (s *Store[T]) sectionAt(offset int64) *countingReader {
	return &countingReader{r: io.NewSectionReader(s.file, offset, s.size-offset)}
}

// ReadAt decodes the record at offset. A tombstoned liveness byte
// fails with DeadRecord without attempting to decode the payload.
func (s *Store[T]) ReadAt(offset int64) (T, error) {
	var zero T
	var lb [1]byte
	if _, err := s.file.ReadAt(lb[:], offset); err != nil {
		return zero, kinderr.Wrap(kinderr.Io, "read liveness byte", err)
	}
	if lb[0] != liveByte {
		return zero, kinderr.New(kinderr.DeadRecord, "record at given offset is tombstoned")
	}
	record, err := s.decode(s.sectionAt(offset + 1))
	if err != nil {
		return zero, err
	}
	return record, nil
}

// Tombstone verifies record against the one stored at offset (by
// identity field) and, on match, flips its liveness byte to dead. A
// mismatch fails with WrongRecord and leaves the file untouched.
func (s *Store[T]) Tombstone(record T, offset int64) error {
	existing, err := s.ReadAt(offset)
	if err != nil {
		return err
	}
	if !s.identity(existing, record) {
		return kinderr.New(kinderr.WrongRecord, "tombstone target does not match record at offset")
	}
	if _, err := s.file.WriteAt([]byte{deadByte}, offset); err != nil {
		return kinderr.Wrap(kinderr.Io, "write tombstone byte", err)
	}
	return nil
}

// ScanAll walks every record from byte 0, invoking yield for each
// successfully-decoded live record. Dead records are skipped without
// decoding. Recoverable decode errors (CorruptData, HistoricalRecord,
// DeadRecord surfacing from decode itself) are absorbed and the scan
// continues past them. Any other error while skipping or decoding a
// payload — an underlying I/O failure or an unexpected end of file
// mid-record — terminates the scan without propagating, matching the
// tolerant-recovery policy: the records already yielded stand, and
// everything from that point on is lost. Only a failure to read a
// liveness byte itself is returned, as an Io error.
func (s *Store[T]) ScanAll(yield func(offset int64, record T)) error {
	var cursor int64
	for cursor < s.size {
		var lb [1]byte
		n, err := s.file.ReadAt(lb[:], cursor)
		if n == 0 && err == io.EOF {
			return nil
		}
		if err != nil && err != io.EOF {
			return kinderr.Wrap(kinderr.Io, "scan: read liveness byte", err)
		}

		cr := s.sectionAt(cursor + 1)
		if lb[0] != liveByte {
			if skipErr := s.skip(cr); skipErr != nil {
				return nil // unexpected EOF mid dead record: scan ends here
			}
			cursor += 1 + cr.n
			continue
		}

		record, decErr := s.decode(cr)
		switch {
		case decErr == nil:
			yield(cursor, record)
			cursor += 1 + cr.n
		case kinderr.Is(decErr, kinderr.CorruptData),
			kinderr.Is(decErr, kinderr.HistoricalRecord),
			kinderr.Is(decErr, kinderr.DeadRecord):
			cursor += 1 + cr.n
		default:
			// Not one of our recoverable kinds: an underlying I/O failure
			// or a length prefix that ran past EOF. Treat as UnexpectedEof
			// per §7 and end the scan normally.
			return nil
		}
	}
	return nil
}

// countingReader wraps an io.Reader and tracks total bytes read, so
// ScanAll can compute the next record's offset without the codec
// exposing record length directly.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
