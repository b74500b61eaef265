// Package codec implements layout-driven binary encode/decode/skip for
// the five record families, generalizing a FieldCoder-style per-kind
// dispatch from variable-bit table cells to the fixed
// {Uuid, U8, U32, I64, F64, LengthPrefixed} kinds of internal/layout.
package codec

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/weresobayes/zentrydb/internal/kinderr"
	"github.com/weresobayes/zentrydb/internal/layout"
)

// ConversionGraph class tags, prepended to the graph field's payload.
const (
	TagActive     byte = 'C'
	TagHistorical byte = 'H'
)

func writeFull(w io.Writer, p []byte) error {
	_, err := w.Write(p)
	return err
}

func readFull(r io.Reader, p []byte) error {
	_, err := io.ReadFull(r, p)
	return err
}

func writeLengthPrefixed(w io.Writer, width layout.PrefixWidth, payload []byte) error {
	n := len(payload)
	switch width {
	case layout.PrefixU8:
		if n > 0xFF {
			return kinderr.Newf(kinderr.InvalidData, "length-prefixed payload too large for u8 width: %d", n)
		}
		if err := writeFull(w, []byte{byte(n)}); err != nil {
			return err
		}
	case layout.PrefixU16:
		if n > 0xFFFF {
			return kinderr.Newf(kinderr.InvalidData, "length-prefixed payload too large for u16 width: %d", n)
		}
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(n))
		if err := writeFull(w, buf[:]); err != nil {
			return err
		}
	case layout.PrefixU32:
		if uint64(n) > 0xFFFFFFFF {
			return kinderr.Newf(kinderr.InvalidData, "length-prefixed payload too large for u32 width: %d", n)
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(n))
		if err := writeFull(w, buf[:]); err != nil {
			return err
		}
	default:
		return kinderr.Newf(kinderr.InvalidData, "unknown length-prefix width %d", width)
	}
	return writeFull(w, payload)
}

func readLengthPrefixed(r io.Reader, width layout.PrefixWidth) ([]byte, error) {
	var n uint64
	switch width {
	case layout.PrefixU8:
		var b [1]byte
		if err := readFull(r, b[:]); err != nil {
			return nil, err
		}
		n = uint64(b[0])
	case layout.PrefixU16:
		var b [2]byte
		if err := readFull(r, b[:]); err != nil {
			return nil, err
		}
		n = uint64(binary.LittleEndian.Uint16(b[:]))
	case layout.PrefixU32:
		var b [4]byte
		if err := readFull(r, b[:]); err != nil {
			return nil, err
		}
		n = uint64(binary.LittleEndian.Uint32(b[:]))
	default:
		return nil, kinderr.Newf(kinderr.InvalidData, "unknown length-prefix width %d", width)
	}
	payload := make([]byte, n)
	if n > 0 {
		if err := readFull(r, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// toUTF8 applies the tolerant-decode policy: invalid UTF-8 becomes "".
func toUTF8(b []byte) string {
	if !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

func writeUUID(w io.Writer, id uuid.UUID) error {
	return writeFull(w, id[:])
}

func readUUID(r io.Reader) (uuid.UUID, error) {
	var id uuid.UUID
	if err := readFull(r, id[:]); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func writeU8(w io.Writer, v uint8) error {
	return writeFull(w, []byte{v})
}

func readU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeI64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return writeFull(w, buf[:])
}

func readI64(r io.Reader) (int64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

func writeF64(w io.Writer, v float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return writeFull(w, buf[:])
}

func readF64(r io.Reader) (float64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// skipField advances r past one field's bytes without materializing it.
func skipField(r io.Reader, f layout.Field) error {
	switch f.Kind {
	case layout.KindUUID:
		_, err := io.CopyN(io.Discard, r, 16)
		return err
	case layout.KindU8:
		_, err := io.CopyN(io.Discard, r, 1)
		return err
	case layout.KindU32:
		_, err := io.CopyN(io.Discard, r, 4)
		return err
	case layout.KindI64, layout.KindF64:
		_, err := io.CopyN(io.Discard, r, 8)
		return err
	case layout.KindLengthPrefixed:
		_, err := readLengthPrefixed(r, f.Width)
		return err
	default:
		return kinderr.Newf(kinderr.InvalidData, "unknown field kind %d for %q", f.Kind, f.Name)
	}
}

// Skip advances r past an entire record's payload per its layout,
// without materializing any field. Used by recordstore's scan loop to
// step over tombstoned and undecodable records.
func Skip(r io.Reader, l layout.Layout) error {
	for _, f := range l {
		if err := skipField(r, f); err != nil {
			return err
		}
	}
	return nil
}
