// Package kinderr gives the ledger's error taxonomy a concrete Go type,
// so callers can branch on error category with kinderr.Is (or
// errors.As into *Error) instead of string matching.
package kinderr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind categorizes an error by where and why it occurred: validation
// failure, missing entity, a tombstoned/historical/corrupt record hit
// during a scan, a record-identity mismatch, or a raw I/O failure.
type Kind uint8

const (
	// InvalidData: malformed input accepted as syntax but rejected
	// semantically (unbalanced transaction, bad graph syntax, ...).
	InvalidData Kind = iota
	// NotFound: referenced entity missing (account, system, graph target).
	NotFound
	// DeadRecord: liveness byte 0x00 observed during read. Never
	// surfaced past recordstore/ledger.Load's scan loop.
	DeadRecord
	// HistoricalRecord: ConversionGraph decoded with tag 'H'. Same
	// treatment as DeadRecord during scan.
	HistoricalRecord
	// WrongRecord: Tombstone called with a record that doesn't match
	// the record at the given offset.
	WrongRecord
	// Io: underlying file failure.
	Io
	// CorruptData: decode error mid-record during scan.
	CorruptData
)

func (k Kind) String() string {
	switch k {
	case InvalidData:
		return "InvalidData"
	case NotFound:
		return "NotFound"
	case DeadRecord:
		return "DeadRecord"
	case HistoricalRecord:
		return "HistoricalRecord"
	case WrongRecord:
		return "WrongRecord"
	case Io:
		return "Io"
	case CorruptData:
		return "CorruptData"
	default:
		return "Unknown"
	}
}

// Error is a kinded error with a message.
type Error struct {
	Kind Kind
	Msg  string
	err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.err }

// New builds a kinded error with no wrapped cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and msg to a lower-level cause, adding stack
// context via pkg/errors so I/O failures keep a trace back to the
// record-store call site that observed them.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, err: errors.Wrap(cause, msg)}
}

// Is reports whether err (or any error in its chain) has the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if ke, ok := err.(*Error); ok && ke.Kind == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
