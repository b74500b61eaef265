// Package model declares the five record families persisted by the
// ledger store, ported field-for-field from the original Rust types.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountType classifies an Account for double-entry purposes.
// Encodes on disk as: Asset=0, Liability=1, Equity=2, Revenue=3, Expense=4.
type AccountType uint8

const (
	Asset AccountType = iota
	Liability
	Equity
	Revenue
	Expense
)

// ValidAccountType reports whether b is a known on-disk account-type byte.
func ValidAccountType(b uint8) bool {
	return b <= uint8(Expense)
}

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "Asset"
	case Liability:
		return "Liability"
	case Equity:
		return "Equity"
	case Revenue:
		return "Revenue"
	case Expense:
		return "Expense"
	default:
		return "Unknown"
	}
}

// System is a currency or unit namespace identified by a short string code.
// Its record key is the deterministic UUID derived from ID.
type System struct {
	ID          string
	Description string
}

// ConversionGraph is a directed conversion relationship between two
// Systems at a rate valid from RateSince. Graph holds the canonical
// "A -> B" direction once stamped by the ledger façade.
type ConversionGraph struct {
	Graph     string
	Rate      float64
	RateSince time.Time
}

// Account is a named ledger account under a System.
type Account struct {
	ID        uuid.UUID
	Name      string
	Type      AccountType
	CreatedAt time.Time
	SystemID  string
}

// Transaction groups a balanced set of Entries. Metadata is an opaque
// JSON blob; nil or empty denotes absence.
type Transaction struct {
	ID          uuid.UUID
	Description string
	Timestamp   time.Time
	Metadata    []byte
}

// Entry is one leg of a Transaction. Positive Amount is a debit,
// negative is a credit.
type Entry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Amount        float64
}
