// Package layout declares the fixed, ordered field lists that define the
// on-disk shape of each record family. A layout never changes at runtime;
// it is the single source of truth the codec walks when it encodes,
// decodes, or skips a record.
package layout

// Kind identifies how a Field is represented on disk.
type Kind uint8

const (
	KindUUID Kind = iota
	KindU8
	KindU32
	KindI64
	KindF64
	KindLengthPrefixed
)

// PrefixWidth is the width of a LengthPrefixed field's length header.
type PrefixWidth uint8

const (
	PrefixU8 PrefixWidth = iota
	PrefixU16
	PrefixU32
)

// Field describes one member of a record layout.
type Field struct {
	Name  string
	Kind  Kind
	Width PrefixWidth // only meaningful when Kind == KindLengthPrefixed
}

func UUID(name string) Field { return Field{Name: name, Kind: KindUUID} }
func U8(name string) Field   { return Field{Name: name, Kind: KindU8} }
func U32(name string) Field  { return Field{Name: name, Kind: KindU32} }
func I64(name string) Field  { return Field{Name: name, Kind: KindI64} }
func F64(name string) Field  { return Field{Name: name, Kind: KindF64} }

func LengthPrefixed(name string, width PrefixWidth) Field {
	return Field{Name: name, Kind: KindLengthPrefixed, Width: width}
}

// Layout is an ordered list of fields forming one record family's shape.
type Layout []Field

// Account: id:Uuid, name:LP(U8), account_type:U8, created_at:I64, system_id:LP(U8)
var Account = Layout{
	UUID("id"),
	LengthPrefixed("name", PrefixU8),
	U8("account_type"),
	I64("created_at"),
	LengthPrefixed("system_id", PrefixU8),
}

// Transaction: id:Uuid, description:LP(U8), metadata:LP(U32), timestamp:I64
var Transaction = Layout{
	UUID("id"),
	LengthPrefixed("description", PrefixU8),
	LengthPrefixed("metadata", PrefixU32),
	I64("timestamp"),
}

// Entry: id:Uuid, transaction_id:Uuid, account_id:Uuid, amount:F64
var Entry = Layout{
	UUID("id"),
	UUID("transaction_id"),
	UUID("account_id"),
	F64("amount"),
}

// System: system_id:LP(U8), description:LP(U8)
var System = Layout{
	LengthPrefixed("system_id", PrefixU8),
	LengthPrefixed("description", PrefixU8),
}

// ConversionGraph: graph:LP(U8) [one-byte class tag + payload], rate:F64, rate_since:I64
var ConversionGraph = Layout{
	LengthPrefixed("graph", PrefixU8),
	F64("rate"),
	I64("rate_since"),
}
