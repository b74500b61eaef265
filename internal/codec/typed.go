package codec

import (
	"io"
	"time"

	"github.com/weresobayes/zentrydb/internal/kinderr"
	"github.com/weresobayes/zentrydb/internal/layout"
	"github.com/weresobayes/zentrydb/internal/model"
)

// EncodeAccount writes a per layout.Account.
func EncodeAccount(w io.Writer, a model.Account) error {
	if err := writeUUID(w, a.ID); err != nil {
		return err
	}
	if err := writeLengthPrefixed(w, layout.PrefixU8, []byte(a.Name)); err != nil {
		return err
	}
	if err := writeU8(w, uint8(a.Type)); err != nil {
		return err
	}
	if err := writeI64(w, a.CreatedAt.Unix()); err != nil {
		return err
	}
	return writeLengthPrefixed(w, layout.PrefixU8, []byte(a.SystemID))
}

// DecodeAccount reads one Account record. An unrecognized account_type
// byte is reported as CorruptData rather than silently coerced.
func DecodeAccount(r io.Reader) (model.Account, error) {
	var a model.Account
	id, err := readUUID(r)
	if err != nil {
		return a, err
	}
	name, err := readLengthPrefixed(r, layout.PrefixU8)
	if err != nil {
		return a, err
	}
	typeByte, err := readU8(r)
	if err != nil {
		return a, err
	}
	createdAt, err := readI64(r)
	if err != nil {
		return a, err
	}
	systemID, err := readLengthPrefixed(r, layout.PrefixU8)
	if err != nil {
		return a, err
	}
	if !model.ValidAccountType(typeByte) {
		return a, kinderr.Newf(kinderr.CorruptData, "account %s: unknown account_type byte %d", id, typeByte)
	}
	a.ID = id
	a.Name = toUTF8(name)
	a.Type = model.AccountType(typeByte)
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.SystemID = toUTF8(systemID)
	return a, nil
}

// SkipAccount advances r past one Account record.
func SkipAccount(r io.Reader) error { return Skip(r, layout.Account) }

// EncodeTransaction writes t per layout.Transaction.
func EncodeTransaction(w io.Writer, t model.Transaction) error {
	if err := writeUUID(w, t.ID); err != nil {
		return err
	}
	if err := writeLengthPrefixed(w, layout.PrefixU8, []byte(t.Description)); err != nil {
		return err
	}
	if err := writeLengthPrefixed(w, layout.PrefixU32, t.Metadata); err != nil {
		return err
	}
	return writeI64(w, t.Timestamp.Unix())
}

// DecodeTransaction reads one Transaction record.
func DecodeTransaction(r io.Reader) (model.Transaction, error) {
	var t model.Transaction
	id, err := readUUID(r)
	if err != nil {
		return t, err
	}
	desc, err := readLengthPrefixed(r, layout.PrefixU8)
	if err != nil {
		return t, err
	}
	meta, err := readLengthPrefixed(r, layout.PrefixU32)
	if err != nil {
		return t, err
	}
	ts, err := readI64(r)
	if err != nil {
		return t, err
	}
	t.ID = id
	t.Description = toUTF8(desc)
	if len(meta) > 0 {
		t.Metadata = meta
	}
	t.Timestamp = time.Unix(ts, 0).UTC()
	return t, nil
}

// SkipTransaction advances r past one Transaction record.
func SkipTransaction(r io.Reader) error { return Skip(r, layout.Transaction) }

// EncodeEntry writes e per layout.Entry.
func EncodeEntry(w io.Writer, e model.Entry) error {
	if err := writeUUID(w, e.ID); err != nil {
		return err
	}
	if err := writeUUID(w, e.TransactionID); err != nil {
		return err
	}
	if err := writeUUID(w, e.AccountID); err != nil {
		return err
	}
	return writeF64(w, e.Amount)
}

// DecodeEntry reads one Entry record.
func DecodeEntry(r io.Reader) (model.Entry, error) {
	var e model.Entry
	id, err := readUUID(r)
	if err != nil {
		return e, err
	}
	txID, err := readUUID(r)
	if err != nil {
		return e, err
	}
	acctID, err := readUUID(r)
	if err != nil {
		return e, err
	}
	amount, err := readF64(r)
	if err != nil {
		return e, err
	}
	e.ID = id
	e.TransactionID = txID
	e.AccountID = acctID
	e.Amount = amount
	return e, nil
}

// SkipEntry advances r past one Entry record.
func SkipEntry(r io.Reader) error { return Skip(r, layout.Entry) }

// EncodeSystem writes s per layout.System.
func EncodeSystem(w io.Writer, s model.System) error {
	if err := writeLengthPrefixed(w, layout.PrefixU8, []byte(s.ID)); err != nil {
		return err
	}
	return writeLengthPrefixed(w, layout.PrefixU8, []byte(s.Description))
}

// DecodeSystem reads one System record.
func DecodeSystem(r io.Reader) (model.System, error) {
	var s model.System
	id, err := readLengthPrefixed(r, layout.PrefixU8)
	if err != nil {
		return s, err
	}
	desc, err := readLengthPrefixed(r, layout.PrefixU8)
	if err != nil {
		return s, err
	}
	s.ID = toUTF8(id)
	s.Description = toUTF8(desc)
	return s, nil
}

// SkipSystem advances r past one System record.
func SkipSystem(r io.Reader) error { return Skip(r, layout.System) }

// EncodeConversionGraphLive writes g as an active record, tagged 'C'.
// Graph must already hold the canonical "A -> B" expression; stamping
// that canonical form is the ledger façade's job, not the codec's.
func EncodeConversionGraphLive(w io.Writer, g model.ConversionGraph) error {
	payload := append([]byte{TagActive}, []byte(g.Graph)...)
	if err := writeLengthPrefixed(w, layout.PrefixU8, payload); err != nil {
		return err
	}
	if err := writeF64(w, g.Rate); err != nil {
		return err
	}
	return writeI64(w, g.RateSince.Unix())
}

// EncodeConversionGraphHistorical writes a superseded rate, tagged 'H'.
// The payload after the tag is graphKey exactly as given; the ledger's
// archive protocol passes "<rate_since>[A -> B]<expired_at>" with both
// timestamps in RFC 3339.
func EncodeConversionGraphHistorical(w io.Writer, graphKey string, rate float64, rateSince time.Time) error {
	payload := append([]byte{TagHistorical}, []byte(graphKey)...)
	if err := writeLengthPrefixed(w, layout.PrefixU8, payload); err != nil {
		return err
	}
	if err := writeF64(w, rate); err != nil {
		return err
	}
	return writeI64(w, rateSince.Unix())
}

// DecodeConversionGraph reads one ConversionGraph record regardless of
// its class tag, fully consuming its bytes either way. For a 'C' tag it
// returns the graph with a nil error. For 'H' or any unrecognized tag
// it returns the partially-populated graph alongside a kinded
// HistoricalRecord/CorruptData error; callers that only want live
// graphs check the error, callers that are scanning past old records
// just need the full-consumption guarantee.
func DecodeConversionGraph(r io.Reader) (model.ConversionGraph, error) {
	var g model.ConversionGraph
	raw, err := readLengthPrefixed(r, layout.PrefixU8)
	if err != nil {
		return g, err
	}
	rate, err := readF64(r)
	if err != nil {
		return g, err
	}
	rateSince, err := readI64(r)
	if err != nil {
		return g, err
	}
	g.Rate = rate
	g.RateSince = time.Unix(rateSince, 0).UTC()

	if len(raw) == 0 {
		return g, kinderr.New(kinderr.CorruptData, "conversion_graph: empty tagged payload")
	}
	tag, key := raw[0], raw[1:]
	g.Graph = toUTF8(key)
	switch tag {
	case TagActive:
		return g, nil
	case TagHistorical:
		return g, kinderr.New(kinderr.HistoricalRecord, "conversion_graph: historical tag")
	default:
		return g, kinderr.Newf(kinderr.CorruptData, "conversion_graph: unknown class tag %q", tag)
	}
}

// SkipConversionGraph advances r past one ConversionGraph record.
func SkipConversionGraph(r io.Reader) error { return Skip(r, layout.ConversionGraph) }
