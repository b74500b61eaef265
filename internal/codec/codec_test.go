package codec

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/weresobayes/zentrydb/internal/kinderr"
	"github.com/weresobayes/zentrydb/internal/model"
)

func TestAccountRoundTrip(t *testing.T) {
	want := model.Account{
		ID:        uuid.New(),
		Name:      "Checking",
		Type:      model.Asset,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
		SystemID:  "USD",
	}
	var buf bytes.Buffer
	if err := EncodeAccount(&buf, want); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeAccount(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestAccountUnknownTypeByteIsCorrupt(t *testing.T) {
	a := model.Account{ID: uuid.New(), Name: "x", Type: model.Expense, CreatedAt: time.Now(), SystemID: "USD"}
	var buf bytes.Buffer
	if err := EncodeAccount(&buf, a); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()
	// account_type byte sits right after id(16) + 1-byte name length + name.
	typeOffset := 16 + 1 + len(a.Name)
	raw[typeOffset] = 0xFF
	_, err := DecodeAccount(bytes.NewReader(raw))
	if !kinderr.Is(err, kinderr.CorruptData) {
		t.Fatalf("expected CorruptData, got %v", err)
	}
}

func TestTransactionRoundTripEmptyMetadata(t *testing.T) {
	want := model.Transaction{
		ID:          uuid.New(),
		Description: "payroll run",
		Timestamp:   time.Unix(1700000001, 0).UTC(),
	}
	var buf bytes.Buffer
	if err := EncodeTransaction(&buf, want); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeTransaction(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != want.ID || got.Description != want.Description || !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
	if got.Metadata != nil {
		t.Fatalf("expected nil metadata, got %v", got.Metadata)
	}
}

func TestTransactionRoundTripWithMetadata(t *testing.T) {
	want := model.Transaction{
		ID:          uuid.New(),
		Description: "refund",
		Timestamp:   time.Unix(1700000002, 0).UTC(),
		Metadata:    []byte(`{"order_id":"abc123"}`),
	}
	var buf bytes.Buffer
	if err := EncodeTransaction(&buf, want); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeTransaction(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got.Metadata, want.Metadata) {
		t.Fatalf("metadata mismatch: got %q, want %q", got.Metadata, want.Metadata)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	want := model.Entry{
		ID:            uuid.New(),
		TransactionID: uuid.New(),
		AccountID:     uuid.New(),
		Amount:        -42.50,
	}
	var buf bytes.Buffer
	if err := EncodeEntry(&buf, want); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeEntry(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSystemRoundTrip(t *testing.T) {
	want := model.System{ID: "USD", Description: "US Dollar"}
	var buf bytes.Buffer
	if err := EncodeSystem(&buf, want); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSystem(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestConversionGraphLiveRoundTrip(t *testing.T) {
	want := model.ConversionGraph{
		Graph:     "USD -> IDR",
		Rate:      15500.25,
		RateSince: time.Unix(1700000003, 0).UTC(),
	}
	var buf bytes.Buffer
	if err := EncodeConversionGraphLive(&buf, want); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeConversionGraph(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

// Decoding a historical record must still surface the full payload's
// byte count to the caller (nothing left dangling in the reader) even
// though it reports a HistoricalRecord error instead of a clean value.
func TestConversionGraphHistoricalFullyConsumed(t *testing.T) {
	var buf bytes.Buffer
	rateSince := time.Unix(1700000004, 0).UTC()
	if err := EncodeConversionGraphHistorical(&buf, "USD -> IDR", 15000.0, rateSince); err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Append a second, live record right after to prove the reader's
	// cursor lands exactly at its boundary.
	second := model.ConversionGraph{Graph: "IDR -> USD", Rate: 0.0000645, RateSince: rateSince}
	if err := EncodeConversionGraphLive(&buf, second); err != nil {
		t.Fatalf("encode second: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	got, err := DecodeConversionGraph(r)
	if !kinderr.Is(err, kinderr.HistoricalRecord) {
		t.Fatalf("expected HistoricalRecord, got %v", err)
	}
	if got.Graph != "USD -> IDR" || got.Rate != 15000.0 {
		t.Fatalf("historical payload not decoded alongside the error: %+v", got)
	}

	gotSecond, err := DecodeConversionGraph(r)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if gotSecond != second {
		t.Fatalf("cursor misaligned after historical record: got %+v, want %+v", gotSecond, second)
	}
}

func TestConversionGraphUnknownTagIsCorruptButConsumed(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeConversionGraphLive(&buf, model.ConversionGraph{Graph: "USD -> IDR", Rate: 1, RateSince: time.Now()}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()
	raw[1] = 'Z' // first byte of length-prefixed payload is the class tag
	_, err := DecodeConversionGraph(bytes.NewReader(raw))
	if !kinderr.Is(err, kinderr.CorruptData) {
		t.Fatalf("expected CorruptData, got %v", err)
	}
}

func TestSkipAdvancesExactlyOneRecord(t *testing.T) {
	a := model.Account{ID: uuid.New(), Name: "Checking", Type: model.Asset, CreatedAt: time.Now(), SystemID: "USD"}
	b := model.Account{ID: uuid.New(), Name: "Savings", Type: model.Asset, CreatedAt: time.Now(), SystemID: "USD"}
	var buf bytes.Buffer
	if err := EncodeAccount(&buf, a); err != nil {
		t.Fatalf("encode a: %v", err)
	}
	if err := EncodeAccount(&buf, b); err != nil {
		t.Fatalf("encode b: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	if err := SkipAccount(r); err != nil {
		t.Fatalf("skip: %v", err)
	}
	got, err := DecodeAccount(r)
	if err != nil {
		t.Fatalf("decode after skip: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("skip landed on wrong record: got %+v, want id %v", got, b.ID)
	}
}
