// Package ledger is the top-level façade: it owns the five record
// stores and their indexes, rebuilds in-memory state from disk at
// Load, and is the only thing allowed to mutate that state. It is a
// direct port of the original Rust Ledger struct and its methods
// (db.rs), composing internal/recordstore, internal/index,
// internal/codec, internal/uid, and internal/model the way db.rs
// composes its own storage/index/util modules.
package ledger

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/weresobayes/zentrydb/internal/codec"
	"github.com/weresobayes/zentrydb/internal/index"
	"github.com/weresobayes/zentrydb/internal/model"
	"github.com/weresobayes/zentrydb/internal/recordstore"
	"github.com/weresobayes/zentrydb/internal/start"
	"github.com/weresobayes/zentrydb/internal/uid"
)

// epsilon is IEEE-754 f64 machine epsilon, not a looser "close enough"
// bound — see the balanced-transaction invariant in RecordTransaction.
const epsilon = 2.220446049250313e-16

const (
	accountsFile         = "accounts"
	transactionsFile     = "transactions"
	entriesFile          = "entries"
	systemsFile          = "systems"
	conversionGraphsFile = "conversion_graphs"
)

// Ledger holds the in-memory state rebuilt from disk at Load, plus the
// five record stores and indexes that back it.
type Ledger struct {
	dataDir string

	accounts         map[uuid.UUID]model.Account
	transactions     map[uuid.UUID]model.Transaction
	entries          []model.Entry
	systems          map[uuid.UUID]model.System
	conversionGraphs map[uuid.UUID]model.ConversionGraph

	accountStore         *recordstore.Store[model.Account]
	transactionStore     *recordstore.Store[model.Transaction]
	entryStore           *recordstore.Store[model.Entry]
	systemStore          *recordstore.Store[model.System]
	conversionGraphStore *recordstore.Store[model.ConversionGraph]

	accountIndex         *index.Index
	transactionIndex     *index.Index
	entryIndex           *index.Index
	systemIndex          *index.Index
	conversionGraphIndex *index.Index
}

// LoadReport summarizes how many live records of each family were
// recovered, so a caller (the CLI, a test) can report what a load
// actually found without reaching into Ledger's private maps.
type LoadReport struct {
	Accounts         int
	Transactions     int
	Entries          int
	Systems          int
	ConversionGraphs int
}

func identityByAccountID(a, b model.Account) bool         { return a.ID == b.ID }
func identityByTransactionID(a, b model.Transaction) bool { return a.ID == b.ID }
func identityByEntryID(a, b model.Entry) bool             { return a.ID == b.ID }
func identityBySystemID(a, b model.System) bool           { return a.ID == b.ID }
func identityByGraphKey(a, b model.ConversionGraph) bool  { return a.Graph == b.Graph }

// Load opens the five binary files and their indexes under dataDir,
// then runs a full scan of each binary file to rebuild the in-memory
// maps. Scan errors classified as recoverable in internal/kinderr are
// silently absorbed by recordstore.Store.ScanAll; Load itself never
// sees them.
func Load(dataDir string) (*Ledger, LoadReport, error) {
	l := &Ledger{
		dataDir:          dataDir,
		accounts:         make(map[uuid.UUID]model.Account),
		transactions:     make(map[uuid.UUID]model.Transaction),
		systems:          make(map[uuid.UUID]model.System),
		conversionGraphs: make(map[uuid.UUID]model.ConversionGraph),
	}

	var err error
	l.accountStore, err = recordstore.Open(l.binPath(accountsFile), codec.EncodeAccount, codec.DecodeAccount, codec.SkipAccount, identityByAccountID)
	if err != nil {
		return nil, LoadReport{}, err
	}
	l.transactionStore, err = recordstore.Open(l.binPath(transactionsFile), codec.EncodeTransaction, codec.DecodeTransaction, codec.SkipTransaction, identityByTransactionID)
	if err != nil {
		return nil, LoadReport{}, err
	}
	l.entryStore, err = recordstore.Open(l.binPath(entriesFile), codec.EncodeEntry, codec.DecodeEntry, codec.SkipEntry, identityByEntryID)
	if err != nil {
		return nil, LoadReport{}, err
	}
	l.systemStore, err = recordstore.Open(l.binPath(systemsFile), codec.EncodeSystem, codec.DecodeSystem, codec.SkipSystem, identityBySystemID)
	if err != nil {
		return nil, LoadReport{}, err
	}
	l.conversionGraphStore, err = recordstore.Open(l.binPath(conversionGraphsFile), codec.EncodeConversionGraphLive, codec.DecodeConversionGraph, codec.SkipConversionGraph, identityByGraphKey)
	if err != nil {
		return nil, LoadReport{}, err
	}

	if l.accountIndex, err = index.Load(l.idxPath(accountsFile)); err != nil {
		return nil, LoadReport{}, err
	}
	if l.transactionIndex, err = index.Load(l.idxPath(transactionsFile)); err != nil {
		return nil, LoadReport{}, err
	}
	if l.entryIndex, err = index.Load(l.idxPath(entriesFile)); err != nil {
		return nil, LoadReport{}, err
	}
	if l.systemIndex, err = index.Load(l.idxPath(systemsFile)); err != nil {
		return nil, LoadReport{}, err
	}
	if l.conversionGraphIndex, err = index.Load(l.idxPath(conversionGraphsFile)); err != nil {
		return nil, LoadReport{}, err
	}

	var report LoadReport
	if err := l.accountStore.ScanAll(func(_ int64, a model.Account) {
		l.accounts[a.ID] = a
		report.Accounts++
	}); err != nil {
		return nil, LoadReport{}, err
	}
	if err := l.transactionStore.ScanAll(func(_ int64, tx model.Transaction) {
		l.transactions[tx.ID] = tx
		report.Transactions++
	}); err != nil {
		return nil, LoadReport{}, err
	}
	if err := l.entryStore.ScanAll(func(_ int64, e model.Entry) {
		l.entries = append(l.entries, e)
		report.Entries++
	}); err != nil {
		return nil, LoadReport{}, err
	}
	if err := l.systemStore.ScanAll(func(_ int64, s model.System) {
		l.systems[uid.Derive(s.ID)] = s
		report.Systems++
	}); err != nil {
		return nil, LoadReport{}, err
	}
	// ScanAll never yields an 'H'-tagged or malformed ConversionGraph —
	// codec.DecodeConversionGraph reports those as recoverable errors,
	// which the store absorbs — so only the live view ever reaches here.
	if err := l.conversionGraphStore.ScanAll(func(_ int64, g model.ConversionGraph) {
		l.conversionGraphs[uid.Derive(g.Graph)] = g
		report.ConversionGraphs++
	}); err != nil {
		return nil, LoadReport{}, err
	}

	return l, report, nil
}

// Close releases the five underlying file handles.
func (l *Ledger) Close() error {
	var first error
	for _, c := range []interface{ Close() error }{
		l.accountStore, l.transactionStore, l.entryStore, l.systemStore, l.conversionGraphStore,
	} {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PersistIndexes rewrites all five index files from current in-memory
// state, one file per family, concurrently under start.RunAll. Intended
// to be called at shutdown; an intervening crash loses index updates
// since the last persist, which the next Load repairs by a full file
// scan. The five files are independent, so a crash mid-persist leaves
// some families freshly written and others stale, which is no worse
// than the sequential case for the same reason.
func (l *Ledger) PersistIndexes() error {
	targets := []struct {
		idx  *index.Index
		path string
	}{
		{l.accountIndex, l.idxPath(accountsFile)},
		{l.transactionIndex, l.idxPath(transactionsFile)},
		{l.entryIndex, l.idxPath(entriesFile)},
		{l.systemIndex, l.idxPath(systemsFile)},
		{l.conversionGraphIndex, l.idxPath(conversionGraphsFile)},
	}

	runs := make([]func(ctx context.Context) error, len(targets))
	for i, t := range targets {
		t := t
		runs[i] = func(ctx context.Context) error { return t.idx.Persist(t.path) }
	}
	return start.RunAll(context.Background(), runs...)
}

// CreateSystem writes s to the systems file and registers it under its
// deterministic UUID, both on disk and in memory.
func (l *Ledger) CreateSystem(s model.System) error {
	offset, err := l.systemStore.Append(s)
	if err != nil {
		return err
	}
	key := uid.Derive(s.ID)
	l.systemIndex.Insert(key, uint64(offset))
	l.systems[key] = s
	return nil
}

// CreateAccount writes a to the accounts file and registers it under
// its caller-supplied UUID, both on disk and in memory.
func (l *Ledger) CreateAccount(a model.Account) error {
	offset, err := l.accountStore.Append(a)
	if err != nil {
		return err
	}
	l.accountIndex.Insert(a.ID, uint64(offset))
	l.accounts[a.ID] = a
	return nil
}

func (l *Ledger) binPath(family string) string {
	return filepath.Join(l.dataDir, family+".bin")
}

func (l *Ledger) idxPath(family string) string {
	return filepath.Join(l.dataDir, family+".idx")
}
