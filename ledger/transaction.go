package ledger

import (
	"math"

	"github.com/weresobayes/zentrydb/internal/kinderr"
	"github.com/weresobayes/zentrydb/internal/model"
	"github.com/weresobayes/zentrydb/internal/uid"
)

// RecordTransaction validates tx's entries against the balanced-
// transaction and per-system-balance invariants, and the referential
// integrity of every entry's account, before writing anything. Once
// validation passes, entries are appended first, then tx — matching
// entries-then-transaction write order; a crash between the two leaves
// orphan entries, which is accepted per the cross-record-ACID non-goal.
func (l *Ledger) RecordTransaction(tx model.Transaction, entries []model.Entry) error {
	var total float64
	for _, e := range entries {
		total += e.Amount
	}
	if math.Abs(total) > epsilon {
		return kinderr.Newf(kinderr.InvalidData, "unbalanced transaction: total = %v", total)
	}

	bySystem := make(map[string][]model.Entry)
	for _, e := range entries {
		account, ok := l.accounts[e.AccountID]
		if !ok {
			return kinderr.Newf(kinderr.NotFound, "account not found: %s", e.AccountID)
		}
		bySystem[account.SystemID] = append(bySystem[account.SystemID], e)
	}

	for systemID, group := range bySystem {
		if _, ok := l.systems[uid.Derive(systemID)]; !ok {
			return kinderr.Newf(kinderr.NotFound, "system not found: %s", systemID)
		}
		var sum float64
		for _, e := range group {
			sum += e.Amount
		}
		if math.Abs(sum) > epsilon {
			return kinderr.Newf(kinderr.InvalidData, "unbalanced entries in system %s: sum = %v", systemID, sum)
		}
	}

	for _, e := range entries {
		offset, err := l.entryStore.Append(e)
		if err != nil {
			return err
		}
		l.entryIndex.Insert(e.ID, uint64(offset))
		l.entries = append(l.entries, e)
	}

	offset, err := l.transactionStore.Append(tx)
	if err != nil {
		return err
	}
	l.transactionIndex.Insert(tx.ID, uint64(offset))
	l.transactions[tx.ID] = tx
	return nil
}
