package ledger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/weresobayes/zentrydb/internal/codec"
	"github.com/weresobayes/zentrydb/internal/kinderr"
	"github.com/weresobayes/zentrydb/internal/model"
	"github.com/weresobayes/zentrydb/internal/uid"
)

// CreateConversionGraph parses g.Graph as "FROM direction TO", requires
// both systems to already exist, and writes one or two canonical
// "A -> B" records depending on direction. Any prior live record for a
// target direction is archived (graph.go's archiveConversionGraph)
// before the new one is appended.
func (l *Ledger) CreateConversionGraph(g model.ConversionGraph) error {
	parts := strings.Fields(g.Graph)
	if len(parts) != 3 {
		return kinderr.Newf(kinderr.InvalidData, "invalid graph format: %q", g.Graph)
	}
	from, direction, to := parts[0], parts[1], parts[2]

	if _, ok := l.systems[uid.Derive(from)]; !ok {
		return kinderr.Newf(kinderr.NotFound, "source system not found: %s", from)
	}
	if _, ok := l.systems[uid.Derive(to)]; !ok {
		return kinderr.Newf(kinderr.NotFound, "target system not found: %s", to)
	}

	now := time.Now().UTC()

	switch direction {
	case "->":
		return l.upsertDirection(from, to, g.Rate, now)
	case "<-":
		return l.upsertDirection(to, from, g.Rate, now)
	case "<->":
		if err := l.upsertDirection(from, to, g.Rate, now); err != nil {
			return err
		}
		return l.upsertDirection(to, from, 1/g.Rate, now)
	default:
		return kinderr.Newf(kinderr.InvalidData, "invalid direction: %q (must be ->, <-, or <->)", direction)
	}
}

// upsertDirection archives any existing live record for "from -> to",
// then appends the new one and updates the index and in-memory map.
func (l *Ledger) upsertDirection(from, to string, rate float64, now time.Time) error {
	key := fmt.Sprintf("%s -> %s", from, to)
	keyUUID := uid.Derive(key)

	if existing, ok := l.conversionGraphs[keyUUID]; ok {
		if err := l.archiveConversionGraph(existing, now); err != nil {
			return err
		}
	}

	fresh := model.ConversionGraph{Graph: key, Rate: rate, RateSince: now}
	offset, err := l.conversionGraphStore.Append(fresh)
	if err != nil {
		return err
	}
	l.conversionGraphIndex.Insert(keyUUID, uint64(offset))
	l.conversionGraphs[keyUUID] = fresh
	return nil
}

// archiveConversionGraph tombstones the live record for existing (if
// its offset is still indexed) and appends a historical record whose
// key brackets its rate_since and expiredAt.
func (l *Ledger) archiveConversionGraph(existing model.ConversionGraph, expiredAt time.Time) error {
	historicalKey := fmt.Sprintf("%s[%s]%s",
		existing.RateSince.Format(time.RFC3339),
		existing.Graph,
		expiredAt.Format(time.RFC3339),
	)

	oldUUID := uid.Derive(existing.Graph)
	if offset, ok := l.conversionGraphIndex.Get(oldUUID); ok {
		if err := l.conversionGraphStore.Tombstone(existing, int64(offset)); err != nil {
			return err
		}
	}

	historical := model.ConversionGraph{Graph: historicalKey, Rate: existing.Rate, RateSince: existing.RateSince}
	historicalEncode := func(w io.Writer, g model.ConversionGraph) error {
		return codec.EncodeConversionGraphHistorical(w, g.Graph, g.Rate, g.RateSince)
	}
	offset, err := l.conversionGraphStore.AppendEncoded(historicalEncode, historical)
	if err != nil {
		return err
	}
	historicalUUID := uid.Derive(historicalKey)
	l.conversionGraphIndex.Insert(historicalUUID, uint64(offset))
	l.conversionGraphs[historicalUUID] = historical
	return nil
}
