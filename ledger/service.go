package ledger

import (
	"context"

	"github.com/weresobayes/zentrydb/internal/model"
	"github.com/weresobayes/zentrydb/rpc"
)

// service adapts *Ledger to rpc.Service. The ledger itself takes no
// context — every operation is synchronous, single-writer, with
// nothing that can be usefully canceled mid-flight (§5) — so ctx is
// accepted only to satisfy callers that expect the usual Go shape and
// is never consulted.
type service struct {
	ledger *Ledger
}

// AsService exposes l through the rpc.Service interface, so cmd/zentrydb
// and anything else outside this package programs against the
// interface rather than the concrete type.
func (l *Ledger) AsService() rpc.Service {
	return service{ledger: l}
}

func (s service) Alive(ctx context.Context, req *rpc.AliveRequest) (*rpc.AliveResponse, error) {
	return &rpc.AliveResponse{}, nil
}

func (s service) CreateSystem(ctx context.Context, sys model.System) error {
	return s.ledger.CreateSystem(sys)
}

func (s service) CreateAccount(ctx context.Context, a model.Account) error {
	return s.ledger.CreateAccount(a)
}

func (s service) CreateConversionGraph(ctx context.Context, g model.ConversionGraph) error {
	return s.ledger.CreateConversionGraph(g)
}

func (s service) RecordTransaction(ctx context.Context, tx model.Transaction, entries []model.Entry) error {
	return s.ledger.RecordTransaction(tx, entries)
}

func (s service) PersistIndexes(ctx context.Context) error {
	return s.ledger.PersistIndexes()
}
