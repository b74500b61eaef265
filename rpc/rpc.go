// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rpc is the interface the CLI programs against. It carries
// no network transport — the interactive shell is a thin, substitutable
// collaborator, not the storage core — but giving it a named interface,
// the way ConfigService did for its one Alive method, keeps cmd/zentrydb
// decoupled from the concrete *ledger.Ledger type.
package rpc

import (
	"context"

	"github.com/weresobayes/zentrydb/internal/model"
)

// Service is every operation the ledger façade exposes to a caller,
// plus liveness.
type Service interface {
	Alive(ctx context.Context, req *AliveRequest) (*AliveResponse, error)

	CreateSystem(ctx context.Context, s model.System) error
	CreateAccount(ctx context.Context, a model.Account) error
	CreateConversionGraph(ctx context.Context, g model.ConversionGraph) error
	RecordTransaction(ctx context.Context, tx model.Transaction, entries []model.Entry) error
	PersistIndexes(ctx context.Context) error
}

type AliveRequest struct{}
type AliveResponse struct{}
