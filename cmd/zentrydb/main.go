// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command zentrydb is the thin CLI shell around the ledger core: a
// parser that calls the façade's operations and prints what happened.
// This shell, its help text, and its table rendering are substitutable,
// not load-bearing — the storage core underneath is what matters.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"github.com/weresobayes/zentrydb/internal/config"
	"github.com/weresobayes/zentrydb/internal/model"
	"github.com/weresobayes/zentrydb/internal/start"
	"github.com/weresobayes/zentrydb/internal/zlog"
	"github.com/weresobayes/zentrydb/ledger"
	"github.com/weresobayes/zentrydb/rpc"
)

func main() {
	app := &cli.App{
		Name:  "zentrydb",
		Usage: "embedded, single-process, append-only ledger store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "zentrydb.toml", Usage: "path to a TOML configuration file"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable development-mode (human-readable) logging"},
		},
		Commands: []*cli.Command{
			installCommand,
			loadCommand,
			systemCommand,
			accountCommand,
			graphCommand,
			txCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var installCommand = &cli.Command{
	Name:  "install",
	Usage: "create an empty data directory if one doesn't already exist",
	Action: func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		return ledger.Install(cfg.DataDir)
	},
}

var loadCommand = &cli.Command{
	Name:  "load",
	Usage: "load the data directory and report how many live records were recovered",
	Action: func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		l, report, err := ledger.Load(cfg.DataDir)
		if err != nil {
			return err
		}
		defer l.Close()
		fmt.Printf("systems=%d accounts=%d transactions=%d entries=%d conversion_graphs=%d\n",
			report.Systems, report.Accounts, report.Transactions, report.Entries, report.ConversionGraphs)
		return nil
	},
}

var systemCommand = &cli.Command{
	Name:  "system",
	Usage: "manage Systems (currency-like namespaces)",
	Subcommands: []*cli.Command{
		{
			Name: "create",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "id", Required: true},
				&cli.StringFlag{Name: "description"},
			},
			Action: func(c *cli.Context) error {
				return withLedger(c, func(ctx context.Context, svc rpc.Service) error {
					return svc.CreateSystem(ctx, model.System{ID: c.String("id"), Description: c.String("description")})
				})
			},
		},
	},
}

var accountCommand = &cli.Command{
	Name:  "account",
	Usage: "manage Accounts",
	Subcommands: []*cli.Command{
		{
			Name: "create",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true},
				&cli.StringFlag{Name: "type", Value: "asset", Usage: "asset|liability|equity|revenue|expense"},
				&cli.StringFlag{Name: "system", Required: true},
			},
			Action: func(c *cli.Context) error {
				accountType, err := parseAccountType(c.String("type"))
				if err != nil {
					return err
				}
				return withLedger(c, func(ctx context.Context, svc rpc.Service) error {
					return svc.CreateAccount(ctx, model.Account{
						ID:        uuid.New(),
						Name:      c.String("name"),
						Type:      accountType,
						CreatedAt: time.Now().UTC(),
						SystemID:  c.String("system"),
					})
				})
			},
		},
	},
}

var graphCommand = &cli.Command{
	Name:  "graph",
	Usage: "manage ConversionGraphs between Systems",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: `create --graph "USD -> IDR" --rate 14000`,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "graph", Required: true},
				&cli.Float64Flag{Name: "rate", Required: true},
			},
			Action: func(c *cli.Context) error {
				return withLedger(c, func(ctx context.Context, svc rpc.Service) error {
					return svc.CreateConversionGraph(ctx, model.ConversionGraph{Graph: c.String("graph"), Rate: c.Float64("rate")})
				})
			},
		},
	},
}

var txCommand = &cli.Command{
	Name:  "tx",
	Usage: "record double-entry Transactions",
	Subcommands: []*cli.Command{
		{
			Name:  "record",
			Usage: `record --description "payroll" --entry <account-uuid>:<amount> --entry ...`,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "description"},
				&cli.StringSliceFlag{Name: "entry", Required: true, Usage: "account-uuid:amount, repeatable"},
			},
			Action: func(c *cli.Context) error {
				entries, err := parseEntries(c.StringSlice("entry"))
				if err != nil {
					return err
				}
				tx := model.Transaction{ID: uuid.New(), Description: c.String("description"), Timestamp: time.Now().UTC()}
				for i := range entries {
					entries[i].TransactionID = tx.ID
				}
				return withLedger(c, func(ctx context.Context, svc rpc.Service) error {
					return svc.RecordTransaction(ctx, tx, entries)
				})
			},
		},
	},
}

// withLedger opens the ledger for cfg.DataDir, runs fn against it
// through the rpc.Service contract, persists the indexes, and closes —
// the lifecycle every mutating subcommand shares. It runs under
// start.Start purely to reuse its signal-aware shutdown path for the
// PersistIndexes call.
func withLedger(c *cli.Context, fn func(ctx context.Context, svc rpc.Service) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	logger, err := zlog.New(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	l, _, err := ledger.Load(cfg.DataDir)
	if err != nil {
		return err
	}
	defer l.Close()

	svc := l.AsService()
	return start.Start(context.Background(), logger, 5*time.Second,
		func(ctx context.Context) error { return fn(ctx, svc) },
		l.PersistIndexes,
	)
}

func parseAccountType(s string) (model.AccountType, error) {
	switch strings.ToLower(s) {
	case "asset":
		return model.Asset, nil
	case "liability":
		return model.Liability, nil
	case "equity":
		return model.Equity, nil
	case "revenue":
		return model.Revenue, nil
	case "expense":
		return model.Expense, nil
	default:
		return 0, fmt.Errorf("unknown account type %q", s)
	}
}

func parseEntries(raw []string) ([]model.Entry, error) {
	entries := make([]model.Entry, 0, len(raw))
	for _, item := range raw {
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --entry %q, want account-uuid:amount", item)
		}
		accountID, err := uuid.Parse(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid account uuid in %q: %w", item, err)
		}
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount in %q: %w", item, err)
		}
		entries = append(entries, model.Entry{ID: uuid.New(), AccountID: accountID, Amount: amount})
	}
	return entries, nil
}
