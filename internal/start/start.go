// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package start is the process lifecycle: run a daemon function until
// SIGINT or an internal error, then give it stopTimeout to unwind
// before forcing a return. The ledger itself needs none of this — it's
// synchronous, single-writer, no background goroutines — but
// cmd/zentrydb runs each mutating subcommand under Start, and its
// shutdown path is where Ledger.PersistIndexes runs before the process
// exits.
package start

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StartFunc is the long-running body; it returns when ctx is canceled
// or it fails on its own.
type StartFunc func(ctx context.Context) error

// ShutdownFunc runs once, after the StartFunc has returned (or, after
// an interrupt, once stopTimeout has passed without it returning),
// regardless of whether it returned an error. Intended for
// Ledger.PersistIndexes.
type ShutdownFunc func() error

// Start runs run until it returns or an interrupt arrives. On an
// interrupt it cancels run's context and waits up to stopTimeout for
// run to unwind. It then calls shutdown (if non-nil), logging rather
// than returning any shutdown error, and returns run's error, if any.
func Start(ctx context.Context, log *zap.Logger, stopTimeout time.Duration, run StartFunc, shutdown ShutdownFunc) error {
	notify := make(chan os.Signal, 3)
	signal.Notify(notify, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)
	once := &sync.Once{}
	fin := make(chan bool)
	unlock := func() {
		close(fin)
	}
	unlockOnce := func() {
		once.Do(unlock)
	}
	runErr := atomic.Value{}
	go func() {
		err := run(ctx)
		if err != nil {
			runErr.Store(err)
		}
		unlockOnce()
	}()
	select {
	case <-notify:
		log.Info("received interrupt, shutting down")
	case <-fin:
	}
	cancel()
	go func() {
		<-time.After(stopTimeout)
		unlockOnce()
	}()
	<-fin

	if shutdown != nil {
		if err := shutdown(); err != nil {
			log.Error("shutdown hook failed", zap.Error(err))
		}
	}

	if err, ok := runErr.Load().(error); ok {
		return err
	}
	return nil
}

// RunAll runs every function concurrently under one errgroup, canceling
// the shared context and returning the first error if any fails.
func RunAll(ctx context.Context, runs ...func(ctx context.Context) error) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, run := range runs {
		run := run
		group.Go(func() error { return run(ctx) })
	}

	return group.Wait()
}
