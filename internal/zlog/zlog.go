// Package zlog constructs the process-level logger. Nothing under
// ledger/ or internal/recordstore, internal/codec, internal/index ever
// imports it: logging of timing or progress is explicitly an external
// collaborator's concern, owned by cmd/zentrydb and internal/start.
package zlog

import "go.uber.org/zap"

// New builds a production logger, or a development logger with
// human-readable output when dev is true (set from the CLI's
// --verbose flag).
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
