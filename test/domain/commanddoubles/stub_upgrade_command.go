//go:build integration || unit || test

// Package commanddoubles provides test doubles for domain commands.
package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/commands"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
)

// ExecuteCall records a single invocation of Execute.
type ExecuteCall struct {
	Ctx     context.Context
	Request entities.UpdateRequest
	Opts    commands.UpgradeOptions
}

// StubUpgradeCommand implements commands.Upgrade with a scripted result.
type StubUpgradeCommand struct {
	Summary entities.BatchSummary
	Err     error

	// spy: calls received
	Calls []ExecuteCall
}

var _ commands.Upgrade = (*StubUpgradeCommand)(nil)

func (p *StubUpgradeCommand) Execute(
	ctx context.Context,
	request entities.UpdateRequest,
	opts commands.UpgradeOptions,
) (entities.BatchSummary, error) {
	p.Calls = append(p.Calls, ExecuteCall{Ctx: ctx, Request: request, Opts: opts})
	return p.Summary, p.Err
}
