//go:build integration || unit || test

// Package shelldoubles provides test doubles for the shell command runner.
package shelldoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/shell"
)

// StubCommandRunner implements shell.CommandRunner with scripted results.
// Results are consumed in call order; once exhausted, every call succeeds
// with exit code zero.
type StubCommandRunner struct {
	Results []shell.Result
	Err     error

	// spy: every command received, in order
	Commands []shell.Command
}

var _ shell.CommandRunner = (*StubCommandRunner)(nil)

func (p *StubCommandRunner) Run(_ context.Context, command shell.Command) (shell.Result, error) {
	p.Commands = append(p.Commands, command)
	if p.Err != nil {
		return shell.Result{}, p.Err
	}
	if len(p.Results) > 0 {
		result := p.Results[0]
		p.Results = p.Results[1:]
		return result, nil
	}
	return shell.Result{}, nil
}

// Last returns the most recent command, or a zero Command when none ran.
func (p *StubCommandRunner) Last() shell.Command {
	if len(p.Commands) == 0 {
		return shell.Command{}
	}
	return p.Commands[len(p.Commands)-1]
}
