//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
)

// SpyGitRepository implements repositories.GitRepository as a configurable spy.
// Configure the error fields for the methods your test exercises, then inspect
// the call-tracking fields to verify behavior and ordering. The ...ByDir maps
// scope a failure to one working copy so multi-repository tests can fail some
// repositories and not others. Safe for concurrent use.
type SpyGitRepository struct {
	mu sync.Mutex

	// --- IsWorkTree ---
	WorkTree bool

	// --- configured failures (all directories) ---
	HardResetErr    error
	CheckoutErr     error
	PullErr         error
	CreateBranchErr error
	StageErr        error
	CommitErr       error
	PushErr         error
	DeleteBranchErr error

	// --- configured failures (single directory) ---
	PullErrByDir     map[string]error
	CheckoutErrByDir map[string]error

	// --- HasDiff ---
	DiffResult bool
	DiffErr    error

	// spy: every method invocation, in order
	Calls []string

	// spy: inputs received
	CheckedOutBranches []string
	PulledBranches     []string
	PulledDirs         []string
	CreatedBranches    []string
	DiffPaths          [][]string
	StagedPaths        [][]string
	CommitMessages     []string
	PushedBranches     []string
	DeletedBranches    []string
}

var _ repositories.GitRepository = (*SpyGitRepository)(nil)

func (p *SpyGitRepository) IsWorkTree(_ string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "IsWorkTree")
	return p.WorkTree
}

func (p *SpyGitRepository) HardReset(_ context.Context, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "HardReset")
	return p.HardResetErr
}

func (p *SpyGitRepository) Checkout(_ context.Context, dir, branch string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "Checkout")
	p.CheckedOutBranches = append(p.CheckedOutBranches, branch)
	if err, ok := p.CheckoutErrByDir[dir]; ok {
		return err
	}
	return p.CheckoutErr
}

func (p *SpyGitRepository) Pull(_ context.Context, dir, _, branch string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "Pull")
	p.PulledBranches = append(p.PulledBranches, branch)
	p.PulledDirs = append(p.PulledDirs, dir)
	if err, ok := p.PullErrByDir[dir]; ok {
		return err
	}
	return p.PullErr
}

func (p *SpyGitRepository) CreateBranch(_ context.Context, _, branch string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "CreateBranch")
	p.CreatedBranches = append(p.CreatedBranches, branch)
	return p.CreateBranchErr
}

func (p *SpyGitRepository) HasDiff(
	_ context.Context, _ string, paths ...string,
) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "HasDiff")
	p.DiffPaths = append(p.DiffPaths, paths)
	return p.DiffResult, p.DiffErr
}

func (p *SpyGitRepository) Stage(_ context.Context, _ string, paths ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "Stage")
	p.StagedPaths = append(p.StagedPaths, paths)
	return p.StageErr
}

func (p *SpyGitRepository) Commit(_ context.Context, _, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "Commit")
	p.CommitMessages = append(p.CommitMessages, message)
	return p.CommitErr
}

func (p *SpyGitRepository) Push(_ context.Context, _, _, branch string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "Push")
	p.PushedBranches = append(p.PushedBranches, branch)
	return p.PushErr
}

func (p *SpyGitRepository) DeleteBranch(_ context.Context, _, branch string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, "DeleteBranch")
	p.DeletedBranches = append(p.DeletedBranches, branch)
	return p.DeleteBranchErr
}

// Called reports whether the named method was invoked at least once.
func (p *SpyGitRepository) Called(method string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, call := range p.Calls {
		if call == method {
			return true
		}
	}
	return false
}
