package repositories

import "context"

// GitRepository abstracts the version-control tool for a single working copy.
// Every operation takes the repository directory explicitly: implementations
// must never depend on (or mutate) the process working directory, so that
// repositories stay independent units of work.
type GitRepository interface {
	// IsWorkTree reports whether dir is a valid version-control working tree.
	IsWorkTree(dir string) bool

	// HardReset discards all uncommitted changes in dir, restoring the last
	// commit of the checked-out ref.
	HardReset(ctx context.Context, dir string) error

	// Checkout switches dir to an existing branch.
	Checkout(ctx context.Context, dir, branch string) error

	// Pull fetches and merges the named branch from the remote.
	Pull(ctx context.Context, dir, remote, branch string) error

	// CreateBranch creates a new branch and switches to it.
	CreateBranch(ctx context.Context, dir, branch string) error

	// HasDiff reports whether the working tree differs from the last commit,
	// restricted to the given paths. The answer comes from the tool's diff
	// exit code, not from scanning its output.
	HasDiff(ctx context.Context, dir string, paths ...string) (bool, error)

	// Stage stages exactly the given paths for the next commit.
	Stage(ctx context.Context, dir string, paths ...string) error

	// Commit records the staged changes with the given message.
	Commit(ctx context.Context, dir, message string) error

	// Push publishes the branch to the remote with upstream tracking.
	Push(ctx context.Context, dir, remote, branch string) error

	// DeleteBranch removes a local branch.
	DeleteBranch(ctx context.Context, dir, branch string) error
}
