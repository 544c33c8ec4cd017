package git

import (
	"context"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/shell"
)

const gitProgram = "git"

// Exit code emitted by "git diff --quiet" when differences exist.
const diffChangesExitCode = 1

// GitCLIRepository implements repositories.GitRepository by invoking the git
// CLI through the shell runner, one working copy per call.
type GitCLIRepository struct {
	runner shell.CommandRunner
}

// NewGitCLIRepository creates a git repository backed by the git CLI.
func NewGitCLIRepository(runner shell.CommandRunner) repositories.GitRepository {
	return &GitCLIRepository{runner: runner}
}

// IsWorkTree reports whether dir holds a git working tree. The check goes
// through go-git instead of parsing git CLI stderr.
func (p *GitCLIRepository) IsWorkTree(dir string) bool {
	_, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{})
	return err == nil
}

func (p *GitCLIRepository) HardReset(ctx context.Context, dir string) error {
	return p.runChecked(ctx, dir, "discard local changes", "reset", "--hard", "HEAD")
}

func (p *GitCLIRepository) Checkout(ctx context.Context, dir, branch string) error {
	return p.runChecked(ctx, dir, fmt.Sprintf("switch to branch %q", branch), "checkout", branch)
}

func (p *GitCLIRepository) Pull(ctx context.Context, dir, remote, branch string) error {
	return p.runChecked(ctx, dir, fmt.Sprintf("pull %s/%s", remote, branch), "pull", remote, branch)
}

func (p *GitCLIRepository) CreateBranch(ctx context.Context, dir, branch string) error {
	return p.runChecked(ctx, dir, fmt.Sprintf("create branch %q", branch), "checkout", "-b", branch)
}

// HasDiff compares the working tree against the last commit for the given
// paths, using the diff exit code: 0 means no differences, 1 means
// differences exist, anything else is a tool failure.
func (p *GitCLIRepository) HasDiff(ctx context.Context, dir string, paths ...string) (bool, error) {
	args := append([]string{"diff", "--quiet", "HEAD", "--"}, paths...)
	result, err := p.run(ctx, dir, args...)
	if err != nil {
		return false, err
	}

	switch result.ExitCode {
	case 0:
		return false, nil
	case diffChangesExitCode:
		return true, nil
	default:
		return false, commandError("check for changes", result)
	}
}

func (p *GitCLIRepository) Stage(ctx context.Context, dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return p.runChecked(ctx, dir, "stage files", args...)
}

func (p *GitCLIRepository) Commit(ctx context.Context, dir, message string) error {
	return p.runChecked(ctx, dir, "commit changes", "commit", "-m", message)
}

func (p *GitCLIRepository) Push(ctx context.Context, dir, remote, branch string) error {
	return p.runChecked(
		ctx, dir,
		fmt.Sprintf("push branch %q to %s", branch, remote),
		"push", "--set-upstream", remote, branch,
	)
}

func (p *GitCLIRepository) DeleteBranch(ctx context.Context, dir, branch string) error {
	return p.runChecked(ctx, dir, fmt.Sprintf("delete branch %q", branch), "branch", "-D", branch)
}

func (p *GitCLIRepository) run(ctx context.Context, dir string, args ...string) (shell.Result, error) {
	return p.runner.Run(ctx, shell.Command{Program: gitProgram, Args: args, Dir: dir})
}

// runChecked executes a git command and converts a non-zero exit into an
// error carrying the action description and the tool's diagnostic output.
func (p *GitCLIRepository) runChecked(ctx context.Context, dir, action string, args ...string) error {
	result, err := p.run(ctx, dir, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if !result.Succeeded() {
		return commandError(action, result)
	}
	return nil
}

func commandError(action string, result shell.Result) error {
	diagnostic := strings.TrimSpace(result.Stderr)
	if diagnostic == "" {
		diagnostic = strings.TrimSpace(result.Stdout)
	}
	return fmt.Errorf("failed to %s: git exited with code %d: %s", action, result.ExitCode, diagnostic)
}
