package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/entities"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/domain/repositories"
	"github.com/johnnyshankman/batch-upgrade-npm-packages/internal/infrastructure/shell"
)

const ghProgram = "gh"

// GitHubCodeReviewRepository implements repositories.CodeReviewRepository on
// top of the GitHub CLI. Authentication is whatever the gh CLI is logged in
// with; this repository never handles tokens itself.
type GitHubCodeReviewRepository struct {
	runner shell.CommandRunner
}

// NewGitHubCodeReviewRepository creates a gh-CLI-backed code review client.
func NewGitHubCodeReviewRepository(runner shell.CommandRunner) repositories.CodeReviewRepository {
	return &GitHubCodeReviewRepository{runner: runner}
}

// IsAuthenticated runs "gh auth status" as a live check.
func (p *GitHubCodeReviewRepository) IsAuthenticated(ctx context.Context) error {
	result, err := p.runner.Run(ctx, shell.Command{
		Program: ghProgram,
		Args:    []string{"auth", "status"},
	})
	if err != nil {
		return fmt.Errorf("failed to run gh auth status: %w", err)
	}
	if !result.Succeeded() {
		diagnostic := strings.TrimSpace(result.Stderr)
		return fmt.Errorf("gh is not authenticated (exit code %d): %s", result.ExitCode, diagnostic)
	}
	return nil
}

// CreatePullRequest opens a PR for the branch checked out in dir. The gh CLI
// prints the PR URL on stdout; that URL is the typed result, no freeform
// output scanning.
func (p *GitHubCodeReviewRepository) CreatePullRequest(
	ctx context.Context,
	dir string,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	result, err := p.runner.Run(ctx, shell.Command{
		Program: ghProgram,
		Args: []string{
			"pr", "create",
			"--title", input.Title,
			"--body", input.Body,
			"--base", input.BaseBranch,
		},
		Dir: dir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run gh pr create: %w", err)
	}
	if !result.Succeeded() {
		diagnostic := strings.TrimSpace(result.Stderr)
		return nil, fmt.Errorf("gh pr create exited with code %d: %s", result.ExitCode, diagnostic)
	}

	url := lastLine(result.Stdout)
	if url == "" {
		return nil, errors.New("gh pr create succeeded but returned no pull request URL")
	}
	return &entities.PullRequest{URL: url}, nil
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
